package cloudwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/valueobject"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

type fakeMetricDataAPI struct {
	inputs []*cloudwatch.PutMetricDataInput
	errs   []error
}

func (f *fakeMetricDataAPI) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestMapUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected string
	}{
		{"percentage", "%", "Percent"},
		{"milliseconds", "ms", "Milliseconds"},
		{"requests", "req", "Count"},
		{"throughput", "rps", "Count/Second"},
		{"unknown", "custom", "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapUnit(tt.unit)
			if string(result) != tt.expected {
				t.Errorf("mapUnit(%q) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvertToDatum(t *testing.T) {
	p := &MetricsPublisher{
		namespace: "Test/Namespace",
		defaultDimensions: map[string]string{
			"Environment": "test",
		},
		storageResolution: 60,
	}

	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	datum := p.convertToDatum(entity.KPI{ID: valueobject.KPILatency, Unit: "ms", Value: 142}, at)

	if datum.MetricName == nil || *datum.MetricName != "kpi_latency" {
		t.Errorf("Expected MetricName=kpi_latency, got %v", datum.MetricName)
	}
	if datum.Value == nil || *datum.Value != 142 {
		t.Errorf("Expected Value=142, got %v", datum.Value)
	}
	if datum.Unit != "Milliseconds" {
		t.Errorf("Expected Unit=Milliseconds, got %v", datum.Unit)
	}
	if datum.Timestamp == nil || !datum.Timestamp.Equal(at) {
		t.Errorf("Expected Timestamp=%v, got %v", at, datum.Timestamp)
	}
	if datum.StorageResolution == nil || *datum.StorageResolution != 60 {
		t.Errorf("Expected StorageResolution=60, got %v", datum.StorageResolution)
	}

	expectedDimensions := map[string]string{
		"Environment": "test",
		"KPI":         "latency",
	}
	if len(datum.Dimensions) != len(expectedDimensions) {
		t.Fatalf("Expected %d dimensions, got %d", len(expectedDimensions), len(datum.Dimensions))
	}
	for _, dim := range datum.Dimensions {
		if want := expectedDimensions[*dim.Name]; *dim.Value != want {
			t.Errorf("Dimension %s: expected %s, got %s", *dim.Name, want, *dim.Value)
		}
	}
}

func TestPublishKPIs_AutoFlushAndFlush(t *testing.T) {
	api := &fakeMetricDataAPI{}
	p := newMetricsPublisher(api, MetricsPublisherConfig{Namespace: "Test", BufferSize: 3, StorageResolution: 1}, logger.New("error"))

	kpis := []entity.KPI{
		{ID: valueobject.KPIRequests, Unit: "req", Value: 1},
		{ID: valueobject.KPIErrors, Unit: "%", Value: 2},
	}
	ctx := context.Background()

	if err := p.PublishKPIs(ctx, time.Now(), kpis); err != nil {
		t.Fatal(err)
	}
	if len(api.inputs) != 0 {
		t.Fatalf("flushed before buffer was full: %d calls", len(api.inputs))
	}

	if err := p.PublishKPIs(ctx, time.Now(), kpis); err != nil {
		t.Fatal(err)
	}
	if len(api.inputs) != 1 || len(api.inputs[0].MetricData) != 3 {
		t.Fatalf("expected one auto-flush of 3 datums, got %d calls", len(api.inputs))
	}

	if err := p.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if len(api.inputs) != 2 || len(api.inputs[1].MetricData) != 1 {
		t.Fatalf("expected flush of the remaining datum")
	}
	if *api.inputs[1].Namespace != "Test" {
		t.Errorf("Namespace = %q", *api.inputs[1].Namespace)
	}
}

func TestPublishBatchWithRetry(t *testing.T) {
	api := &fakeMetricDataAPI{errs: []error{errors.New("throttled")}}
	p := newMetricsPublisher(api, MetricsPublisherConfig{Namespace: "Test", BufferSize: 10}, logger.New("error"))

	if err := p.PublishKPIs(context.Background(), time.Now(), []entity.KPI{{ID: valueobject.KPIRequests}}); err != nil {
		t.Fatal(err)
	}
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v, want retry to succeed", err)
	}
	if len(api.inputs) != 2 {
		t.Errorf("PutMetricData calls = %d, want 2", len(api.inputs))
	}
}

func TestNormalizeMetricsConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    MetricsPublisherConfig
		expectErr bool
	}{
		{name: "valid config", config: MetricsPublisherConfig{Namespace: "Test/Namespace", Region: "us-east-1"}},
		{name: "missing namespace", config: MetricsPublisherConfig{Region: "us-east-1"}, expectErr: true},
		{name: "missing region", config: MetricsPublisherConfig{Namespace: "Test/Namespace"}, expectErr: true},
		{name: "invalid storage resolution", config: MetricsPublisherConfig{Namespace: "Test/Namespace", Region: "us-east-1", StorageResolution: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := normalizeMetricsConfig(tt.config)
			if (err != nil) != tt.expectErr {
				t.Fatalf("normalizeMetricsConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
			if tt.expectErr {
				return
			}
			if cfg.BufferSize != 100 || cfg.FlushInterval != 10*time.Second || cfg.StorageResolution != 60 {
				t.Errorf("defaults not applied: %+v", cfg)
			}
		})
	}
}
