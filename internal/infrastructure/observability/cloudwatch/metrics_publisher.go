package cloudwatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

const (
	// CloudWatch limits
	maxMetricsPerRequest = 1000
	maxRetries           = 3
	initialBackoff       = 100 * time.Millisecond
)

// metricDataAPI is the subset of the CloudWatch client used by the publisher.
type metricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsPublisherConfig holds configuration for CloudWatch KPI publishing.
type MetricsPublisherConfig struct {
	Namespace         string            // CloudWatch namespace (e.g., "OpsDashboard/Simulator")
	Region            string            // AWS region (e.g., "us-east-1")
	Endpoint          string            // Optional endpoint override (for LocalStack)
	AccessKeyID       string            // AWS access key
	SecretAccessKey   string            // AWS secret key
	DefaultDimensions map[string]string // Default dimensions added to all metrics
	BufferSize        int               // Buffer size before auto-flush
	FlushInterval     time.Duration     // Automatic flush interval
	StorageResolution int32             // Storage resolution in seconds (1 or 60)
}

// kpiSample is one buffered KPI value.
type kpiSample struct {
	kpi entity.KPI
	at  time.Time
}

// MetricsPublisher publishes dashboard KPI cards to AWS CloudWatch.
type MetricsPublisher struct {
	client            metricDataAPI
	namespace         string
	defaultDimensions map[string]string
	storageResolution int32
	logger            *logger.Logger

	buffer     []kpiSample
	bufferSize int
	mu         sync.Mutex

	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

// NewMetricsPublisher creates a new CloudWatch metrics publisher.
func NewMetricsPublisher(ctx context.Context, cfg MetricsPublisherConfig, log *logger.Logger) (*MetricsPublisher, error) {
	cfg, err := normalizeMetricsConfig(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := buildAWSConfig(ctx, cfg.Region, cfg.Endpoint, cfg.AccessKeyID, cfg.SecretAccessKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	p := newMetricsPublisher(cloudwatch.NewFromConfig(awsCfg), cfg, log)

	p.flushTicker = time.NewTicker(cfg.FlushInterval)
	p.wg.Add(1)
	go p.flushLoop()

	return p, nil
}

func newMetricsPublisher(client metricDataAPI, cfg MetricsPublisherConfig, log *logger.Logger) *MetricsPublisher {
	return &MetricsPublisher{
		client:            client,
		namespace:         cfg.Namespace,
		defaultDimensions: cfg.DefaultDimensions,
		storageResolution: cfg.StorageResolution,
		logger:            log,
		buffer:            make([]kpiSample, 0, cfg.BufferSize),
		bufferSize:        cfg.BufferSize,
		stopCh:            make(chan struct{}),
	}
}

func normalizeMetricsConfig(cfg MetricsPublisherConfig) (MetricsPublisherConfig, error) {
	if cfg.Namespace == "" {
		return cfg, fmt.Errorf("namespace is required")
	}
	if cfg.Region == "" {
		return cfg, fmt.Errorf("region is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}
	if cfg.StorageResolution != 1 && cfg.StorageResolution != 60 {
		cfg.StorageResolution = 60 // Default to standard resolution
	}
	return cfg, nil
}

// PublishKPIs buffers one datum per KPI card.
func (p *MetricsPublisher) PublishKPIs(ctx context.Context, at time.Time, kpis []entity.KPI) error {
	if len(kpis) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, kpi := range kpis {
		p.buffer = append(p.buffer, kpiSample{kpi: kpi, at: at})

		if len(p.buffer) >= p.bufferSize {
			if err := p.flushBufferUnsafe(ctx); err != nil {
				return fmt.Errorf("failed to flush buffer: %w", err)
			}
		}
	}

	return nil
}

// Flush forces immediate publication of all buffered metrics.
func (p *MetricsPublisher) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.flushBufferUnsafe(ctx)
}

// Close stops the background flush goroutine and flushes remaining metrics.
func (p *MetricsPublisher) Close(ctx context.Context) error {
	close(p.stopCh)
	if p.flushTicker != nil {
		p.flushTicker.Stop()
	}
	p.wg.Wait()

	return p.Flush(ctx)
}

// flushLoop runs in a background goroutine and flushes the buffer periodically.
func (p *MetricsPublisher) flushLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := p.Flush(ctx); err != nil {
				// повторим на следующем тике
				p.logger.Warn("CloudWatch metrics flush failed", "error", err.Error())
			}
			cancel()
		case <-p.stopCh:
			return
		}
	}
}

// flushBufferUnsafe flushes the buffer without locking (caller must hold lock).
func (p *MetricsPublisher) flushBufferUnsafe(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	data := make([]types.MetricDatum, 0, len(p.buffer))
	for _, sample := range p.buffer {
		data = append(data, p.convertToDatum(sample.kpi, sample.at))
	}

	for i := 0; i < len(data); i += maxMetricsPerRequest {
		end := min(i+maxMetricsPerRequest, len(data))
		if err := p.publishBatchWithRetry(ctx, data[i:end]); err != nil {
			return fmt.Errorf("failed to publish chunk: %w", err)
		}
	}

	p.buffer = p.buffer[:0]

	return nil
}

// publishBatchWithRetry publishes a batch of metrics with exponential backoff retry.
func (p *MetricsPublisher) publishBatchWithRetry(ctx context.Context, data []types.MetricDatum) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data,
		}

		_, err := p.client.PutMetricData(ctx, input)
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt < maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// convertToDatum converts a KPI card to a CloudWatch MetricDatum named after the KPI id.
func (p *MetricsPublisher) convertToDatum(kpi entity.KPI, at time.Time) types.MetricDatum {
	dimensions := make([]types.Dimension, 0, len(p.defaultDimensions)+1)

	for key, value := range p.defaultDimensions {
		dimensions = append(dimensions, types.Dimension{
			Name:  aws.String(key),
			Value: aws.String(value),
		})
	}

	dimensions = append(dimensions, types.Dimension{
		Name:  aws.String("KPI"),
		Value: aws.String(kpi.ID.String()),
	})

	datum := types.MetricDatum{
		MetricName: aws.String("kpi_" + kpi.ID.String()),
		Value:      aws.Float64(kpi.Value),
		Unit:       mapUnit(kpi.Unit),
		Timestamp:  aws.Time(at),
		Dimensions: dimensions,
	}

	if p.storageResolution > 0 {
		datum.StorageResolution = aws.Int32(p.storageResolution)
	}

	return datum
}

// mapUnit maps KPI card units to CloudWatch StandardUnit.
func mapUnit(unit string) types.StandardUnit {
	switch unit {
	case "%":
		return types.StandardUnitPercent
	case "ms":
		return types.StandardUnitMilliseconds
	case "s":
		return types.StandardUnitSeconds
	case "req", "requests", "count":
		return types.StandardUnitCount
	case "rps", "req/s":
		return types.StandardUnitCountSecond
	default:
		return types.StandardUnitNone
	}
}

// buildAWSConfig creates an AWS config with credentials.
func buildAWSConfig(ctx context.Context, region, endpoint, accessKeyID, secretAccessKey string) (aws.Config, error) {
	optFns := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKeyID != "" && secretAccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return aws.Config{}, err
	}

	// Override endpoint if specified (for LocalStack testing)
	if endpoint != "" {
		cfg.BaseEndpoint = aws.String(endpoint)
	}

	return cfg, nil
}
