package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

const (
	currentSnapshotPK = "SNAPSHOT#current"
	currentCatalogPK  = "CATALOG#current"

	attrPK          = "PK"
	attrDocument    = "document"
	attrGeneratedAt = "generated_at"
	attrUpdatedAt   = "updated_at"
)

type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	StrongReads     bool
}

// itemAPI подмножество клиента DynamoDB, которое использует repository
type itemAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// SnapshotRepository хранит snapshot одним item в таблице DynamoDB
type SnapshotRepository struct {
	client      itemAPI
	tableName   string
	strongReads bool
	now         func() time.Time
}

func NewSnapshotRepository(ctx context.Context, cfg Config) (*SnapshotRepository, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	accessKeyID := strings.TrimSpace(cfg.AccessKeyID)
	secretAccessKey := strings.TrimSpace(cfg.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both dynamodb access key id and secret access key are required for static credentials")
		}
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
	})

	return newSnapshotRepository(client, cfg), nil
}

func newSnapshotRepository(client itemAPI, cfg Config) *SnapshotRepository {
	return &SnapshotRepository{
		client:      client,
		tableName:   strings.TrimSpace(cfg.TableName),
		strongReads: cfg.StrongReads,
		now:         time.Now,
	}
}

// APICatalog возвращает repository каталога API в той же таблице
func (r *SnapshotRepository) APICatalog() *APICatalogRepository {
	return &APICatalogRepository{
		client:      r.client,
		tableName:   r.tableName,
		strongReads: r.strongReads,
		now:         r.now,
	}
}

func (r *SnapshotRepository) Load(ctx context.Context) (*entity.Snapshot, error) {
	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.tableName,
		Key:            itemKey(currentSnapshotPK),
		ConsistentRead: boolPointer(r.strongReads),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get item failed: %w", err)
	}
	if len(output.Item) == 0 {
		return nil, repository.ErrSnapshotNotFound
	}

	document, err := attrString(output.Item, attrDocument)
	if err != nil {
		return nil, err
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot document: %w", err)
	}
	return &snapshot, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	item, err := r.toItem(snapshot)
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item failed: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) toItem(snapshot *entity.Snapshot) (map[string]types.AttributeValue, error) {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	item := map[string]types.AttributeValue{
		attrPK:        &types.AttributeValueMemberS{Value: currentSnapshotPK},
		attrDocument:  &types.AttributeValueMemberS{Value: string(document)},
		attrUpdatedAt: &types.AttributeValueMemberN{Value: strconv.FormatInt(r.now().UTC().UnixMilli(), 10)},
	}
	if generated := snapshot.Meta.GeneratedAt; !generated.IsZero() {
		item[attrGeneratedAt] = &types.AttributeValueMemberS{Value: generated.String()}
	}

	return item, nil
}

func itemKey(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
	}
}

func attrString(item map[string]types.AttributeValue, name string) (string, error) {
	raw, ok := item[name]
	if !ok {
		return "", fmt.Errorf("missing attribute %s", name)
	}
	value, ok := raw.(*types.AttributeValueMemberS)
	if !ok || strings.TrimSpace(value.Value) == "" {
		return "", fmt.Errorf("invalid attribute %s", name)
	}
	return value.Value, nil
}

func boolPointer(v bool) *bool {
	return &v
}
