package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/repository"
)

// APICatalogRepository хранит каталог API отдельным item (PK CATALOG#current)
type APICatalogRepository struct {
	client      itemAPI
	tableName   string
	strongReads bool
	now         func() time.Time
}

func (r *APICatalogRepository) Load(ctx context.Context) (*entity.APICatalog, error) {
	output, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.tableName,
		Key:            itemKey(currentCatalogPK),
		ConsistentRead: boolPointer(r.strongReads),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get item failed: %w", err)
	}
	if len(output.Item) == 0 {
		return nil, repository.ErrCatalogNotFound
	}

	document, err := attrString(output.Item, attrDocument)
	if err != nil {
		return nil, err
	}

	var catalog entity.APICatalog
	if err := json.Unmarshal([]byte(document), &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog document: %w", err)
	}
	return &catalog, nil
}

func (r *APICatalogRepository) Save(ctx context.Context, catalog *entity.APICatalog) error {
	document, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item: map[string]types.AttributeValue{
			attrPK:        &types.AttributeValueMemberS{Value: currentCatalogPK},
			attrDocument:  &types.AttributeValueMemberS{Value: string(document)},
			attrUpdatedAt: &types.AttributeValueMemberN{Value: strconv.FormatInt(r.now().UTC().UnixMilli(), 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item failed: %w", err)
	}
	return nil
}
