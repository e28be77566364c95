package items

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// maxBatchWriteItems is DynamoDB's hard cap on a single BatchWriteItem
// call. A storage constraint, not a business rule: larger write sets are
// chunked transparently.
const maxBatchWriteItems = 25

// batchWriteAttempts bounds re-submission of unprocessed batch entries.
const batchWriteAttempts = 3

// DynamoAPI is the subset of the DynamoDB client this repository uses.
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type itemRecord struct {
	PartitionKey string `dynamodbav:"partition_key"`
	ID           string `dynamodbav:"id"`
	Priority     int    `dynamodbav:"priority"`
	Text         string `dynamodbav:"text"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) ListByOwner(ctx context.Context, ownerID string) ([]Item, error) {

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("partition_key = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":o": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query items: %w: %v", common.ErrorUnavailable, err)
	}

	result := []Item{}
	for _, raw := range out.Items {
		rec := itemRecord{}
		if err := attributevalue.UnmarshalMap(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal item: %w", err)
		}
		created, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for item %s: %w", rec.ID, err)
		}
		updated, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for item %s: %w", rec.ID, err)
		}
		result = append(result, Item{
			ID:        rec.ID,
			OwnerID:   rec.PartitionKey,
			Priority:  rec.Priority,
			Text:      rec.Text,
			CreatedAt: created,
			UpdatedAt: updated,
		})
	}

	return result, nil
}

// ReplaceAll issues capacity-bounded delete batches followed by put
// batches. The sequence is not atomic across batches: a crash mid-way can
// leave a transient partial state, and callers converge by retrying with
// the same item set.
func (r *DynamoRepository) ReplaceAll(ctx context.Context, ownerID string, deleteIDs []string, items []Item) error {

	deletes := make([]types.WriteRequest, 0, len(deleteIDs))
	for _, id := range deleteIDs {
		deletes = append(deletes, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"partition_key": &types.AttributeValueMemberS{Value: ownerID},
					"id":            &types.AttributeValueMemberS{Value: id},
				},
			},
		})
	}

	puts := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		rec := itemRecord{
			PartitionKey: it.OwnerID,
			ID:           it.ID,
			Priority:     it.Priority,
			Text:         it.Text,
			CreatedAt:    it.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt:    it.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		av, err := attributevalue.MarshalMap(rec)
		if err != nil {
			return fmt.Errorf("marshal item %s: %w", it.ID, err)
		}
		puts = append(puts, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	if err := r.writeChunked(ctx, deletes); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if err := r.writeChunked(ctx, puts); err != nil {
		return fmt.Errorf("put items: %w", err)
	}

	return nil
}

func (r *DynamoRepository) writeChunked(ctx context.Context, requests []types.WriteRequest) error {

	for start := 0; start < len(requests); start += maxBatchWriteItems {
		end := min(start+maxBatchWriteItems, len(requests))
		if err := r.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}

	return nil
}

// writeBatch submits one physical batch, re-submitting any unprocessed
// entries the backend pushed back under throttling.
func (r *DynamoRepository) writeBatch(ctx context.Context, batch []types.WriteRequest) error {

	pending := batch
	for attempt := 0; attempt < batchWriteAttempts; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.table: pending},
		})
		if err != nil {
			return fmt.Errorf("batch write: %w: %v", common.ErrorUnavailable, err)
		}

		pending = out.UnprocessedItems[r.table]
		if len(pending) == 0 {
			return nil
		}
	}

	return fmt.Errorf("batch write: %w: %d requests still unprocessed", common.ErrorUnavailable, len(pending))
}
