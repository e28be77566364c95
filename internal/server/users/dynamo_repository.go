package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// usernameIndex is the global secondary index keyed by user_name,
// carried over from the original table layout.
const usernameIndex = "user_name-index"

// DynamoAPI is the subset of the DynamoDB client this repository uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type userRecord struct {
	ID           string `dynamodbav:"id"`
	Username     string `dynamodbav:"user_name"`
	PasswordHash string `dynamodbav:"password"`
	CreatedAt    string `dynamodbav:"created_at"`
	UpdatedAt    string `dynamodbav:"updated_at"`
}

func (rec *userRecord) toUser() *User {
	// Rows imported from earlier deployments may lack timestamps; a zero
	// time is acceptable for accounts, unlike for item ordering.
	created, _ := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	updated, _ := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
	return &User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}

type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) Create(ctx context.Context, user *User) (*User, error) {

	now := time.Now().UTC()
	rec := userRecord{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    now.Format(time.RFC3339Nano),
		UpdatedAt:    now.Format(time.RFC3339Nano),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	// The conditional expression makes duplicate registration atomic:
	// at most one concurrent Create for the same id wins.
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("put user: %w: %v", common.ErrorUnavailable, err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (r *DynamoRepository) GetByUsername(ctx context.Context, username string) (*User, error) {

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(usernameIndex),
		KeyConditionExpression: aws.String("user_name = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: username},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query user by name: %w: %v", common.ErrorUnavailable, err)
	}
	if len(out.Items) == 0 {
		return nil, common.ErrorNotFound
	}

	rec := userRecord{}
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	return rec.toUser(), nil
}

func (r *DynamoRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {

	_, err := r.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*User, error) {

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w: %v", common.ErrorUnavailable, err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	rec := userRecord{}
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	return rec.toUser(), nil
}

func (r *DynamoRepository) EnsureOwner(ctx context.Context, id string) error {

	existing, err := r.GetByID(ctx, id)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rec := userRecord{ID: id, Username: id, CreatedAt: now, UpdatedAt: now}
	if existing != nil {
		rec.Username = existing.Username
		rec.PasswordHash = existing.PasswordHash
		rec.CreatedAt = existing.CreatedAt.Format(time.RFC3339Nano)
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put user: %w: %v", common.ErrorUnavailable, err)
	}

	return nil
}
