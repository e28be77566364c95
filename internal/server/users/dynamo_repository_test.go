package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

type stubDynamo struct {
	getOut   *dynamodb.GetItemOutput
	getErr   error
	putErr   error
	queryOut *dynamodb.QueryOutput
	queryErr error

	putInputs   []*dynamodb.PutItemInput
	queryInputs []*dynamodb.QueryInput
}

func (s *stubDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return s.getOut, nil
}

func (s *stubDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.putInputs = append(s.putInputs, in)
	if s.putErr != nil {
		return nil, s.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (s *stubDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	s.queryInputs = append(s.queryInputs, in)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if s.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return s.queryOut, nil
}

func mustMarshalUser(t *testing.T, rec userRecord) map[string]types.AttributeValue {
	t.Helper()
	m, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)
	return m
}

func TestDynamoCreate_ConditionalPut(t *testing.T) {
	t.Parallel()

	stub := &stubDynamo{}
	repo := NewDynamoRepository(stub, "users")

	got, err := repo.Create(context.Background(), &User{ID: "alice", Username: "alice", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, stub.putInputs, 1)
	require.NotNil(t, stub.putInputs[0].ConditionExpression)
	assert.Equal(t, "attribute_not_exists(id)", *stub.putInputs[0].ConditionExpression)
}

func TestDynamoCreate_DuplicateUser(t *testing.T) {
	t.Parallel()

	stub := &stubDynamo{putErr: &types.ConditionalCheckFailedException{}}
	repo := NewDynamoRepository(stub, "users")

	_, err := repo.Create(context.Background(), &User{ID: "alice", Username: "alice"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDynamoCreate_BackendErrorIsRetryable(t *testing.T) {
	t.Parallel()

	stub := &stubDynamo{putErr: errors.New("no route to host")}
	repo := NewDynamoRepository(stub, "users")

	_, err := repo.Create(context.Background(), &User{ID: "alice", Username: "alice"})
	assert.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestDynamoGetByUsername_UsesIndex(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	rec := userRecord{
		ID: "alice", Username: "alice", PasswordHash: "hash",
		CreatedAt: now.Format(time.RFC3339Nano),
		UpdatedAt: now.Format(time.RFC3339Nano),
	}
	stub := &stubDynamo{queryOut: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{mustMarshalUser(t, rec)},
	}}
	repo := NewDynamoRepository(stub, "users")

	got, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)

	require.Len(t, stub.queryInputs, 1)
	require.NotNil(t, stub.queryInputs[0].IndexName)
	assert.Equal(t, usernameIndex, *stub.queryInputs[0].IndexName)
}

func TestDynamoGetByUsername_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewDynamoRepository(&stubDynamo{}, "users")

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDynamoExistsByUsername(t *testing.T) {
	t.Parallel()

	rec := userRecord{ID: "alice", Username: "alice"}
	stub := &stubDynamo{queryOut: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{mustMarshalUser(t, rec)},
	}}
	repo := NewDynamoRepository(stub, "users")

	taken, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = NewDynamoRepository(&stubDynamo{}, "users").ExistsByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDynamoExistsByUsername_BackendErrorIsRetryable(t *testing.T) {
	t.Parallel()

	repo := NewDynamoRepository(&stubDynamo{queryErr: errors.New("throttled")}, "users")

	_, err := repo.ExistsByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, common.ErrorUnavailable)
}

func TestDynamoGetByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewDynamoRepository(&stubDynamo{}, "users")

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDynamoEnsureOwner_CreatesWhenMissing(t *testing.T) {
	t.Parallel()

	stub := &stubDynamo{}
	repo := NewDynamoRepository(stub, "users")

	require.NoError(t, repo.EnsureOwner(context.Background(), "alice"))
	require.Len(t, stub.putInputs, 1)

	rec := userRecord{}
	require.NoError(t, attributevalue.UnmarshalMap(stub.putInputs[0].Item, &rec))
	assert.Equal(t, "alice", rec.ID)
	assert.Equal(t, "alice", rec.Username)
	assert.Empty(t, rec.PasswordHash)
}

func TestDynamoEnsureOwner_PreservesExistingAccount(t *testing.T) {
	t.Parallel()

	created := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339Nano)
	existing := userRecord{ID: "alice", Username: "alice", PasswordHash: "hash", CreatedAt: created, UpdatedAt: created}
	stub := &stubDynamo{getOut: &dynamodb.GetItemOutput{Item: mustMarshalUser(t, existing)}}
	repo := NewDynamoRepository(stub, "users")

	require.NoError(t, repo.EnsureOwner(context.Background(), "alice"))
	require.Len(t, stub.putInputs, 1)

	rec := userRecord{}
	require.NoError(t, attributevalue.UnmarshalMap(stub.putInputs[0].Item, &rec))
	assert.Equal(t, "hash", rec.PasswordHash, "password must survive the touch")
	assert.Equal(t, created, rec.CreatedAt, "created_at is immutable")
	assert.NotEqual(t, created, rec.UpdatedAt, "updated_at must advance")
}
