package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-call-verify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct{ mock.Mock }

func (m *mockAPI) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *mockAPI) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func keyValue(t *testing.T, key map[string]types.AttributeValue, name string) string {
	t.Helper()
	s, ok := key[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "key %s", name)
	return s.Value
}

func TestAccountRepo_GetByReference(t *testing.T) {
	api := &mockAPI{}
	item, err := attributevalue.MarshalMap(domain.CallerRecord{
		ReferenceNumber: "REF123",
		FullName:        "John Murphy",
		DateOfBirth:     "1975-11-22",
		BalanceMinor:    32215,
		Currency:        "EUR",
	})
	require.NoError(t, err)
	api.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return aws.ToString(in.TableName) == "accounts" && keyValue(t, in.Key, "reference_number") == "REF123"
	})).Return(&dynamodb.GetItemOutput{Item: item}, nil)

	rec, err := NewAccountRepo(api, "accounts").GetByReference(context.Background(), "REF123")
	require.NoError(t, err)
	assert.Equal(t, "John Murphy", rec.FullName)
	assert.Equal(t, int64(32215), rec.BalanceMinor)
}

func TestAccountRepo_GetByReference_NotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewAccountRepo(api, "accounts").GetByReference(context.Background(), "NOPE1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepo_GetByReference_ClientError(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	_, err := NewAccountRepo(api, "accounts").GetByReference(context.Background(), "REF123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepo_MarkContacted(t *testing.T) {
	api := &mockAPI{}
	api.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.ToString(in.UpdateExpression) == "SET #f0 = :v0, #f1 = :v1" &&
			in.ExpressionAttributeNames["#f0"] == "last_contact_at" &&
			in.ExpressionAttributeNames["#f1"] == "last_outcome" &&
			keyValue(t, in.Key, "reference_number") == "REF123"
	})).Return(&dynamodb.UpdateItemOutput{}, nil)

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, NewAccountRepo(api, "accounts").MarkContacted(context.Background(), "REF123", domain.EndResolvedPay, at))
	api.AssertExpectations(t)
}

func TestAccountRepo_PutCanonicalizesReference(t *testing.T) {
	api := &mockAPI{}
	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return keyValue(t, in.Item, "reference_number") == "IW1003"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	rec := &domain.CallerRecord{ReferenceNumber: "iw-1003", FullName: "Mary Byrne"}
	repo := NewAccountRepo(api, "accounts")
	require.NoError(t, repo.Put(context.Background(), rec))
	assert.Equal(t, "iw-1003", rec.ReferenceNumber, "caller's record is not mutated")
	api.AssertExpectations(t)

	err := repo.Put(context.Background(), &domain.CallerRecord{ReferenceNumber: " - "})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestOutcomeRepo_PutIsWriteOnce(t *testing.T) {
	api := &mockAPI{}
	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "attribute_not_exists(call_id)" &&
			keyValue(t, in.Item, "call_id") == "01HX" &&
			keyValue(t, in.Item, "reference_number") == "REF123"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := NewOutcomeRepo(api, "call_outcomes").Put(context.Background(), &domain.CallOutcome{
		CallID:          "01HX",
		ReferenceNumber: "REF123",
		Outcome:         domain.EndResolvedPay,
		EndedAt:         time.Now(),
	})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestOutcomeRepo_Get_NotFound(t *testing.T) {
	api := &mockAPI{}
	api.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

	_, err := NewOutcomeRepo(api, "call_outcomes").Get(context.Background(), "01HX")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOutcomeRepo_ListByReference(t *testing.T) {
	api := &mockAPI{}
	first, err := attributevalue.MarshalMap(domain.CallOutcome{CallID: "02", ReferenceNumber: "REF123", Outcome: domain.EndResolvedNoPay})
	require.NoError(t, err)
	second, err := attributevalue.MarshalMap(domain.CallOutcome{CallID: "01", ReferenceNumber: "REF123", Outcome: domain.EndVerificationFailed})
	require.NoError(t, err)

	api.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return aws.ToString(in.IndexName) == outcomesByReferenceIndex &&
			!aws.ToBool(in.ScanIndexForward) &&
			aws.ToInt32(in.Limit) == 20
	})).Return(&dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first, second}}, nil)

	got, err := NewOutcomeRepo(api, "call_outcomes").ListByReference(context.Background(), "REF123", 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "02", got[0].CallID)
	assert.Equal(t, domain.EndVerificationFailed, got[1].Outcome)
}

func TestGSI(t *testing.T) {
	g := gsi(outcomesByReferenceIndex, "reference_number", "ended_at")
	require.Len(t, g.KeySchema, 2)
	assert.Equal(t, types.KeyTypeHash, g.KeySchema[0].KeyType)
	assert.Equal(t, "ended_at", aws.ToString(g.KeySchema[1].AttributeName))

	assert.Len(t, gsi("x", "y", "").KeySchema, 1)
}
