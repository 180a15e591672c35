package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-call-verify/internal/domain"
)

const outcomesByReferenceIndex = "reference_number-ended_at-index"

// OutcomeRepo stores one analytics record per finished call.
// PK: call_id. GSI: reference_number + ended_at.
type OutcomeRepo struct {
	client    API
	tableName string
}

func NewOutcomeRepo(client API, tableName string) *OutcomeRepo {
	return &OutcomeRepo{client: client, tableName: tableName}
}

// Put writes the outcome once. A second write for the same call is rejected.
func (r *OutcomeRepo) Put(ctx context.Context, o *domain.CallOutcome) error {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(call_id)"),
	})
	if err != nil {
		return fmt.Errorf("put outcome %s: %w", o.CallID, err)
	}
	return nil
}

func (r *OutcomeRepo) Get(ctx context.Context, callID string) (*domain.CallOutcome, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("call_id", callID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("outcome not found: %w", domain.ErrNotFound)
	}
	var o domain.CallOutcome
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByReference returns the most recent outcomes for an account, newest first.
func (r *OutcomeRepo) ListByReference(ctx context.Context, reference string, limit int32) ([]domain.CallOutcome, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(outcomesByReferenceIndex),
		KeyConditionExpression: aws.String("reference_number = :ref"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": &types.AttributeValueMemberS{Value: reference},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		in.Limit = aws.Int32(limit)
	}
	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("query outcomes for %s: %w", reference, err)
	}
	outcomes := make([]domain.CallOutcome, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}
