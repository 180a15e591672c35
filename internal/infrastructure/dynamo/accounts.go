package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-call-verify/internal/domain"
)

const fieldReference = "reference_number"

// AccountRepo reads caller records from the accounts table.
// PK: reference_number
type AccountRepo struct {
	client    API
	tableName string
}

func NewAccountRepo(client API, tableName string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName}
}

func (r *AccountRepo) GetByReference(ctx context.Context, reference string) (*domain.CallerRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldReference, reference),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", reference, err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account %s: %w", reference, domain.ErrNotFound)
	}
	var rec domain.CallerRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &rec, nil
}

// Put writes a caller record. Used for seeding; calls never write accounts.
func (r *AccountRepo) Put(ctx context.Context, rec *domain.CallerRecord) error {
	keyed := *rec
	keyed.ReferenceNumber = domain.CanonicalReference(rec.ReferenceNumber)
	if keyed.ReferenceNumber == "" {
		return fmt.Errorf("account reference %q: %w", rec.ReferenceNumber, domain.ErrBadRequest)
	}
	item, err := attributevalue.MarshalMap(&keyed)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// MarkContacted stamps the last call outcome on the account without touching record fields.
func (r *AccountRepo) MarkContacted(ctx context.Context, reference, outcome string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"last_outcome":    outcome,
		"last_contact_at": at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldReference, reference),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(reference_number)"),
	})
	if err != nil {
		return fmt.Errorf("mark account %s contacted: %w", reference, err)
	}
	return nil
}
