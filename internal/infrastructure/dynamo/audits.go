package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/identity-verify-api/internal/domain"
)

// AuditRepo provides append-only DynamoDB operations for the audit log table.
// There is deliberately no update or delete: audit records are immutable.
type AuditRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAuditRepo(client *dynamodb.Client, tableName string) *AuditRepo {
	return &AuditRepo{client: client, tableName: tableName}
}

// Append writes one audit record. The condition rejects audit_id collisions so
// an existing record can never be overwritten.
func (r *AuditRepo) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(audit_id)"),
	})
	return err
}

// ListByEntry returns audit records for one entry, newest first.
func (r *AuditRepo) ListByEntry(ctx context.Context, entryID string, limit int32) ([]domain.AuditLogEntry, error) {
	return r.queryIndex(ctx, "entry_id-timestamp-index", "entry_id", entryID, limit)
}

// ListByList returns audit records for one list, newest first.
func (r *AuditRepo) ListByList(ctx context.Context, listID string, limit int32) ([]domain.AuditLogEntry, error) {
	return r.queryIndex(ctx, "list_id-timestamp-index", "list_id", listID, limit)
}

func (r *AuditRepo) queryIndex(ctx context.Context, index, attr, value string, limit int32) ([]domain.AuditLogEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		ScanIndexForward:          aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, err
	}
	var entries []domain.AuditLogEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
