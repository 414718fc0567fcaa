package dynamo

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/identity-verify-api/internal/domain"
)

// ListRepo provides typed DynamoDB operations for the identity lists table.
type ListRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewListRepo(client *dynamodb.Client, tableName string) *ListRepo {
	return &ListRepo{client: client, tableName: tableName}
}

func (r *ListRepo) Put(ctx context.Context, l *domain.IdentityList) error {
	item, err := attributevalue.MarshalMap(l)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ListRepo) Get(ctx context.Context, listID string) (*domain.IdentityList, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("list_id", listID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("list not found: %w", domain.ErrNotFound)
	}
	var l domain.IdentityList
	if err := attributevalue.UnmarshalMap(out.Item, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListRepo) Update(ctx context.Context, listID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("list_id", listID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// AdjustCounters applies signed deltas to the per-status counters in a single
// atomic ADD expression, e.g. {"link_sent_count": 1, "pending_count": -1}
// when an entry moves from pending to link_sent.
func (r *ListRepo) AdjustCounters(ctx context.Context, listID string, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}
	keys := make([]string, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := map[string]string{"#upd": fieldUpdatedAt}
	values := map[string]types.AttributeValue{
		":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}
	expr := "ADD "
	for i, k := range keys {
		nameKey := fmt.Sprintf("#c%d", i)
		valueKey := fmt.Sprintf(":d%d", i)
		names[nameKey] = k
		values[valueKey] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", deltas[k])}
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf("%s %s", nameKey, valueKey)
	}
	expr += " SET #upd = :now"

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("list_id", listID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

// ScanPage returns a page of lists.
// cursor is a base64-encoded list_id used as ExclusiveStartKey.
// Returns the items, a next cursor (empty string when no more pages), and any error.
func (r *ListRepo) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.IdentityList, string, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		decoded, err := base64.StdEncoding.DecodeString(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
		}
		input.ExclusiveStartKey = strKey("list_id", string(decoded))
	}

	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, "", err
	}
	var lists []domain.IdentityList
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &lists); err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if out.LastEvaluatedKey != nil {
		if av, ok := out.LastEvaluatedKey["list_id"].(*types.AttributeValueMemberS); ok {
			nextCursor = base64.StdEncoding.EncodeToString([]byte(av.Value))
		}
	}
	return lists, nextCursor, nil
}
