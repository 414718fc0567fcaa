package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/identity-verify-api/internal/domain"
)

const batchWriteMax = 25 // DynamoDB BatchWriteItem limit

// EntryRepo provides typed DynamoDB operations for the list entries table.
type EntryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewEntryRepo(client *dynamodb.Client, tableName string) *EntryRepo {
	return &EntryRepo{client: client, tableName: tableName}
}

func (r *EntryRepo) Put(ctx context.Context, e *domain.ListEntry) error {
	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// BatchPut writes entries in chunks of 25. Unprocessed items are retried once;
// anything still unprocessed after that is an error.
func (r *EntryRepo) BatchPut(ctx context.Context, entries []domain.ListEntry) error {
	for start := 0; start < len(entries); start += batchWriteMax {
		end := start + batchWriteMax
		if end > len(entries) {
			end = len(entries)
		}
		reqs := make([]types.WriteRequest, 0, end-start)
		for i := start; i < end; i++ {
			item, err := attributevalue.MarshalMap(entries[i])
			if err != nil {
				return fmt.Errorf("marshal entry %s: %w", entries[i].EntryID, err)
			}
			reqs = append(reqs, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		pending := map[string][]types.WriteRequest{r.tableName: reqs}
		for retry := 0; len(pending[r.tableName]) > 0; retry++ {
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return fmt.Errorf("batch write entries: %w", err)
			}
			pending = out.UnprocessedItems
			if len(pending[r.tableName]) > 0 && retry >= 1 {
				return fmt.Errorf("batch write entries: %d items unprocessed", len(pending[r.tableName]))
			}
		}
	}
	return nil
}

func (r *EntryRepo) Get(ctx context.Context, entryID string) (*domain.ListEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("entry_id", entryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("entry not found: %w", domain.ErrNotFound)
	}
	var e domain.ListEntry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByToken resolves a verification token to its entry via the token GSI.
func (r *EntryRepo) GetByToken(ctx context.Context, tok string) (*domain.ListEntry, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("token-index"),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldToken},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: tok}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("entry not found: %w", domain.ErrNotFound)
	}
	var e domain.ListEntry
	if err := attributevalue.UnmarshalMap(out.Items[0], &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByList returns every entry belonging to a list, following query
// pagination until exhausted.
func (r *EntryRepo) ListByList(ctx context.Context, listID string) ([]domain.ListEntry, error) {
	var entries []domain.ListEntry
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("list_id-index"),
			KeyConditionExpression:    aws.String("#a = :v"),
			ExpressionAttributeNames:  map[string]string{"#a": "list_id"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: listID}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.ListEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		if out.LastEvaluatedKey == nil {
			return entries, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *EntryRepo) Update(ctx context.Context, entryID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("entry_id", entryID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// IncrementAttempts atomically consumes one verification attempt. The
// conditional write guarantees the budget holds under concurrent submissions:
// when the entry already has max attempts recorded, the increment is rejected
// and domain.ErrAttemptsExhausted is returned without changing the counter.
func (r *EntryRepo) IncrementAttempts(ctx context.Context, entryID string, max int) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("entry_id", entryID),
		UpdateExpression:    aws.String("SET #att = #att + :one, #upd = :now"),
		ConditionExpression: aws.String("#att < :max"),
		ExpressionAttributeNames: map[string]string{
			"#att": fieldAttempts,
			"#upd": fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":max": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", max)},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return 0, domain.ErrAttemptsExhausted
		}
		return 0, fmt.Errorf("increment attempts: %w", err)
	}

	var updated struct {
		VerificationAttempts int `dynamodbav:"verification_attempts"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return 0, err
	}
	return updated.VerificationAttempts, nil
}
