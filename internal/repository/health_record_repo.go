package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

// HealthRecordRepository stores health records in the health_data table,
// keyed by (user_id, timestamp).
type HealthRecordRepository struct {
	client DynamoAPI
	table  string
}

func NewHealthRecordRepository(client DynamoAPI, table string) *HealthRecordRepository {
	return &HealthRecordRepository{client: client, table: table}
}

func (r *HealthRecordRepository) Get(ctx context.Context, userID, timestamp string) (*models.HealthRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id":   &types.AttributeValueMemberS{Value: userID},
			"timestamp": &types.AttributeValueMemberS{Value: timestamp},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get health record: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var record models.HealthRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshal health record: %w", err)
	}
	return &record, nil
}

func (r *HealthRecordRepository) Put(ctx context.Context, record *models.HealthRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal health record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put health record: %w", err)
	}
	return nil
}

func (r *HealthRecordRepository) ListByUser(ctx context.Context, userID string, limit int32) ([]models.HealthRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		Limit:            aws.Int32(limit),
		ScanIndexForward: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}

	records := make([]models.HealthRecord, 0, len(out.Items))
	for _, item := range out.Items {
		var record models.HealthRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("unmarshal health record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *HealthRecordRepository) Delete(ctx context.Context, userID, timestamp string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id":   &types.AttributeValueMemberS{Value: userID},
			"timestamp": &types.AttributeValueMemberS{Value: timestamp},
		},
	})
	if err != nil {
		return fmt.Errorf("delete health record: %w", err)
	}
	return nil
}
