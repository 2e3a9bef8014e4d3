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

// FitnessPlanRepository stores workout entries in the fitness_plan table,
// keyed by (user_id, workout_id).
type FitnessPlanRepository struct {
	client DynamoAPI
	table  string
}

func NewFitnessPlanRepository(client DynamoAPI, table string) *FitnessPlanRepository {
	return &FitnessPlanRepository{client: client, table: table}
}

func (r *FitnessPlanRepository) Get(ctx context.Context, userID, workoutID string) (*models.WorkoutEntry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id":    &types.AttributeValueMemberS{Value: userID},
			"workout_id": &types.AttributeValueMemberS{Value: workoutID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get workout entry: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var entry models.WorkoutEntry
	if err := attributevalue.UnmarshalMap(out.Item, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal workout entry: %w", err)
	}
	return &entry, nil
}

func (r *FitnessPlanRepository) Put(ctx context.Context, entry *models.WorkoutEntry) error {
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("marshal workout entry: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put workout entry: %w", err)
	}
	return nil
}

// ListByUser returns entries in workout_id order, optionally after a given
// workout_id for keyset pagination.
func (r *FitnessPlanRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int32,
	afterWorkoutID string,
) ([]models.WorkoutEntry, error) {
	condition := "user_id = :uid"
	values := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: userID},
	}
	if afterWorkoutID != "" {
		condition += " AND workout_id > :wid"
		values[":wid"] = &types.AttributeValueMemberS{Value: afterWorkoutID}
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    aws.String(condition),
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(limit),
		ScanIndexForward:          aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("list workout entries: %w", err)
	}

	entries := make([]models.WorkoutEntry, 0, len(out.Items))
	for _, item := range out.Items {
		var entry models.WorkoutEntry
		if err := attributevalue.UnmarshalMap(item, &entry); err != nil {
			return nil, fmt.Errorf("unmarshal workout entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *FitnessPlanRepository) Delete(ctx context.Context, userID, workoutID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id":    &types.AttributeValueMemberS{Value: userID},
			"workout_id": &types.AttributeValueMemberS{Value: workoutID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete workout entry: %w", err)
	}
	return nil
}
