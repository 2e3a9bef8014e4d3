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

// UserProfileRepository stores user profile documents in the user_profiles
// table, keyed by user_id.
type UserProfileRepository struct {
	client DynamoAPI
	table  string
}

func NewUserProfileRepository(client DynamoAPI, table string) *UserProfileRepository {
	return &UserProfileRepository{client: client, table: table}
}

func (r *UserProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(out.Item, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal user profile: %w", err)
	}
	return &profile, nil
}

func (r *UserProfileRepository) Put(ctx context.Context, profile *models.UserProfile) error {
	item, err := attributevalue.MarshalMap(profile)
	if err != nil {
		return fmt.Errorf("marshal user profile: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put user profile: %w", err)
	}
	return nil
}

func (r *UserProfileRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete user profile: %w", err)
	}
	return nil
}
