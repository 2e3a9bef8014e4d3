package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/config"
)

// ConnectDynamo builds a DynamoDB client. Static credentials from the environment
// take precedence; otherwise the default chain (IAM role, shared config) applies.
func ConnectDynamo(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %v", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})
	return client, nil
}

// EnsureTables creates the document tables if they do not exist yet.
// user_profiles is keyed by user_id alone; health_data and fitness_plan carry a
// range key (timestamp and workout_id respectively).
func EnsureTables(ctx context.Context, client *dynamodb.Client, cfg *config.Config) error {
	tables := []struct {
		name     string
		rangeKey string
	}{
		{name: cfg.UserProfilesTable},
		{name: cfg.HealthDataTable, rangeKey: "timestamp"},
		{name: cfg.FitnessPlanTable, rangeKey: "workout_id"},
	}

	for _, table := range tables {
		if err := createTable(ctx, client, table.name, table.rangeKey); err != nil {
			return fmt.Errorf("unable to create table %s: %v", table.name, err)
		}
	}
	return nil
}

func createTable(ctx context.Context, client *dynamodb.Client, name, rangeKey string) error {
	keySchema := []types.KeySchemaElement{
		{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
	}
	attributes := []types.AttributeDefinition{
		{AttributeName: aws.String("user_id"), AttributeType: types.ScalarAttributeTypeS},
	}
	if rangeKey != "" {
		keySchema = append(keySchema, types.KeySchemaElement{
			AttributeName: aws.String(rangeKey), KeyType: types.KeyTypeRange,
		})
		attributes = append(attributes, types.AttributeDefinition{
			AttributeName: aws.String(rangeKey), AttributeType: types.ScalarAttributeTypeS,
		})
	}

	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:            aws.String(name),
		KeySchema:            keySchema,
		AttributeDefinitions: attributes,
		BillingMode:          types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return err
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)}, 2*time.Minute)
}
