package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBUrl              string
	JWTSecret          string
	GeminiAPIKey       string
	GeminiModel        string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoEndpoint     string
	UserProfilesTable  string
	HealthDataTable    string
	FitnessPlanTable   string
	AppEnv             string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              getEnv("DB_URL", ""),
		JWTSecret:          jwtSecret,
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        normalizeModel(getEnv("GEMINI_MODEL", "gemini-2.0-flash")),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoEndpoint:     getEnv("DYNAMODB_ENDPOINT", ""),
		UserProfilesTable:  getEnv("DYNAMODB_USER_PROFILES_TABLE", "user_profiles"),
		HealthDataTable:    getEnv("DYNAMODB_HEALTH_DATA_TABLE", "health_data"),
		FitnessPlanTable:   getEnv("DYNAMODB_FITNESS_PLAN_TABLE", "fitness_plan"),
		AppEnv:             normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// normalizeModel strips the optional "models/" prefix used in some Gemini docs.
func normalizeModel(value string) string {
	return strings.TrimPrefix(strings.TrimSpace(value), "models/")
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
