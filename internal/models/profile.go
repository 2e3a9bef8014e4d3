package models

// UserProfile is the per-user document in the user_profiles table,
// keyed by user_id alone.
type UserProfile struct {
	UserID        string   `json:"user_id" dynamodbav:"user_id"`
	Name          string   `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Age           *int     `json:"age,omitempty" dynamodbav:"age,omitempty"`
	Gender        string   `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	Height        *float64 `json:"height,omitempty" dynamodbav:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty" dynamodbav:"weight,omitempty"`
	FitnessGoals  []string `json:"fitness_goals,omitempty" dynamodbav:"fitness_goals,omitempty"`
	ActivityLevel string   `json:"activity_level,omitempty" dynamodbav:"activity_level,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	UpdatedAt     string   `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}
