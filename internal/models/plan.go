package models

// WorkoutEntry is one row of the fitness_plan table: a single exercise on a
// single day, keyed by (user_id, workout_id). workout_id is prefixed with the
// workout date so key order is date order.
type WorkoutEntry struct {
	UserID                 string   `json:"user_id" dynamodbav:"user_id"`
	WorkoutID              string   `json:"workout_id" dynamodbav:"workout_id"`
	DateOfWorkout          string   `json:"date_of_workout,omitempty" dynamodbav:"date_of_workout,omitempty"`
	ExerciseName           string   `json:"exercise_name,omitempty" dynamodbav:"exercise_name,omitempty"`
	ExerciseDescription    string   `json:"exercise_description,omitempty" dynamodbav:"exercise_description,omitempty"`
	RepCount               *int     `json:"rep_count,omitempty" dynamodbav:"rep_count,omitempty"`
	MuscleGroup            string   `json:"muscle_group,omitempty" dynamodbav:"muscle_group,omitempty"`
	ExpectedCaloriesBurnt  *float64 `json:"expected_calories_burnt,omitempty" dynamodbav:"expected_calories_burnt,omitempty"`
	WeightToLiftSuggestion *float64 `json:"weight_to_lift_suggestion,omitempty" dynamodbav:"weight_to_lift_suggestion,omitempty"`
}
