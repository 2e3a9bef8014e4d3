package models

import "time"

// WorkoutSnapshot is a completed-workout summary a client uploads after a
// session: totals plus the per-exercise breakdown as free-form JSON objects.
type WorkoutSnapshot struct {
	SnapshotID         string           `json:"snapshot_id"`
	UserID             string           `json:"user_id"`
	WorkoutID          string           `json:"workout_id"`
	WorkoutType        string           `json:"workout_type"`
	DurationMinutes    int              `json:"duration_minutes"`
	TotalVolume        float64          `json:"total_volume"`
	CaloriesBurned     int              `json:"calories_burned"`
	AverageHeartRate   *int             `json:"average_heart_rate"`
	ExercisesCompleted []map[string]any `json:"exercises_completed"`
	CompletedAt        time.Time        `json:"completed_at"`
	CreatedAt          time.Time        `json:"created_at"`
}
