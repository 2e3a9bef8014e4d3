package repository

import (
	"context"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

type WorkoutSnapshotRepository struct {
	db DBTX
}

func NewWorkoutSnapshotRepository(db DBTX) *WorkoutSnapshotRepository {
	return &WorkoutSnapshotRepository{db: db}
}

func (r *WorkoutSnapshotRepository) Create(ctx context.Context, snapshot *models.WorkoutSnapshot) error {
	query := `
		INSERT INTO workout_snapshots (
			snapshot_id, user_id, workout_id, workout_type, duration_minutes,
			total_volume, calories_burned, average_heart_rate,
			exercises_completed, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		snapshot.SnapshotID,
		snapshot.UserID,
		snapshot.WorkoutID,
		snapshot.WorkoutType,
		snapshot.DurationMinutes,
		snapshot.TotalVolume,
		snapshot.CaloriesBurned,
		snapshot.AverageHeartRate,
		snapshot.ExercisesCompleted,
		snapshot.CompletedAt,
	).Scan(&snapshot.CreatedAt)
}

func (r *WorkoutSnapshotRepository) Get(ctx context.Context, snapshotID string) (*models.WorkoutSnapshot, error) {
	query := `
		SELECT snapshot_id, user_id, workout_id, workout_type, duration_minutes,
		       total_volume, calories_burned, average_heart_rate,
		       exercises_completed, completed_at, created_at
		FROM workout_snapshots
		WHERE snapshot_id = $1
	`
	var snapshot models.WorkoutSnapshot
	err := r.db.QueryRow(ctx, query, snapshotID).Scan(
		&snapshot.SnapshotID,
		&snapshot.UserID,
		&snapshot.WorkoutID,
		&snapshot.WorkoutType,
		&snapshot.DurationMinutes,
		&snapshot.TotalVolume,
		&snapshot.CaloriesBurned,
		&snapshot.AverageHeartRate,
		&snapshot.ExercisesCompleted,
		&snapshot.CompletedAt,
		&snapshot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// ListByUser returns the user's snapshots, most recently completed first.
func (r *WorkoutSnapshotRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
	offset int,
) ([]models.WorkoutSnapshot, int, error) {
	totalQuery := `
		SELECT COUNT(*)
		FROM workout_snapshots
		WHERE user_id = $1
	`
	var total int
	if err := r.db.QueryRow(ctx, totalQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT snapshot_id, user_id, workout_id, workout_type, duration_minutes,
		       total_volume, calories_burned, average_heart_rate,
		       exercises_completed, completed_at, created_at
		FROM workout_snapshots
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	snapshots := make([]models.WorkoutSnapshot, 0)
	for rows.Next() {
		var snapshot models.WorkoutSnapshot
		if err := rows.Scan(
			&snapshot.SnapshotID,
			&snapshot.UserID,
			&snapshot.WorkoutID,
			&snapshot.WorkoutType,
			&snapshot.DurationMinutes,
			&snapshot.TotalVolume,
			&snapshot.CaloriesBurned,
			&snapshot.AverageHeartRate,
			&snapshot.ExercisesCompleted,
			&snapshot.CompletedAt,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return snapshots, total, nil
}
