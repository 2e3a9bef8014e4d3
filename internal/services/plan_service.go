package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
)

var ErrProfileIncomplete = errors.New("health profile incomplete")

type fitnessPlanStore interface {
	Get(ctx context.Context, userID, workoutID string) (*models.WorkoutEntry, error)
	Put(ctx context.Context, entry *models.WorkoutEntry) error
	ListByUser(ctx context.Context, userID string, limit int32, afterWorkoutID string) ([]models.WorkoutEntry, error)
	Delete(ctx context.Context, userID, workoutID string) error
}

type workoutPlanGenerator interface {
	WorkoutPlan(ctx context.Context, record *models.HealthRecord, start time.Time) ([]models.WorkoutEntry, error)
}

// PlanService manages the per-user fitness plan: AI generation of a 14-day
// plan from the onboarded health record, plus manual entry CRUD.
type PlanService struct {
	plans   fitnessPlanStore
	records healthRecordReader
	ai      workoutPlanGenerator
	now     func() time.Time
}

func NewPlanService(plans fitnessPlanStore, records healthRecordReader, ai workoutPlanGenerator) *PlanService {
	return &PlanService{
		plans:   plans,
		records: records,
		ai:      ai,
		now:     time.Now,
	}
}

// Generate builds a 14-day plan from the user's health record and stores each
// workout entry. The record must exist and carry a fitness goal, i.e. the user
// has been through onboarding at least as far as ask_goal.
func (s *PlanService) Generate(ctx context.Context, userID string) ([]models.WorkoutEntry, error) {
	record, err := s.records.Get(ctx, userID, models.HealthProfileTimestamp)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, err
	}
	if record.FitnessGoal == "" {
		return nil, ErrProfileIncomplete
	}

	start := s.now().UTC()
	entries, err := s.ai.WorkoutPlan(ctx, record, start)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	for i := range entries {
		entries[i].UserID = userID
		if entries[i].DateOfWorkout == "" {
			entries[i].DateOfWorkout = start.Format("2006-01-02")
		}
		if entries[i].WorkoutID == "" {
			entries[i].WorkoutID = newWorkoutID(entries[i].DateOfWorkout)
		}
		if err := s.plans.Put(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *PlanService) Create(ctx context.Context, entry *models.WorkoutEntry) (*models.WorkoutEntry, error) {
	if entry.UserID == "" {
		return nil, ErrInvalidInput
	}
	if entry.WorkoutID == "" {
		if entry.DateOfWorkout == "" {
			entry.DateOfWorkout = s.now().UTC().Format("2006-01-02")
		}
		entry.WorkoutID = newWorkoutID(entry.DateOfWorkout)
	}
	if err := s.plans.Put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *PlanService) List(ctx context.Context, userID string, limit int32, afterWorkoutID string) ([]models.WorkoutEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.plans.ListByUser(ctx, userID, limit, afterWorkoutID)
}

func (s *PlanService) Get(ctx context.Context, userID, workoutID string) (*models.WorkoutEntry, error) {
	return s.plans.Get(ctx, userID, workoutID)
}

// UpdateWorkoutInput carries the optional fields of a partial entry update.
type UpdateWorkoutInput struct {
	DateOfWorkout          *string
	ExerciseName           *string
	ExerciseDescription    *string
	RepCount               *int
	MuscleGroup            *string
	ExpectedCaloriesBurnt  *float64
	WeightToLiftSuggestion *float64
}

func (s *PlanService) Update(ctx context.Context, userID, workoutID string, input UpdateWorkoutInput) (*models.WorkoutEntry, error) {
	entry, err := s.plans.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	if input.DateOfWorkout != nil {
		entry.DateOfWorkout = *input.DateOfWorkout
	}
	if input.ExerciseName != nil {
		entry.ExerciseName = *input.ExerciseName
	}
	if input.ExerciseDescription != nil {
		entry.ExerciseDescription = *input.ExerciseDescription
	}
	if input.RepCount != nil {
		entry.RepCount = input.RepCount
	}
	if input.MuscleGroup != nil {
		entry.MuscleGroup = *input.MuscleGroup
	}
	if input.ExpectedCaloriesBurnt != nil {
		entry.ExpectedCaloriesBurnt = input.ExpectedCaloriesBurnt
	}
	if input.WeightToLiftSuggestion != nil {
		entry.WeightToLiftSuggestion = input.WeightToLiftSuggestion
	}

	if err := s.plans.Put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *PlanService) Delete(ctx context.Context, userID, workoutID string) error {
	return s.plans.Delete(ctx, userID, workoutID)
}

// newWorkoutID prefixes the date so that key order in the table is date order.
func newWorkoutID(date string) string {
	return date + "#" + uuid.NewString()[:8]
}
