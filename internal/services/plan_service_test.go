package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
)

type stubPlanStore struct {
	entries map[string]models.WorkoutEntry
	putErr  error
}

func newStubPlanStore() *stubPlanStore {
	return &stubPlanStore{entries: map[string]models.WorkoutEntry{}}
}

func (s *stubPlanStore) Get(_ context.Context, userID, workoutID string) (*models.WorkoutEntry, error) {
	entry, ok := s.entries[userID+"|"+workoutID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := entry
	return &out, nil
}

func (s *stubPlanStore) Put(_ context.Context, entry *models.WorkoutEntry) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[entry.UserID+"|"+entry.WorkoutID] = *entry
	return nil
}

func (s *stubPlanStore) ListByUser(_ context.Context, userID string, limit int32, afterWorkoutID string) ([]models.WorkoutEntry, error) {
	out := []models.WorkoutEntry{}
	for _, entry := range s.entries {
		if entry.UserID == userID && entry.WorkoutID > afterWorkoutID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WorkoutID < out[j].WorkoutID })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubPlanStore) Delete(_ context.Context, userID, workoutID string) error {
	delete(s.entries, userID+"|"+workoutID)
	return nil
}

type stubPlanGenerator struct {
	entries []models.WorkoutEntry
	err     error
}

func (s *stubPlanGenerator) WorkoutPlan(_ context.Context, _ *models.HealthRecord, _ time.Time) ([]models.WorkoutEntry, error) {
	return append([]models.WorkoutEntry(nil), s.entries...), s.err
}

func TestGenerateStoresEveryEntryWithKeys(t *testing.T) {
	records := newStubRecordStore()
	seedGoalPhase(records, "u1")
	stored := records.stored("u1")
	stored.FitnessGoal = "lose weight"

	plans := newStubPlanStore()
	service := NewPlanService(plans, records, &stubPlanGenerator{entries: []models.WorkoutEntry{
		{DateOfWorkout: "2026-08-28", ExerciseName: "Squat"},
		{ExerciseName: "Push-up"},
	}})

	entries, err := service.Generate(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := len(entries); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
	for _, entry := range entries {
		if entry.UserID != "u1" {
			t.Fatalf("expected user id set, got %q", entry.UserID)
		}
		if entry.WorkoutID == "" || entry.DateOfWorkout == "" {
			t.Fatalf("expected workout id and date filled, got %+v", entry)
		}
		if !strings.HasPrefix(entry.WorkoutID, entry.DateOfWorkout+"#") {
			t.Fatalf("expected workout id prefixed with date, got %q", entry.WorkoutID)
		}
	}
	if got := len(plans.entries); got != 2 {
		t.Fatalf("expected 2 stored entries, got %d", got)
	}
}

func TestGenerateRequiresOnboardedRecord(t *testing.T) {
	service := NewPlanService(newStubPlanStore(), newStubRecordStore(), &stubPlanGenerator{})

	if _, err := service.Generate(context.Background(), "u1"); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete with no record, got %v", err)
	}

	records := newStubRecordStore()
	seedGoalPhase(records, "u2") // stats on file but no goal yet
	service = NewPlanService(newStubPlanStore(), records, &stubPlanGenerator{})
	if _, err := service.Generate(context.Background(), "u2"); !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete without a goal, got %v", err)
	}
}

func TestGeneratePropagatesGeneratorFailure(t *testing.T) {
	records := newStubRecordStore()
	seedGoalPhase(records, "u1")
	records.stored("u1").FitnessGoal = "build muscle"
	plans := newStubPlanStore()
	service := NewPlanService(plans, records, &stubPlanGenerator{err: errors.New("model unavailable")})

	if _, err := service.Generate(context.Background(), "u1"); err == nil {
		t.Fatal("expected error from generator failure")
	}
	if got := len(plans.entries); got != 0 {
		t.Fatalf("expected nothing stored on failure, got %d entries", got)
	}
}

func TestCreateAssignsWorkoutID(t *testing.T) {
	service := NewPlanService(newStubPlanStore(), newStubRecordStore(), &stubPlanGenerator{})

	entry, err := service.Create(context.Background(), &models.WorkoutEntry{
		UserID:       "u1",
		ExerciseName: "Deadlift",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if entry.WorkoutID == "" || entry.DateOfWorkout == "" {
		t.Fatalf("expected generated keys, got %+v", entry)
	}

	if _, err := service.Create(context.Background(), &models.WorkoutEntry{ExerciseName: "Deadlift"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without user id, got %v", err)
	}
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	plans := newStubPlanStore()
	reps := 10
	plans.entries["u1|2026-08-28#abc"] = models.WorkoutEntry{
		UserID:        "u1",
		WorkoutID:     "2026-08-28#abc",
		DateOfWorkout: "2026-08-28",
		ExerciseName:  "Squat",
		RepCount:      &reps,
		MuscleGroup:   "legs",
	}
	service := NewPlanService(plans, newStubRecordStore(), &stubPlanGenerator{})

	newReps := 12
	entry, err := service.Update(context.Background(), "u1", "2026-08-28#abc", UpdateWorkoutInput{
		RepCount: &newReps,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if entry.RepCount == nil || *entry.RepCount != 12 {
		t.Fatalf("expected rep count updated to 12, got %v", entry.RepCount)
	}
	if entry.ExerciseName != "Squat" || entry.MuscleGroup != "legs" {
		t.Fatalf("expected untouched fields preserved, got %+v", entry)
	}

	if _, err := service.Update(context.Background(), "u1", "missing", UpdateWorkoutInput{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing entry, got %v", err)
	}
}

func TestListPaginatesByWorkoutID(t *testing.T) {
	plans := newStubPlanStore()
	for _, id := range []string{"2026-08-28#a", "2026-08-28#b", "2026-08-29#a"} {
		plans.entries["u1|"+id] = models.WorkoutEntry{UserID: "u1", WorkoutID: id}
	}
	service := NewPlanService(plans, newStubRecordStore(), &stubPlanGenerator{})

	entries, err := service.List(context.Background(), "u1", 10, "2026-08-28#a")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].WorkoutID != "2026-08-28#b" {
		t.Fatalf("expected entries after the cursor, got %+v", entries)
	}
}
