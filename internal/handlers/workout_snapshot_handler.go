package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

type workoutSnapshotStore interface {
	Create(ctx context.Context, snapshot *models.WorkoutSnapshot) error
	Get(ctx context.Context, snapshotID string) (*models.WorkoutSnapshot, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.WorkoutSnapshot, int, error)
}

type WorkoutSnapshotHandler struct {
	snapshots workoutSnapshotStore
}

func NewWorkoutSnapshotHandler(snapshots workoutSnapshotStore) *WorkoutSnapshotHandler {
	return &WorkoutSnapshotHandler{snapshots: snapshots}
}

type workoutSnapshotRequest struct {
	WorkoutID          string          `json:"workout_id"`
	WorkoutType        string          `json:"workout_type"`
	DurationMinutes    *int            `json:"duration_minutes"`
	TotalVolume        *float64        `json:"total_volume"`
	CaloriesBurned     *int            `json:"calories_burned"`
	AverageHeartRate   *int            `json:"average_heart_rate"`
	ExercisesCompleted json.RawMessage `json:"exercises_completed"`
	CompletedAt        string          `json:"completed_at"`
}

func (req *workoutSnapshotRequest) missingFields() []string {
	missing := []string{}
	if req.WorkoutID == "" {
		missing = append(missing, "workout_id")
	}
	if req.WorkoutType == "" {
		missing = append(missing, "workout_type")
	}
	if req.DurationMinutes == nil {
		missing = append(missing, "duration_minutes")
	}
	if req.TotalVolume == nil {
		missing = append(missing, "total_volume")
	}
	if req.CaloriesBurned == nil {
		missing = append(missing, "calories_burned")
	}
	if len(req.ExercisesCompleted) == 0 {
		missing = append(missing, "exercises_completed")
	}
	if req.CompletedAt == "" {
		missing = append(missing, "completed_at")
	}
	sort.Strings(missing)
	return missing
}

func parseExercisesCompleted(raw json.RawMessage) ([]map[string]any, string) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, "exercises_completed must be an array of objects"
	}
	exercises := make([]map[string]any, 0, len(items))
	for _, item := range items {
		var exercise map[string]any
		if err := json.Unmarshal(item, &exercise); err != nil {
			return nil, "exercises_completed must contain only objects"
		}
		exercises = append(exercises, exercise)
	}
	return exercises, ""
}

// parseCompletedAt accepts RFC 3339 timestamps and the common variant without
// a zone offset.
func parseCompletedAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func (h *WorkoutSnapshotHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req workoutSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body is required"})
	}

	if missing := req.missingFields(); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		})
	}
	if *req.DurationMinutes <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "duration_minutes must be a positive integer"})
	}
	if *req.TotalVolume <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "total_volume must be a positive number"})
	}
	if *req.CaloriesBurned <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "calories_burned must be a positive integer"})
	}
	if req.AverageHeartRate != nil && *req.AverageHeartRate <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "average_heart_rate must be a positive integer"})
	}

	exercises, msg := parseExercisesCompleted(req.ExercisesCompleted)
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	completedAt, ok := parseCompletedAt(req.CompletedAt)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "completed_at must be an ISO timestamp"})
	}

	snapshot := &models.WorkoutSnapshot{
		SnapshotID:         uuid.NewString(),
		UserID:             userID,
		WorkoutID:          req.WorkoutID,
		WorkoutType:        req.WorkoutType,
		DurationMinutes:    *req.DurationMinutes,
		TotalVolume:        *req.TotalVolume,
		CaloriesBurned:     *req.CaloriesBurned,
		AverageHeartRate:   req.AverageHeartRate,
		ExercisesCompleted: exercises,
		CompletedAt:        completedAt,
	}
	if err := h.snapshots.Create(c.Context(), snapshot); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to save workout snapshot"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"snapshot": snapshot})
}

func (h *WorkoutSnapshotHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	snapshot, err := h.snapshots.Get(c.Context(), c.Params("snapshot_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Workout snapshot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch workout snapshot"})
	}
	// Another user's snapshot is indistinguishable from a missing one.
	if snapshot.UserID != userID {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Workout snapshot not found"})
	}

	return c.JSON(fiber.Map{"snapshot": snapshot})
}

func (h *WorkoutSnapshotHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "offset must be zero or a positive integer"})
		}
	}

	snapshots, total, err := h.snapshots.ListByUser(c.Context(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch workout snapshots"})
	}

	return c.JSON(fiber.Map{
		"snapshots": snapshots,
		"count":     len(snapshots),
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}
