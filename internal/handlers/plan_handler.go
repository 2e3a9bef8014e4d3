package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/services"
)

type planApplicationService interface {
	Generate(ctx context.Context, userID string) ([]models.WorkoutEntry, error)
	Create(ctx context.Context, entry *models.WorkoutEntry) (*models.WorkoutEntry, error)
	List(ctx context.Context, userID string, limit int32, afterWorkoutID string) ([]models.WorkoutEntry, error)
	Get(ctx context.Context, userID, workoutID string) (*models.WorkoutEntry, error)
	Update(ctx context.Context, userID, workoutID string, input services.UpdateWorkoutInput) (*models.WorkoutEntry, error)
	Delete(ctx context.Context, userID, workoutID string) error
}

type PlanHandler struct {
	service planApplicationService
}

func NewPlanHandler(service planApplicationService) *PlanHandler {
	return &PlanHandler{service: service}
}

type workoutEntryRequest struct {
	WorkoutID              string   `json:"workout_id"`
	DateOfWorkout          string   `json:"date_of_workout"`
	ExerciseName           string   `json:"exercise_name"`
	ExerciseDescription    string   `json:"exercise_description"`
	RepCount               *int     `json:"rep_count"`
	MuscleGroup            string   `json:"muscle_group"`
	ExpectedCaloriesBurnt  *float64 `json:"expected_calories_burnt"`
	WeightToLiftSuggestion *float64 `json:"weight_to_lift_suggestion"`
}

type workoutEntryUpdateRequest struct {
	DateOfWorkout          *string  `json:"date_of_workout"`
	ExerciseName           *string  `json:"exercise_name"`
	ExerciseDescription    *string  `json:"exercise_description"`
	RepCount               *int     `json:"rep_count"`
	MuscleGroup            *string  `json:"muscle_group"`
	ExpectedCaloriesBurnt  *float64 `json:"expected_calories_burnt"`
	WeightToLiftSuggestion *float64 `json:"weight_to_lift_suggestion"`
}

// Generate builds a fresh 14-day plan from the user's onboarded health record.
func (h *PlanHandler) Generate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entries, err := h.service.Generate(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileIncomplete) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Health profile incomplete. Complete onboarding first."})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate fitness plan"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"fitness_plans": entries,
		"count":         len(entries),
	})
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	limit := parsePositiveInt(c.Query("limit"), 100)
	entries, err := h.service.List(c.Context(), userID, int32(limit), c.Query("workout_id_after"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to list fitness plans"})
	}

	return c.JSON(fiber.Map{
		"fitness_plans": entries,
		"count":         len(entries),
	})
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req workoutEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ExerciseName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "exercise_name is required"})
	}

	entry, err := h.service.Create(c.Context(), &models.WorkoutEntry{
		UserID:                 userID,
		WorkoutID:              req.WorkoutID,
		DateOfWorkout:          req.DateOfWorkout,
		ExerciseName:           req.ExerciseName,
		ExerciseDescription:    req.ExerciseDescription,
		RepCount:               req.RepCount,
		MuscleGroup:            req.MuscleGroup,
		ExpectedCaloriesBurnt:  req.ExpectedCaloriesBurnt,
		WeightToLiftSuggestion: req.WeightToLiftSuggestion,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create fitness plan entry"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Created", "fitness_plan": entry})
}

func (h *PlanHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entry, err := h.service.Get(c.Context(), userID, c.Params("workout_id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Not found", "fitness_plan": nil})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch fitness plan entry"})
	}

	return c.JSON(fiber.Map{"fitness_plan": entry})
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req workoutEntryUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No body"})
	}

	entry, err := h.service.Update(c.Context(), userID, c.Params("workout_id"), services.UpdateWorkoutInput{
		DateOfWorkout:          req.DateOfWorkout,
		ExerciseName:           req.ExerciseName,
		ExerciseDescription:    req.ExerciseDescription,
		RepCount:               req.RepCount,
		MuscleGroup:            req.MuscleGroup,
		ExpectedCaloriesBurnt:  req.ExpectedCaloriesBurnt,
		WeightToLiftSuggestion: req.WeightToLiftSuggestion,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update fitness plan entry"})
	}

	return c.JSON(fiber.Map{"message": "Updated", "fitness_plan": entry})
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.service.Delete(c.Context(), userID, c.Params("workout_id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete fitness plan entry"})
	}

	return c.JSON(fiber.Map{"message": "Deleted"})
}
