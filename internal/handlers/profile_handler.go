package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
)

type userProfileStore interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Put(ctx context.Context, profile *models.UserProfile) error
	Delete(ctx context.Context, userID string) error
}

type healthRecordStore interface {
	Get(ctx context.Context, userID, timestamp string) (*models.HealthRecord, error)
	Put(ctx context.Context, record *models.HealthRecord) error
	ListByUser(ctx context.Context, userID string, limit int32) ([]models.HealthRecord, error)
	Delete(ctx context.Context, userID, timestamp string) error
}

type ProfileHandler struct {
	profiles userProfileStore
	records  healthRecordStore
	now      func() time.Time
}

func NewProfileHandler(profiles userProfileStore, records healthRecordStore) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		records:  records,
		now:      time.Now,
	}
}

type userProfileRequest struct {
	Name          *string   `json:"name"`
	Age           *int      `json:"age"`
	Gender        *string   `json:"gender"`
	Height        *float64  `json:"height"`
	Weight        *float64  `json:"weight"`
	FitnessGoals  *[]string `json:"fitness_goals"`
	ActivityLevel *string   `json:"activity_level"`
}

type healthRecordRequest struct {
	Timestamp   string   `json:"timestamp"`
	Age         *int     `json:"age"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	Gender      *string  `json:"gender"`
	FitnessGoal *string  `json:"fitness_goal"`
}

func validateStats(age *int, height, weight *float64) string {
	if age != nil && (*age < 1 || *age > 150) {
		return "Age must be between 1 and 150"
	}
	if height != nil && *height <= 0 {
		return "Height must be a positive number"
	}
	if weight != nil && *weight <= 0 {
		return "Weight must be a positive number"
	}
	return ""
}

func (h *ProfileHandler) GetUserProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profiles.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"message": "Profile not found", "profile": nil})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// CreateUserProfile creates the profile document, or merges into it when one
// already exists, matching the original upsert semantics of this endpoint.
func (h *ProfileHandler) CreateUserProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req userProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}
	if msg := validateStats(req.Age, req.Height, req.Weight); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	now := h.now().UTC().Format(time.RFC3339)
	created := false

	profile, err := h.profiles.Get(c.Context(), userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		profile = &models.UserProfile{UserID: userID, CreatedAt: now}
		created = true
	}

	applyUserProfileUpdates(profile, req)
	profile.UpdatedAt = now

	if err := h.profiles.Put(c.Context(), profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save profile"})
	}

	if created {
		return c.Status(fiber.StatusCreated).
			JSON(fiber.Map{"message": "Profile created successfully", "profile": profile})
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "profile": profile})
}

func (h *ProfileHandler) UpdateUserProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req userProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}
	if msg := validateStats(req.Age, req.Height, req.Weight); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	profile, err := h.profiles.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "Profile not found. Create profile first."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	applyUserProfileUpdates(profile, req)
	profile.UpdatedAt = h.now().UTC().Format(time.RFC3339)

	if err := h.profiles.Put(c.Context(), profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile updated successfully", "profile": profile})
}

func (h *ProfileHandler) DeleteUserProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.profiles.Delete(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete profile"})
	}

	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}

// CreateHealthRecord creates or merges the fixed-stats portion of a health
// record. Onboarding state (phase, goal context) is never touched here.
func (h *ProfileHandler) CreateHealthRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req healthRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}
	if msg := validateStats(req.Age, req.Height, req.Weight); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = models.HealthProfileTimestamp
	}

	now := h.now().UTC().Format(time.RFC3339)
	created := false

	record, err := h.records.Get(c.Context(), userID, timestamp)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch health data"})
		}
		record = &models.HealthRecord{UserID: userID, Timestamp: timestamp, CreatedAt: now}
		created = true
	}

	applyHealthRecordUpdates(record, req)
	record.UpdatedAt = now

	if err := h.records.Put(c.Context(), record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save health data"})
	}

	if created {
		return c.Status(fiber.StatusCreated).
			JSON(fiber.Map{"message": "Health data created successfully", "health_data": record})
	}
	return c.JSON(fiber.Map{"message": "Health data updated successfully", "health_data": record})
}

func (h *ProfileHandler) GetHealthRecords(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if timestamp := c.Query("timestamp"); timestamp != "" {
		record, err := h.records.Get(c.Context(), userID, timestamp)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).
					JSON(fiber.Map{"message": "Health data not found", "health_data": nil})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch health data"})
		}
		return c.JSON(fiber.Map{"health_data": record})
	}

	limit := parsePositiveInt(c.Query("limit"), 100)
	records, err := h.records.ListByUser(c.Context(), userID, int32(limit))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch health data"})
	}

	return c.JSON(fiber.Map{
		"health_data": records,
		"count":       len(records),
	})
}

func (h *ProfileHandler) UpdateHealthRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	timestamp := c.Params("timestamp")

	var req healthRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No data provided"})
	}
	if msg := validateStats(req.Age, req.Height, req.Weight); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	record, err := h.records.Get(c.Context(), userID, timestamp)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Health data entry not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch health data"})
	}

	applyHealthRecordUpdates(record, req)
	record.UpdatedAt = h.now().UTC().Format(time.RFC3339)

	if err := h.records.Put(c.Context(), record); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save health data"})
	}

	return c.JSON(fiber.Map{"message": "Health data updated successfully", "health_data": record})
}

func (h *ProfileHandler) DeleteHealthRecord(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.records.Delete(c.Context(), userID, c.Params("timestamp")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete health data"})
	}

	return c.JSON(fiber.Map{"message": "Health data deleted successfully"})
}

func applyUserProfileUpdates(profile *models.UserProfile, req userProfileRequest) {
	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.Height != nil {
		profile.Height = req.Height
	}
	if req.Weight != nil {
		profile.Weight = req.Weight
	}
	if req.FitnessGoals != nil {
		profile.FitnessGoals = *req.FitnessGoals
	}
	if req.ActivityLevel != nil {
		profile.ActivityLevel = *req.ActivityLevel
	}
}

func applyHealthRecordUpdates(record *models.HealthRecord, req healthRecordRequest) {
	if req.Age != nil {
		record.Age = req.Age
	}
	if req.Height != nil {
		record.Height = req.Height
	}
	if req.Weight != nil {
		record.Weight = req.Weight
	}
	if req.Gender != nil {
		record.Gender = *req.Gender
	}
	if req.FitnessGoal != nil {
		record.FitnessGoal = *req.FitnessGoal
	}
}
