package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/services"
)

type onboardingAdvancer interface {
	Advance(ctx context.Context, userID, message string) (*services.OnboardingReply, error)
}

type chatApplicationService interface {
	Reply(ctx context.Context, userID, message string) (string, error)
	History(ctx context.Context, userID string, page, limit int) ([]models.ChatMessage, int, error)
}

type ChatHandler struct {
	onboarding onboardingAdvancer
	chat       chatApplicationService
	model      string
	configured bool
}

func NewChatHandler(onboarding onboardingAdvancer, chat chatApplicationService, model string, configured bool) *ChatHandler {
	return &ChatHandler{
		onboarding: onboarding,
		chat:       chat,
		model:      model,
		configured: configured,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// HealthOnboarding drives the onboarding state machine. The response always
// carries the success flag, the prompt to display and the resulting phase.
func (h *ChatHandler) HealthOnboarding(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid token"})
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "Request body is required"})
	}
	if len(req.Message) > services.MaxChatMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   fmt.Sprintf("Message is too long (max %d characters)", services.MaxChatMessageLength),
		})
	}

	reply, err := h.onboarding.Advance(c.Context(), userID, req.Message)
	if errors.Is(err, services.ErrOnboardingComplete) {
		// Onboarding is done; the message belongs to general chat.
		answer, err := h.chat.Reply(c.Context(), userID, req.Message)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"phase":   models.PhaseComplete,
				"error":   "Failed to generate AI response",
			})
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"response": answer,
			"phase":    models.PhaseComplete,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to process onboarding message",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"response": reply.Response,
		"phase":    reply.Phase,
	})
}

// Chat answers a free-form message with profile and history context.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Request body is required"})
	}
	if len(req.Message) > services.MaxChatMessageLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Message is too long (max %d characters)", services.MaxChatMessageLength),
		})
	}

	answer, err := h.chat.Reply(c.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Message is required and cannot be empty"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to generate AI response"})
	}

	return c.JSON(fiber.Map{
		"response": answer,
		"success":  true,
	})
}

func (h *ChatHandler) History(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	messages, total, err := h.chat.History(c.Context(), userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to fetch chat history"})
	}

	return c.JSON(fiber.Map{
		"messages":   messages,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

// HealthCheck reports whether the text-generation collaborator is configured.
func (h *ChatHandler) HealthCheck(c *fiber.Ctx) error {
	if !h.configured {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":     "unhealthy",
			"service":    "chat",
			"configured": false,
			"error":      "GEMINI_API_KEY is not set",
		})
	}
	return c.JSON(fiber.Map{
		"status":     "healthy",
		"service":    "chat",
		"model":      h.model,
		"configured": true,
	})
}
