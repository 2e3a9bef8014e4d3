package routes

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/config"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/handlers"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/middleware"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, dynamo *dynamodb.Client) {
	userRepo := repository.NewUserRepository(db)
	chatHistoryRepo := repository.NewChatHistoryRepository(db)
	userProfileRepo := repository.NewUserProfileRepository(dynamo, cfg.UserProfilesTable)
	healthRecordRepo := repository.NewHealthRecordRepository(dynamo, cfg.HealthDataTable)
	fitnessPlanRepo := repository.NewFitnessPlanRepository(dynamo, cfg.FitnessPlanTable)
	snapshotRepo := repository.NewWorkoutSnapshotRepository(db)

	configured := cfg.GeminiAPIKey != ""
	var (
		onboardingService *services.OnboardingService
		chatService       *services.ChatService
		planService       *services.PlanService
	)
	if configured {
		gemini, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("Warning: Gemini client failed to initialize, AI features disabled: %v", err)
			configured = false
		} else {
			onboardingService = services.NewOnboardingService(healthRecordRepo, gemini)
			chatService = services.NewChatService(chatHistoryRepo, healthRecordRepo, gemini)
			planService = services.NewPlanService(fitnessPlanRepo, healthRecordRepo, gemini)
		}
	}
	if !configured {
		fallback := services.UnconfiguredGemini{}
		onboardingService = services.NewOnboardingService(healthRecordRepo, fallback)
		chatService = services.NewChatService(chatHistoryRepo, healthRecordRepo, fallback)
		planService = services.NewPlanService(fitnessPlanRepo, healthRecordRepo, fallback)
	}

	authHandler := handlers.NewAuthHandler(userRepo, healthRecordRepo, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(userProfileRepo, healthRecordRepo)
	chatHandler := handlers.NewChatHandler(onboardingService, chatService, cfg.GeminiModel, configured)
	planHandler := handlers.NewPlanHandler(planService)
	snapshotHandler := handlers.NewWorkoutSnapshotHandler(snapshotRepo)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	chat := api.Group("/chat")
	chat.Get("/health", chatHandler.HealthCheck)
	chat.Use(middleware.AuthRequired(cfg.JWTSecret))
	chat.Post("", chatHandler.Chat)
	chat.Post("/health-onboarding", chatHandler.HealthOnboarding)
	chat.Get("/history", chatHandler.History)

	profile := api.Group("/profile", middleware.AuthRequired(cfg.JWTSecret))
	profile.Get("/user", profileHandler.GetUserProfile)
	profile.Post("/user", profileHandler.CreateUserProfile)
	profile.Put("/user", profileHandler.UpdateUserProfile)
	profile.Delete("/user", profileHandler.DeleteUserProfile)
	profile.Get("/health", profileHandler.GetHealthRecords)
	profile.Post("/health", profileHandler.CreateHealthRecord)
	profile.Put("/health/:timestamp", profileHandler.UpdateHealthRecord)
	profile.Delete("/health/:timestamp", profileHandler.DeleteHealthRecord)

	snapshots := api.Group("/workout-snapshots", middleware.AuthRequired(cfg.JWTSecret))
	snapshots.Post("", snapshotHandler.Create)
	snapshots.Get("", snapshotHandler.List)
	snapshots.Get("/:snapshot_id", snapshotHandler.Get)

	plans := api.Group("/fitness-plan", middleware.AuthRequired(cfg.JWTSecret))
	plans.Post("/generate", planHandler.Generate)
	plans.Get("", planHandler.List)
	plans.Post("", planHandler.Create)
	plans.Get("/:workout_id", planHandler.Get)
	plans.Put("/:workout_id", planHandler.Update)
	plans.Delete("/:workout_id", planHandler.Delete)
}
