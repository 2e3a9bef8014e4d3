package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

const geminiSystemInstruction = "You are a friendly and knowledgeable fitness-focused personal trainer AI assistant. " +
	"Provide personalized fitness advice, workout recommendations, nutrition guidance, and motivation. " +
	"Consider the user's profile information (age, height, weight, fitness goal) when giving recommendations. " +
	"Always prioritize safety and recommend consulting healthcare professionals for medical concerns. " +
	"Use a conversational, friendly tone and give specific, practical advice."

// GeminiService wraps the Gemini API for chat replies, onboarding follow-up
// questions and workout plan generation.
type GeminiService struct {
	client *genai.Client
	model  string
}

func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiService{client: client, model: model}, nil
}

func (s *GeminiService) Model() string {
	return s.model
}

// Reply answers a free-form chat message. History must be in chronological
// order; the record supplies profile context and may be nil.
func (s *GeminiService) Reply(
	ctx context.Context,
	message string,
	history []models.ChatMessage,
	record *models.HealthRecord,
) (string, error) {
	var prompt strings.Builder
	if profile := profileContext(record); profile != "" {
		prompt.WriteString(profile)
		prompt.WriteString("\n")
	}
	for _, msg := range history {
		switch msg.Role {
		case models.ChatRoleAssistant:
			prompt.WriteString("Assistant: ")
		default:
			prompt.WriteString("User: ")
		}
		prompt.WriteString(msg.Content)
		prompt.WriteString("\n")
	}
	prompt.WriteString("User: ")
	prompt.WriteString(message)
	prompt.WriteString("\nAssistant:")

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt.String()),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(geminiSystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.7),
			TopP:              genai.Ptr[float32](0.8),
			TopK:              genai.Ptr[float32](40),
			MaxOutputTokens:   2048,
		})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no response text available from the model")
	}
	return text, nil
}

// FollowUpQuestions asks the model for up to three short questions tailored to
// the user's stated fitness goal.
func (s *GeminiService) FollowUpQuestions(
	ctx context.Context,
	record *models.HealthRecord,
	goal string,
) ([]string, error) {
	prompt := fmt.Sprintf(
		"The user has stated their fitness goal: %q. "+
			"Generate exactly 3 short, specific follow-up questions to better understand their situation and tailor advice. "+
			"Each question should be one sentence, conversational, and relevant to their goal "+
			"(e.g. experience level, constraints, preferences). "+
			"Return ONLY a JSON array of strings with no other text.",
		goal,
	)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.6),
			MaxOutputTokens:  512,
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("generate follow-up questions: %w", err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Text())), &questions); err != nil {
		return nil, fmt.Errorf("parse follow-up questions: %w", err)
	}
	if len(questions) > 3 {
		questions = questions[:3]
	}
	return questions, nil
}

// WorkoutPlan generates a 14-day plan from the health record as individual
// workout entries.
func (s *GeminiService) WorkoutPlan(
	ctx context.Context,
	record *models.HealthRecord,
	start time.Time,
) ([]models.WorkoutEntry, error) {
	end := start.AddDate(0, 0, 13)

	var qa strings.Builder
	for _, pair := range record.Context.QAPairs {
		fmt.Fprintf(&qa, "  Q: %s A: %s\n", pair.Question, pair.Answer)
	}
	if qa.Len() == 0 {
		qa.WriteString("  (none)\n")
	}

	prompt := fmt.Sprintf(
		"Create a 2-week fitness plan covering %s to %s for this user:\n%s\nGoal context:\n%s\n"+
			"Return ONLY a JSON array of workout entries. Each entry must have the fields: "+
			"date_of_workout (ISO date), exercise_name, exercise_description, rep_count (integer), "+
			"muscle_group, expected_calories_burnt (number), weight_to_lift_suggestion (number, kg; 0 for bodyweight). "+
			"Schedule 3-5 exercises per training day with sensible rest days.",
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		profileContext(record), qa.String(),
	)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](0.4),
			MaxOutputTokens:  8192,
			ResponseMIMEType: "application/json",
		})
	if err != nil {
		return nil, fmt.Errorf("generate workout plan: %w", err)
	}

	var entries []models.WorkoutEntry
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Text())), &entries); err != nil {
		return nil, fmt.Errorf("parse workout plan: %w", err)
	}
	return entries, nil
}

func profileContext(record *models.HealthRecord) string {
	if record == nil {
		return ""
	}

	parts := []string{}
	if record.Age != nil {
		parts = append(parts, fmt.Sprintf("- Age: %d", *record.Age))
	}
	if record.Height != nil {
		parts = append(parts, fmt.Sprintf("- Height: %g cm", *record.Height))
	}
	if record.Weight != nil {
		parts = append(parts, fmt.Sprintf("- Weight: %g kg", *record.Weight))
	}
	if record.Gender != "" {
		parts = append(parts, fmt.Sprintf("- Gender: %s", record.Gender))
	}
	if record.FitnessGoal != "" {
		parts = append(parts, fmt.Sprintf("- Fitness Goal: %s", record.FitnessGoal))
	}
	if len(parts) == 0 {
		return ""
	}
	return "User Profile Information:\n" + strings.Join(parts, "\n") + "\n"
}

// UnconfiguredGemini stands in for GeminiService when no API key is set.
// Chat replies and plan generation fail outright; onboarding degrades to
// completion because its follow-up call is best-effort.
type UnconfiguredGemini struct{}

func (UnconfiguredGemini) Reply(context.Context, string, []models.ChatMessage, *models.HealthRecord) (string, error) {
	return "", fmt.Errorf("AI service is not configured")
}

func (UnconfiguredGemini) FollowUpQuestions(context.Context, *models.HealthRecord, string) ([]string, error) {
	return nil, fmt.Errorf("AI service is not configured")
}

func (UnconfiguredGemini) WorkoutPlan(context.Context, *models.HealthRecord, time.Time) ([]models.WorkoutEntry, error) {
	return nil, fmt.Errorf("AI service is not configured")
}

// stripCodeFence unwraps ```json fenced blocks some model responses arrive in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "```") {
		return text
	}
	parts := strings.SplitN(text, "```", 3)
	if len(parts) < 2 {
		return text
	}
	inner := strings.TrimPrefix(strings.TrimSpace(parts[1]), "json")
	return strings.TrimSpace(inner)
}
