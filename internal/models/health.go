package models

// OnboardingPhase is the health-onboarding state machine's current step.
// Phases only advance forward; PhaseComplete is terminal.
type OnboardingPhase string

const (
	PhaseAskFixed OnboardingPhase = "ask_fixed"
	PhaseAskGoal  OnboardingPhase = "ask_goal"
	PhaseFollowUp OnboardingPhase = "follow_up"
	PhaseComplete OnboardingPhase = "complete"
)

// HealthProfileTimestamp is the fixed sort-key value of the single onboarding
// record each user has in the health_data table. Other timestamps hold
// point-in-time health entries.
const HealthProfileTimestamp = "health_profile"

type QAPair struct {
	Question string `json:"question" dynamodbav:"question"`
	Answer   string `json:"answer" dynamodbav:"answer"`
}

// OnboardingContext accumulates the goal-specific follow-up dialogue.
// PendingQuestions shrinks by one per answered message; QAPairs grows by one.
type OnboardingContext struct {
	QAPairs          []QAPair `json:"qa_pairs" dynamodbav:"qa_pairs"`
	PendingQuestions []string `json:"pending_questions" dynamodbav:"pending_questions"`
}

type HealthRecord struct {
	UserID      string            `json:"user_id" dynamodbav:"user_id"`
	Timestamp   string            `json:"timestamp" dynamodbav:"timestamp"`
	Age         *int              `json:"age,omitempty" dynamodbav:"age,omitempty"`
	Height      *float64          `json:"height,omitempty" dynamodbav:"height,omitempty"`
	Weight      *float64          `json:"weight,omitempty" dynamodbav:"weight,omitempty"`
	Gender      string            `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	FitnessGoal string            `json:"fitness_goal,omitempty" dynamodbav:"fitness_goal,omitempty"`
	Phase       OnboardingPhase   `json:"phase,omitempty" dynamodbav:"phase,omitempty"`
	Context     OnboardingContext `json:"context" dynamodbav:"context"`
	CreatedAt   string            `json:"created_at,omitempty" dynamodbav:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}
