package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrOnboardingComplete = errors.New("onboarding complete")
)

// MaxChatMessageLength caps user messages on the chat endpoints.
const MaxChatMessageLength = 2000

const completionMessage = "Thanks, that's everything I need! Your profile is all set. " +
	"Ask me anything about training, nutrition or recovery whenever you're ready."

type healthRecordStore interface {
	Get(ctx context.Context, userID, timestamp string) (*models.HealthRecord, error)
	Put(ctx context.Context, record *models.HealthRecord) error
}

// followUpGenerator is the fallible text-generation collaborator. A failure is
// never fatal to onboarding; the caller degrades to an empty question list.
type followUpGenerator interface {
	FollowUpQuestions(ctx context.Context, record *models.HealthRecord, goal string) ([]string, error)
}

// OnboardingService advances the health-onboarding state machine. The persisted
// health record is the sole source of truth for the current phase; phases move
// strictly forward (ask_fixed, ask_goal, follow_up, complete) and complete is
// terminal.
type OnboardingService struct {
	records   healthRecordStore
	generator followUpGenerator
	now       func() time.Time
}

func NewOnboardingService(records healthRecordStore, generator followUpGenerator) *OnboardingService {
	return &OnboardingService{
		records:   records,
		generator: generator,
		now:       time.Now,
	}
}

// OnboardingReply is the prompt presented to the user and the phase the stored
// record is in after the transition.
type OnboardingReply struct {
	Response string
	Phase    models.OnboardingPhase
}

// Advance applies one user message to the state machine. An empty message
// re-presents the current prompt without mutating the record, so page reloads
// are idempotent. Once the phase is complete, non-empty messages return
// ErrOnboardingComplete and the caller routes them to general chat.
func (s *OnboardingService) Advance(ctx context.Context, userID, message string) (*OnboardingReply, error) {
	record, err := s.records.Get(ctx, userID, models.HealthProfileTimestamp)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		ts := s.now().UTC().Format(time.RFC3339)
		record = &models.HealthRecord{
			UserID:    userID,
			Timestamp: models.HealthProfileTimestamp,
			CreatedAt: ts,
		}
	}

	message = strings.TrimSpace(message)

	switch record.Phase {
	case "":
		return s.begin(ctx, record)
	case models.PhaseAskFixed:
		if message == "" {
			return s.currentPrompt(record), nil
		}
		return s.recordFixedStat(ctx, record, message)
	case models.PhaseAskGoal:
		if message == "" {
			return s.currentPrompt(record), nil
		}
		return s.recordGoal(ctx, record, message)
	case models.PhaseFollowUp:
		if message == "" {
			return s.currentPrompt(record), nil
		}
		return s.recordAnswer(ctx, record, message)
	case models.PhaseComplete:
		if message == "" {
			return &OnboardingReply{Response: completionMessage, Phase: models.PhaseComplete}, nil
		}
		return nil, ErrOnboardingComplete
	default:
		return nil, fmt.Errorf("unknown onboarding phase %q", record.Phase)
	}
}

// begin handles the first contact for a user with no phase yet. If fixed stats
// are already on file the goal question comes immediately.
func (s *OnboardingService) begin(ctx context.Context, record *models.HealthRecord) (*OnboardingReply, error) {
	if len(missingFixedStats(record)) > 0 {
		record.Phase = models.PhaseAskFixed
	} else {
		record.Phase = models.PhaseAskGoal
	}
	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	return s.currentPrompt(record), nil
}

func (s *OnboardingService) recordFixedStat(ctx context.Context, record *models.HealthRecord, answer string) (*OnboardingReply, error) {
	missing := missingFixedStats(record)
	if len(missing) == 0 {
		// Stats arrived through the profile endpoint since the last message.
		record.Phase = models.PhaseAskGoal
		if err := s.persist(ctx, record); err != nil {
			return nil, err
		}
		return s.currentPrompt(record), nil
	}

	if err := setFixedStat(record, missing[0], answer); err != nil {
		// Invalid answer re-asks without persisting; the phase is unchanged.
		return &OnboardingReply{
			Response: err.Error() + " " + fixedStatPrompts[missing[0]],
			Phase:    models.PhaseAskFixed,
		}, nil
	}

	if len(missingFixedStats(record)) == 0 {
		record.Phase = models.PhaseAskGoal
	}
	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	return s.currentPrompt(record), nil
}

func (s *OnboardingService) recordGoal(ctx context.Context, record *models.HealthRecord, goal string) (*OnboardingReply, error) {
	record.FitnessGoal = goal

	questions, err := s.generator.FollowUpQuestions(ctx, record, goal)
	if err != nil {
		questions = nil
	}
	if len(questions) > 3 {
		questions = questions[:3]
	}

	if len(questions) == 0 {
		record.Phase = models.PhaseComplete
		if err := s.persist(ctx, record); err != nil {
			return nil, err
		}
		return &OnboardingReply{Response: completionMessage, Phase: models.PhaseComplete}, nil
	}

	record.Context.PendingQuestions = questions
	record.Phase = models.PhaseFollowUp
	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	return &OnboardingReply{Response: questions[0], Phase: models.PhaseFollowUp}, nil
}

func (s *OnboardingService) recordAnswer(ctx context.Context, record *models.HealthRecord, answer string) (*OnboardingReply, error) {
	pending := record.Context.PendingQuestions
	if len(pending) == 0 {
		record.Phase = models.PhaseComplete
		if err := s.persist(ctx, record); err != nil {
			return nil, err
		}
		return &OnboardingReply{Response: completionMessage, Phase: models.PhaseComplete}, nil
	}

	record.Context.QAPairs = append(record.Context.QAPairs, models.QAPair{
		Question: pending[0],
		Answer:   answer,
	})
	record.Context.PendingQuestions = pending[1:]

	if len(record.Context.PendingQuestions) == 0 {
		record.Phase = models.PhaseComplete
		if err := s.persist(ctx, record); err != nil {
			return nil, err
		}
		return &OnboardingReply{Response: completionMessage, Phase: models.PhaseComplete}, nil
	}

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}
	return &OnboardingReply{Response: record.Context.PendingQuestions[0], Phase: models.PhaseFollowUp}, nil
}

func (s *OnboardingService) persist(ctx context.Context, record *models.HealthRecord) error {
	record.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return s.records.Put(ctx, record)
}

func (s *OnboardingService) currentPrompt(record *models.HealthRecord) *OnboardingReply {
	switch record.Phase {
	case models.PhaseAskFixed:
		missing := missingFixedStats(record)
		if len(missing) == 0 {
			return &OnboardingReply{Response: fixedStatsIntro(record), Phase: models.PhaseAskFixed}
		}
		return &OnboardingReply{Response: fixedStatPrompts[missing[0]], Phase: models.PhaseAskFixed}
	case models.PhaseFollowUp:
		if len(record.Context.PendingQuestions) > 0 {
			return &OnboardingReply{Response: record.Context.PendingQuestions[0], Phase: models.PhaseFollowUp}
		}
		return &OnboardingReply{Response: completionMessage, Phase: models.PhaseFollowUp}
	default:
		return &OnboardingReply{Response: fixedStatsIntro(record), Phase: models.PhaseAskGoal}
	}
}

const (
	statAge    = "age"
	statHeight = "height"
	statWeight = "weight"
	statGender = "gender"
)

var fixedStatOrder = []string{statAge, statHeight, statWeight, statGender}

var fixedStatPrompts = map[string]string{
	statAge:    "How old are you?",
	statHeight: "What is your height in centimeters?",
	statWeight: "What is your weight in kilograms?",
	statGender: "What is your gender?",
}

func missingFixedStats(record *models.HealthRecord) []string {
	missing := []string{}
	for _, stat := range fixedStatOrder {
		switch stat {
		case statAge:
			if record.Age == nil {
				missing = append(missing, stat)
			}
		case statHeight:
			if record.Height == nil {
				missing = append(missing, stat)
			}
		case statWeight:
			if record.Weight == nil {
				missing = append(missing, stat)
			}
		case statGender:
			if record.Gender == "" {
				missing = append(missing, stat)
			}
		}
	}
	return missing
}

func setFixedStat(record *models.HealthRecord, stat, answer string) error {
	switch stat {
	case statAge:
		age, err := strconv.Atoi(answer)
		if err != nil || age < 1 || age > 150 {
			return errors.New("Age must be a number between 1 and 150.")
		}
		record.Age = &age
	case statHeight:
		height, err := strconv.ParseFloat(answer, 64)
		if err != nil || height <= 0 {
			return errors.New("Height must be a positive number.")
		}
		record.Height = &height
	case statWeight:
		weight, err := strconv.ParseFloat(answer, 64)
		if err != nil || weight <= 0 {
			return errors.New("Weight must be a positive number.")
		}
		record.Weight = &weight
	case statGender:
		record.Gender = strings.ToLower(answer)
	}
	return nil
}

func fixedStatsIntro(record *models.HealthRecord) string {
	parts := []string{"Here's what I have on file for you:", ""}
	if record.Age != nil {
		parts = append(parts, fmt.Sprintf("- Age: %d", *record.Age))
	}
	if record.Height != nil {
		parts = append(parts, fmt.Sprintf("- Height: %g", *record.Height))
	}
	if record.Weight != nil {
		parts = append(parts, fmt.Sprintf("- Weight: %g", *record.Weight))
	}
	if record.Gender != "" {
		parts = append(parts, fmt.Sprintf("- Gender: %s", record.Gender))
	}
	if len(parts) == 2 {
		parts = []string{"I'd like to tailor advice to you."}
	}
	parts = append(parts, "",
		"What is your main fitness goal right now? (e.g. lose weight, build muscle, improve endurance)")
	return strings.Join(parts, "\n")
}
