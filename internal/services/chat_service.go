package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/repository"
)

// historyContextLimit bounds how many stored messages are replayed to the
// model as conversation context.
const historyContextLimit = 10

type chatHistoryStore interface {
	Append(ctx context.Context, userID, role, content string) (*models.ChatMessage, error)
	ListRecent(ctx context.Context, userID string, limit, offset int) ([]models.ChatMessage, int, error)
}

type healthRecordReader interface {
	Get(ctx context.Context, userID, timestamp string) (*models.HealthRecord, error)
}

type replyGenerator interface {
	Reply(ctx context.Context, message string, history []models.ChatMessage, record *models.HealthRecord) (string, error)
}

// ChatService answers general-purpose fitness questions with the user's health
// record and recent conversation history as model context.
type ChatService struct {
	history chatHistoryStore
	records healthRecordReader
	ai      replyGenerator
}

func NewChatService(history chatHistoryStore, records healthRecordReader, ai replyGenerator) *ChatService {
	return &ChatService{
		history: history,
		records: records,
		ai:      ai,
	}
}

func (s *ChatService) Reply(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrInvalidInput
	}

	record, err := s.records.Get(ctx, userID, models.HealthProfileTimestamp)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		record = nil
	}

	recent, _, err := s.history.ListRecent(ctx, userID, historyContextLimit, 0)
	if err != nil {
		return "", err
	}
	// ListRecent is newest-first; the model wants chronological order.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	answer, err := s.ai.Reply(ctx, message, recent, record)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	if _, err := s.history.Append(ctx, userID, models.ChatRoleUser, message); err != nil {
		return "", err
	}
	if _, err := s.history.Append(ctx, userID, models.ChatRoleAssistant, answer); err != nil {
		return "", err
	}

	return answer, nil
}

func (s *ChatService) History(ctx context.Context, userID string, page, limit int) ([]models.ChatMessage, int, error) {
	if page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.history.ListRecent(ctx, userID, limit, (page-1)*limit)
}
