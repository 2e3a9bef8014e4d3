package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

type stubChatHistory struct {
	messages []models.ChatMessage
	listErr  error
}

func (s *stubChatHistory) Append(_ context.Context, userID, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:      int64(len(s.messages) + 1),
		UserID:  userID,
		Role:    role,
		Content: content,
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}

func (s *stubChatHistory) ListRecent(_ context.Context, _ string, limit, offset int) ([]models.ChatMessage, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	// Newest first, like the SQL query.
	out := []models.ChatMessage{}
	for i := len(s.messages) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.messages[i])
	}
	return out, len(s.messages), nil
}

type stubReplyGenerator struct {
	answer     string
	err        error
	gotHistory []models.ChatMessage
	gotRecord  *models.HealthRecord
}

func (s *stubReplyGenerator) Reply(_ context.Context, _ string, history []models.ChatMessage, record *models.HealthRecord) (string, error) {
	s.gotHistory = history
	s.gotRecord = record
	return s.answer, s.err
}

func TestChatReplyPersistsBothTurns(t *testing.T) {
	history := &stubChatHistory{}
	ai := &stubReplyGenerator{answer: "Aim for 3 sessions a week."}
	service := NewChatService(history, newStubRecordStore(), ai)

	answer, err := service.Reply(context.Background(), "u1", "  How often should I train?  ")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if answer != ai.answer {
		t.Fatalf("expected the model answer, got %q", answer)
	}
	if got := len(history.messages); got != 2 {
		t.Fatalf("expected 2 persisted messages, got %d", got)
	}
	if history.messages[0].Role != models.ChatRoleUser || history.messages[0].Content != "How often should I train?" {
		t.Fatalf("unexpected user message: %+v", history.messages[0])
	}
	if history.messages[1].Role != models.ChatRoleAssistant || history.messages[1].Content != ai.answer {
		t.Fatalf("unexpected assistant message: %+v", history.messages[1])
	}
	if ai.gotRecord != nil {
		t.Fatalf("expected nil record when none is on file, got %+v", ai.gotRecord)
	}
}

func TestChatReplyPassesChronologicalHistory(t *testing.T) {
	history := &stubChatHistory{}
	_, _ = history.Append(context.Background(), "u1", models.ChatRoleUser, "first")
	_, _ = history.Append(context.Background(), "u1", models.ChatRoleAssistant, "second")
	ai := &stubReplyGenerator{answer: "ok"}
	service := NewChatService(history, newStubRecordStore(), ai)

	if _, err := service.Reply(context.Background(), "u1", "third"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if got := len(ai.gotHistory); got != 2 {
		t.Fatalf("expected 2 history messages, got %d", got)
	}
	if ai.gotHistory[0].Content != "first" || ai.gotHistory[1].Content != "second" {
		t.Fatalf("expected chronological order, got %q then %q", ai.gotHistory[0].Content, ai.gotHistory[1].Content)
	}
}

func TestChatReplyRejectsEmptyMessage(t *testing.T) {
	service := NewChatService(&stubChatHistory{}, newStubRecordStore(), &stubReplyGenerator{})

	if _, err := service.Reply(context.Background(), "u1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestChatReplyGeneratorFailureDoesNotPersist(t *testing.T) {
	history := &stubChatHistory{}
	service := NewChatService(history, newStubRecordStore(), &stubReplyGenerator{err: errors.New("model unavailable")})

	if _, err := service.Reply(context.Background(), "u1", "hello"); err == nil {
		t.Fatal("expected error from generator failure")
	}
	if got := len(history.messages); got != 0 {
		t.Fatalf("expected no persisted messages on failure, got %d", got)
	}
}

func TestChatReplyIncludesHealthRecordContext(t *testing.T) {
	store := newStubRecordStore()
	seedGoalPhase(store, "u1")
	ai := &stubReplyGenerator{answer: "ok"}
	service := NewChatService(&stubChatHistory{}, store, ai)

	if _, err := service.Reply(context.Background(), "u1", "hello"); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if ai.gotRecord == nil || ai.gotRecord.Gender != "male" {
		t.Fatalf("expected the health record as context, got %+v", ai.gotRecord)
	}
}

func TestChatHistoryValidatesPagination(t *testing.T) {
	service := NewChatService(&stubChatHistory{}, newStubRecordStore(), &stubReplyGenerator{})

	if _, _, err := service.History(context.Background(), "u1", 0, 20); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for page 0, got %v", err)
	}
	if _, _, err := service.History(context.Background(), "u1", 1, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative limit, got %v", err)
	}
}

func TestChatHistoryPaginatesNewestFirst(t *testing.T) {
	history := &stubChatHistory{}
	for _, content := range []string{"a", "b", "c"} {
		_, _ = history.Append(context.Background(), "u1", models.ChatRoleUser, content)
	}
	service := NewChatService(history, newStubRecordStore(), &stubReplyGenerator{})

	messages, total, err := service.History(context.Background(), "u1", 1, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(messages) != 2 || messages[0].Content != "c" || messages[1].Content != "b" {
		t.Fatalf("expected newest-first page [c b], got %+v", messages)
	}
}

// Storage failures on record lookup must not be silently treated as "no
// record"; only a missing record is.
func TestChatReplyPropagatesRecordStoreErrors(t *testing.T) {
	service := NewChatService(&stubChatHistory{}, failingRecordReader{}, &stubReplyGenerator{})

	if _, err := service.Reply(context.Background(), "u1", "hello"); err == nil {
		t.Fatal("expected error when the record store fails")
	}
}

type failingRecordReader struct{}

func (failingRecordReader) Get(context.Context, string, string) (*models.HealthRecord, error) {
	return nil, errors.New("dynamo is down")
}
