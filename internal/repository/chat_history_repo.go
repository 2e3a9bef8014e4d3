package repository

import (
	"context"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

type ChatHistoryRepository struct {
	db DBTX
}

func NewChatHistoryRepository(db DBTX) *ChatHistoryRepository {
	return &ChatHistoryRepository{db: db}
}

func (r *ChatHistoryRepository) Append(
	ctx context.Context,
	userID string,
	role string,
	content string,
) (*models.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (user_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, role, content, created_at
	`

	var message models.ChatMessage
	err := r.db.QueryRow(ctx, query, userID, role, content).Scan(
		&message.ID,
		&message.UserID,
		&message.Role,
		&message.Content,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListRecent returns the newest messages first.
func (r *ChatHistoryRepository) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
	offset int,
) ([]models.ChatMessage, int, error) {
	totalQuery := `
		SELECT COUNT(*)
		FROM chat_messages
		WHERE user_id = $1
	`

	var total int
	if err := r.db.QueryRow(ctx, totalQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var message models.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, 0, err
		}

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
