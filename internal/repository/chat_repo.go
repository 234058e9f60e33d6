package repository

import (
	"context"
	"fmt"

	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/storage"
	"go.uber.org/zap"
)

const messagesCollection = "messages"

type ChatRepository struct {
	db storage.Store
	l  *zap.Logger
}

func NewChatRepository(db storage.Store, l *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db: db,
		l:  l,
	}
}

func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.Insert(ctx, messagesCollection, message.ID, message); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

func (r *ChatRepository) List(ctx context.Context, competitionID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	filter := storage.Filter{"competition_id": competitionID}
	if err := r.db.Find(ctx, messagesCollection, filter, &messages); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return messages, nil
}

// Moderate flags the message as redacted. The message itself is kept.
func (r *ChatRepository) Moderate(ctx context.Context, messageID string) error {
	updated, err := r.db.Update(ctx, messagesCollection,
		storage.Filter{"id": messageID},
		storage.Patch{"is_moderated": true})
	if err != nil {
		return fmt.Errorf("repository: database update error: %w", err)
	}
	if updated == 0 {
		r.l.Debug("message not found", zap.String("id", messageID))
		return models.ErrMessageNotFound
	}
	return nil
}
