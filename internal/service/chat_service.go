package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/repository"
	"go.uber.org/zap"
)

type ChatService struct {
	r            *repository.ChatRepository
	competitions *repository.CompetitionRepository
	b            Broadcaster
	l            *zap.Logger
}

func NewChatService(r *repository.ChatRepository, competitions *repository.CompetitionRepository, b Broadcaster, l *zap.Logger) *ChatService {
	return &ChatService{
		r:            r,
		competitions: competitions,
		b:            b,
		l:            l,
	}
}

func (s *ChatService) Send(ctx context.Context, competitionID, userID, username, text string) (*models.ChatMessage, error) {
	if _, err := s.competitions.Get(ctx, competitionID); err != nil {
		return nil, err
	}
	message := &models.ChatMessage{
		ID:            uuid.NewString(),
		CompetitionID: competitionID,
		UserID:        userID,
		Username:      username,
		Text:          text,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.r.Create(ctx, message); err != nil {
		s.l.Error("failed to save message", zap.Error(err))
		return nil, fmt.Errorf("service: failed to send message: %w", err)
	}

	s.b.Broadcast(competitionID, newEvent(EventNewMessage, "message", message))
	return message, nil
}

func (s *ChatService) List(ctx context.Context, competitionID string) ([]models.ChatMessage, error) {
	messages, err := s.r.List(ctx, competitionID)
	if err != nil {
		s.l.Error("failed to list messages", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// Moderate flags a message as redacted. The flag is never reversed.
func (s *ChatService) Moderate(ctx context.Context, messageID string) error {
	err := s.r.Moderate(ctx, messageID)
	if err != nil {
		if errors.Is(err, models.ErrMessageNotFound) {
			return err
		}
		s.l.Error("failed to moderate message", zap.Error(err))
		return fmt.Errorf("service: failed to moderate message: %w", err)
	}
	return nil
}
