package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/storage"
	"go.uber.org/zap"
)

const sessionsCollection = "voting_sessions"

type VotingRepository struct {
	db storage.Store
	l  *zap.Logger
}

func NewVotingRepository(db storage.Store, l *zap.Logger) *VotingRepository {
	return &VotingRepository{
		db: db,
		l:  l,
	}
}

func (r *VotingRepository) Create(ctx context.Context, session *models.VotingSession) error {
	r.l.Debug("creating voting session",
		zap.String("id", session.ID),
		zap.String("competition_id", session.CompetitionID))
	if err := r.db.Insert(ctx, sessionsCollection, session.ID, session); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

func (r *VotingRepository) Get(ctx context.Context, id string) (*models.VotingSession, error) {
	var session models.VotingSession
	err := r.db.FindOne(ctx, sessionsCollection, storage.Filter{"id": id}, &session)
	if errors.Is(err, storage.ErrNotFound) {
		r.l.Debug("voting session not found", zap.String("id", id))
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return &session, nil
}

func (r *VotingRepository) Save(ctx context.Context, session *models.VotingSession) error {
	err := r.db.Replace(ctx, sessionsCollection, session.ID, session)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("repository: database replace error: %w", err)
	}
	return nil
}

func (r *VotingRepository) ListActive(ctx context.Context, competitionID string) ([]models.VotingSession, error) {
	var sessions []models.VotingSession
	filter := storage.Filter{"competition_id": competitionID, "is_active": true}
	if err := r.db.Find(ctx, sessionsCollection, filter, &sessions); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return sessions, nil
}
