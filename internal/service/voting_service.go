package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/repository"
	"go.uber.org/zap"
)

// VotingService is the live-poll state machine: a session is created
// active, collects at most one vote per voter, and ends exactly once.
// All tally mutations for one session go through a per-session lock, so
// concurrent submissions cannot lose updates.
type VotingService struct {
	r     *repository.VotingRepository
	b     Broadcaster
	l     *zap.Logger
	locks keyedMutex
}

func NewVotingService(r *repository.VotingRepository, b Broadcaster, l *zap.Logger) *VotingService {
	return &VotingService{
		r: r,
		b: b,
		l: l,
	}
}

func (s *VotingService) Create(ctx context.Context, competitionID, question string, options []string) (*models.VotingSession, error) {
	if question == "" {
		return nil, models.ErrQuestionIsEmpty
	}
	if len(options) < 2 {
		return nil, models.ErrNotEnoughOptions
	}
	votes := make(map[string]int, len(options))
	for _, option := range options {
		if option == "" {
			return nil, models.ErrOptionIsEmpty
		}
		if _, ok := votes[option]; ok {
			return nil, models.ErrDuplicateOption
		}
		votes[option] = 0
	}

	session := &models.VotingSession{
		ID:            uuid.NewString(),
		CompetitionID: competitionID,
		Question:      question,
		Options:       options,
		Votes:         votes,
		VoterIDs:      []string{},
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.r.Create(ctx, session); err != nil {
		s.l.Error("failed to create voting session", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create voting session: %w", err)
	}

	s.b.Broadcast(competitionID, newEvent(EventVotingStarted, "session", session))
	return session, nil
}

func (s *VotingService) SubmitVote(ctx context.Context, sessionID, voterID, option string) (*models.VotingSession, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.r.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, err
		}
		s.l.Error("failed to load voting session", zap.Error(err))
		return nil, fmt.Errorf("service: failed to submit vote: %w", err)
	}
	if !session.IsActive {
		s.l.Debug("voting session is closed", zap.String("session_id", sessionID))
		return nil, models.ErrVotingClosed
	}
	if session.HasVoter(voterID) {
		s.l.Debug("vote already exists",
			zap.String("session_id", sessionID),
			zap.String("voter_id", voterID))
		return nil, models.ErrVoteAlreadyExists
	}
	if _, ok := session.Votes[option]; !ok {
		s.l.Debug("option not found",
			zap.String("session_id", sessionID),
			zap.String("option", option))
		return nil, models.ErrOptionNotFound
	}

	session.Votes[option]++
	session.VoterIDs = append(session.VoterIDs, voterID)
	if err := s.r.Save(ctx, session); err != nil {
		s.l.Error("failed to save vote", zap.Error(err))
		return nil, fmt.Errorf("service: failed to submit vote: %w", err)
	}

	s.b.Broadcast(session.CompetitionID, newEvent(EventVotingUpdate, "session", session))
	return session, nil
}

// End closes the session. Ending an already closed session is not an error.
func (s *VotingService) End(ctx context.Context, sessionID string) (*models.VotingSession, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.r.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil, err
		}
		s.l.Error("failed to load voting session", zap.Error(err))
		return nil, fmt.Errorf("service: failed to end voting session: %w", err)
	}
	if session.IsActive {
		session.IsActive = false
		if err := s.r.Save(ctx, session); err != nil {
			s.l.Error("failed to end voting session", zap.Error(err))
			return nil, fmt.Errorf("service: failed to end voting session: %w", err)
		}
	}

	s.b.Broadcast(session.CompetitionID, newEvent(EventVotingEnded, "session", session))
	return session, nil
}

// EndAllForCompetition closes every active session of the competition.
// Each close runs under the session's own lock, so an in-flight vote
// can never write an active snapshot back over the close. Returns how
// many sessions were closed.
func (s *VotingService) EndAllForCompetition(ctx context.Context, competitionID string) (int, error) {
	sessions, err := s.r.ListActive(ctx, competitionID)
	if err != nil {
		s.l.Error("failed to list voting sessions", zap.Error(err))
		return 0, fmt.Errorf("service: failed to close voting sessions: %w", err)
	}
	closed := 0
	for _, session := range sessions {
		if err := s.close(ctx, session.ID); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

func (s *VotingService) close(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	session, err := s.r.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return nil
		}
		s.l.Error("failed to load voting session", zap.Error(err))
		return fmt.Errorf("service: failed to close voting sessions: %w", err)
	}
	if !session.IsActive {
		return nil
	}
	session.IsActive = false
	if err := s.r.Save(ctx, session); err != nil {
		s.l.Error("failed to close voting session", zap.Error(err))
		return fmt.Errorf("service: failed to close voting sessions: %w", err)
	}
	return nil
}

func (s *VotingService) ListActive(ctx context.Context, competitionID string) ([]models.VotingSession, error) {
	sessions, err := s.r.ListActive(ctx, competitionID)
	if err != nil {
		s.l.Error("failed to list voting sessions", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list voting sessions: %w", err)
	}
	return sessions, nil
}
