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

// CompetitionService drives the waiting → active → ended lifecycle and
// the traditional per-participant rating votes. Ending a competition
// cascades to its live voting sessions.
type CompetitionService struct {
	r      *repository.CompetitionRepository
	voting *VotingService
	b      Broadcaster
	l      *zap.Logger
	locks  keyedMutex
}

func NewCompetitionService(r *repository.CompetitionRepository, voting *VotingService, b Broadcaster, l *zap.Logger) *CompetitionService {
	return &CompetitionService{
		r:      r,
		voting: voting,
		b:      b,
		l:      l,
	}
}

func (s *CompetitionService) Create(ctx context.Context, title, description string, maxParticipants int, moderatorID string, votingEnabled bool) (*models.Competition, error) {
	competition := &models.Competition{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		Status:          models.StatusWaiting,
		MaxParticipants: maxParticipants,
		Participants:    []string{},
		ModeratorID:     moderatorID,
		VotingEnabled:   votingEnabled,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.r.Create(ctx, competition); err != nil {
		s.l.Error("failed to create competition", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create competition: %w", err)
	}
	return competition, nil
}

func (s *CompetitionService) Get(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCompetitionNotFound) {
			return nil, err
		}
		s.l.Error("failed to get competition", zap.Error(err))
		return nil, fmt.Errorf("service: failed to get competition: %w", err)
	}
	return competition, nil
}

func (s *CompetitionService) List(ctx context.Context) ([]models.Competition, error) {
	competitions, err := s.r.List(ctx)
	if err != nil {
		s.l.Error("failed to list competitions", zap.Error(err))
		return nil, fmt.Errorf("service: failed to list competitions: %w", err)
	}
	return competitions, nil
}

// Join adds the user to the participant set. Joining twice is a no-op
// success; joining a full competition fails.
func (s *CompetitionService) Join(ctx context.Context, competitionID, userID string) (*models.Competition, error) {
	unlock := s.locks.lock(competitionID)
	defer unlock()

	competition, err := s.r.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.HasParticipant(userID) {
		return competition, nil
	}
	if len(competition.Participants) >= competition.MaxParticipants {
		s.l.Debug("competition is full", zap.String("competition_id", competitionID))
		return nil, models.ErrCompetitionFull
	}
	competition.Participants = append(competition.Participants, userID)
	if err := s.r.Save(ctx, competition); err != nil {
		s.l.Error("failed to join competition", zap.Error(err))
		return nil, fmt.Errorf("service: failed to join competition: %w", err)
	}
	return competition, nil
}

// Start moves a waiting competition to active and notifies the room.
// Starting an already started or ended competition is rejected.
func (s *CompetitionService) Start(ctx context.Context, competitionID string) (*models.Competition, error) {
	unlock := s.locks.lock(competitionID)
	defer unlock()

	competition, err := s.r.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.Status != models.StatusWaiting {
		s.l.Debug("competition is not waiting",
			zap.String("competition_id", competitionID),
			zap.String("status", string(competition.Status)))
		return nil, models.ErrCompetitionNotWaiting
	}
	now := time.Now().UTC()
	competition.Status = models.StatusActive
	competition.StartTime = &now
	if err := s.r.Save(ctx, competition); err != nil {
		s.l.Error("failed to start competition", zap.Error(err))
		return nil, fmt.Errorf("service: failed to start competition: %w", err)
	}

	s.b.Broadcast(competitionID, newEvent(EventCompetitionStarted, "competition", competition))
	return competition, nil
}

// End moves the competition to its terminal state and forces every one
// of its voting sessions inactive before the room is notified.
func (s *CompetitionService) End(ctx context.Context, competitionID string) (*models.Competition, error) {
	unlock := s.locks.lock(competitionID)
	defer unlock()

	competition, err := s.r.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition.Status == models.StatusEnded {
		s.l.Debug("competition is already ended", zap.String("competition_id", competitionID))
		return nil, models.ErrCompetitionEnded
	}
	now := time.Now().UTC()
	competition.Status = models.StatusEnded
	competition.EndTime = &now
	if err := s.r.Save(ctx, competition); err != nil {
		s.l.Error("failed to end competition", zap.Error(err))
		return nil, fmt.Errorf("service: failed to end competition: %w", err)
	}
	closed, err := s.voting.EndAllForCompetition(ctx, competitionID)
	if err != nil {
		s.l.Error("failed to cascade voting sessions", zap.Error(err))
		return nil, fmt.Errorf("service: failed to end competition: %w", err)
	}
	s.l.Info("competition ended",
		zap.String("competition_id", competitionID),
		zap.Int("sessions_closed", closed))

	s.b.Broadcast(competitionID, newEvent(EventCompetitionEnded, "competition", competition))
	return competition, nil
}

// SubmitRating records a star vote for one participant. A second rating
// by the same voter for the same participant replaces the first. The
// competition lock serializes the find-then-write inside the upsert.
func (s *CompetitionService) SubmitRating(ctx context.Context, competitionID, participantID, voterID string, rating int) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, models.ErrInvalidRating
	}
	unlock := s.locks.lock(competitionID)
	defer unlock()

	if _, err := s.r.Get(ctx, competitionID); err != nil {
		return nil, err
	}
	vote := &models.Rating{
		ID:            uuid.NewString(),
		CompetitionID: competitionID,
		ParticipantID: participantID,
		VoterID:       voterID,
		Rating:        rating,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.r.UpsertRating(ctx, vote); err != nil {
		s.l.Error("failed to submit rating", zap.Error(err))
		return nil, fmt.Errorf("service: failed to submit rating: %w", err)
	}

	s.b.Broadcast(competitionID, newEvent(EventNewVote, "vote", vote))
	return vote, nil
}

// Results ranks participants by mean rating, descending. Ties keep the
// order in which participants first received a vote.
func (s *CompetitionService) Results(ctx context.Context, competitionID string) ([]models.ParticipantResult, error) {
	if _, err := s.r.Get(ctx, competitionID); err != nil {
		return nil, err
	}
	ratings, err := s.r.ListRatings(ctx, competitionID)
	if err != nil {
		s.l.Error("failed to load ratings", zap.Error(err))
		return nil, fmt.Errorf("service: failed to compute results: %w", err)
	}

	// tie-break must not depend on store iteration order
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].CreatedAt.Before(ratings[j].CreatedAt)
	})

	totals := make(map[string]int)
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rating := range ratings {
		if _, seen := counts[rating.ParticipantID]; !seen {
			order = append(order, rating.ParticipantID)
		}
		totals[rating.ParticipantID] += rating.Rating
		counts[rating.ParticipantID]++
	}

	results := make([]models.ParticipantResult, 0, len(order))
	for _, participantID := range order {
		results = append(results, models.ParticipantResult{
			ParticipantID: participantID,
			AverageRating: float64(totals[participantID]) / float64(counts[participantID]),
			VoteCount:     counts[participantID],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageRating > results[j].AverageRating
	})
	return results, nil
}
