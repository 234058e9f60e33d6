package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/storage"
	"go.uber.org/zap"
)

const (
	competitionsCollection = "competitions"
	ratingsCollection      = "ratings"
)

type CompetitionRepository struct {
	db storage.Store
	l  *zap.Logger
}

func NewCompetitionRepository(db storage.Store, l *zap.Logger) *CompetitionRepository {
	return &CompetitionRepository{
		db: db,
		l:  l,
	}
}

func (r *CompetitionRepository) Create(ctx context.Context, competition *models.Competition) error {
	r.l.Debug("creating competition", zap.String("id", competition.ID), zap.String("title", competition.Title))
	if err := r.db.Insert(ctx, competitionsCollection, competition.ID, competition); err != nil {
		return fmt.Errorf("repository: database insert error: %w", err)
	}
	return nil
}

func (r *CompetitionRepository) Get(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	err := r.db.FindOne(ctx, competitionsCollection, storage.Filter{"id": id}, &competition)
	if errors.Is(err, storage.ErrNotFound) {
		r.l.Debug("competition not found", zap.String("id", id))
		return nil, models.ErrCompetitionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return &competition, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]models.Competition, error) {
	var competitions []models.Competition
	if err := r.db.Find(ctx, competitionsCollection, nil, &competitions); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return competitions, nil
}

// Save overwrites the stored competition with the given snapshot.
func (r *CompetitionRepository) Save(ctx context.Context, competition *models.Competition) error {
	err := r.db.Replace(ctx, competitionsCollection, competition.ID, competition)
	if errors.Is(err, storage.ErrNotFound) {
		return models.ErrCompetitionNotFound
	}
	if err != nil {
		return fmt.Errorf("repository: database replace error: %w", err)
	}
	return nil
}

// UpsertRating writes the rating for (competition, participant, voter),
// replacing an earlier rating by the same voter instead of duplicating it.
func (r *CompetitionRepository) UpsertRating(ctx context.Context, rating *models.Rating) error {
	filter := storage.Filter{
		"competition_id": rating.CompetitionID,
		"participant_id": rating.ParticipantID,
		"voter_id":       rating.VoterID,
	}
	var existing models.Rating
	err := r.db.FindOne(ctx, ratingsCollection, filter, &existing)
	if errors.Is(err, storage.ErrNotFound) {
		if err := r.db.Insert(ctx, ratingsCollection, rating.ID, rating); err != nil {
			return fmt.Errorf("repository: database insert error: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("repository: database select error: %w", err)
	}
	rating.ID = existing.ID
	rating.CreatedAt = existing.CreatedAt
	if err := r.db.Replace(ctx, ratingsCollection, existing.ID, rating); err != nil {
		return fmt.Errorf("repository: database replace error: %w", err)
	}
	return nil
}

func (r *CompetitionRepository) ListRatings(ctx context.Context, competitionID string) ([]models.Rating, error) {
	var ratings []models.Rating
	filter := storage.Filter{"competition_id": competitionID}
	if err := r.db.Find(ctx, ratingsCollection, filter, &ratings); err != nil {
		return nil, fmt.Errorf("repository: database select error: %w", err)
	}
	return ratings, nil
}
