package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillarena/backend/internal/models"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps the service error taxonomy onto HTTP statuses:
// missing entities are 404, lifecycle and validation failures are 400,
// anything unexpected is 500.
func respondError(w http.ResponseWriter, l *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrCompetitionNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrMessageNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrMenuItemNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrCompetitionFull),
		errors.Is(err, models.ErrCompetitionNotWaiting),
		errors.Is(err, models.ErrCompetitionEnded),
		errors.Is(err, models.ErrVotingClosed),
		errors.Is(err, models.ErrVoteAlreadyExists),
		errors.Is(err, models.ErrOptionNotFound),
		errors.Is(err, models.ErrQuestionIsEmpty),
		errors.Is(err, models.ErrOptionIsEmpty),
		errors.Is(err, models.ErrNotEnoughOptions),
		errors.Is(err, models.ErrDuplicateOption),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrUserExists):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		l.Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong"})
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
