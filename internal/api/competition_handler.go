package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillarena/backend/internal/service"
	"go.uber.org/zap"
)

type CompetitionHandler struct {
	s *service.CompetitionService
	l *zap.Logger
}

func NewCompetitionHandler(s *service.CompetitionService, l *zap.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		s: s,
		l: l,
	}
}

type createCompetitionRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MaxParticipants int    `json:"max_participants"`
	ModeratorID     string `json:"moderator_id"`
	VotingEnabled   bool   `json:"voting_enabled"`
}

func (h *CompetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCompetitionRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	competition, err := h.s.Create(r.Context(), req.Title, req.Description, req.MaxParticipants, req.ModeratorID, req.VotingEnabled)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

func (h *CompetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.s.List(r.Context())
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competitions)
}

func (h *CompetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	competition, err := h.s.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

type joinRequest struct {
	UserID string `json:"user_id"`
}

func (h *CompetitionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	competition, err := h.s.Join(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

func (h *CompetitionHandler) Start(w http.ResponseWriter, r *http.Request) {
	competition, err := h.s.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

func (h *CompetitionHandler) End(w http.ResponseWriter, r *http.Request) {
	competition, err := h.s.End(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, competition)
}

type submitRatingRequest struct {
	ParticipantID string `json:"participant_id"`
	VoterID       string `json:"voter_id"`
	Rating        int    `json:"rating"`
}

func (h *CompetitionHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req submitRatingRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	vote, err := h.s.SubmitRating(r.Context(), chi.URLParam(r, "id"), req.ParticipantID, req.VoterID, req.Rating)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, vote)
}

func (h *CompetitionHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.s.Results(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
