package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillarena/backend/internal/service"
	"go.uber.org/zap"
)

type VotingHandler struct {
	s *service.VotingService
	l *zap.Logger
}

func NewVotingHandler(s *service.VotingService, l *zap.Logger) *VotingHandler {
	return &VotingHandler{
		s: s,
		l: l,
	}
}

type createSessionRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (h *VotingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	session, err := h.s.Create(r.Context(), chi.URLParam(r, "id"), req.Question, req.Options)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *VotingHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.s.ListActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

type submitVoteRequest struct {
	VoterID string `json:"voter_id"`
	Option  string `json:"option"`
}

func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req submitVoteRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	session, err := h.s.SubmitVote(r.Context(), chi.URLParam(r, "id"), req.VoterID, req.Option)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *VotingHandler) End(w http.ResponseWriter, r *http.Request) {
	session, err := h.s.End(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}
