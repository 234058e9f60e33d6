package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillarena/backend/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	s *service.ChatService
	l *zap.Logger
}

func NewChatHandler(s *service.ChatService, l *zap.Logger) *ChatHandler {
	return &ChatHandler{
		s: s,
		l: l,
	}
}

type sendMessageRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	message, err := h.s.Send(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Username, req.Text)
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, message)
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.s.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	if err := h.s.Moderate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.l, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "message moderated"})
}
