package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/service"
	"github.com/skillarena/backend/internal/ws"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub          *ws.Hub
	competitions *service.CompetitionService
	l            *zap.Logger
}

func NewWSHandler(hub *ws.Hub, competitions *service.CompetitionService, l *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:          hub,
		competitions: competitions,
		l:            l,
	}
}

// Serve upgrades the request and attaches the connection to the
// competition's room for the lifetime of the socket.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	competitionID := chi.URLParam(r, "id")
	if _, err := h.competitions.Get(r.Context(), competitionID); err != nil {
		if errors.Is(err, models.ErrCompetitionNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		respondError(w, h.l, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.l.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(uuid.NewString(), competitionID, conn, h.hub, h.l)
	client.Start()
}
