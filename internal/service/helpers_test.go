package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/skillarena/backend/internal/models"
	"github.com/skillarena/backend/internal/repository"
	"github.com/skillarena/backend/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder captures broadcast payloads per room.
type recorder struct {
	mu     sync.Mutex
	events map[string][][]byte
}

func newRecorder() *recorder {
	return &recorder{events: make(map[string][][]byte)}
}

func (r *recorder) Broadcast(roomID string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[roomID] = append(r.events[roomID], payload)
}

func (r *recorder) types(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []string
	for _, payload := range r.events[roomID] {
		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &event); err == nil {
			types = append(types, event.Type)
		}
	}
	return types
}

type testEnv struct {
	broadcast    *recorder
	competitions *CompetitionService
	voting       *VotingService
	chat         *ChatService
	menu         *MenuService
}

func newTestEnv() *testEnv {
	store := storage.NewMemStore()
	log := zap.NewNop()
	broadcast := newRecorder()

	competitionRepo := repository.NewCompetitionRepository(store, log)
	votingRepo := repository.NewVotingRepository(store, log)
	chatRepo := repository.NewChatRepository(store, log)
	menuRepo := repository.NewMenuRepository(store, log)

	voting := NewVotingService(votingRepo, broadcast, log)
	return &testEnv{
		broadcast:    broadcast,
		competitions: NewCompetitionService(competitionRepo, voting, broadcast, log),
		voting:       voting,
		chat:         NewChatService(chatRepo, competitionRepo, broadcast, log),
		menu:         NewMenuService(menuRepo, log),
	}
}

func (e *testEnv) newCompetition(t *testing.T, maxParticipants int) *models.Competition {
	t.Helper()
	competition, err := e.competitions.Create(context.Background(), "Cook-off", "live cooking battle", maxParticipants, "mod-1", true)
	require.NoError(t, err)
	return competition
}
