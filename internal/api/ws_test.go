package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skillarena/backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialRoom(t *testing.T, baseURL, competitionID string) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(baseURL, "http://", "ws://", 1) + "/ws/competitions/" + competitionID
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForClients blocks until the hub has registered the expected number
// of connections; registration happens just after the upgrade handshake.
func waitForClients(t *testing.T, hub *ws.Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, clients := hub.Stats(); clients == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	_, clients := hub.Stats()
	t.Fatalf("expected %d connected clients, have %d", want, clients)
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return data
}

func TestWS_UnknownCompetition(t *testing.T) {
	server, _ := newTestServer(t)
	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws/competitions/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWS_RelaysInboundFramesToRoom(t *testing.T) {
	server, hub := newTestServer(t)
	competition := createCompetition(t, server.URL, 5)

	sender := dialRoom(t, server.URL, competition.ID)
	peer := dialRoom(t, server.URL, competition.ID)
	waitForClients(t, hub, 2)

	frame := []byte(`{"type":"cursor","x":3}`)
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, frame))

	// relayed verbatim to every member, the sender included
	assert.Equal(t, frame, readFrame(t, peer))
	assert.Equal(t, frame, readFrame(t, sender))
}

func TestWS_ReceivesServerEvents(t *testing.T) {
	server, hub := newTestServer(t)
	competition := createCompetition(t, server.URL, 5)

	client := dialRoom(t, server.URL, competition.ID)
	waitForClients(t, hub, 1)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/competitions/"+competition.ID+"/voting-sessions",
		map[string]interface{}{"question": "best dish?", "options": []string{"A", "B"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var event struct {
		Type    string `json:"type"`
		Session struct {
			Question string         `json:"question"`
			Votes    map[string]int `json:"votes"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(readFrame(t, client), &event))
	assert.Equal(t, "voting_started", event.Type)
	assert.Equal(t, "best dish?", event.Session.Question)
	assert.Equal(t, map[string]int{"A": 0, "B": 0}, event.Session.Votes)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/competitions/"+competition.ID+"/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var started struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(readFrame(t, client), &started))
	assert.Equal(t, "competition_started", started.Type)
}

func TestWS_DisconnectPrunesMembership(t *testing.T) {
	server, hub := newTestServer(t)
	competition := createCompetition(t, server.URL, 5)

	first := dialRoom(t, server.URL, competition.ID)
	second := dialRoom(t, server.URL, competition.ID)
	waitForClients(t, hub, 2)

	require.NoError(t, first.Close())
	waitForClients(t, hub, 1)

	// the survivor still receives broadcasts after the peer is gone
	resp := doJSON(t, http.MethodPost, server.URL+"/api/competitions/"+competition.ID+"/start", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var event struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(readFrame(t, second), &event))
	assert.Equal(t, "competition_started", event.Type)
}
