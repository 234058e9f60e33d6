package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Connection is one open real-time channel, owned by the hub for exactly
// one room between Join and Leave.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

type room struct {
	mu      sync.RWMutex
	members map[string]Connection
	// removed marks a room that was deleted from the hub map after its
	// last member left; a racing Join must not resurrect it.
	removed bool
}

// Hub maps room ids to the set of live connections and fans events out to
// them. Rooms lock independently so unrelated rooms never contend.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
	l     *zap.Logger
}

func NewHub(l *zap.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]*room),
		l:     l,
	}
}

// Join registers the connection under roomID. Membership is a set, so
// joining twice leaves a single entry.
func (h *Hub) Join(conn Connection, roomID string) {
	var count int
	for {
		h.mu.Lock()
		r, exists := h.rooms[roomID]
		if !exists {
			r = &room{members: make(map[string]Connection)}
			h.rooms[roomID] = r
		}
		h.mu.Unlock()

		r.mu.Lock()
		if r.removed {
			r.mu.Unlock()
			continue
		}
		r.members[conn.ID()] = conn
		count = len(r.members)
		r.mu.Unlock()
		break
	}

	h.l.Debug("client joined room",
		zap.String("room", roomID),
		zap.String("client_id", conn.ID()),
		zap.Int("clients", count))
}

// Leave removes the connection from roomID. Leaving a room the connection
// is not in is a no-op. The last leave removes the empty room.
func (h *Hub) Leave(conn Connection, roomID string) {
	h.mu.RLock()
	r, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return
	}

	r.mu.Lock()
	delete(r.members, conn.ID())
	count := len(r.members)
	r.mu.Unlock()

	h.l.Debug("client left room",
		zap.String("room", roomID),
		zap.String("client_id", conn.ID()),
		zap.Int("clients", count))

	if count == 0 {
		h.mu.Lock()
		if r, ok := h.rooms[roomID]; ok {
			r.mu.Lock()
			if len(r.members) == 0 {
				r.removed = true
				delete(h.rooms, roomID)
			}
			r.mu.Unlock()
		}
		h.mu.Unlock()
	}
}

// Broadcast delivers payload to every connection currently in the room.
// A failed delivery never aborts the rest of the fan-out; connections
// that cannot be reached are removed and closed.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.mu.RLock()
	r, exists := h.rooms[roomID]
	h.mu.RUnlock()
	if !exists {
		return
	}

	r.mu.RLock()
	var failed []Connection
	for _, conn := range r.members {
		if err := conn.Send(payload); err != nil {
			failed = append(failed, conn)
		}
	}
	r.mu.RUnlock()

	for _, conn := range failed {
		h.l.Debug("dropping unreachable client",
			zap.String("room", roomID),
			zap.String("client_id", conn.ID()))
		h.Leave(conn, roomID)
		_ = conn.Close()
	}
}

// RelayRaw forwards an inbound frame verbatim to every member of the
// room, the sender included.
func (h *Hub) RelayRaw(roomID string, raw []byte) {
	h.Broadcast(roomID, raw)
}

// Stats reports the number of rooms and total connected clients.
func (h *Hub) Stats() (rooms, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rooms = len(h.rooms)
	for _, r := range h.rooms {
		r.mu.RLock()
		clients += len(r.members)
		r.mu.RUnlock()
	}
	return rooms, clients
}
