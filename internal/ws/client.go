package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client adapts a gorilla websocket connection to the hub. Outbound
// messages go through a buffered channel drained by a single writer, so
// the order of Send calls is the order on the wire.
type Client struct {
	id   string
	room string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	l    *zap.Logger
}

func NewClient(id, room string, conn *websocket.Conn, hub *Hub, l *zap.Logger) *Client {
	return &Client{
		id:   id,
		room: room,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  hub,
		l:    l,
	}
}

func (c *Client) ID() string   { return c.id }
func (c *Client) Room() string { return c.room }

func (c *Client) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Start joins the room and runs the read/write pumps.
func (c *Client) Start() {
	c.hub.Join(c, c.room)
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c, c.room)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.l.Debug("read error",
					zap.String("client_id", c.id),
					zap.Error(err))
			}
			return
		}
		c.hub.RelayRaw(c.room, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
