package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"artechoes/internal/domain"
	"artechoes/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// connection is one feed subscriber. An empty topic set means every event.
type connection struct {
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
}

func (c *connection) wants(eventType string) bool {
	return len(c.topics) == 0 || c.topics[eventType]
}

// Hub fans gallery events out to websocket subscribers. Slow subscribers
// miss events instead of blocking uploads.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	closed      bool
	log         zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*connection]struct{}),
		log:         logger.With("feed"),
	}
}

func (h *Hub) register(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.connections[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

// Publish implements upload.Publisher.
func (h *Hub) Publish(e domain.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.log.Warn().Err(err).Str("event", e.Type).Msg("feed event not encodable")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.wants(e.Type) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Debug().Str("event", e.Type).Msg("subscriber too slow, event dropped")
		}
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}

// ServeWS registers conn and runs its pumps until the peer goes away.
func (h *Hub) ServeWS(conn *websocket.Conn, topics []string) {
	c := &connection{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: make(map[string]bool, len(topics)),
	}
	for _, t := range topics {
		c.topics[t] = true
	}
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("feed subscriber dropped")
			}
			return
		}

		var req struct {
			Type  string `json:"type"`
			Topic string `json:"topic"`
		}
		if err := json.Unmarshal(msg, &req); err != nil {
			continue
		}

		switch req.Type {
		case "subscribe":
			h.mu.Lock()
			c.topics[req.Topic] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.topics, req.Topic)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
