package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"predictor/internal/repository"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// How often the hub polls the leaderboard version. Clients refetch the
	// leaderboard at most once per heartbeat, which keeps a result entry from
	// turning into a request storm.
	versionHeartbeatInterval = 2 * time.Second
)

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected clients and broadcasts leaderboard
// version changes to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	cache *repository.RedisRepository

	mu          sync.RWMutex
	lastVersion int64
}

// VersionUpdate tells clients the standings changed and they should refetch
type VersionUpdate struct {
	Type    string `json:"type"`
	Version int64  `json:"version"`
}

// NewHub creates a new WebSocket hub
func NewHub(cache *repository.RedisRepository) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		cache:      cache,
	}
}

// Run starts the WebSocket hub
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(versionHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendCurrentVersion(ctx, client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case <-ticker.C:
			h.broadcastIfChanged(ctx)

		case <-ctx.Done():
			log.Println("websocket hub shutting down")
			return
		}
	}
}

// broadcastIfChanged polls the version counter and notifies every client when
// it has moved
func (h *Hub) broadcastIfChanged(ctx context.Context) {
	version, err := h.cache.GetLeaderboardVersion(ctx)
	if err != nil {
		log.Printf("failed to read leaderboard version: %v", err)
		return
	}
	if version == h.lastVersion {
		return
	}
	h.lastVersion = version

	message, err := json.Marshal(VersionUpdate{Type: "LEADERBOARD_VERSION", Version: version})
	if err != nil {
		log.Printf("failed to marshal version update: %v", err)
		return
	}

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// slow client, skip this heartbeat
		}
	}
	h.mu.RUnlock()
}

// sendCurrentVersion gives a newly connected client the version to compare
// future heartbeats against
func (h *Hub) sendCurrentVersion(ctx context.Context, client *Client) {
	version, err := h.cache.GetLeaderboardVersion(ctx)
	if err != nil {
		log.Printf("failed to read initial version: %v", err)
		return
	}
	if h.lastVersion == 0 {
		h.lastVersion = version
	}

	message, err := json.Marshal(VersionUpdate{Type: "LEADERBOARD_VERSION", Version: version})
	if err != nil {
		return
	}

	select {
	case client.send <- message:
	case <-time.After(2 * time.Second):
		log.Println("timeout sending initial version, client may be slow")
	}
}

// GetClientCount returns the current number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump drains messages from the connection until it closes. Clients are
// not expected to send anything.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket unexpected close: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// Hub closed the channel
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ServeWS registers a connection with the hub and runs its pumps
func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 8),
	}

	client.hub.register <- client

	go client.writePump()
	client.readPump()
}
