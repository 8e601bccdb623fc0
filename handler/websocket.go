package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"warbler/middleware"
	"warbler/model"
	"warbler/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only listen on this socket; anything beyond control
	// frames is noise.
	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FeedEvent is the wire format pushed to connected clients.
type FeedEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type warblePayload struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Client is one websocket connection. A user may hold several (multiple
// tabs or devices).
type Client struct {
	id     uuid.UUID
	userID uint
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

// Hub tracks online clients by user id and fans new warbles out to the
// author's online followers. It implements service.FeedNotifier.
type Hub struct {
	follows *service.FollowService

	mu      sync.RWMutex
	clients map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
}

func NewHub(follows *service.FollowService) *Hub {
	return &Hub{
		follows:    follows,
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client map mutations. Start it once, in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()
			logrus.WithFields(logrus.Fields{"user_id": client.userID, "client": client.id}).Debug("ws client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if conns := h.clients[client.userID]; conns != nil {
				if conns[client] {
					delete(conns, client)
					close(client.send)
				}
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// WarblePosted pushes the new warble to the author and to every follower
// with an open connection. Slow clients are skipped rather than blocked
// on.
func (h *Hub) WarblePosted(msg *model.Message) {
	followerIDs, err := h.follows.FollowerIDs(msg.UserID)
	if err != nil {
		logrus.Errorf("feed fanout failed: %v", err)
		return
	}
	targets := append(followerIDs, msg.UserID)

	raw, err := json.Marshal(FeedEvent{
		Type: "warble",
		Data: warblePayload{
			ID:        msg.ID,
			UserID:    msg.UserID,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		},
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range targets {
		for client := range h.clients[userID] {
			select {
			case client.send <- raw:
			default:
			}
		}
	}
}

// HandleWebSocket upgrades the connection after validating the token in
// the query string. Browser websockets cannot set an Authorization
// header, hence the query parameter.
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.ValidateToken(c.Query("token"))
		if err != nil {
			c.String(http.StatusUnauthorized, "invalid token")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Errorf("ws upgrade failed: %v", err)
			return
		}

		client := &Client{
			id:     uuid.New(),
			userID: userID,
			conn:   conn,
			send:   make(chan []byte, 64),
			hub:    hub,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump drains the connection so control frames are processed and
// unregisters on close.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
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
		case raw, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
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
