package handlers

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/studyhall/studyhall-api/internal/middleware"
)

// Event types sent over WebSocket. These replace the per-document change
// feeds clients used to subscribe to: after a successful mutation the handler
// broadcasts the new state to everyone in the room.
const (
	EventMemberJoined      = "member_joined"
	EventMemberLeft        = "member_left"
	EventRoomClosed        = "room_closed"
	EventMessagePosted     = "message_posted"
	EventWhiteboardUpdated = "whiteboard_updated"
	EventDocumentUpdated   = "document_updated"
)

// WSEvent is the JSON message sent to connected clients.
type WSEvent struct {
	Type   string      `json:"type"`
	RoomID string      `json:"roomId"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with its user ID.
type connection struct {
	conn   *websocket.Conn
	userID string
}

// Hub manages WebSocket connections per study room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*connection]bool // roomID -> set of connections
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*connection]bool),
		log:   log.With().Str("component", "ws").Logger(),
	}
}

func (h *Hub) register(roomID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*connection]bool)
	}
	h.rooms[roomID][conn] = true
	h.log.Debug().Str("user", conn.userID).Str("room", roomID).Int("total", len(h.rooms[roomID])).Msg("ws register")
}

func (h *Hub) unregister(roomID string, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Broadcast sends an event to all connections in a room, excluding the sender.
func (h *Hub) Broadcast(roomID, excludeUserID string, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[roomID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("ws broadcast marshal error")
		return
	}

	for c := range conns {
		// Don't send to the user who triggered the event
		if c.userID == excludeUserID {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warn().Err(err).Str("user", c.userID).Msg("ws write error")
		}
	}
}

// WebSocketUpgrade checks the upgrade request and validates the JWT, which
// browsers pass as a query param since they cannot set headers on upgrade.
func (h *Handler) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenString := c.Query("token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(h.cfg.JWTSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket subscribes a client to a room's event stream.
func (h *Handler) HandleWebSocket(c *websocket.Conn) {
	roomID := c.Params("id")
	userID, ok := c.Locals("userId").(string)
	if roomID == "" || !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	h.hub.register(roomID, conn)
	defer h.hub.unregister(roomID, conn)

	// Keep connection alive; clients send pings/keepalives
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
