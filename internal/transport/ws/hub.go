package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/5hiel/artistic-minds-sub000/internal/engine"
)

// Hub fans engine events out to per-user observer connections. A user can
// have any number of observers (a coach dashboard, a debug console); each
// gets every event for that user.
type Hub struct {
	observers map[string]map[*Connection]bool // userID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *userMessage

	logger *zap.Logger
}

// Connection is one observer socket.
type Connection struct {
	UserID string
	Send   chan []byte
	Hub    *Hub
}

type userMessage struct {
	userID string
	data   []byte
}

// NewHub creates the hub and starts its event loop.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		observers:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *userMessage, 256),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.observers[conn.UserID] == nil {
				h.observers[conn.UserID] = make(map[*Connection]bool)
			}
			h.observers[conn.UserID][conn] = true
			h.mu.Unlock()
			h.logger.Debug("observer connected", zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.observers[conn.UserID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.observers, conn.UserID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("observer disconnected", zap.String("userId", conn.UserID))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.observers[msg.userID] {
				select {
				case conn.Send <- msg.data:
				default:
					// Slow observer, drop the event rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds an observer connection.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes an observer connection.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToUser implements engine.Broadcaster.
func (h *Hub) BroadcastToUser(userID string, event engine.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	h.broadcast <- &userMessage{userID: userID, data: data}
}
