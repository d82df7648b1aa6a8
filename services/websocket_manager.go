package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// WebSocket errors
var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConnectionBufferFull = errors.New("connection buffer full")
)

// Broadcast event types pushed to the operator dashboard.
const (
	EventNewMessage     = "new_message"
	EventEscalation     = "escalation"
	EventDepositProblem = "deposit_problem"
	EventImportFinished = "import_finished"
)

// WebSocketManager manages the operator dashboard connections
type WebSocketManager struct {
	connections map[string]*WebSocketConnection // keyed by connection ID
	mu          sync.RWMutex
	broadcast   chan BroadcastMessage
}

// WebSocketConnection represents a single operator connection
type WebSocketConnection struct {
	Conn       *websocket.Conn
	ConnID     string
	OperatorID string
	Username   string
	Send       chan []byte
}

// BroadcastMessage represents a message to broadcast to all operators
type BroadcastMessage struct {
	Type string
	Data interface{}
}

// MessagePayload represents the structure of WebSocket messages
type MessagePayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

var wsManager *WebSocketManager
var once sync.Once

// GetWebSocketManager returns the singleton WebSocket manager
func GetWebSocketManager() *WebSocketManager {
	once.Do(func() {
		wsManager = &WebSocketManager{
			connections: make(map[string]*WebSocketConnection),
			broadcast:   make(chan BroadcastMessage, 100),
		}
		go wsManager.handleBroadcast()
	})
	return wsManager
}

// RegisterConnection registers a new WebSocket connection
func (m *WebSocketManager) RegisterConnection(conn *WebSocketConnection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connections[conn.ConnID] = conn

	slog.Info("WebSocket connection registered",
		"connID", conn.ConnID,
		"operator", conn.Username,
		"totalConnections", len(m.connections))
}

// UnregisterConnection removes a WebSocket connection
func (m *WebSocketManager) UnregisterConnection(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conn, exists := m.connections[connID]; exists {
		close(conn.Send)
		delete(m.connections, connID)

		slog.Info("WebSocket connection unregistered",
			"connID", connID,
			"remainingConnections", len(m.connections))
	}
}

// Broadcast queues an event for all connected operators
func (m *WebSocketManager) Broadcast(eventType string, data interface{}) {
	select {
	case m.broadcast <- BroadcastMessage{Type: eventType, Data: data}:
	default:
		slog.Warn("WebSocket broadcast queue full, dropping event", "type", eventType)
	}
}

// handleBroadcast processes broadcast messages
func (m *WebSocketManager) handleBroadcast() {
	for message := range m.broadcast {
		payload := MessagePayload{
			Type:      message.Type,
			Data:      message.Data,
			Timestamp: time.Now().Unix(),
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			slog.Error("Failed to marshal WebSocket message", "error", err)
			continue
		}

		m.mu.RLock()
		for _, conn := range m.connections {
			select {
			case conn.Send <- jsonData:
				// Message sent successfully
			default:
				// Connection buffer full, skip
				slog.Warn("WebSocket connection buffer full", "connID", conn.ConnID)
			}
		}
		m.mu.RUnlock()
	}
}

// SendToConnection sends a message to a specific connection
func (m *WebSocketManager) SendToConnection(connID string, data []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if conn, exists := m.connections[connID]; exists {
		select {
		case conn.Send <- data:
			return nil
		default:
			return ErrConnectionBufferFull
		}
	}
	return ErrConnectionNotFound
}

// GetConnectionCount returns the number of active operator connections
func (m *WebSocketManager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}
