package ws

import (
	"encoding/json"

	"conceptlab/internal/logging"

	"github.com/sirupsen/logrus"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans run events out to every subscribed connection
type Hub struct {
	// runID -> connections
	subscribers map[string]map[*Connection]struct{}

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	log *logrus.Entry
}

// Connection represents a WebSocket subscriber of one run
type Connection struct {
	RunID     string
	AnalystID string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast. Close disconnects the run's
// subscribers after everything queued before it.
type BroadcastMessage struct {
	RunID   string
	Message *Message
	Close   bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*Connection]struct{}),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
		log:         logging.For("ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			if h.subscribers[conn.RunID] == nil {
				h.subscribers[conn.RunID] = make(map[*Connection]struct{})
			}
			h.subscribers[conn.RunID][conn] = struct{}{}
			h.log.WithField(logging.FieldRunID, conn.RunID).Debugf("subscriber %s connected", conn.AnalystID)

		case conn := <-h.unregister:
			if subs, ok := h.subscribers[conn.RunID]; ok {
				if _, ok := subs[conn]; ok {
					delete(subs, conn)
					close(conn.Send)
					if len(subs) == 0 {
						delete(h.subscribers, conn.RunID)
					}
					h.log.WithField(logging.FieldRunID, conn.RunID).Debugf("subscriber %s disconnected", conn.AnalystID)
				}
			}

		case msg := <-h.broadcast:
			if msg.Close {
				for conn := range h.subscribers[msg.RunID] {
					close(conn.Send)
				}
				delete(h.subscribers, msg.RunID)
				continue
			}
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.WithError(err).Warn("message not encoded")
				continue
			}
			for conn := range h.subscribers[msg.RunID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRun sends a message to every subscriber of a run (implements service.Broadcaster)
func (h *Hub) BroadcastToRun(runID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).Warnf("payload of %s not encoded", msgType)
		return
	}
	h.broadcast <- &BroadcastMessage{
		RunID: runID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectRun closes every subscriber of a run once queued messages are delivered
// (implements service.Broadcaster)
func (h *Hub) DisconnectRun(runID string) {
	h.broadcast <- &BroadcastMessage{RunID: runID, Close: true}
}
