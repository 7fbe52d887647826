package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"conceptlab/internal/logging"
	"conceptlab/internal/model"
	"conceptlab/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// ProgressSource returns the latest progress snapshot of a run
type ProgressSource interface {
	GetProgress(ctx context.Context, runID string) (*model.ProgressState, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub      *Hub
	authSvc  *service.AuthService
	progress ProgressSource
	log      *logrus.Entry
}

// NewHandler creates a new WebSocket handler. progress may be nil.
func NewHandler(hub *Hub, authSvc *service.AuthService, progress ProgressSource) *Handler {
	return &Handler{
		hub:      hub,
		authSvc:  authSvc,
		progress: progress,
		log:      logging.For("ws"),
	}
}

// RunWS handles GET /v1/ws/runs/{runId}
func (h *Handler) RunWS(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runId"]
	token := r.URL.Query().Get("token")

	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	analystID, status := h.authorize(token, runID)
	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}

	// snapshot is read before the upgrade so the request context is still live
	var snapshot []byte
	finished := false
	if h.progress != nil {
		if state, err := h.progress.GetProgress(r.Context(), runID); err == nil && state != nil {
			snapshot = encodeProgress(state)
			finished = state.Phase == model.PhaseCompleted
		}
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn := &Connection{
		RunID:     runID,
		AnalystID: analystID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}
	if snapshot != nil {
		conn.Send <- snapshot
	}

	// a finished run has already been disconnected, so the final state is all there is
	if finished {
		close(conn.Send)
		h.log.WithField(logging.FieldRunID, runID).Debugf("Run already finished, closing stream for analyst %s", analystID)
	} else {
		h.hub.Register(conn)
		h.log.WithField(logging.FieldRunID, runID).Infof("Analyst %s subscribed via WebSocket", analystID)
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// authorize accepts a stream token issued for this run, or any analyst token
func (h *Handler) authorize(token, runID string) (string, int) {
	if claims, err := h.authSvc.ValidateRunToken(token); err == nil {
		if claims.RunID != runID {
			return "", http.StatusForbidden
		}
		return claims.AnalystID, http.StatusOK
	}
	if claims, err := h.authSvc.ValidateAnalystToken(token); err == nil {
		return claims.AnalystID, http.StatusOK
	}
	return "", http.StatusUnauthorized
}

func encodeProgress(state *model.ProgressState) []byte {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	data, err := json.Marshal(&Message{Type: MessageType(service.MsgProgress), Payload: payload})
	if err != nil {
		return nil
	}
	return data
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithField(logging.FieldRunID, conn.RunID).WithError(err).Warn("WebSocket read error")
			}
			break
		}
		// the stream is server to client only
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run finished"))
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
