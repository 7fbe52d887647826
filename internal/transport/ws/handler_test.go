package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"conceptlab/internal/model"
	"conceptlab/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProgress map[string]*model.ProgressState

func (s staticProgress) GetProgress(ctx context.Context, runID string) (*model.ProgressState, error) {
	return s[runID], nil
}

func newTestServer(t *testing.T) (*httptest.Server, *Hub, *service.AuthService) {
	t.Helper()
	hub := NewHub()
	auth := service.NewAuthService("analyst", "secret", "test-signing-key")
	progress := staticProgress{
		"run-1": {RunID: "run-1", Phase: model.PhaseInterviews, Step: 1, Total: 3, Action: "interviewing Ana"},
		"run-done": {RunID: "run-done", Phase: model.PhaseCompleted, Action: "completed"},
	}

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/runs/{runId}", NewHandler(hub, auth, progress).RunWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub, auth
}

func wsURL(srv *httptest.Server, runID, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/runs/" + runID + "?token=" + token
}

func readMessage(t *testing.T, c *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestRunWSStreamsUntilDisconnect(t *testing.T) {
	srv, hub, auth := newTestServer(t)
	token, err := auth.GenerateRunToken("run-1", "analyst_1")
	require.NoError(t, err)

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "run-1", token), nil)
	require.NoError(t, err)
	defer c.Close()

	snapshot := readMessage(t, c)
	assert.Equal(t, MessageType(service.MsgProgress), snapshot.Type)
	var state model.ProgressState
	require.NoError(t, json.Unmarshal(snapshot.Payload, &state))
	assert.Equal(t, "interviewing Ana", state.Action)

	hub.BroadcastToRun("run-1", service.MsgRunCompleted, map[string]string{"runId": "run-1"})
	hub.DisconnectRun("run-1")

	done := readMessage(t, c)
	assert.Equal(t, MessageType(service.MsgRunCompleted), done.Type)

	_, _, err = c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestRunWSAcceptsAnalystToken(t *testing.T) {
	srv, _, auth := newTestServer(t)
	login, err := auth.Login("analyst", "secret")
	require.NoError(t, err)

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "run-1", login.Token), nil)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, MessageType(service.MsgProgress), readMessage(t, c).Type)
}

func TestRunWSRejectsBadTokens(t *testing.T) {
	srv, _, auth := newTestServer(t)
	other, err := auth.GenerateRunToken("run-2", "analyst_1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"other run", other, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "run-1", tt.token), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRunWSClosesFinishedRun(t *testing.T) {
	srv, hub, auth := newTestServer(t)
	hub.DisconnectRun("run-done")
	token, err := auth.GenerateRunToken("run-done", "analyst_1")
	require.NoError(t, err)

	c, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "run-done", token), nil)
	require.NoError(t, err)
	defer c.Close()

	snapshot := readMessage(t, c)
	assert.Equal(t, MessageType(service.MsgProgress), snapshot.Type)
	var state model.ProgressState
	require.NoError(t, json.Unmarshal(snapshot.Payload, &state))
	assert.Equal(t, model.PhaseCompleted, state.Phase)

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = c.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
