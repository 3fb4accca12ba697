package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"safepay/internal/auth"
	"safepay/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_BroadcastToUser(t *testing.T) {
	hub := NewHub(testLogger())
	a1, a2, b := NewClient("alice"), NewClient("alice"), NewClient("bob")
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)
	assert.Equal(t, 3, hub.ClientCount())

	hub.BroadcastToUser("alice", map[string]string{"type": "ping"})
	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"ping"}`, string(msg))
		default:
			t.Fatal("expected message for alice")
		}
	}
	assert.Empty(t, b.Send)

	a1.Close()
	a1.Close()
	assert.Equal(t, 2, hub.ClientCount())
	hub.BroadcastToUser("alice", map[string]string{"type": "again"})
	assert.Len(t, a2.Send, 1)
}

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*auth.Claims, error) {
	switch token {
	case "good":
	case "outage":
		return nil, errors.New("credential store unavailable")
	default:
		return nil, domain.ErrUnauthorized
	}
	return &auth.Claims{UserID: "alice"}, nil
}

func TestServe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(testLogger())
	r := gin.New()
	r.GET("/ws", Serve(hub, stubVerifier{}))
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{"Authorization": []string{"Bearer good"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.BroadcastToUser("alice", map[string]string{"type": "transaction.created"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]string
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "transaction.created", event["type"])
}

func startServer(t *testing.T, hub *Hub) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", Serve(hub, stubVerifier{}))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServe_VerifierFailureIsServerError(t *testing.T) {
	url := startServer(t, NewHub(testLogger()))

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token=outage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"internal server error"}`, string(body))
}

func TestServe_DropsPeerThatStopsAnsweringPings(t *testing.T) {
	hub := NewHub(testLogger())
	hub.pongWait = 200 * time.Millisecond
	url := startServer(t, hub)

	// Never reading means pings are never answered.
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestServe_KeepsPeerThatAnswersPings(t *testing.T) {
	hub := NewHub(testLogger())
	hub.pongWait = 200 * time.Millisecond
	url := startServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()
	go func() {
		// The default ping handler replies with a pong while we read.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(3 * hub.pongWait)
	assert.Equal(t, 1, hub.ClientCount())
}
