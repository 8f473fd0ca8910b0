package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Registry, *httptest.Server) {
	t.Helper()

	reg := NewRegistry(nil)
	hub := NewHub(reg, HubOptions{PingInterval: time.Minute, WriteTimeout: time.Second}, nil)

	mux := http.NewServeMux()
	mux.Handle("/ws/user", hub.ServeRole(RoleUser))
	mux.Handle("/ws/admin", hub.ServeRole(RoleAdmin))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return reg, srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHub_BroadcastReachesBothRoles(t *testing.T) {
	reg, srv := startHub(t)

	user := dial(t, srv, "/ws/user")
	admin := dial(t, srv, "/ws/admin")

	require.Eventually(t, func() bool {
		return reg.Current(RoleUser) != nil && reg.Current(RoleAdmin) != nil
	}, 2*time.Second, 10*time.Millisecond)

	rep := reg.Broadcast(context.Background(), map[string]any{"alerts": []string{"OUTSIDE_BOUNDARY"}})
	assert.ElementsMatch(t, []Role{RoleUser, RoleAdmin}, rep.Sent)

	for _, c := range []*websocket.Conn{user, admin} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got map[string]any
		require.NoError(t, c.ReadJSON(&got))
		assert.Equal(t, []any{"OUTSIDE_BOUNDARY"}, got["alerts"])
	}
}

func TestHub_ClientMessagesAreIgnored(t *testing.T) {
	reg, srv := startHub(t)
	user := dial(t, srv, "/ws/user")

	require.Eventually(t, func() bool { return reg.Current(RoleUser) != nil }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, user.WriteMessage(websocket.TextMessage, []byte(`{"hello":"server"}`)))

	// Still registered after the client spoke.
	time.Sleep(100 * time.Millisecond)
	assert.NotNil(t, reg.Current(RoleUser))
}

func TestHub_DisconnectClearsSlot(t *testing.T) {
	reg, srv := startHub(t)
	user := dial(t, srv, "/ws/user")

	require.Eventually(t, func() bool { return reg.Current(RoleUser) != nil }, 2*time.Second, 10*time.Millisecond)

	_ = user.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = user.Close()

	require.Eventually(t, func() bool { return reg.Current(RoleUser) == nil }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_NewConnectionSupersedesOld(t *testing.T) {
	reg, srv := startHub(t)

	first := dial(t, srv, "/ws/admin")
	require.Eventually(t, func() bool { return reg.Current(RoleAdmin) != nil }, 2*time.Second, 10*time.Millisecond)
	firstID := reg.Current(RoleAdmin).ID()

	second := dial(t, srv, "/ws/admin")
	require.Eventually(t, func() bool {
		cur := reg.Current(RoleAdmin)
		return cur != nil && cur.ID() != firstID
	}, 2*time.Second, 10*time.Millisecond)

	// The superseded client is told to go away.
	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := first.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	// The old connection's cleanup must not clear the new one.
	time.Sleep(100 * time.Millisecond)
	cur := reg.Current(RoleAdmin)
	require.NotNil(t, cur)
	assert.NotEqual(t, firstID, cur.ID())

	reg.Broadcast(context.Background(), map[string]string{"ping": "pong"})
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got map[string]string
	require.NoError(t, second.ReadJSON(&got))
	assert.Equal(t, "pong", got["ping"])
}
