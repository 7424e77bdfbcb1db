package wsbridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appo-sh/hostbridge/bridge"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// echoHost is a minimal WS host: it answers every request with success=true
// and the request's own payload as data, and can broadcast events.
type echoHost struct {
	mu    sync.Mutex
	conns []*websocket.Conn
}

func (h *echoHost) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.conns = append(h.conns, conn)
	h.mu.Unlock()

	for {
		var req bridge.Request
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		resp := map[string]any{"id": req.ID, "success": true, "data": req.Payload}
		frame, _ := sonic.Marshal(resp)
		conn.WriteMessage(websocket.TextMessage, frame)
	}
}

// dropConns closes every accepted connection. httptest.Server.Close does not
// touch hijacked connections, so tests that need a host-side disconnect call
// this explicitly.
func (h *echoHost) dropConns() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.conns {
		conn.Close()
	}
	h.conns = nil
}

func (h *echoHost) broadcast(event string, data any) {
	frame, _ := sonic.Marshal(map[string]any{"event": event, "data": data})
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.conns {
		conn.WriteMessage(websocket.TextMessage, frame)
	}
}

func startHost(t *testing.T) (*echoHost, string, func()) {
	t.Helper()
	host := &echoHost{}
	srv := httptest.NewServer(http.HandlerFunc(host.handle))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return host, wsURL, srv.Close
}

func TestCallRoundTrip(t *testing.T) {
	_, wsURL, stop := startHost(t)
	defer stop()

	b := bridge.New()
	tr, err := Dial(context.Background(), wsURL, b)
	require.NoError(t, err)
	defer tr.Close()

	require.True(t, b.Reachable())

	data, err := b.Call(context.Background(), "echo.op", map[string]any{"hello": "host"})
	require.NoError(t, err)

	payload, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "host", payload["hello"])
}

func TestEventBroadcastReachesSubscriber(t *testing.T) {
	host, wsURL, stop := startHost(t)
	defer stop()

	b := bridge.New()
	tr, err := Dial(context.Background(), wsURL, b)
	require.NoError(t, err)
	defer tr.Close()

	got := make(chan any, 1)
	sub := b.Subscribe("network.change", func(data any) { got <- data })
	defer sub.Cancel()

	host.broadcast("network.change", map[string]any{"isConnected": true, "type": "wifi"})

	select {
	case data := <-got:
		payload := data.(map[string]any)
		assert.Equal(t, "wifi", payload["type"])
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestHostDisconnectFlipsReachability(t *testing.T) {
	host, wsURL, stop := startHost(t)
	defer stop()

	b := bridge.New()
	tr, err := Dial(context.Background(), wsURL, b)
	require.NoError(t, err)

	host.dropConns()

	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop should exit when the host drops")
	}
	assert.False(t, tr.Reachable())

	_, err = b.Call(context.Background(), "echo.op", nil)
	assert.True(t, errors.Is(err, bridge.ErrUnreachable))
}

func TestSendAfterCloseFails(t *testing.T) {
	_, wsURL, stop := startHost(t)
	defer stop()

	b := bridge.New()
	tr, err := Dial(context.Background(), wsURL, b)
	require.NoError(t, err)

	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.Send([]byte(`{}`)), ErrClosed)
}

func TestDialFailure(t *testing.T) {
	b := bridge.New()
	_, err := Dial(context.Background(), "ws://127.0.0.1:1/ws", b, WithHandshakeTimeout(200*time.Millisecond))
	require.Error(t, err)
	assert.False(t, b.Reachable(), "failed dial must not attach a transport")
}
