package pollbridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appo-sh/hostbridge/bridge"
)

// pollHost is a minimal HTTP host: POSTed requests are answered with
// success=true echoing the payload, and answers are handed out via the poll
// endpoint.
type pollHost struct {
	outgoing chan json.RawMessage
}

func newPollHost() *pollHost {
	return &pollHost{outgoing: make(chan json.RawMessage, 32)}
}

func (h *pollHost) frames(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req bridge.Request
	if err := json.Unmarshal(body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	resp, _ := json.Marshal(map[string]any{"id": req.ID, "success": true, "data": req.Payload})
	h.outgoing <- resp
	w.WriteHeader(http.StatusAccepted)
}

func (h *pollHost) poll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var batch []json.RawMessage
	select {
	case frame := <-h.outgoing:
		batch = append(batch, frame)
	case <-time.After(100 * time.Millisecond):
	}

	json.NewEncoder(w).Encode(batch)
}

func (h *pollHost) emit(event string, data any) {
	frame, _ := json.Marshal(map[string]any{"event": event, "data": data})
	h.outgoing <- frame
}

func startHost(t *testing.T) (*pollHost, *httptest.Server) {
	t.Helper()
	host := newPollHost()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /bridge/frames", host.frames)
	mux.HandleFunc("GET /bridge/poll", host.poll)
	return host, httptest.NewServer(mux)
}

func TestCallRoundTrip(t *testing.T) {
	_, srv := startHost(t)
	defer srv.Close()

	b := bridge.New()
	tr := New(srv.URL, b)
	defer tr.Close()

	data, err := b.Call(context.Background(), "echo.op", map[string]any{"n": float64(7)})
	require.NoError(t, err)

	payload, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["n"])
}

func TestEventDeliveredThroughPoll(t *testing.T) {
	host, srv := startHost(t)
	defer srv.Close()

	b := bridge.New()
	tr := New(srv.URL, b)
	defer tr.Close()

	got := make(chan any, 1)
	sub := b.Subscribe("push.message", func(data any) { got <- data })
	defer sub.Cancel()

	host.emit("push.message", map[string]any{"title": "hi", "body": "there"})

	select {
	case data := <-got:
		payload := data.(map[string]any)
		assert.Equal(t, "hi", payload["title"])
	case <-time.After(3 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestSendFailureFlipsReachability(t *testing.T) {
	_, srv := startHost(t)

	b := bridge.New()
	tr := New(srv.URL, b, WithRetryDelay(50*time.Millisecond))
	defer tr.Close()

	srv.Close()

	_, err := b.Call(context.Background(), "echo.op", nil, bridge.WithTimeout(time.Second))
	require.Error(t, err)
	assert.False(t, tr.Reachable())
}

func TestCloseStopsPolling(t *testing.T) {
	_, srv := startHost(t)
	defer srv.Close()

	b := bridge.New()
	tr := New(srv.URL, b)

	tr.Close()
	assert.False(t, tr.Reachable())
}
