// Package wsbridge connects a bridge to a host over a WebSocket. Outgoing
// frames are written as text messages; every message the host sends back is
// fed into the bridge's Ingest for classification.
package wsbridge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/appo-sh/hostbridge/bridge"
)

// ErrClosed is returned by Send after the connection is gone.
var ErrClosed = errors.New("wsbridge: connection closed")

// Option configures a Transport before dialing.
type Option func(*options)

type options struct {
	handshakeTimeout time.Duration
	header           http.Header
}

// WithHandshakeTimeout bounds the WebSocket handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *options) { o.handshakeTimeout = d }
}

// WithHeader adds headers to the handshake request (auth tokens and the like).
func WithHeader(header http.Header) Option {
	return func(o *options) { o.header = header }
}

// Transport is a bridge.Transport backed by a WebSocket connection.
type Transport struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	open    atomic.Bool
	done    chan struct{}
}

// Dial connects to a host WebSocket endpoint, attaches the resulting
// transport to b, and starts pumping incoming messages into b.Ingest.
func Dial(ctx context.Context, url string, b *bridge.Bridge, opts ...Option) (*Transport, error) {
	o := options{handshakeTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	dialer := websocket.Dialer{HandshakeTimeout: o.handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, url, o.header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	t := &Transport{
		conn: conn,
		done: make(chan struct{}),
	}
	t.open.Store(true)

	go t.readLoop(b)
	b.Attach(t)
	return t, nil
}

// Send implements bridge.Transport.
func (t *Transport) Send(frame []byte) error {
	if !t.open.Load() {
		return ErrClosed
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, frame)
}

// Reachable implements bridge.Transport. It reflects the live connection
// state, so it flips to false the moment the read loop observes a failure.
func (t *Transport) Reachable() bool {
	return t.open.Load()
}

// Close tears down the connection. The read loop exits shortly after.
func (t *Transport) Close() error {
	t.open.Store(false)
	return t.conn.Close()
}

// Done is closed when the read loop has exited, whether by Close or by the
// host dropping the connection.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

func (t *Transport) readLoop(b *bridge.Bridge) {
	defer close(t.done)
	defer t.open.Store(false)

	for {
		_, msg, err := t.conn.ReadMessage()
		if err != nil {
			return
		}
		b.Ingest(msg)
	}
}
