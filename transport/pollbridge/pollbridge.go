// Package pollbridge connects a bridge to hosts that only speak HTTP:
// outgoing frames are POSTed one at a time, and incoming frames (responses
// and event broadcasts) are long-polled in batches.
package pollbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/appo-sh/hostbridge/bridge"
)

const (
	defaultFramesPath = "/bridge/frames"
	defaultPollPath   = "/bridge/poll"
	defaultRetryDelay = time.Second
)

// Option configures a Transport before it starts polling.
type Option func(*Transport)

// WithPaths overrides the frame submission and poll endpoints.
func WithPaths(framesPath, pollPath string) Option {
	return func(t *Transport) {
		t.framesPath = framesPath
		t.pollPath = pollPath
	}
}

// WithRetryDelay sets the pause after a failed poll before trying again.
func WithRetryDelay(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.retryDelay = d
		}
	}
}

// WithClient substitutes a preconfigured resty client (auth, TLS, proxies).
func WithClient(client *resty.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// Transport is a bridge.Transport backed by HTTP POST + long-poll.
type Transport struct {
	client     *resty.Client
	framesPath string
	pollPath   string
	retryDelay time.Duration

	healthy atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Transport rooted at baseURL, attaches it to b, and starts
// the poll loop. Reachability starts optimistic and follows the outcome of
// each HTTP exchange afterwards.
func New(baseURL string, b *bridge.Bridge, opts ...Option) *Transport {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Transport{
		client:     resty.New().SetBaseURL(baseURL),
		framesPath: defaultFramesPath,
		pollPath:   defaultPollPath,
		retryDelay: defaultRetryDelay,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.healthy.Store(true)

	go t.pollLoop(ctx, b)
	b.Attach(t)
	return t
}

// Send implements bridge.Transport.
func (t *Transport) Send(frame []byte) error {
	resp, err := t.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(frame).
		Post(t.framesPath)
	if err != nil {
		t.healthy.Store(false)
		return err
	}
	if resp.IsError() {
		t.healthy.Store(false)
		return fmt.Errorf("pollbridge: host returned %s", resp.Status())
	}
	t.healthy.Store(true)
	return nil
}

// Reachable implements bridge.Transport.
func (t *Transport) Reachable() bool {
	return t.healthy.Load()
}

// Close stops the poll loop and marks the transport unreachable.
func (t *Transport) Close() {
	t.cancel()
	<-t.done
	t.healthy.Store(false)
}

func (t *Transport) pollLoop(ctx context.Context, b *bridge.Bridge) {
	defer close(t.done)

	for {
		if ctx.Err() != nil {
			return
		}

		var frames []json.RawMessage
		resp, err := t.client.R().
			SetContext(ctx).
			SetResult(&frames).
			Get(t.pollPath)

		switch {
		case ctx.Err() != nil:
			return
		case err != nil || resp.IsError():
			t.healthy.Store(false)
			select {
			case <-ctx.Done():
				return
			case <-time.After(t.retryDelay):
			}
		default:
			t.healthy.Store(true)
			for _, frame := range frames {
				b.Ingest(frame)
			}
		}
	}
}
