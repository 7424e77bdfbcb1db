// Package share wraps the host's share-sheet channel.
package share

import (
	"context"

	"github.com/appo-sh/hostbridge/bridge"
)

const chanOpen = "share.open"

// Options describes the content offered to the share sheet. Empty fields are
// omitted from the wire payload.
type Options struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Result reports what the user did with the share sheet. Action names the
// chosen share target when the host platform exposes it.
type Result struct {
	Success bool   `json:"success"`
	Action  string `json:"action,omitempty"`
}

// Client calls the share feature channel on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Open presents the host share sheet with the given content.
func (c *Client) Open(ctx context.Context, opts Options) (Result, error) {
	data, err := c.bridge.Call(ctx, chanOpen, opts)
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := bridge.DecodeData(data, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}
