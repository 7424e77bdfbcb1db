// Package network wraps the host's connectivity channels. When no host is
// reachable, Status reports an unknown connection type rather than failing,
// since connectivity questions always have some answer.
package network

import (
	"context"
	"errors"

	"github.com/appo-sh/hostbridge/bridge"
)

const (
	chanGetStatus = "network.getStatus"
	eventChange   = "network.change"
)

// TypeUnknown is reported when no host can answer.
const TypeUnknown = "unknown"

// Status describes the device's connectivity.
type Status struct {
	IsConnected bool   `json:"isConnected"`
	Type        string `json:"type"`
}

// Client calls the network feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Status returns the current connectivity state.
func (c *Client) Status(ctx context.Context) (Status, error) {
	data, err := c.bridge.Call(ctx, chanGetStatus, nil)
	if errors.Is(err, bridge.ErrUnreachable) {
		return Status{IsConnected: false, Type: TypeUnknown}, nil
	}
	if err != nil {
		return Status{}, err
	}
	var st Status
	if err := bridge.DecodeData(data, &st); err != nil {
		return Status{}, err
	}
	return st, nil
}

// OnChange subscribes to connectivity changes.
func (c *Client) OnChange(fn func(Status)) *bridge.Subscription {
	return c.bridge.Subscribe(eventChange, func(data any) {
		var st Status
		if err := bridge.DecodeData(data, &st); err != nil {
			return
		}
		fn(st)
	})
}
