// Package location wraps the host's geolocation channels.
package location

import (
	"context"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/features/permission"
)

const (
	chanRequestPermission  = "location.requestPermission"
	chanGetCurrentPosition = "location.getCurrentPosition"
)

// Position is a geolocation fix. Altitude and Accuracy are nil when the host
// platform does not report them.
type Position struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Client calls the location feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// RequestPermission asks the host for location access.
func (c *Client) RequestPermission(ctx context.Context) (permission.Status, error) {
	data, err := c.bridge.Call(ctx, chanRequestPermission, nil)
	if err != nil {
		return permission.Unknown, err
	}
	return permission.FromData(data), nil
}

// Current returns the device's current position.
func (c *Client) Current(ctx context.Context) (Position, error) {
	data, err := c.bridge.Call(ctx, chanGetCurrentPosition, nil)
	if err != nil {
		return Position{}, err
	}
	var pos Position
	if err := bridge.DecodeData(data, &pos); err != nil {
		return Position{}, err
	}
	return pos, nil
}
