// Package biometrics wraps the host's biometric authentication channels.
package biometrics

import (
	"context"

	"github.com/appo-sh/hostbridge/bridge"
)

const (
	chanIsAvailable  = "biometrics.isAvailable"
	chanAuthenticate = "biometrics.authenticate"
)

// Client calls the biometrics feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Available reports whether the device offers biometric authentication.
func (c *Client) Available(ctx context.Context) (bool, error) {
	data, err := c.bridge.Call(ctx, chanIsAvailable, nil)
	if err != nil {
		return false, err
	}
	ok, _ := data.(bool)
	return ok, nil
}

// Authenticate prompts the user for a biometric check, showing reason in the
// host's prompt. It returns true only when the user passed the check.
func (c *Client) Authenticate(ctx context.Context, reason string) (bool, error) {
	data, err := c.bridge.Call(ctx, chanAuthenticate, map[string]any{"reason": reason})
	if err != nil {
		return false, err
	}
	ok, _ := data.(bool)
	return ok, nil
}
