// Package push wraps the host's push-notification channels.
package push

import (
	"context"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/features/permission"
)

// Channel names owned by this feature.
const (
	chanRequestPermission = "push.requestPermission"
	chanGetToken          = "push.getToken"
	eventMessage          = "push.message"
	eventResponse         = "push.response"
)

// Message is a push notification delivered while the guest is active.
type Message struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Interaction is the user's reaction to a delivered notification.
type Interaction struct {
	Title            string         `json:"title"`
	Body             string         `json:"body"`
	Data             map[string]any `json:"data,omitempty"`
	ActionIdentifier string         `json:"actionIdentifier"`
}

// Client calls the push feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// RequestPermission asks the host for notification permission.
func (c *Client) RequestPermission(ctx context.Context) (permission.Status, error) {
	data, err := c.bridge.Call(ctx, chanRequestPermission, nil)
	if err != nil {
		return permission.Unknown, err
	}
	return permission.FromData(data), nil
}

// Token returns the device push token. ok is false when the host has no
// token registered yet.
func (c *Client) Token(ctx context.Context) (token string, ok bool, err error) {
	data, err := c.bridge.Call(ctx, chanGetToken, nil)
	if err != nil {
		return "", false, err
	}
	if data == nil {
		return "", false, nil
	}
	token, ok = data.(string)
	return token, ok, nil
}

// OnMessage subscribes to notifications delivered in the foreground.
func (c *Client) OnMessage(fn func(Message)) *bridge.Subscription {
	return c.bridge.Subscribe(eventMessage, func(data any) {
		var m Message
		if err := bridge.DecodeData(data, &m); err != nil {
			return
		}
		fn(m)
	})
}

// OnResponse subscribes to user interactions with delivered notifications.
func (c *Client) OnResponse(fn func(Interaction)) *bridge.Subscription {
	return c.bridge.Subscribe(eventResponse, func(data any) {
		var in Interaction
		if err := bridge.DecodeData(data, &in); err != nil {
			return
		}
		fn(in)
	})
}
