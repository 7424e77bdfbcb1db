// Package haptics wraps the host's haptic feedback channels. Both operations
// are fire-and-forget: they never wait for a response, and they are silent
// no-ops when no host is attached.
package haptics

import "github.com/appo-sh/hostbridge/bridge"

const (
	chanImpact       = "haptics.impact"
	chanNotification = "haptics.notification"
)

// ImpactStyle grades the strength of an impact pulse.
type ImpactStyle string

const (
	ImpactLight  ImpactStyle = "light"
	ImpactMedium ImpactStyle = "medium"
	ImpactHeavy  ImpactStyle = "heavy"
)

// NotificationType selects the host's semantic notification pattern.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Client calls the haptics feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Impact triggers a collision-style haptic pulse.
func (c *Client) Impact(style ImpactStyle) error {
	return c.bridge.Notify(chanImpact, map[string]any{"style": string(style)})
}

// Notification triggers a semantic haptic pattern.
func (c *Client) Notification(kind NotificationType) error {
	return c.bridge.Notify(chanNotification, map[string]any{"type": string(kind)})
}
