// Package camera wraps the host's camera channels.
package camera

import (
	"context"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/features/permission"
)

const (
	chanRequestPermission = "camera.requestPermission"
	chanTakePicture       = "camera.takePicture"
)

// Picture is a captured image. Base64 is present only when the host inlines
// the image data.
type Picture struct {
	URI    string `json:"uri"`
	Base64 string `json:"base64,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Client calls the camera feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// RequestPermission asks the host for camera access.
func (c *Client) RequestPermission(ctx context.Context) (permission.Status, error) {
	data, err := c.bridge.Call(ctx, chanRequestPermission, nil)
	if err != nil {
		return permission.Unknown, err
	}
	return permission.FromData(data), nil
}

// TakePicture opens the host camera UI and returns the captured image.
// Capture can take as long as the user pleases, so callers usually pass a
// generous per-call timeout.
func (c *Client) TakePicture(ctx context.Context, opts ...bridge.CallOption) (Picture, error) {
	data, err := c.bridge.Call(ctx, chanTakePicture, nil, opts...)
	if err != nil {
		return Picture{}, err
	}
	var pic Picture
	if err := bridge.DecodeData(data, &pic); err != nil {
		return Picture{}, err
	}
	return pic, nil
}
