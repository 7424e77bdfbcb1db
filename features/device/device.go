// Package device wraps the host's device information channel. When no host
// is reachable the client answers from the local runtime, so callers always
// get a usable (if less specific) description of where they run.
package device

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/appo-sh/hostbridge/bridge"
)

const chanGetInfo = "device.getInfo"

// Info describes the device and the embedding application.
type Info struct {
	Platform   string `json:"platform"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	IsTablet   bool   `json:"isTablet"`
}

// Client calls the device feature channel on a bridge.
type Client struct {
	bridge *bridge.Bridge
}

func New(b *bridge.Bridge) *Client {
	return &Client{bridge: b}
}

// Info returns device and application metadata.
func (c *Client) Info(ctx context.Context) (Info, error) {
	data, err := c.bridge.Call(ctx, chanGetInfo, nil)
	if errors.Is(err, bridge.ErrUnreachable) {
		return localInfo(), nil
	}
	if err != nil {
		return Info{}, err
	}
	var info Info
	if err := bridge.DecodeData(data, &info); err != nil {
		return Info{}, err
	}
	return info, nil
}

// localInfo derives a best-effort Info from the local runtime.
func localInfo() Info {
	hostname, _ := os.Hostname()
	return Info{
		Platform:   runtime.GOOS,
		DeviceID:   hostname,
		DeviceName: hostname,
	}
}
