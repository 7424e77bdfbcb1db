package host

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Fixtures hold the canned answers the built-in handlers serve. They are
// loaded from a YAML file so a development host can be reshaped without
// recompiling.
type Fixtures struct {
	Device      DeviceFixture     `yaml:"device"`
	Network     NetworkFixture    `yaml:"network"`
	Permissions map[string]string `yaml:"permissions"`
	Camera      CameraFixture     `yaml:"camera"`
	Location    LocationFixture   `yaml:"location"`
	Push        PushFixture       `yaml:"push"`
	Biometrics  BiometricsFixture `yaml:"biometrics"`
	Share       ShareFixture      `yaml:"share"`
}

type DeviceFixture struct {
	Platform   string `yaml:"platform"`
	OSVersion  string `yaml:"osVersion"`
	AppVersion string `yaml:"appVersion"`
	DeviceID   string `yaml:"deviceId"`
	DeviceName string `yaml:"deviceName"`
	IsTablet   bool   `yaml:"isTablet"`
}

type NetworkFixture struct {
	IsConnected bool   `yaml:"isConnected"`
	Type        string `yaml:"type"`
}

type CameraFixture struct {
	URI    string `yaml:"uri"`
	Base64 string `yaml:"base64"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LocationFixture struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Altitude  float64 `yaml:"altitude"`
	Accuracy  float64 `yaml:"accuracy"`
}

type PushFixture struct {
	Token string `yaml:"token"`
}

type BiometricsFixture struct {
	Available bool `yaml:"available"`
}

type ShareFixture struct {
	Action string `yaml:"action"`
}

// DefaultFixtures returns a host profile suitable for local development: a
// connected wifi device that grants every permission.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Device: DeviceFixture{
			Platform:   "hostd",
			OSVersion:  "1.0",
			AppVersion: "dev",
			DeviceID:   "hostd-reference",
			DeviceName: "hostd reference device",
			IsTablet:   false,
		},
		Network: NetworkFixture{IsConnected: true, Type: "wifi"},
		Permissions: map[string]string{
			"push":     "granted",
			"camera":   "granted",
			"location": "granted",
		},
		Camera: CameraFixture{
			URI:    "file:///tmp/hostd-capture.jpg",
			Width:  1280,
			Height: 720,
		},
		Location: LocationFixture{
			Latitude:  52.5200,
			Longitude: 13.4050,
			Altitude:  34,
			Accuracy:  5,
		},
		Push:       PushFixture{Token: "hostd-dev-token"},
		Biometrics: BiometricsFixture{Available: true},
		Share:      ShareFixture{Action: "dismissed"},
	}
}

// LoadFixtures reads a YAML fixture file, layering it over the defaults so a
// file only needs to state what differs.
func LoadFixtures(path string) (Fixtures, error) {
	fx := DefaultFixtures()
	raw, err := os.ReadFile(path)
	if err != nil {
		return fx, fmt.Errorf("read fixtures: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fx, fmt.Errorf("parse fixtures: %w", err)
	}
	return fx, nil
}

// permission looks up a feature's fixture permission, defaulting to granted.
func (f Fixtures) permission(feature string) string {
	if status, ok := f.Permissions[feature]; ok && status != "" {
		return status
	}
	return "granted"
}
