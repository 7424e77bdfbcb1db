package host

import (
	"context"
	"fmt"
	"sync"
	"time"
)

func errUnknownAction(feature, action string) error {
	return fmt.Errorf("feature %q has no action %q", feature, action)
}

// RegisterBuiltin wires the fixture-driven handlers for every feature the
// daemon serves out of the box.
func RegisterBuiltin(reg *Registry, fx Fixtures) {
	handlers := []Handler{
		&deviceHandler{fx: fx},
		&networkHandler{fx: fx},
		&pushHandler{fx: fx},
		&biometricsHandler{fx: fx},
		&cameraHandler{fx: fx},
		&locationHandler{fx: fx},
		&hapticsHandler{},
		&shareHandler{fx: fx},
		newStorageHandler(),
	}
	for _, h := range handlers {
		// Register only fails on an empty feature name, which the builtins
		// never have.
		_ = reg.Register(h)
	}
}

type deviceHandler struct{ fx Fixtures }

func (h *deviceHandler) Feature() string { return "device" }

func (h *deviceHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	if action != "getInfo" {
		return nil, errUnknownAction("device", action)
	}
	return map[string]any{
		"platform":   h.fx.Device.Platform,
		"osVersion":  h.fx.Device.OSVersion,
		"appVersion": h.fx.Device.AppVersion,
		"deviceId":   h.fx.Device.DeviceID,
		"deviceName": h.fx.Device.DeviceName,
		"isTablet":   h.fx.Device.IsTablet,
	}, nil
}

type networkHandler struct{ fx Fixtures }

func (h *networkHandler) Feature() string { return "network" }

func (h *networkHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	if action != "getStatus" {
		return nil, errUnknownAction("network", action)
	}
	return map[string]any{
		"isConnected": h.fx.Network.IsConnected,
		"type":        h.fx.Network.Type,
	}, nil
}

type pushHandler struct{ fx Fixtures }

func (h *pushHandler) Feature() string { return "push" }

func (h *pushHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	switch action {
	case "requestPermission":
		return h.fx.permission("push"), nil
	case "getToken":
		if h.fx.Push.Token == "" {
			return nil, nil
		}
		return h.fx.Push.Token, nil
	default:
		return nil, errUnknownAction("push", action)
	}
}

type biometricsHandler struct{ fx Fixtures }

func (h *biometricsHandler) Feature() string { return "biometrics" }

func (h *biometricsHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	switch action {
	case "isAvailable":
		return h.fx.Biometrics.Available, nil
	case "authenticate":
		if !h.fx.Biometrics.Available {
			return nil, fmt.Errorf("biometric hardware unavailable")
		}
		return true, nil
	default:
		return nil, errUnknownAction("biometrics", action)
	}
}

type cameraHandler struct{ fx Fixtures }

func (h *cameraHandler) Feature() string { return "camera" }

func (h *cameraHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	switch action {
	case "requestPermission":
		return h.fx.permission("camera"), nil
	case "takePicture":
		if h.fx.permission("camera") == "denied" {
			return nil, fmt.Errorf("camera permission denied")
		}
		return map[string]any{
			"uri":    h.fx.Camera.URI,
			"base64": h.fx.Camera.Base64,
			"width":  h.fx.Camera.Width,
			"height": h.fx.Camera.Height,
		}, nil
	default:
		return nil, errUnknownAction("camera", action)
	}
}

type locationHandler struct{ fx Fixtures }

func (h *locationHandler) Feature() string { return "location" }

func (h *locationHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	switch action {
	case "requestPermission":
		return h.fx.permission("location"), nil
	case "getCurrentPosition":
		if h.fx.permission("location") == "denied" {
			return nil, fmt.Errorf("location permission denied")
		}
		return map[string]any{
			"latitude":  h.fx.Location.Latitude,
			"longitude": h.fx.Location.Longitude,
			"altitude":  h.fx.Location.Altitude,
			"accuracy":  h.fx.Location.Accuracy,
			"timestamp": time.Now().UnixMilli(),
		}, nil
	default:
		return nil, errUnknownAction("location", action)
	}
}

// hapticsHandler accepts fire-and-forget vibration frames. Guests send these
// as notifications, so the return value is never delivered anywhere, but a
// handler still has to exist so the frames are not logged as unknown.
type hapticsHandler struct{}

func (h *hapticsHandler) Feature() string { return "haptics" }

func (h *hapticsHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	switch action {
	case "impact", "notification":
		return nil, nil
	default:
		return nil, errUnknownAction("haptics", action)
	}
}

type shareHandler struct{ fx Fixtures }

func (h *shareHandler) Feature() string { return "share" }

func (h *shareHandler) Handle(_ context.Context, action string, _ map[string]any) (any, error) {
	if action != "open" {
		return nil, errUnknownAction("share", action)
	}
	return map[string]any{"success": true, "action": h.fx.Share.Action}, nil
}

// storageHandler keeps guest key/value pairs in process memory. The daemon is
// a development host, so durability across restarts is out of scope.
type storageHandler struct {
	mu     sync.RWMutex
	values map[string]any
}

func newStorageHandler() *storageHandler {
	return &storageHandler{values: make(map[string]any)}
}

func (h *storageHandler) Feature() string { return "storage" }

func (h *storageHandler) Handle(_ context.Context, action string, payload map[string]any) (any, error) {
	key, _ := payload["key"].(string)
	if key == "" {
		return nil, fmt.Errorf("storage.%s requires a key", action)
	}
	switch action {
	case "get":
		h.mu.RLock()
		defer h.mu.RUnlock()
		return h.values[key], nil
	case "set":
		h.mu.Lock()
		defer h.mu.Unlock()
		h.values[key] = payload["value"]
		return nil, nil
	case "delete":
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.values, key)
		return nil, nil
	default:
		return nil, errUnknownAction("storage", action)
	}
}
