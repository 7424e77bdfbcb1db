// Package storage wraps the host's key-value storage channels. When no host
// is reachable the client falls back to an in-process store, so guests keep a
// working (if non-persistent) storage surface during development and tests.
package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/appo-sh/hostbridge/bridge"
)

const (
	chanGet    = "storage.get"
	chanSet    = "storage.set"
	chanDelete = "storage.delete"
)

// Client calls the storage feature channels on a bridge.
type Client struct {
	bridge *bridge.Bridge

	mu       sync.RWMutex
	fallback map[string]string
}

func New(b *bridge.Bridge) *Client {
	return &Client{
		bridge:   b,
		fallback: make(map[string]string),
	}
}

// Get retrieves the value stored under key. ok is false when the key is
// absent.
func (c *Client) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	data, err := c.bridge.Call(ctx, chanGet, map[string]any{"key": key})
	if errors.Is(err, bridge.ErrUnreachable) {
		c.mu.RLock()
		value, ok = c.fallback[key]
		c.mu.RUnlock()
		return value, ok, nil
	}
	if err != nil {
		return "", false, err
	}
	if data == nil {
		return "", false, nil
	}
	value, ok = data.(string)
	return value, ok, nil
}

// Set stores value under key.
func (c *Client) Set(ctx context.Context, key, value string) error {
	_, err := c.bridge.Call(ctx, chanSet, map[string]any{"key": key, "value": value})
	if errors.Is(err, bridge.ErrUnreachable) {
		c.mu.Lock()
		c.fallback[key] = value
		c.mu.Unlock()
		return nil
	}
	return err
}

// Delete removes the value stored under key. Deleting an absent key is not
// an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.bridge.Call(ctx, chanDelete, map[string]any{"key": key})
	if errors.Is(err, bridge.ErrUnreachable) {
		c.mu.Lock()
		delete(c.fallback, key)
		c.mu.Unlock()
		return nil
	}
	return err
}
