package location

import (
	"context"
	"errors"
	"testing"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/bridge/bridgetest"
	"github.com/appo-sh/hostbridge/features/permission"
)

func TestCurrent(t *testing.T) {
	host := bridgetest.NewHost()
	host.Handle("location.getCurrentPosition", func(any) (any, error) {
		return map[string]any{
			"latitude":  48.8566,
			"longitude": 2.3522,
			"altitude":  35.0,
			"accuracy":  10.0,
			"timestamp": int64(1700000000000),
		}, nil
	})

	c := New(host.Bridge())

	pos, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if pos.Latitude != 48.8566 || pos.Longitude != 2.3522 {
		t.Errorf("position = %v,%v", pos.Latitude, pos.Longitude)
	}
	if pos.Altitude == nil || *pos.Altitude != 35.0 {
		t.Errorf("altitude = %v", pos.Altitude)
	}
	if pos.Timestamp != 1700000000000 {
		t.Errorf("timestamp = %d", pos.Timestamp)
	}
}

func TestCurrentOmitsOptionalFields(t *testing.T) {
	host := bridgetest.NewHost()
	host.Handle("location.getCurrentPosition", func(any) (any, error) {
		return map[string]any{
			"latitude":  -33.8688,
			"longitude": 151.2093,
			"timestamp": int64(1700000000000),
		}, nil
	})

	c := New(host.Bridge())

	pos, err := c.Current(context.Background())
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if pos.Altitude != nil {
		t.Errorf("altitude should be nil, got %v", *pos.Altitude)
	}
	if pos.Accuracy != nil {
		t.Errorf("accuracy should be nil, got %v", *pos.Accuracy)
	}
}

func TestRequestPermission(t *testing.T) {
	host := bridgetest.NewHost()
	host.Handle("location.requestPermission", func(any) (any, error) { return "prompt", nil })

	c := New(host.Bridge())

	status, err := c.RequestPermission(context.Background())
	if err != nil {
		t.Fatalf("RequestPermission failed: %v", err)
	}
	if status != permission.Prompt {
		t.Errorf("status = %q, want prompt", status)
	}
}

func TestCurrentHostFailure(t *testing.T) {
	host := bridgetest.NewHost()
	host.Handle("location.getCurrentPosition", func(any) (any, error) {
		return nil, errors.New("location services disabled")
	})

	c := New(host.Bridge())

	_, err := c.Current(context.Background())
	if !errors.Is(err, bridge.ErrHostReported) {
		t.Fatalf("expected host-reported failure, got %v", err)
	}
}
