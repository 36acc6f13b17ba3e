package config_test

import (
	"testing"

	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/lock"
)

func TestResolveDefaults(t *testing.T) {
	c, err := config.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.EventPoolSizeLog2 != config.DefaultEventPoolSizeLog2 {
		t.Fatalf("expected default event pool size, got %d", c.EventPoolSizeLog2)
	}
	if c.SignalMaxListeners != config.DefaultSignalMaxListeners {
		t.Fatalf("expected default max listeners, got %d", c.SignalMaxListeners)
	}
	if _, ok := c.Lock.(lock.Noop); !ok {
		t.Fatalf("expected default lock to be lock.Noop, got %T", c.Lock)
	}
}

func TestResolveAppliesOverrides(t *testing.T) {
	m := &lock.Mutex{}
	c, err := config.Resolve(
		config.WithEventPoolSizeLog2(4),
		config.WithNodePoolSizeLog2(5),
		config.WithEventQueueSizeLog2(3),
		config.WithScheduleQueueSizeLog2(2),
		config.WithSignalMaxListeners(10),
		config.WithLock(m),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.EventPoolSizeLog2 != 4 || c.NodePoolSizeLog2 != 5 || c.EventQueueSizeLog2 != 3 || c.ScheduleQueueSizeLog2 != 2 {
		t.Fatalf("unexpected sizes: %+v", c)
	}
	if c.SignalMaxListeners != 10 {
		t.Fatalf("expected 10 max listeners, got %d", c.SignalMaxListeners)
	}
	if c.Lock != m {
		t.Fatal("expected overridden lock to be the exact instance passed in")
	}
}

func TestResolveSkipsNilOptions(t *testing.T) {
	c, err := config.Resolve(nil, config.WithSignalMaxListeners(3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SignalMaxListeners != 3 {
		t.Fatalf("expected nil options to be skipped, got %d", c.SignalMaxListeners)
	}
}
