// Package config resolves the sizing and synchronization knobs shared by
// every other package: the system pools' and queues' capacities (each a
// power of two, given as a log2 exponent per spec.md §9) and the lock
// used to guard cross-context access to the system queues.
// The functional-options shape mirrors the teacher's LoopOption.
package config

import "github.com/anghd/uevloop/lock"

// Defaults mirror original_source/src/uel_config.h.
const (
	DefaultEventPoolSizeLog2    uint = 7
	DefaultNodePoolSizeLog2     uint = 7
	DefaultEventQueueSizeLog2   uint = 5
	DefaultScheduleQueueSizeLog2 uint = 4
	DefaultSignalMaxListeners   uint16 = 5
)

// Config holds the resolved configuration for a system built from options.
type Config struct {
	EventPoolSizeLog2    uint
	NodePoolSizeLog2     uint
	EventQueueSizeLog2   uint
	ScheduleQueueSizeLog2 uint
	SignalMaxListeners   uint16
	Lock                 lock.Lock
}

// Option configures a Config instance.
type Option interface {
	apply(*Config) error
}

type optionFunc struct {
	fn func(*Config) error
}

func (o *optionFunc) apply(c *Config) error { return o.fn(c) }

// WithEventPoolSizeLog2 sets the event pool's capacity to 1<<log2.
func WithEventPoolSizeLog2(log2 uint) Option {
	return &optionFunc{func(c *Config) error {
		c.EventPoolSizeLog2 = log2
		return nil
	}}
}

// WithNodePoolSizeLog2 sets the linked-list node pool's capacity to
// 1<<log2. The node pool backs both the scheduler's timer list and every
// signal's listener list.
func WithNodePoolSizeLog2(log2 uint) Option {
	return &optionFunc{func(c *Config) error {
		c.NodePoolSizeLog2 = log2
		return nil
	}}
}

// WithEventQueueSizeLog2 sets the main event queue's capacity to 1<<log2.
func WithEventQueueSizeLog2(log2 uint) Option {
	return &optionFunc{func(c *Config) error {
		c.EventQueueSizeLog2 = log2
		return nil
	}}
}

// WithScheduleQueueSizeLog2 sets the schedule queue's capacity to
// 1<<log2: the buffer RunLater/RunAtIntervals push into from
// any context, pending ManageTimers draining them onto the timer list.
func WithScheduleQueueSizeLog2(log2 uint) Option {
	return &optionFunc{func(c *Config) error {
		c.ScheduleQueueSizeLog2 = log2
		return nil
	}}
}

// WithSignalMaxListeners sets the advisory listener count per signal ID.
// Listen logs when a signal exceeds it; it reserves no slots and never
// makes Listen fail.
func WithSignalMaxListeners(n uint16) Option {
	return &optionFunc{func(c *Config) error {
		c.SignalMaxListeners = n
		return nil
	}}
}

// WithLock overrides the critical-section implementation. The default is
// lock.Noop, correct for single-threaded, cooperative use; &lock.Mutex{}
// serializes the system queue operations across goroutines. The lock
// brackets only those queue operations: pool acquire/release, the
// scheduler's tick counter and the relay's listener lists are not guarded
// by it.
func WithLock(l lock.Lock) Option {
	return &optionFunc{func(c *Config) error {
		c.Lock = l
		return nil
	}}
}

// Resolve applies opts over the spec's defaults.
func Resolve(opts ...Option) (*Config, error) {
	cfg := &Config{
		EventPoolSizeLog2:    DefaultEventPoolSizeLog2,
		NodePoolSizeLog2:     DefaultNodePoolSizeLog2,
		EventQueueSizeLog2:   DefaultEventQueueSizeLog2,
		ScheduleQueueSizeLog2: DefaultScheduleQueueSizeLog2,
		SignalMaxListeners:   DefaultSignalMaxListeners,
		Lock:                 lock.Noop{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
