// Package syspools owns the two fixed-size arenas every other subsystem
// draws from: the event pool and the linked-list node pool (spec.md §4.6).
// Both are allocated once, sized from config.Config, and never grow.
package syspools

import (
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/event"
	"github.com/anghd/uevloop/llist"
	"github.com/anghd/uevloop/pool"
)

// Pools groups the system-wide event and node arenas.
type Pools struct {
	// Events backs every Event dispatched by the loop or scheduled by
	// the scheduler, regardless of Kind.
	Events *pool.Pool[event.Event]

	// Nodes backs the scheduler's due-time list and every signal's
	// listener list; both store pool.Handle payloads addressing Events.
	Nodes *pool.Pool[llist.Node[pool.Handle]]
}

// New allocates both pools at the sizes named in cfg.
func New(cfg *config.Config) *Pools {
	return &Pools{
		Events: pool.New[event.Event](cfg.EventPoolSizeLog2),
		Nodes:  pool.New[llist.Node[pool.Handle]](cfg.NodePoolSizeLog2),
	}
}
