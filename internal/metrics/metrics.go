// Package metrics adapts app.App's plain-counter state into Prometheus
// gauges and counters for cmd/uevloopsim's /metrics endpoint. It is kept
// entirely out of the core packages: the scheduler, event loop, and
// signal relay never import Prometheus, only expose the counts this
// package polls (queue depths, pool occupancy).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anghd/uevloop/app"
)

// Collector exposes an app.App's queue and pool occupancy as Prometheus
// GaugeFuncs, plus a counter for closures the simulator itself dispatches.
type Collector struct {
	eventsEnqueued  prometheus.Counter
	eventQueueDepth prometheus.GaugeFunc
	scheduleDepth   prometheus.GaugeFunc
	eventPoolUsed   prometheus.GaugeFunc
	nodePoolUsed    prometheus.GaugeFunc
}

// NewCollector builds a Collector polling a's live state and registers
// every metric with reg.
func NewCollector(reg *prometheus.Registry, a *app.App) *Collector {
	c := &Collector{
		eventsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uevloop_events_enqueued_total",
			Help: "Total number of closures enqueued onto the event loop by the simulator.",
		}),
		eventQueueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "uevloop_event_queue_depth",
			Help: "Number of events currently queued for dispatch.",
		}, func() float64 { return float64(a.Queues.CountEnqueuedEvents()) }),
		scheduleDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "uevloop_schedule_queue_depth",
			Help: "Number of timer registrations awaiting the next ManageTimers call.",
		}, func() float64 { return float64(a.Queues.CountScheduledEvents()) }),
		eventPoolUsed: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "uevloop_event_pool_outstanding",
			Help: "Number of event pool slots currently acquired.",
		}, func() float64 { return float64(a.Pools.Events.Outstanding()) }),
		nodePoolUsed: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "uevloop_node_pool_outstanding",
			Help: "Number of linked-list node pool slots currently acquired.",
		}, func() float64 { return float64(a.Pools.Nodes.Outstanding()) }),
	}

	reg.MustRegister(
		c.eventsEnqueued,
		c.eventQueueDepth,
		c.scheduleDepth,
		c.eventPoolUsed,
		c.nodePoolUsed,
	)

	return c
}

// RecordEnqueue increments the enqueued-closures counter. Called by the
// simulator whenever it successfully pushes a closure onto the loop.
func (c *Collector) RecordEnqueue() {
	c.eventsEnqueued.Inc()
}
