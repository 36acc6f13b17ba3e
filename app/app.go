// Package app is the optional top-level composition container: it wires
// one set of shared pools and queues to an evloop.Loop, a
// scheduler.Scheduler, and a signal.Relay, and proxies the calls a
// consumer would otherwise have to route to the right subsystem by hand.
// It adds no invariants of its own beyond what those packages already
// guarantee (spec.md calls this container out of scope for the core;
// the contract is grounded on
// original_source/src/system/containers/application.h).
package app

import (
	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/evloop"
	"github.com/anghd/uevloop/pool"
	"github.com/anghd/uevloop/scheduler"
	"github.com/anghd/uevloop/signal"
	"github.com/anghd/uevloop/syspools"
	"github.com/anghd/uevloop/sysqueues"
)

// App bundles the system pools and queues with the three subsystems that
// share them.
type App struct {
	Pools     *syspools.Pools
	Queues    *sysqueues.Queues
	Loop      *evloop.Loop
	Scheduler *scheduler.Scheduler
	Relay     *signal.Relay

	// runScheduler mirrors uel_application_t::run_scheduler: set
	// whenever UpdateTimer advances the clock, cleared once Tick has
	// run the scheduler for that advance. Ticking the scheduler is
	// therefore skipped on ticks where the clock hasn't moved, same as
	// the original's should_set_uel_scheduer_run_flag behavior.
	runScheduler bool
}

// New builds an App with relayWidth distinct signal IDs, sized from cfg.
func New(cfg *config.Config, relayWidth uint16) *App {
	pools := syspools.New(cfg)
	queues := sysqueues.New(cfg)
	return &App{
		Pools:        pools,
		Queues:       queues,
		Loop:         evloop.New(pools, queues),
		Scheduler:    scheduler.New(pools, queues),
		Relay:        signal.New(pools, queues, relayWidth, cfg),
		runScheduler: true,
	}
}

// Tick yields control to the application runtime: it runs the scheduler
// (folding the schedule queue onto the due-time list and moving due
// timers onto the event queue) if the clock has moved since the last
// Tick, then always performs one event-loop Run.
func (a *App) Tick() {
	if a.runScheduler {
		a.Scheduler.ManageTimers()
		a.runScheduler = false
	}
	a.Loop.Run()
}

// UpdateTimer advances the scheduler's tick by delta and marks the
// scheduler to run on the next Tick. Safe to call from an ISR-style
// context, same as scheduler.Scheduler.UpdateTimer.
func (a *App) UpdateTimer(delta uint32) {
	a.Scheduler.UpdateTimer(delta)
	a.runScheduler = true
}

// RunLater proxies to a.Scheduler.RunLater.
func (a *App) RunLater(c closure.Closure, delay uint32) (pool.Handle, bool) {
	return a.Scheduler.RunLater(c, delay)
}

// RunAtIntervals proxies to a.Scheduler.RunAtIntervals.
func (a *App) RunAtIntervals(c closure.Closure, period uint32, immediate bool) (pool.Handle, bool) {
	return a.Scheduler.RunAtIntervals(c, period, immediate)
}

// EnqueueClosure proxies to a.Loop.EnqueueClosure.
func (a *App) EnqueueClosure(c closure.Closure) bool {
	return a.Loop.EnqueueClosure(c)
}
