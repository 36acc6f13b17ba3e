// Package event defines the tagged-union Event type dispatched by the
// event loop: a closure invocation, a timer firing, or a signal listener
// notification. A concrete struct is used instead of an interface so that
// every kind fits in one uniformly-sized pool slot (spec.md §4.5).
package event

import (
	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/llist"
)

// Kind identifies which fields of an Event are meaningful.
type Kind uint8

const (
	// KindClosure is a plain deferred function call.
	KindClosure Kind = iota
	// KindTimer is a scheduled, possibly-repeating callback.
	KindTimer
	// KindSignalListener is a listener's reaction to a signal emission.
	KindSignalListener
)

// ListenerHost is implemented by whatever owns a signal listener's list
// node, so that event can carry signal dispatch state without importing
// the signal package (which would import event, and event would import
// signal: a cycle). signal.Relay implements this interface.
type ListenerHost interface {
	// Detach removes the listener's node from the host's listener list
	// and releases it back to the node pool. Called once a listener
	// that is not Recurring has fired, or when Unlisten is requested.
	Detach(node llist.Handle)
}

// Event is the uniform envelope dispatched by the event loop and the
// scheduler. Only the fields relevant to Kind are meaningful; the others
// are zero value and unused, trading a few wasted bytes per slot for a
// single pool and a single queue element type (spec.md's design note on
// avoiding Go interfaces in pooled hot paths).
type Event struct {
	Kind Kind

	// Closure is invoked for every Kind: the deferred call itself for
	// KindClosure, the timer callback for KindTimer, and the listener's
	// reaction for KindSignalListener.
	Closure closure.Closure

	// Timer fields (KindTimer only).
	DueTime   uint32
	Period    uint32
	Repeating bool
	Immediate bool
	Cancelled bool // reserved for future; nothing sets or reads this yet (spec.md §1, §3)

	// ListNode is the timer's node handle in the scheduler's due-time
	// list, acquired together with the event when the timer is scheduled
	// and released once a one-shot timer leaves the list.
	ListNode llist.Handle

	// Signal fields (KindSignalListener only).
	SignalID  uint16
	Host      ListenerHost
	Recurring bool
	Listening bool

	// Params is the value an emit call passed for this firing; the loop
	// invokes Closure with it instead of nil (spec.md §4.9: "sets the
	// listener's closure params to the provided value"). Unused outside
	// KindSignalListener.
	Params any

	// ListenerNode is the listener's node handle within its signal's
	// listener list, passed to Host.Detach on unlisten/one-shot firing.
	ListenerNode llist.Handle

	// Queued counts how many times this listener's event handle is
	// currently sitting in the event queue awaiting dispatch. A
	// recurring listener's handle is reused across every emission
	// (rather than copied, so Unlisten's Listening=false is visible to
	// an already-queued firing); Queued lets Unlisten and the final
	// dispatch agree on who releases the handle without either racing
	// the other into a double release.
	Queued uint16
}

// NewClosure builds a KindClosure event around c.
func NewClosure(c closure.Closure) Event {
	return Event{Kind: KindClosure, Closure: c}
}

// NewTimer builds a KindTimer event. dueTime is an absolute tick count;
// period and repeating describe recurrence, and immediate marks a
// recurring timer whose first firing should happen at schedule time
// rather than after one period (spec.md §4.7).
func NewTimer(c closure.Closure, dueTime, period uint32, repeating, immediate bool) Event {
	return Event{
		Kind:      KindTimer,
		Closure:   c,
		DueTime:   dueTime,
		Period:    period,
		Repeating: repeating,
		Immediate: immediate,
		ListNode:  llist.None,
	}
}

// NewSignalListener builds a KindSignalListener event bound to signalID
// and host, the owner of the listener list this event's node will live
// in. recurring false marks a listen-once reaction: the loop detaches it
// from host after its first, and only, dispatch.
func NewSignalListener(c closure.Closure, signalID uint16, host ListenerHost, recurring bool) Event {
	return Event{
		Kind:      KindSignalListener,
		Closure:   c,
		SignalID:  signalID,
		Host:      host,
		Recurring: recurring,
		Listening: true,
	}
}

// Destroy runs the embedded closure's destructor, if any. The event
// itself carries no other owned resources; its pool slot is reclaimed by
// the caller via pool.Pool.Release.
func (e *Event) Destroy() {
	e.Closure.Destroy()
}
