// Package llist implements the intrusive, doubly-terminated, singly-linked
// list used for the scheduler's due-time-sorted timer list and each
// signal's listener list. Nodes are drawn from a pool.Pool[Node[T]]; the
// list only reorders handles, it never allocates or frees them itself.
package llist

import "github.com/anghd/uevloop/pool"

// Handle identifies a node within the backing pool. It is None when it
// does not refer to any node (used for Next on the tail, and for a list's
// head/tail when the list is empty).
type Handle = pool.Handle

// None is the sentinel "no node" handle.
const None = pool.None

// Node is the intrusive list cell: a payload plus the index of the next
// node. Draw Nodes from a pool.Pool[Node[T]] shared across every List that
// needs the same payload type (the scheduler's timer list and a signal
// relay's listener lists share one node pool in this repository, per
// spec.md's system pools).
type Node[T any] struct {
	Payload T
	Next    Handle
}

// List is a singly-linked FIFO/priority-insertion structure over nodes
// owned by an external pool.Pool[Node[T]]. It tracks head and tail handles
// only; PopTail is O(n) by design (the scheduler never needs it — it
// inserts in due-time order and always pops the head).
type List[T any] struct {
	nodes *pool.Pool[Node[T]]
	head  Handle
	tail  Handle
}

// NewList creates an empty list backed by nodes.
func NewList[T any](nodes *pool.Pool[Node[T]]) *List[T] {
	return &List[T]{nodes: nodes, head: None, tail: None}
}

// IsEmpty reports whether the list has no nodes.
func (l *List[T]) IsEmpty() bool { return l.head == None }

// Head returns the handle at the front of the list, or None.
func (l *List[T]) Head() Handle { return l.head }

// Payload returns a pointer to the payload stored at h, for reading or
// mutating in place (e.g. bumping a timer's due time before re-pushing).
func (l *List[T]) Payload(h Handle) *T {
	return &l.nodes.Get(h).Payload
}

// PushHead links h onto the front of the list. h must already be an
// acquired node handle from the same pool, with Payload already set.
func (l *List[T]) PushHead(h Handle) {
	node := l.nodes.Get(h)
	node.Next = l.head
	l.head = h
	if l.tail == None {
		l.tail = h
	}
}

// PushTail links h onto the back of the list.
func (l *List[T]) PushTail(h Handle) {
	node := l.nodes.Get(h)
	node.Next = None
	if l.tail == None {
		l.head, l.tail = h, h
		return
	}
	l.nodes.Get(l.tail).Next = h
	l.tail = h
}

// InsertBefore links h immediately before the first node for which before
// returns true, or at the tail if before is never satisfied. This backs
// the scheduler's due-time-sorted insertion (§4.7): "insert at the first
// position whose successor's due_time > event.due_time", with ties broken
// by insertion order (stable, since a strict "later item is not before"
// walk never displaces an equal-due-time predecessor).
func (l *List[T]) InsertBefore(h Handle, before func(existing T) bool) {
	if l.head == None {
		l.PushHead(h)
		return
	}
	if before(l.nodes.Get(l.head).Payload) {
		l.PushHead(h)
		return
	}
	prev := l.head
	for {
		prevNode := l.nodes.Get(prev)
		next := prevNode.Next
		if next == None {
			l.PushTail(h)
			return
		}
		if before(l.nodes.Get(next).Payload) {
			node := l.nodes.Get(h)
			node.Next = next
			prevNode.Next = h
			return
		}
		prev = next
	}
}

// PopHead detaches and returns the head node's handle.
func (l *List[T]) PopHead() (Handle, bool) {
	if l.head == None {
		return None, false
	}
	h := l.head
	node := l.nodes.Get(h)
	l.head = node.Next
	if l.head == None {
		l.tail = None
	}
	node.Next = None
	return h, true
}

// PopTail detaches and returns the tail node's handle. O(n): the list has
// no back-links, so this walks from the head.
func (l *List[T]) PopTail() (Handle, bool) {
	if l.tail == None {
		return None, false
	}
	if l.head == l.tail {
		return l.PopHead()
	}
	prev := l.head
	for l.nodes.Get(prev).Next != l.tail {
		prev = l.nodes.Get(prev).Next
	}
	tail := l.tail
	l.nodes.Get(prev).Next = None
	l.tail = prev
	return tail, true
}

// Remove detaches h from wherever it sits in the list. Reports whether h
// was found. O(n).
func (l *List[T]) Remove(h Handle) bool {
	if l.head == None {
		return false
	}
	if l.head == h {
		l.PopHead()
		return true
	}
	prev := l.head
	for {
		prevNode := l.nodes.Get(prev)
		next := prevNode.Next
		if next == None {
			return false
		}
		if next == h {
			nextNode := l.nodes.Get(next)
			prevNode.Next = nextNode.Next
			if l.tail == next {
				l.tail = prev
			}
			nextNode.Next = None
			return true
		}
		prev = next
	}
}

// ForEach visits every node from head to tail, in order, calling visit
// with each node's handle and payload. Visiting stops early if visit
// returns false.
func (l *List[T]) ForEach(visit func(h Handle, payload T) bool) {
	for h := l.head; h != None; {
		node := l.nodes.Get(h)
		next := node.Next
		if !visit(h, node.Payload) {
			return
		}
		h = next
	}
}

// FilterInPlace walks the list once from head to tail. For each node it
// calls decide with the node's payload; if decide returns true the node is
// detached and released back to the node pool, otherwise it is left in
// place. This is the single-pass primitive behind signal.Relay.Emit's
// "still-listening listeners are dispatched, non-listening nodes are
// removed" behavior (spec.md §4.9).
func (l *List[T]) FilterInPlace(decide func(payload T) bool) {
	prev := None
	h := l.head
	for h != None {
		node := l.nodes.Get(h)
		next := node.Next
		if decide(node.Payload) {
			if prev == None {
				l.head = next
			} else {
				l.nodes.Get(prev).Next = next
			}
			if l.tail == h {
				l.tail = prev
			}
			node.Next = None
			l.nodes.Release(h)
		} else {
			prev = h
		}
		h = next
	}
}
