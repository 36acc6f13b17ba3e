// Package closure implements the value binding that every unit of work on
// the event loop is built from: a function reference, a captured context,
// and the last params/return value it was invoked with.
package closure

// Fn is invoked with the closure that carries it, so it can read Ctx and
// Params and (optionally) leave a return value behind for the caller.
type Fn func(c *Closure) any

// Closure binds a function to a captured context. It is created by value
// and copied by value: an Event owns its embedded copy until the event is
// recycled, and each copy invokes independently.
type Closure struct {
	Fn         Fn
	Ctx        any
	Params     any
	Rv         any
	Destructor *Closure
}

// New creates a closure from a raw Fn and context. Most callers should
// prefer Bind, which keeps the context statically typed at the call site.
func New(fn Fn, ctx any, destructor *Closure) Closure {
	return Closure{Fn: fn, Ctx: ctx, Destructor: destructor}
}

// Bind constructs a Closure whose context is statically typed as T at the
// binding site, type-erasing it into the Closure's Ctx field. This is the
// generics-based reading of the "opaque pointer payload" convention used
// throughout the source: callers get compile-time checked context access
// without every Closure in a pool needing the same concrete type.
func Bind[T any](fn func(ctx T, params any) any, ctx T) Closure {
	return Closure{
		Ctx: ctx,
		Fn: func(c *Closure) any {
			return fn(c.Ctx.(T), c.Params)
		},
	}
}

// Invoke stores params on the closure, calls Fn, and stores/returns the
// result. A nil Fn is a no-op that returns nil.
func (c *Closure) Invoke(params any) any {
	c.Params = params
	if c.Fn == nil {
		return nil
	}
	c.Rv = c.Fn(c)
	return c.Rv
}

// Destroy invokes the destructor closure, if one was set, passing this
// closure as its parameter.
func (c *Closure) Destroy() {
	if c.Destructor != nil {
		c.Destructor.Invoke(c)
	}
}
