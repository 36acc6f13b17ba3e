package closure_test

import (
	"testing"

	"github.com/anghd/uevloop/closure"
)

func TestInvokeStoresParamsAndReturn(t *testing.T) {
	var seenParams any
	c := closure.New(func(c *closure.Closure) any {
		seenParams = c.Params
		return 42
	}, nil, nil)

	rv := c.Invoke("hello")
	if seenParams != "hello" {
		t.Fatalf("expected params %q, got %v", "hello", seenParams)
	}
	if rv != 42 {
		t.Fatalf("expected return value 42, got %v", rv)
	}
	if c.Rv != 42 {
		t.Fatalf("expected c.Rv to be cached, got %v", c.Rv)
	}
}

func TestInvokeNilFnIsNoOp(t *testing.T) {
	var c closure.Closure
	if rv := c.Invoke(nil); rv != nil {
		t.Fatalf("expected nil return for empty closure, got %v", rv)
	}
}

func TestDestroyInvokesDestructor(t *testing.T) {
	destroyed := false
	destructor := closure.New(func(c *closure.Closure) any {
		destroyed = true
		return nil
	}, nil, nil)

	c := closure.New(func(*closure.Closure) any { return nil }, nil, &destructor)
	c.Destroy()

	if !destroyed {
		t.Fatal("expected destructor to run")
	}
}

func TestDestroyNilDestructorIsNoOp(t *testing.T) {
	c := closure.New(func(*closure.Closure) any { return nil }, nil, nil)
	c.Destroy() // must not panic
}

func TestBindTypedContext(t *testing.T) {
	type counter struct{ n int }

	c := closure.Bind(func(ctx *counter, params any) any {
		ctx.n += params.(int)
		return ctx.n
	}, &counter{})

	if rv := c.Invoke(3); rv != 3 {
		t.Fatalf("expected 3, got %v", rv)
	}
	if rv := c.Invoke(4); rv != 7 {
		t.Fatalf("expected 7, got %v", rv)
	}
}

func TestCopiesInvokeIndependently(t *testing.T) {
	type counter struct{ n int }
	c1 := closure.Bind(func(ctx *counter, _ any) any { ctx.n++; return ctx.n }, &counter{})
	c2 := c1 // copy by value; shares the same Ctx pointer per source semantics

	c1.Invoke(nil)
	rv := c2.Invoke(nil)
	if rv != 2 {
		t.Fatalf("expected shared ctx to observe both invocations, got %v", rv)
	}
}
