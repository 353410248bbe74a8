package pool_test

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/clearpool/pkg/containers"
	"github.com/ajitpratap0/clearpool/pkg/pool"
	"github.com/ajitpratap0/clearpool/pkg/strings"
)

// Example shows the basic borrow and release cycle.
func Example() {
	p := pool.NewSlicePool[int](pool.WithLogger(zap.NewNop()))

	h := p.Get()
	h.Value().Append(1, 2, 3)
	fmt.Println("len:", h.Value().Len())
	h.Release()

	h = p.Get()
	defer h.Release()
	fmt.Println("len after reuse:", h.Value().Len())

	// Output:
	// len: 3
	// len after reuse: 0
}

// ExamplePool_With borrows a builder for the duration of a function.
func ExamplePool_With() {
	p := pool.NewStringPool(pool.WithLogger(zap.NewNop()))

	var greeting string
	p.With(func(b *strings.Builder) {
		b.WriteString("hello, ")
		b.WriteString("pool")
		greeting = b.String()
	})

	fmt.Println(greeting)
	n, _ := p.Size()
	fmt.Println("idle:", n)

	// Output:
	// hello, pool
	// idle: 1
}

// ExamplePool_Prewarm fills the idle list before a burst of work.
func ExamplePool_Prewarm() {
	p := pool.NewMapPool[string, int](pool.WithLogger(zap.NewNop()))
	if err := p.Prewarm(5); err != nil {
		fmt.Println(err)
		return
	}

	a, b := p.Get(), p.Get()
	n, _ := p.Size()
	fmt.Println("idle while borrowed:", n)

	a.Release()
	b.Release()
	n, _ = p.Size()
	fmt.Println("idle after release:", n)

	// Output:
	// idle while borrowed: 3
	// idle after release: 5
}

// Request is a caller-defined type made poolable by a Clear method.
type Request struct {
	Headers containers.Map[string, string]
	Body    []byte
}

func (r *Request) Clear() {
	r.Headers.Clear()
	r.Body = r.Body[:0]
}

// ExampleNewFunc pools a custom type with a constructor.
func ExampleNewFunc() {
	p := pool.NewFunc(func() *Request {
		return &Request{Body: make([]byte, 0, 4096)}
	}, pool.WithName("requests"), pool.WithLogger(zap.NewNop()))

	h := p.Get()
	h.Value().Headers.Put("Accept", "text/plain")
	h.Value().Body = append(h.Value().Body, "ping"...)
	h.Release()

	h = p.Get()
	defer h.Release()
	fmt.Println(p.Name(), h.Value().Headers.Len(), len(h.Value().Body), cap(h.Value().Body))

	// Output:
	// requests 0 0 4096
}

// ExampleNewLocalSlicePool uses a pool owned by a single goroutine.
func ExampleNewLocalSlicePool() {
	p := pool.NewLocalSlicePool[string](pool.WithLogger(zap.NewNop()))

	h := p.Get()
	h.Value().Append("a", "b")
	h.Discard()

	n, _ := p.Size()
	fmt.Println("idle:", n, "discarded:", p.Stats().Discarded)

	// Output:
	// idle: 0 discarded: 1
}
