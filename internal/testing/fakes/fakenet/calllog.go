// Package fakenet provides scripted, call-recording doubles of the UDP socket ports.
//
// Every operation of every double has two halves: a CallLog that records the
// arguments of each call, and a result queue that is filled in advance through
// builder methods and drained one entry per call. Calling an operation whose
// queue is empty panics, so a test that forgets to script a call fails loudly
// instead of receiving a zero value.
package fakenet

import (
	"fmt"
	"sync"
)

// CallLog is an append-only record of calls. A test may create one, hand it
// to a double, and keep reading it after the double is gone. It is safe for
// concurrent use.
type CallLog[T any] struct {
	mu    sync.Mutex
	calls []T
}

// NewCallLog returns an empty CallLog.
func NewCallLog[T any]() *CallLog[T] {
	return &CallLog[T]{}
}

func (l *CallLog[T]) record(call T) {
	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.mu.Unlock()
}

// All returns a copy of the recorded calls in invocation order.
func (l *CallLog[T]) All() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.calls))
	copy(out, l.calls)
	return out
}

// Len returns the number of recorded calls.
func (l *CallLog[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

// queue holds scripted results for one operation, consumed front first.
type queue[T any] struct {
	mu    sync.Mutex
	op    string
	items []T
	calls int
}

func newQueue[T any](op string) *queue[T] {
	return &queue[T]{op: op}
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// pop panics when nothing is left: an extra call is a defect in the test script.
func (q *queue[T]) pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls++
	if len(q.items) == 0 {
		panic(fmt.Sprintf("fakenet: %s call #%d has no scripted result", q.op, q.calls))
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v
}

func (q *queue[T]) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
