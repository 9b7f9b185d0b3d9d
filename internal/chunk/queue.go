package chunk

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/burrow/internal/telemetry"
)

// Queue runs chunk materializations one at a time in the order they were
// requested. Requests that have not started can be cancelled; the one in
// flight always runs to completion.
type Queue struct {
	budget  time.Duration
	clock   func() time.Time
	tracer  trace.Tracer
	pending []*Materialization
	current *Materialization
	span    trace.Span
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) QueueOption {
	return func(q *Queue) { q.clock = clock }
}

// WithTracer sets the tracer used for materialization spans.
func WithTracer(t trace.Tracer) QueueOption {
	return func(q *Queue) { q.tracer = t }
}

// NewQueue creates a queue that gives each tick budget of work.
func NewQueue(budget time.Duration, opts ...QueueOption) *Queue {
	q := &Queue{
		budget: budget,
		clock:  time.Now,
		tracer: telemetry.Tracer("chunk"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue adds a materialization behind everything already queued.
func (q *Queue) Enqueue(m *Materialization) {
	q.pending = append(q.pending, m)
}

// Pending returns the number of queued materializations not yet started.
func (q *Queue) Pending() int { return len(q.pending) }

// Busy reports whether a materialization is in flight.
func (q *Queue) Busy() bool { return q.current != nil }

// Idle reports whether there is nothing in flight or queued.
func (q *Queue) Idle() bool { return q.current == nil && len(q.pending) == 0 }

// Current returns the materialization in flight, or nil.
func (q *Queue) Current() *Materialization { return q.current }

// CancelPending drops every queued materialization that has not started
// and returns how many were dropped.
func (q *Queue) CancelPending() int {
	n := len(q.pending)
	q.pending = nil
	return n
}

// Tick spends one budget on the materialization in flight, starting the
// next queued one if nothing is running. It returns the chunk that
// finished during this tick, or nil.
func (q *Queue) Tick(ctx context.Context) *Chunk {
	if q.current == nil {
		if len(q.pending) == 0 {
			return nil
		}
		q.current = q.pending[0]
		q.pending = q.pending[1:]
		c := q.current.Chunk()
		_, q.span = q.tracer.Start(ctx, "chunk.materialize")
		q.span.SetAttributes(
			attribute.Int("chunk.x", c.Key().X),
			attribute.Int("chunk.y", c.Key().Y),
			attribute.Int("spaces", len(c.Spaces())),
		)
	}

	if !q.current.Step(q.budget, q.clock) {
		return nil
	}

	done := q.current
	q.current = nil
	q.span.SetAttributes(
		attribute.Int("steps", done.Steps()),
		attribute.Int("enemies", done.Enemies()),
	)
	q.span.End()
	q.span = nil
	return done.Chunk()
}

// Drain ticks until the queue is idle and returns the finished chunks in
// completion order.
func (q *Queue) Drain(ctx context.Context) []*Chunk {
	var out []*Chunk
	for !q.Idle() {
		if c := q.Tick(ctx); c != nil {
			out = append(out, c)
		}
	}
	return out
}
