// Package gate serializes access to the generation oracle.
package gate

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/amishk599/skillsift/internal/metrics"
)

// Gate admits one caller at a time. Waiting callers are admitted in the order
// they arrived. A caller may give up while queued, but once admitted its work
// runs to completion.
type Gate struct {
	sem     *semaphore.Weighted
	waiting atomic.Int64
	metrics *metrics.Metrics
}

// New returns a gate with a single slot.
func New(m *metrics.Metrics) *Gate {
	return &Gate{
		sem:     semaphore.NewWeighted(1),
		metrics: m,
	}
}

// Do waits for the slot and runs fn while holding it. fn receives a context
// that keeps ctx's values but is never cancelled.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()
	g.waiting.Add(1)
	g.metrics.GateEnqueued()

	err := g.sem.Acquire(ctx, 1)

	g.waiting.Add(-1)
	g.metrics.GateAdmitted(time.Since(start))
	if err != nil {
		return fmt.Errorf("wait for oracle gate: %w", err)
	}
	defer g.sem.Release(1)

	return fn(context.WithoutCancel(ctx))
}

// Waiting returns the number of callers currently queued.
func (g *Gate) Waiting() int {
	return int(g.waiting.Load())
}

// Run is Do for functions that return a value.
func Run[T any](ctx context.Context, g *Gate, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}
