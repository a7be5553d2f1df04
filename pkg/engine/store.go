// Package engine wraps the core tree with the cross-cutting concerns of a
// running ArborDB instance. The core package stays a pure data structure;
// everything operational (Prometheus counters, latency histograms, the live
// key gauge) lives here.
package engine

import (
	"cmp"
	"time"

	"github.com/arbordb/arbordb/pkg/core"
	"github.com/arbordb/arbordb/pkg/metrics"
)

// Store is an instrumented ordered key-value store. All semantics are those
// of core.Tree; Store only adds observation.
type Store[K cmp.Ordered, V any] struct {
	tree *core.Tree[K, V]
}

// New creates an empty instrumented store.
func New[K cmp.Ordered, V any]() *Store[K, V] {
	return &Store[K, V]{tree: core.New[K, V]()}
}

// Set stores value under key and reports whether the key was newly inserted
// or an existing value was replaced.
func (s *Store[K, V]) Set(key K, value V) core.Outcome {
	start := time.Now()
	outcome := s.tree.Insert(key, value)
	metrics.OperationDuration.WithLabelValues("set").Observe(time.Since(start).Seconds())
	metrics.OperationsTotal.WithLabelValues("set", outcome.String()).Inc()
	if outcome == core.Inserted {
		metrics.KeysTotal.Inc()
	}
	return outcome
}

// Get retrieves the value stored under key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	value, ok := s.tree.Lookup(key)
	metrics.OperationDuration.WithLabelValues("get").Observe(time.Since(start).Seconds())
	metrics.OperationsTotal.WithLabelValues("get", hitOrMiss(ok)).Inc()
	return value, ok
}

// Delete removes key and returns the value it held, if any.
func (s *Store[K, V]) Delete(key K) (V, bool) {
	start := time.Now()
	value, ok := s.tree.Delete(key)
	metrics.OperationDuration.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	if ok {
		metrics.OperationsTotal.WithLabelValues("delete", "deleted").Inc()
		metrics.KeysTotal.Dec()
	} else {
		metrics.OperationsTotal.WithLabelValues("delete", "miss").Inc()
	}
	return value, ok
}

// Clear empties the store, running the optional onValue cleanup callback once
// per stored value. Callback failures are discarded, as in core.Tree.Clear.
func (s *Store[K, V]) Clear(onValue func(V) error) {
	start := time.Now()
	n := s.tree.Len()
	s.tree.Clear(onValue)
	metrics.OperationDuration.WithLabelValues("clear").Observe(time.Since(start).Seconds())
	metrics.OperationsTotal.WithLabelValues("clear", "done").Inc()
	metrics.KeysTotal.Sub(float64(n))
}

// Len returns the number of keys currently stored.
func (s *Store[K, V]) Len() int {
	return s.tree.Len()
}

func hitOrMiss(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}
