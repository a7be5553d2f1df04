package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/arbordb/arbordb/pkg/core"
	"github.com/arbordb/arbordb/pkg/metrics"
)

func TestStoreSemantics(t *testing.T) {
	s := New[string, string]()

	if got := s.Set("d", "delta"); got != core.Inserted {
		t.Fatalf("Set(d) = %v, want Inserted", got)
	}
	if got := s.Set("d", "delta2"); got != core.Replaced {
		t.Fatalf("second Set(d) = %v, want Replaced", got)
	}
	if v, ok := s.Get("d"); !ok || v != "delta2" {
		t.Fatalf("Get(d) = %q, %t; want delta2, true", v, ok)
	}
	if v, ok := s.Delete("d"); !ok || v != "delta2" {
		t.Fatalf("Delete(d) = %q, %t; want delta2, true", v, ok)
	}
	if _, ok := s.Delete("d"); ok {
		t.Fatal("second Delete(d) reported success")
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestStoreMovesKeyGauge(t *testing.T) {
	s := New[string, int]()
	before := testutil.ToFloat64(metrics.KeysTotal)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 3) // replace, no gauge movement

	if got := testutil.ToFloat64(metrics.KeysTotal) - before; got != 2 {
		t.Fatalf("gauge moved by %v after two inserts and a replace, want 2", got)
	}

	s.Delete("a")
	if got := testutil.ToFloat64(metrics.KeysTotal) - before; got != 1 {
		t.Fatalf("gauge moved by %v after delete, want 1", got)
	}

	s.Clear(nil)
	if got := testutil.ToFloat64(metrics.KeysTotal) - before; got != 0 {
		t.Fatalf("gauge moved by %v after Clear, want 0", got)
	}
}

func TestStoreClearRunsCallback(t *testing.T) {
	s := New[string, int]()
	s.Set("a", 1)
	s.Set("b", 2)

	sum := 0
	s.Clear(func(v int) error {
		sum += v
		return nil
	})

	if sum != 3 {
		t.Fatalf("cleanup saw values summing to %d, want 3", sum)
	}
	if got := s.Len(); got != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", got)
	}
}
