package core

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

// TestConcurrentLookups runs many readers over a quiesced tree. With no
// writer present they serialize only briefly on individual node locks; the
// test mostly exists to be run under -race.
func TestConcurrentLookups(t *testing.T) {
	const (
		keys    = 1000
		readers = 16
		rounds  = 500
	)

	tree := New[string, int]()
	for i := 0; i < keys; i++ {
		tree.Insert(fmt.Sprintf("key-%04d", i), i)
	}

	var wg sync.WaitGroup
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < rounds; i++ {
				n := rng.Intn(keys)
				v, ok := tree.Lookup(fmt.Sprintf("key-%04d", n))
				if !ok || v != n {
					t.Errorf("Lookup(key-%04d) = %d, %t; want %d, true", n, v, ok, n)
				}
			}
		}(int64(r))
	}
	wg.Wait()
}

// TestConcurrentMutatorsAndReaders is the chaos test: several writers mutate
// disjoint key ranges while readers traverse the whole tree. Each writer
// tracks the state its range must quiesce to, so after the storm the final
// tree is checked exactly, plus the ordering invariant. Run with -race.
func TestConcurrentMutatorsAndReaders(t *testing.T) {
	const (
		writers     = 8
		readers     = 8
		keysPerSlot = 200
		duration    = 300 * time.Millisecond
	)

	tree := New[string, int]()
	stop := make(chan struct{})
	time.AfterFunc(duration, func() { close(stop) })

	expected := make([]map[string]int, writers)
	var wg sync.WaitGroup

	for w := 0; w < writers; w++ {
		expected[w] = make(map[string]int)
		wg.Add(1)
		go func(w int, want map[string]int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			for {
				select {
				case <-stop:
					return
				default:
				}
				key := fmt.Sprintf("w%02d-%04d", w, rng.Intn(keysPerSlot))
				if rng.Intn(3) == 0 {
					_, ok := tree.Delete(key)
					_, wantOK := want[key]
					if ok != wantOK {
						t.Errorf("Delete(%q) = %t, expected %t", key, ok, wantOK)
					}
					delete(want, key)
				} else {
					value := rng.Int()
					outcome := tree.Insert(key, value)
					if _, present := want[key]; present != (outcome == Replaced) {
						t.Errorf("Insert(%q) = %v with present=%t", key, outcome, present)
					}
					want[key] = value
				}
			}
		}(w, expected[w])
	}

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}
				// Results are inherently racy against the writers; the
				// reader only exercises the traversal.
				key := fmt.Sprintf("w%02d-%04d", rng.Intn(writers), rng.Intn(keysPerSlot))
				tree.Lookup(key)
			}
		}(int64(1000 + r))
	}

	wg.Wait()

	total := 0
	for w, want := range expected {
		total += len(want)
		for key, value := range want {
			got, ok := tree.Lookup(key)
			if !ok || got != value {
				t.Errorf("writer %d: Lookup(%q) = %d, %t; want %d, true", w, key, got, ok, value)
			}
		}
	}
	if got := tree.Len(); got != total {
		t.Errorf("Len() = %d, want %d", got, total)
	}
	assertStrictlyIncreasing(t, inorderKeys(tree))
}

// TestClearUnderReaders interleaves readers with repeated loads and clears.
func TestClearUnderReaders(t *testing.T) {
	const (
		readers  = 8
		duration = 200 * time.Millisecond
	)

	tree := New[string, int]()
	stop := make(chan struct{})
	time.AfterFunc(duration, func() { close(stop) })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for round := 0; ; round++ {
			select {
			case <-stop:
				return
			default:
			}
			for i := 0; i < 100; i++ {
				tree.Insert(fmt.Sprintf("key-%03d", i), round)
			}
			tree.Clear(nil)
		}
	}()

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}
				tree.Lookup(fmt.Sprintf("key-%03d", rng.Intn(100)))
			}
		}(int64(r))
	}

	wg.Wait()

	tree.Clear(nil)
	if !tree.IsEmpty() {
		t.Fatal("tree not empty after final Clear")
	}
}
