// Package workload drives a configurable concurrent exerciser over an
// ArborDB store: N writer goroutines inserting and deleting over a bounded
// key space while M reader goroutines look keys up, for a fixed duration.
// It reports operation counts and a latency summary.
package workload

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/arbordb/arbordb/pkg/engine"
)

// maxSamplesPerWorker caps latency sampling so long runs stay bounded.
const maxSamplesPerWorker = 1 << 16

// Report summarizes a finished run.
type Report struct {
	RunID   string
	Elapsed time.Duration

	Sets    uint64
	Deletes uint64
	Hits    uint64
	Misses  uint64

	MeanLatency time.Duration
	P50Latency  time.Duration
	P99Latency  time.Duration

	FinalKeys int
}

// String renders the report in a single log-friendly line.
func (r *Report) String() string {
	return fmt.Sprintf(
		"run %s: %d sets, %d deletes, %d hits, %d misses in %v (latency mean %v, p50 %v, p99 %v; %d keys left)",
		r.RunID, r.Sets, r.Deletes, r.Hits, r.Misses, r.Elapsed.Round(time.Millisecond),
		r.MeanLatency, r.P50Latency, r.P99Latency, r.FinalKeys,
	)
}

// Run executes the workload described by cfg against a fresh store. It stops
// when cfg.Duration elapses or ctx is cancelled, whichever comes first, and
// always drains its workers before returning.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload config: %w", err)
	}

	store := engine.New[string, []byte]()
	runID := uuid.NewString()
	log.Printf("workload %s starting: %d writers, %d readers, %d keys, %v",
		runID, cfg.Writers, cfg.Readers, cfg.KeySpace, cfg.Duration)

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var (
		sets, deletes, hits, misses atomic.Uint64

		sampleMu sync.Mutex
		samples  []float64
	)
	record := func(local []float64) {
		sampleMu.Lock()
		samples = append(samples, local...)
		sampleMu.Unlock()
	}

	start := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < cfg.Writers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			value := make([]byte, cfg.ValueSize)
			rng.Read(value)
			local := make([]float64, 0, 1024)

			for ctx.Err() == nil {
				key := fmt.Sprintf("key-%06d", rng.Intn(cfg.KeySpace))
				opStart := time.Now()
				if rng.Float64() < cfg.DeleteRatio {
					store.Delete(key)
					deletes.Add(1)
				} else {
					store.Set(key, value)
					sets.Add(1)
				}
				if len(local) < maxSamplesPerWorker {
					local = append(local, time.Since(opStart).Seconds())
				}
			}
			record(local)
		}(int64(i))
	}

	for i := 0; i < cfg.Readers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			local := make([]float64, 0, 1024)

			for ctx.Err() == nil {
				key := fmt.Sprintf("key-%06d", rng.Intn(cfg.KeySpace))
				opStart := time.Now()
				if _, ok := store.Get(key); ok {
					hits.Add(1)
				} else {
					misses.Add(1)
				}
				if len(local) < maxSamplesPerWorker {
					local = append(local, time.Since(opStart).Seconds())
				}
			}
			record(local)
		}(int64(1000 + i))
	}

	wg.Wait()

	report := &Report{
		RunID:     runID,
		Elapsed:   time.Since(start),
		Sets:      sets.Load(),
		Deletes:   deletes.Load(),
		Hits:      hits.Load(),
		Misses:    misses.Load(),
		FinalKeys: store.Len(),
	}

	if len(samples) > 0 {
		sort.Float64s(samples)
		report.MeanLatency = secondsToDuration(stat.Mean(samples, nil))
		report.P50Latency = secondsToDuration(stat.Quantile(0.50, stat.Empirical, samples, nil))
		report.P99Latency = secondsToDuration(stat.Quantile(0.99, stat.Empirical, samples, nil))
	}

	return report, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
