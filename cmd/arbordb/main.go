// Command arbordb runs a small scripted demonstration of the store and,
// optionally, a configurable concurrent workload. It can expose Prometheus
// metrics over HTTP while doing so; the store itself has no network surface.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arbordb/arbordb/internal/workload"
	"github.com/arbordb/arbordb/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML workload configuration (empty for defaults)")
	metricsAddr := flag.String("metrics-addr", "", "Listen address for the Prometheus /metrics endpoint (empty to disable)")
	skipWorkload := flag.Bool("skip-workload", false, "Run only the scripted demo and exit")

	flag.Parse()

	// Ctrl-C stops a running workload and lets it drain.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("metrics listening on %s", *metricsAddr)
			log.Fatal(http.ListenAndServe(*metricsAddr, mux))
		}()
	}

	runDemo()

	if *skipWorkload {
		return
	}

	cfg, err := workload.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("cannot load workload config: %v", err)
	}

	report, err := workload.Run(ctx, cfg)
	if err != nil {
		log.Fatalf("workload failed: %v", err)
	}
	log.Print(report)
}

// runDemo walks the canonical five-key scenario: build a small tree, look a
// key up, delete one, then clear with a cleanup callback.
func runDemo() {
	store := engine.New[string, string]()

	store.Set("d", "delta")
	store.Set("b", "bravo")
	store.Set("a", "alpha")
	store.Set("c", "charlie")
	store.Set("e", "echo")

	if v, ok := store.Get("c"); ok {
		log.Printf("demo: c -> %s", v)
	}
	if old, ok := store.Delete("b"); ok {
		log.Printf("demo: deleted b (was %s)", old)
	}
	if _, ok := store.Get("b"); !ok {
		log.Print("demo: b is gone")
	}

	freed := 0
	store.Clear(func(string) error {
		freed++
		return nil
	})
	log.Printf("demo: cleared %d values", freed)
}
