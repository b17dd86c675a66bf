//go:build !tinygo

package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	resyncAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "beacon",
		Name:      "resync_attempts_total",
		Help:      "Network time resyncs started.",
	})
	resyncFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "beacon",
		Name:      "resync_failures_total",
		Help:      "Network time resyncs that did not update the clock.",
	}, []string{"reason"})
	lastSync = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "beacon",
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix time of the last successful resync.",
	})
	broadcastCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "beacon",
		Name:      "broadcast_cycles_total",
		Help:      "Advertising windows completed.",
	})
	refreshSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "beacon",
		Name:      "refresh_skips_total",
		Help:      "Clock samples skipped because the local clock was not set.",
	})
)

func init() {
	registry.MustRegister(
		resyncAttempts,
		resyncFailures,
		lastSync,
		broadcastCycles,
		refreshSkips,
		collectors.NewGoCollector(),
	)
}

func ResyncAttempt()              { resyncAttempts.Inc() }
func ResyncFailure(reason string) { resyncFailures.WithLabelValues(reason).Inc() }
func ResyncSuccess(t time.Time)   { lastSync.Set(float64(t.Unix())) }
func BroadcastCycle()             { broadcastCycles.Inc() }
func RefreshSkipped()             { refreshSkips.Inc() }

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
