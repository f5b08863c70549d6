package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkin"

type Recorder struct {
	registry         *prometheus.Registry
	attempts         *prometheus.CounterVec
	accounts         *prometheus.CounterVec
	lastRunSuccess   prometheus.Gauge
	lastRunTotal     prometheus.Gauge
	lastRunTimestamp prometheus.Gauge
}

var _ ports.RunObserver = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Check-in HTTP attempts by outcome.",
		}, []string{"outcome"}),
		accounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_total",
			Help:      "Processed accounts by final result.",
		}, []string{"result"}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "Successful accounts in the most recent pass.",
		}),
		lastRunTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_accounts",
			Help:      "Accounts considered in the most recent pass.",
		}),
		lastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent pass finished.",
		}),
	}

	r.registry.MustRegister(r.attempts, r.accounts, r.lastRunSuccess, r.lastRunTotal, r.lastRunTimestamp)
	return r
}

func (r *Recorder) ObserveAttempt(outcome domain.CheckInOutcome) {
	r.attempts.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) ObserveAccount(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	r.accounts.WithLabelValues(result).Inc()
}

func (r *Recorder) ObserveRun(result domain.RunResult) {
	r.lastRunSuccess.Set(float64(result.SuccessCount))
	r.lastRunTotal.Set(float64(result.TotalAccounts))
	r.lastRunTimestamp.Set(float64(result.FinishedAt.Unix()))
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve metrics: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
