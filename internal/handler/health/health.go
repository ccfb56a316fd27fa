// Package health serves the readiness report of the bot's storage backends.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Result is the outcome of one check.
type Result struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// Report is the body of the health endpoint.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks"`
}

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: 3 * time.Second}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// Run executes every check concurrently.
func (h *Handler) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rep := Report{Status: StatusOK, Checks: make(map[string]Result, len(h.checks))}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, c := range h.checks {
		wg.Go(func() {
			start := time.Now()
			err := c.Check(ctx)
			res := Result{Status: StatusOK, LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				res.Status = StatusError
			}

			mu.Lock()
			defer mu.Unlock()
			rep.Checks[name] = res
			if err != nil {
				rep.Status = StatusError
			}
		})
	}
	wg.Wait()
	return rep
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	rep := h.Run(r.Context())

	status := http.StatusOK
	if rep.Status != StatusOK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rep)
}
