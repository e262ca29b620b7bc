// Package health exposes Kubernetes-style liveness and readiness probes.
//
// Checks run on demand when a probe endpoint is hit, each bounded by its own
// timeout. Readiness additionally gates on an explicit ready flag so a server
// can stop accepting traffic during startup and graceful shutdown.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports the health of a single component. A nil return means
// healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

// Service aggregates liveness and readiness checks for a server.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []check
	readiness []check
}

// New returns a Service in the not-ready state. Call SetReady(true) once
// initialization completes.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check that decides whether the process is
// alive. A failing liveness check typically causes the orchestrator to
// restart the process.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check that decides whether the server should
// receive traffic, such as a database ping.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the readiness gate. Set to false during graceful shutdown so
// load balancers drain the instance before connections are closed.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// LiveEndpoint handles liveness probes. It returns 200 when every liveness
// check passes, otherwise 503 with per-check error messages.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := append([]check(nil), s.liveness...)
	s.mu.RUnlock()

	writeStatus(w, runChecks(r.Context(), checks))
}

// ReadyEndpoint handles readiness probes. It returns 200 only when the
// service is marked ready and every readiness check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checks := append([]check(nil), s.readiness...)
	s.mu.RUnlock()

	failures := runChecks(r.Context(), checks)
	if !s.ready.Load() {
		failures["service"] = "not ready"
	}
	writeStatus(w, failures)
}

func runChecks(ctx context.Context, checks []check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.fn(checkCtx)
		cancel()
		if err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	resp := statusResponse{Status: "ok"}
	code := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
