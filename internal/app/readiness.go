package app

import (
	"net/http"
	"sync/atomic"

	"github.com/meridian-lms/meridian-lms/internal/platform/httpx"
)

// Readiness gates authorization-dependent routes until the permission
// catalog has been seeded. Requests arriving earlier get 503 instead of
// spurious 403s from an empty permission table.
type Readiness struct {
	ready atomic.Bool
}

// NewReadiness starts in the not-ready state.
func NewReadiness() *Readiness {
	return &Readiness{}
}

// MarkReady flips the gate open. Called once seeding has finished.
func (g *Readiness) MarkReady() {
	g.ready.Store(true)
}

// Ready reports the gate state.
func (g *Readiness) Ready() bool {
	return g.ready.Load()
}

// Middleware rejects requests while the gate is closed.
func (g *Readiness) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Ready() {
			httpx.Problem(w, http.StatusServiceUnavailable, "Not Ready", "permission catalog is still seeding")
			return
		}
		next.ServeHTTP(w, r)
	})
}
