package rbac

import (
	"log/slog"
	"net/http"

	"github.com/meridian-lms/meridian-lms/internal/platform/httpx"
	"github.com/meridian-lms/meridian-lms/internal/shared"
)

// Middleware wires authorization checks into HTTP handlers.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
}

// RequireAny ensures the current actor holds at least one of the required
// permissions. Anonymous requests and actors without a matching grant get
// a 403; which permission a route declares is the route's policy, so a
// route may list both a scoped and a global translate grant.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
				return
			}
			roles := ParseRoles(identity.Roles)
			granted, err := m.Evaluator.HasAnyPermission(r.Context(), roles, perms...)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac require any", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !granted {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Require is RequireAny for a single permission.
func (m Middleware) Require(perm string) func(http.Handler) http.Handler {
	return m.RequireAny(perm)
}
