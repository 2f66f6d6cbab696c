package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-lms/meridian-lms/internal/platform/httpx"
	"github.com/meridian-lms/meridian-lms/internal/shared"
)

// Handler exposes the RBAC admin surface: catalog introspection and
// administrative grants.
type Handler struct {
	logger    *slog.Logger
	repo      *Repository
	evaluator *Evaluator
	audit     *shared.AuditLogger
	validate  *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo *Repository, evaluator *Evaluator, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:    logger,
		repo:      repo,
		evaluator: evaluator,
		audit:     audit,
		validate:  validator.New(),
	}
}

// MountRoutes attaches RBAC routes. Permission guards are applied by the
// caller-supplied middleware.
func (h *Handler) MountRoutes(r chi.Router, mw Middleware) {
	r.With(mw.Require(PermAssignRole)).Get("/permissions", h.listPermissions)
	r.With(mw.Require(PermAssignRole)).Get("/roles", h.listRoles)
	r.With(mw.Require(PermAssignRole)).Post("/roles/{role}/permissions", h.grant)
}

type permissionView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.repo.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]permissionView, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionView{ID: p.ID, Name: p.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": out})
}

type roleView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	out := make([]roleView, 0, len(roles))
	for _, role := range roles {
		rank, err := Rank(role.Name)
		if err != nil {
			// Rows outside the closed set should not exist; skip rather
			// than fail the whole listing.
			continue
		}
		out = append(out, roleView{ID: role.ID, Name: string(role.Name), Rank: rank})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}

type grantRequest struct {
	Permissions []string `json:"permissions" validate:"required,min=1,dive,required"`
}

func (h *Handler) grant(w http.ResponseWriter, r *http.Request) {
	target, err := ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown role")
		return
	}

	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}
	if !h.evaluator.CanAssignRole(ParseRoles(identity.Roles), target) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "role hierarchy does not permit managing this role")
		return
	}

	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	role, err := h.repo.FindRoleByName(r.Context(), target)
	if err != nil {
		h.logger.Error("find role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	perms, err := h.repo.ListPermissionsByNames(r.Context(), req.Permissions)
	if err != nil {
		h.logger.Error("resolve permissions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if len(perms) != len(req.Permissions) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "one or more permission names are unknown")
		return
	}

	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	if err := h.repo.InsertRolePermissions(r.Context(), role.ID, ids); err != nil {
		h.logger.Error("insert grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if h.audit != nil {
		_ = h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  identity.UserID,
			Action:   "rbac.grant",
			Entity:   "role",
			EntityID: string(target),
			Meta:     map[string]any{"permissions": req.Permissions},
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"granted": len(ids)})
}
