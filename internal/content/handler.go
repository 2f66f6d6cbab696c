package content

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/platform/httpx"
	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/shared"
	"github.com/meridian-lms/meridian-lms/internal/translation"
)

// Handler exposes the CRUD and translation endpoints for one entity kind.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	evaluator *rbac.Evaluator
	validate  *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, evaluator *rbac.Evaluator) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		evaluator: evaluator,
		validate:  validator.New(),
	}
}

// MountRoutes registers the entity routes. Route-level permissions come
// from the kind; translation writes are additionally checked per language
// inside the handler because the language is only known from the body.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	kind := h.service.Kind()

	r.Group(func(r chi.Router) {
		r.Use(mw.Require(kind.ViewPerm))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
		r.Get("/{id}/translations", h.listTranslations)
	})
	r.With(mw.Require(kind.AddPerm)).Post("/", h.create)
	r.With(mw.Require(kind.DeletePerm)).Delete("/{id}", h.delete)

	r.Group(func(r chi.Router) {
		r.Use(mw.Require(kind.EditPerm))
		r.Post("/{id}/translations", h.createTranslation)
		r.Put("/translations/{translationID}", h.updateTranslation)
		r.Delete("/translations/{translationID}", h.deleteTranslation)
	})
}

type entityView struct {
	ID           int64                `json:"id"`
	OwnerID      *int64               `json:"owner_id,omitempty"`
	Translations []translation.Record `json:"translations"`
}

func (h *Handler) view(e Entity) entityView {
	out := entityView{ID: e.ID, Translations: e.Translations}
	if h.service.Kind().HasOwner() {
		owner := e.OwnerID
		out.OwnerID = &owner
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	entities, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	views := make([]entityView, 0, len(entities))
	for _, e := range entities {
		views = append(views, h.view(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":      views,
		"pagination": pagination,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	entity, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.view(entity))
}

type createRequest struct {
	OwnerID int64 `json:"owner_id" validate:"gte=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}

	var req createRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
	}

	entity, err := h.service.Create(r.Context(), identity.UserID, req.OwnerID)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, h.view(entity))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Delete(r.Context(), identity.UserID, id); err != nil {
		h.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTranslations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	records, err := h.service.Translations(r.Context(), id)
	if err != nil {
		h.fail(w, "list translations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"translations": records})
}

type translationRequest struct {
	Language    string `json:"language" validate:"required"`
	Name        string `json:"name" validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
}

func (h *Handler) createTranslation(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}
	parentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}

	var req translationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	lang, err := language.Parse(req.Language)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported language code")
		return
	}
	if !h.allowTranslate(w, r, identity, lang) {
		return
	}

	rec, err := h.service.CreateTranslation(r.Context(), identity.UserID, parentID, lang,
		translation.Fields{Name: req.Name, Description: req.Description})
	if err != nil {
		h.fail(w, "create translation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

type translationUpdateRequest struct {
	Language    *string `json:"language,omitempty"`
	Name        string  `json:"name" validate:"required,max=500"`
	Description string  `json:"description" validate:"max=5000"`
}

func (h *Handler) updateTranslation(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "translationID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid translation id")
		return
	}

	var req translationUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var newLang *language.Code
	if req.Language != nil {
		lang, err := language.Parse(*req.Language)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "unsupported language code")
			return
		}
		if !h.allowTranslate(w, r, identity, lang) {
			return
		}
		newLang = &lang
	}

	rec, err := h.service.UpdateTranslation(r.Context(), identity.UserID, id, newLang,
		translation.Fields{Name: req.Name, Description: req.Description})
	if err != nil {
		h.fail(w, "update translation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) deleteTranslation(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "authentication required")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "translationID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid translation id")
		return
	}
	if err := h.service.DeleteTranslation(r.Context(), identity.UserID, id); err != nil {
		h.fail(w, "delete translation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// allowTranslate enforces the per-language translate grant: either the
// language-wide Translate_<lang> or the scoped <EditPerm>_Translate_<lang>
// suffices. Both grants are independent; either unlocks the write.
func (h *Handler) allowTranslate(w http.ResponseWriter, r *http.Request, identity shared.Identity, lang language.Code) bool {
	roles := rbac.ParseRoles(identity.Roles)
	ok, err := h.evaluator.HasAnyPermission(r.Context(), roles,
		rbac.GlobalTranslatePermission(lang),
		rbac.ScopedTranslatePermission(h.service.Kind().EditPerm, lang))
	if err != nil {
		h.logger.Error("translate permission check", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return false
	}
	if !ok {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing translate permission for language "+string(lang))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, translation.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, translation.ErrConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, language.ErrInvalidLanguage):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, ErrOwnerRequired):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
