package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/registry"
	"github.com/finditapp/findit/internal/session"
	"github.com/finditapp/findit/internal/store"
)

// ItemsHandler handles report endpoints. Submissions run through the same
// registry pipeline the client runs, so validation is symmetric.
type ItemsHandler struct {
	DB       *sql.DB
	Pipeline *registry.Pipeline
}

// List handles GET /api/items. The type query parameter is required;
// q and category narrow the result with the registry filter engine.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("type")
	if !model.ValidType(itemType) {
		jsonError(w, http.StatusBadRequest, "type must be lost or found")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.StatusActive
	}
	if status != model.StatusActive && status != model.StatusResolved {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, itemType, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	items = registry.Filter(items, registry.FilterSpec{
		SearchTerm: r.URL.Query().Get("q"),
		Category:   r.URL.Query().Get("category"),
	})
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var draft registry.Draft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := session.Identity{UserID: claims.UserID, Email: claims.Email}
	item, err := h.Pipeline.Submit(r.Context(), draft, identity)
	if err != nil {
		var authErr *registry.AuthError
		var validationErr *registry.ValidationError
		switch {
		case errors.As(err, &authErr):
			jsonError(w, http.StatusUnauthorized, authErr.Reason)
		case errors.As(err, &validationErr):
			jsonResponse(w, http.StatusBadRequest, map[string]string{
				"error": validationErr.Error(),
				"field": validationErr.Field,
			})
		default:
			jsonError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Contact handles GET /api/items/{id}/contact. Disclosure is open to any
// viewer who can see the report.
func (h *ItemsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{
		"title":        item.Title,
		"contact_info": registry.Reveal(*item),
	})
}

// Mine handles GET /api/items/mine: the caller's own reports, any status.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	items, err := store.ListItemsByReporter(r.Context(), h.DB, claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Resolve handles PUT /api/items/{id}/resolve. Only the reporter may mark
// their own report resolved.
func (h *ItemsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	ok, err := store.ResolveItem(r.Context(), h.DB, r.PathValue("id"), claims.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to resolve item")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	item, _ := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	jsonResponse(w, http.StatusOK, item)
}
