package category

import (
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns a page of categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]any
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.FromRequest(r, pagination.DefaultLimit)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), p)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, pagination.Envelope(page, "categories"), http.StatusOK)
}

// Create adds a category
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Category"
// @Success      201 {object} Summary
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	c, err := h.service.Create(r.Context(), caller.ID, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, c, http.StatusCreated)
}

// Update modifies a category
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string        true "Category ID"
// @Param        request body UpdateRequest true "Fields to change"
// @Success      200 {object} Summary
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /categories/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.Unauthorized("Unauthorized"))
		return
	}

	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	c, err := h.service.Update(r.Context(), caller.ID, id, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, c, http.StatusOK)
}
