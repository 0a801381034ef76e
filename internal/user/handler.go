package user

import (
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/pagination"
)

// Handler exposes user administration over HTTP. Every route expects an
// authenticated ADMIN.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns a page of users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]any
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /users [get]
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

	httputil.RespondJSON(w, pagination.Envelope(page, "users"), http.StatusOK)
}

// Get returns one user
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} User
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// Create adds an approved user
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NewAccountRequest true "User"
// @Success      201 {object} User
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req NewAccountRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusCreated)
}

// Update modifies a user
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string        true "User ID"
// @Param        request body UpdateRequest true "Fields to change"
// @Success      200 {object} User
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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

	u, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// UpdateApproval sets the approval status of a user
// @Summary      Set approval status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string          true "User ID"
// @Param        request body ApprovalRequest true "New status"
// @Success      200 {object} User
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id}/approval [patch]
func (h *Handler) UpdateApproval(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	var req ApprovalRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	actor := "Admin"
	if caller, ok := identity.FromContext(r.Context()); ok {
		actor = caller.Email
	}

	u, err := h.service.SetApproval(r.Context(), id, req.ApprovalStatus, actor)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// Delete removes a user
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      204
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondNoContent(w)
}
