package images

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/pagination"
)

// ListResponse wraps a listing window.
type ListResponse struct {
	Success bool     `json:"success"`
	Data    *Listing `json:"data"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns stored images
// @Summary      List images
// @Tags         images
// @Produce      json
// @Param        prefix query string false "Key prefix"
// @Param        page   query int    false "Page number"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} ListResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /images [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.FromRequest(r, DefaultLimit)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	listing, err := h.service.List(r.Context(), r.URL.Query().Get("prefix"), p)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, ListResponse{Success: true, Data: listing}, http.StatusOK)
}

// ListByType returns the images of one folder
// @Summary      List images by folder
// @Tags         images
// @Produce      json
// @Param        type  path  string true  "Folder"
// @Param        page  query int    false "Page number"
// @Param        limit query int    false "Page size"
// @Success      200 {object} ListResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /images/{type} [get]
func (h *Handler) ListByType(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.FromRequest(r, DefaultFolderLimit)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	listing, err := h.service.ListFolder(r.Context(), chi.URLParam(r, "type"), p)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, ListResponse{Success: true, Data: listing}, http.StatusOK)
}

// Delete removes an image by key
// @Summary      Delete image
// @Tags         images
// @Produce      json
// @Security     BearerAuth
// @Param        key path string true "Object key, may contain slashes"
// @Success      200 {object} DeleteResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /images/{key} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, DeleteResponse{Success: true, Message: "Image deleted"}, http.StatusOK)
}
