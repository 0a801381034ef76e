package product

import (
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
	"github.com/redmonkez12/storefront-api/internal/identity"
	"github.com/redmonkez12/storefront-api/internal/pagination"
	"github.com/redmonkez12/storefront-api/internal/upload"
)

// imageFields are the multipart fields read as product images.
var imageFields = []string{"img", "images", "image"}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns a page of products. Anonymous callers get the public
// projection.
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]any
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /products [get]
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

	if _, ok := identity.FromContext(r.Context()); ok {
		httputil.RespondJSON(w, pagination.Envelope(page, "products"), http.StatusOK)
		return
	}
	httputil.RespondJSON(w, pagination.Envelope(pagination.Map(page, (*Product).Public), "products"), http.StatusOK)
}

// Get returns one product
// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} Product
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathUUID(r, "id")
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	_, authenticated := identity.FromContext(r.Context())
	httputil.RespondJSON(w, p.View(authenticated), http.StatusOK)
}

// Create adds a product
// @Summary      Create product
// @Tags         products
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name        formData string true  "Name"
// @Param        price       formData number true  "Price"
// @Param        title       formData string true  "Title"
// @Param        category    formData string true  "Category ID"
// @Param        codigo      formData string false "Product code"
// @Param        description formData string false "Description"
// @Param        available   formData bool   false "Available"
// @Param        img         formData file   false "Images"
// @Success      201 {object} Product
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.RespondError(w, r, apperror.Unauthorized("Unauthorized"))
		return
	}

	var req CreateRequest
	files, err := decodeProduct(r, &req.Fields, nil)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	p, err := h.service.Create(r.Context(), caller.ID, req, files)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusCreated)
}

// Update modifies a product and merges its images
// @Summary      Update product
// @Tags         products
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id           path     string true  "Product ID"
// @Param        retainImages formData []string false "Stored images to keep" collectionFormat(multi)
// @Param        img          formData file   false "New images"
// @Success      200 {object} Product
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /products/{id} [patch]
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
	files, err := decodeProduct(r, &req.Fields, &req.RetainImages)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	p, err := h.service.Update(r.Context(), caller.ID, id, req, files)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, p, http.StatusOK)
}

// Delete removes a product
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /products/{id} [delete]
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

// decodeProduct fills fields from a multipart form or a JSON body. retain,
// when non-nil, receives the retainImages list.
func decodeProduct(r *http.Request, fields *Fields, retain *[]string) ([]*multipart.FileHeader, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body := struct {
			*Fields
			RetainImages []string `json:"retainImages"`
		}{Fields: fields}
		if err := httputil.DecodeJSON(r, &body); err != nil {
			return nil, err
		}
		if retain != nil {
			*retain = body.RetainImages
		}
		return nil, nil
	}

	files := upload.FormFiles(r, imageFields...)
	if r.MultipartForm == nil {
		return nil, apperror.BadRequest("invalid multipart body")
	}

	form := url.Values(r.MultipartForm.Value)
	parsed, err := FieldsFromForm(form)
	if err != nil {
		return nil, err
	}
	*fields = parsed
	if retain != nil {
		*retain = RetainFromForm(form)
	}
	return files, nil
}
