package contact

import (
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/httputil"
)

// SuccessResponse acknowledges a forwarded message.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SendOrder mails an order to the sales inbox
// @Summary      Send order
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body OrderRequest true "Order"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /send-order [post]
func (h *Handler) SendOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	if err := h.service.SendOrder(r.Context(), req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}

// SendContact mails a contact form submission
// @Summary      Send contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body Request true "Contact form"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /send-order/contact [post]
func (h *Handler) SendContact(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	if err := h.service.SendContact(r.Context(), req); err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, SuccessResponse{Success: true}, http.StatusOK)
}
