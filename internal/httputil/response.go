package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse represents a plain message response
type MessageResponse struct {
	Message string `json:"message"`
}

const internalErrorMessage = "Internal Server Error"

var internalErrorBody = []byte(`{"error":"` + internalErrorMessage + `","code":"` + apperror.CodeInternal + `"}` + "\n")

// RespondJSON sends a JSON response with the given status code. The body is
// encoded before the header is written, so a value that cannot be encoded
// turns into a 500.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(statusCode)
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		logging.Default().Error("failed to encode JSON response", "error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return
	}

	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// RespondNoContent writes a 204 with no body.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorWithCode sends a JSON error response with a machine-readable error code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// RespondError maps err to a response. Application errors are written as-is,
// anything else is logged with the request logger and hidden behind a 500.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := apperror.As(err); ok {
		RespondErrorWithCode(w, appErr.Message, appErr.Code, appErr.Status)
		return
	}

	logger := logging.GetLoggerFromContext(r.Context())
	logger.Error("unhandled error", "error", err.Error())
	RespondErrorWithCode(w, internalErrorMessage, apperror.CodeInternal, http.StatusInternalServerError)
}

// DecodeJSON decodes the request body into dst, returning a 400 application
// error on malformed input.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	return nil
}
