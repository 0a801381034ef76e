package upload

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
)

// maxMemory is the part of a multipart body kept in memory before spilling
// to temporary files.
const maxMemory = 32 << 20

var ErrNoFiles = apperror.BadRequest("No files were selected")

// Folders accepted in the {type} path segment.
var Folders = []string{"users", "products", "categories"}

// ContainFiles parses the multipart body and rejects requests without at
// least one file part.
func ContainFiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMemory); err != nil || r.MultipartForm == nil {
			httputil.RespondError(w, r, ErrNoFiles)
			return
		}

		for _, files := range r.MultipartForm.File {
			if len(files) > 0 {
				next.ServeHTTP(w, r)
				return
			}
		}

		httputil.RespondError(w, r, ErrNoFiles)
	})
}

// AllowedTypes rejects requests whose {type} URL parameter is not one of
// types.
func AllowedTypes(types ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			folder := chi.URLParam(r, "type")
			if !slices.Contains(types, folder) {
				httputil.RespondError(w, r, apperror.BadRequest(fmt.Sprintf(
					"Invalid type: %s, valid ones %s", folder, strings.Join(types, ", "),
				)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
