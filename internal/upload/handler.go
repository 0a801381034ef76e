package upload

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/httputil"
)

// FileResponse carries the public URL of an uploaded file.
type FileResponse struct {
	FileName string `json:"fileName"`
}

type Handler struct {
	uploader *Uploader
}

func NewHandler(uploader *Uploader) *Handler {
	return &Handler{uploader: uploader}
}

// UploadSingle stores the "file" part
// @Summary      Upload one image
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type path     string true "Folder" Enums(users, products, categories)
// @Param        file formData file   true "Image"
// @Success      200 {object} FileResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /upload/single/{type} [post]
func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	files := FormFiles(r, "file")
	if len(files) == 0 {
		httputil.RespondError(w, r, apperror.BadRequest("Missing file"))
		return
	}

	urls, err := h.uploader.Upload(r.Context(), chi.URLParam(r, "type"), "", files[:1])
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	httputil.RespondJSON(w, FileResponse{FileName: urls[0]}, http.StatusOK)
}

// UploadMultiple stores every "files" part
// @Summary      Upload several images
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        type  path     string true "Folder" Enums(users, products, categories)
// @Param        files formData file   true "Images"
// @Success      200 {array}  FileResponse
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /upload/multiple/{type} [post]
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	files := FormFiles(r, "files")
	if len(files) == 0 {
		httputil.RespondError(w, r, apperror.BadRequest("Missing files"))
		return
	}

	urls, err := h.uploader.Upload(r.Context(), chi.URLParam(r, "type"), "", files)
	if err != nil {
		httputil.RespondError(w, r, err)
		return
	}

	resp := make([]FileResponse, len(urls))
	for i, url := range urls {
		resp[i] = FileResponse{FileName: url}
	}
	httputil.RespondJSON(w, resp, http.StatusOK)
}

// FormFiles collects the file parts of the named fields, parsing the
// multipart body if needed.
func FormFiles(r *http.Request, fields ...string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil
		}
	}
	var files []*multipart.FileHeader
	for _, field := range fields {
		files = append(files, r.MultipartForm.File[field]...)
	}
	return files
}
