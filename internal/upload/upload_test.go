package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/storage"
)

const testBaseURL = "http://cdn.test/bucket"

type part struct {
	field       string
	filename    string
	contentType string
	body        string
}

func multipartRequest(t *testing.T, method, target string, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(w, p.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func fileHeaders(t *testing.T, field string, parts ...part) []*multipart.FileHeader {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/", parts...)
	require.NoError(t, req.ParseMultipartForm(maxMemory))
	return req.MultipartForm.File[field]
}

// failingStore rejects any object whose body is "boom".
type failingStore struct {
	*storage.MemoryStorage
}

func (f failingStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if string(data) == "boom" {
		return "", errors.New("storage unavailable")
	}
	return f.MemoryStorage.Put(ctx, key, bytes.NewReader(data), size, contentType)
}

func newTestUploader(store storage.ObjectStorage) *Uploader {
	u := NewUploader(store, logging.NewDiscardLogger())
	n := 0
	u.newID = func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	return u
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Tornillo Hexagonal":   "tornillo-hexagonal",
		"Válvula Esférica ½\"": "valvula-esferica",
		"  --Caño  PVC 40mm--": "cano-pvc-40mm",
		"ÑANDÚ":                "nandu",
		"***":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestValidateRejectsBeforeUpload(t *testing.T) {
	store := storage.NewMemoryStorage(testBaseURL)
	u := newTestUploader(store)

	files := fileHeaders(t, "images",
		part{field: "images", filename: "a.png", contentType: "image/png", body: "a"},
		part{field: "images", filename: "b.webp", contentType: "image/webp", body: "b"},
	)

	_, err := u.Upload(context.Background(), "products", "Widget", files)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid extension: webp, valid ones png, jpg, jpeg, gif", appErr.Message)
	assert.Zero(t, store.Len())
}

func TestUploadBuildsKeys(t *testing.T) {
	store := storage.NewMemoryStorage(testBaseURL)
	u := newTestUploader(store)

	files := fileHeaders(t, "images",
		part{field: "images", filename: "a.png", contentType: "image/png", body: "a"},
		part{field: "images", filename: "b.jpg", contentType: "image/jpeg", body: "b"},
	)

	urls, err := u.Upload(context.Background(), "products", "Llave Térmica", files)
	require.NoError(t, err)
	require.Len(t, urls, 2)

	assert.Equal(t, testBaseURL+"/products/llave-termica-id1.png", urls[0])
	assert.Equal(t, testBaseURL+"/products/llave-termica-id2.jpeg", urls[1])
	assert.True(t, store.Has("products/llave-termica-id1.png"))
}

func TestUploadRollsBackOnFailure(t *testing.T) {
	mem := storage.NewMemoryStorage(testBaseURL)
	u := newTestUploader(failingStore{mem})

	files := fileHeaders(t, "images",
		part{field: "images", filename: "a.png", contentType: "image/png", body: "a"},
		part{field: "images", filename: "b.png", contentType: "image/png", body: "boom"},
		part{field: "images", filename: "c.png", contentType: "image/png", body: "c"},
	)

	_, err := u.Upload(context.Background(), "products", "Widget", files)

	require.Error(t, err)
	_, isAppErr := apperror.As(err)
	assert.False(t, isAppErr)
	assert.Zero(t, mem.Len())
}

func TestRemoveAcceptsURLsAndKeys(t *testing.T) {
	store := storage.NewMemoryStorage(testBaseURL)
	u := newTestUploader(store)
	for _, key := range []string{"products/a.png", "products/b.png"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), 1, "image/png")
		require.NoError(t, err)
	}

	err := u.Remove(context.Background(), []string{
		testBaseURL + "/products/a.png",
		"products/b.png",
		"https://elsewhere.test/c.png",
	})

	require.NoError(t, err)
	assert.Zero(t, store.Len())
}

func newUploadRouter(store storage.ObjectStorage) http.Handler {
	h := NewHandler(newTestUploader(store))
	r := chi.NewRouter()
	r.Route("/upload", func(r chi.Router) {
		r.Use(ContainFiles)
		r.With(AllowedTypes(Folders...)).Post("/single/{type}", h.UploadSingle)
		r.With(AllowedTypes(Folders...)).Post("/multiple/{type}", h.UploadMultiple)
	})
	return r
}

func TestUploadRoutes(t *testing.T) {
	store := storage.NewMemoryStorage(testBaseURL)
	router := newUploadRouter(store)

	t.Run("single", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/upload/single/users",
			part{field: "file", filename: "me.gif", contentType: "image/gif", body: "gif"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body FileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, strings.HasPrefix(body.FileName, testBaseURL+"/users/"))
		assert.True(t, strings.HasSuffix(body.FileName, ".gif"))
	})

	t.Run("multiple", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/upload/multiple/categories",
			part{field: "files", filename: "a.png", contentType: "image/png", body: "a"},
			part{field: "files", filename: "b.png", contentType: "image/png", body: "b"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body []FileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body, 2)
	})

	t.Run("unknown type", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/upload/single/invoices",
			part{field: "file", filename: "a.png", contentType: "image/png", body: "a"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid type: invoices, valid ones users, products, categories")
	})

	t.Run("no files", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/upload/single/users")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No files were selected")
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload/single/users", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
