// Package upload validates multipart image files and stores them in object
// storage.
package upload

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/redmonkez12/storefront-api/internal/apperror"
	"github.com/redmonkez12/storefront-api/internal/logging"
	"github.com/redmonkez12/storefront-api/internal/storage"
)

// DefaultExtensions is the image allow-list applied to every upload.
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif"}

// maxParallelUploads bounds concurrent PutObject calls for one request.
const maxParallelUploads = 4

// Uploader puts validated files into object storage under a folder prefix.
type Uploader struct {
	store      storage.ObjectStorage
	extensions []string
	logger     *logging.Logger
	newID      func() string
}

func NewUploader(store storage.ObjectStorage, logger *logging.Logger) *Uploader {
	return &Uploader{
		store:      store,
		extensions: DefaultExtensions,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// Extension derives the file extension from the declared media type.
func Extension(fh *multipart.FileHeader) string {
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	_, subtype, _ := strings.Cut(mediaType, "/")
	return strings.ToLower(subtype)
}

// Validate checks every file against the allow-list. Nothing is uploaded
// unless all of them pass.
func (u *Uploader) Validate(files []*multipart.FileHeader) error {
	for _, fh := range files {
		ext := Extension(fh)
		if !slices.Contains(u.extensions, ext) {
			return apperror.BadRequest(fmt.Sprintf(
				"Invalid extension: %s, valid ones %s", ext, strings.Join(u.extensions, ", "),
			))
		}
	}
	return nil
}

// Key builds "<folder>/<slug(name)>-<uuid>.<ext>", or "<folder>/<uuid>.<ext>"
// when name has no usable characters.
func (u *Uploader) Key(folder, name, ext string) string {
	id := u.newID()
	if slug := Slug(name); slug != "" {
		id = slug + "-" + id
	}
	return fmt.Sprintf("%s/%s.%s", folder, id, ext)
}

// Upload validates and stores files, returning their public URLs in input
// order. When any upload fails the objects already written are removed.
func (u *Uploader) Upload(ctx context.Context, folder, name string, files []*multipart.FileHeader) ([]string, error) {
	if err := u.Validate(files); err != nil {
		return nil, err
	}

	keys := make([]string, len(files))
	urls := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, fh := range files {
		i, fh := i, fh
		key := u.Key(folder, name, Extension(fh))
		g.Go(func() error {
			url, err := u.put(gctx, key, fh)
			if err != nil {
				return err
			}
			keys[i], urls[i] = key, url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		written := slices.DeleteFunc(slices.Clone(keys), func(k string) bool { return k == "" })
		if rollbackErr := u.RemoveKeys(context.WithoutCancel(ctx), written); rollbackErr != nil {
			err = multierr.Append(err, rollbackErr)
		}
		return nil, fmt.Errorf("failed to upload files: %w", err)
	}

	return urls, nil
}

func (u *Uploader) put(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	return u.store.Put(ctx, key, f, fh.Size, fh.Header.Get("Content-Type"))
}

// Remove deletes objects referenced by public URL or key. All deletions are
// attempted and their errors combined.
func (u *Uploader) Remove(ctx context.Context, refs []string) error {
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if key, ok := storage.KeyFromURL(u.store, ref); ok {
			keys = append(keys, key)
			continue
		}
		if !strings.Contains(ref, "://") {
			keys = append(keys, ref)
			continue
		}
		u.logger.Warn("skipping foreign object reference", "ref", ref)
	}
	return u.RemoveKeys(ctx, keys)
}

func (u *Uploader) RemoveKeys(ctx context.Context, keys []string) error {
	var err error
	for _, key := range keys {
		multierr.AppendInto(&err, u.store.Delete(ctx, key))
	}
	return err
}
