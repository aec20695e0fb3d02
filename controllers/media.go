package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
)

var errMediaDisabled = errors.New("media storage is not configured")

// uploadFiles sends every file under the multipart field to media storage.
// A request that is not multipart has no files. On failure the files
// already uploaded are removed again.
func (a *App) uploadFiles(c *gin.Context, field, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Invalid(field, "invalid form data")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if a.Media == nil {
		return nil, apperr.Unavailable("upload", errMediaDisabled)
	}

	ctx := c.Request.Context()
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			a.discard(ctx, urls)
			return nil, apperr.Invalid(field, "failed to open %s", fh.Filename)
		}
		url, err := a.Media.Upload(ctx, file, folder)
		file.Close()
		if err != nil {
			a.discard(ctx, urls)
			return nil, apperr.Unavailable("upload", fmt.Errorf("%s: %w", fh.Filename, err))
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discard removes files from media storage. Failures are logged only.
func (a *App) discard(ctx context.Context, urls []string) {
	if a.Media == nil {
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := a.Media.Delete(ctx, u); err != nil {
			a.Log.Warn().Err(err).Str("url", u).Msg("could not delete media")
		}
	}
}
