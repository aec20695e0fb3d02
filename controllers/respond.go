package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	middleware "github.com/phillip/trust-manager-go/middleware"
	models "github.com/phillip/trust-manager-go/models"
	utils "github.com/phillip/trust-manager-go/utils"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

// fail maps err onto a status and a gin.H error body.
func (a *App) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": "internal error"}

	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body = gin.H{"error": ve.Error()}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
	case errors.Is(err, apperr.ErrInvalidCursor):
		status = http.StatusBadRequest
		body = gin.H{"error": err.Error()}
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		body = gin.H{"error": "not found"}
	case errors.Is(err, apperr.ErrBackendUnavailable), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
		body = gin.H{"error": "service temporarily unavailable"}
	}

	if status >= http.StatusInternalServerError {
		a.Log.Error().Err(err).
			Str("request_id", middleware.RequestIDFrom(c)).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// notModified sets ETag and Last-Modified for metas, in response order,
// and reports whether the client copy is still current. The tag covers
// every document, so a deletion that shifts the next one into the page
// changes it.
func notModified(c *gin.Context, metas []*models.Base, extra ...string) bool {
	if len(metas) == 0 {
		return false
	}
	versions := make([]utils.Version, len(metas))
	latest := metas[0].UpdatedAt
	for i, m := range metas {
		versions[i] = utils.Version{ID: m.ID, UpdatedAt: m.UpdatedAt}
		if m.UpdatedAt.After(latest) {
			latest = m.UpdatedAt
		}
	}

	etag := utils.GenerateListETag(versions, extra...)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	c.Header("ETag", etag)
	c.Header("Last-Modified", latest.UTC().Format(http.TimeFormat))
	return false
}
