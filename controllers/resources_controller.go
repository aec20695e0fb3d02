package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	models "github.com/phillip/trust-manager-go/models"
	utils "github.com/phillip/trust-manager-go/utils"
)

// ---------------- CREATE ----------------
// CreateResource accepts form data with an optional "file" upload, or JSON.
func CreateResource(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string `form:"title" json:"title"`
			Description string `form:"description" json:"description"`
			URL         string `form:"url" json:"url"`
			PublishedOn string `form:"published_on" json:"published_on"`
		}
		if err := c.ShouldBind(&input); err != nil {
			a.fail(c, apperr.Invalid("", "%v", err))
			return
		}

		resource := models.Resource{
			Title:       input.Title,
			Description: input.Description,
			URL:         input.URL,
			PublishedOn: dateField(input.PublishedOn),
		}
		if err := resource.Validate(); err != nil {
			a.fail(c, err)
			return
		}

		urls, err := a.uploadFiles(c, "file", utils.FolderResources)
		if err != nil {
			a.fail(c, err)
			return
		}
		if len(urls) > 0 {
			resource.FileURL = urls[0]
			a.discard(c.Request.Context(), urls[1:])
		}

		if err := insert(c.Request.Context(), a.Stores.Resources, &resource); err != nil {
			a.discard(context.WithoutCancel(c.Request.Context()), []string{resource.FileURL})
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, resource)
	}
}

// ---------------- DELETE ----------------
func DeleteResource(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
		defer cancel()

		id := c.Param("id")
		existing, err := a.Stores.Resources.Get(ctx, id)
		if err != nil {
			a.fail(c, err)
			return
		}
		if err := a.Stores.Resources.Delete(ctx, id); err != nil {
			a.fail(c, err)
			return
		}
		a.discard(context.WithoutCancel(ctx), []string{existing.FileURL})

		c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": id})
	}
}
