package controllers

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	models "github.com/phillip/trust-manager-go/models"
	utils "github.com/phillip/trust-manager-go/utils"
)

func dateField(s string) models.DateValue {
	if s == "" {
		return models.MissingDate()
	}
	return models.ISODate(s)
}

// ---------------- CREATE ----------------
// CreateActivity accepts form data (images under "images") or JSON.
func CreateActivity(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string `form:"title" json:"title"`
			Description string `form:"description" json:"description"`
			Location    string `form:"location" json:"location"`
			Date        string `form:"date" json:"date"`
		}
		if err := c.ShouldBind(&input); err != nil {
			a.fail(c, apperr.Invalid("", "%v", err))
			return
		}

		activity := models.Activity{
			Title:       input.Title,
			Description: input.Description,
			Location:    input.Location,
			Date:        dateField(input.Date),
			Images:      []string{},
		}
		// --- Validate before anything is uploaded ---
		if err := activity.Validate(); err != nil {
			a.fail(c, err)
			return
		}

		urls, err := a.uploadFiles(c, "images", utils.FolderActivities)
		if err != nil {
			a.fail(c, err)
			return
		}
		activity.Images = append(activity.Images, urls...)

		if err := insert(c.Request.Context(), a.Stores.Activities, &activity); err != nil {
			a.discard(context.WithoutCancel(c.Request.Context()), urls)
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, activity)
	}
}

// ---------------- UPDATE ----------------
// UpdateActivity changes the fields that are present. "images" lists the
// existing URLs to keep, "new_images" carries files to add; images that
// are no longer kept are removed from media storage after the write.
func UpdateActivity(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
		defer cancel()

		id := c.Param("id")
		existing, err := a.Stores.Activities.Get(ctx, id)
		if err != nil {
			a.fail(c, err)
			return
		}

		var input struct {
			Title       *string  `form:"title" json:"title"`
			Description *string  `form:"description" json:"description"`
			Location    *string  `form:"location" json:"location"`
			Date        *string  `form:"date" json:"date"`
			Images      []string `form:"images" json:"images"`
		}
		if err := c.ShouldBind(&input); err != nil {
			a.fail(c, apperr.Invalid("", "%v", err))
			return
		}

		updated := existing
		updated.Images = slices.Clone(existing.Images)
		changed := false
		if input.Title != nil {
			updated.Title, changed = *input.Title, true
		}
		if input.Description != nil {
			updated.Description, changed = *input.Description, true
		}
		if input.Location != nil {
			updated.Location, changed = *input.Location, true
		}
		if input.Date != nil {
			updated.Date, changed = dateField(*input.Date), true
		}
		if input.Images != nil {
			updated.Images, changed = input.Images, true
		}
		if err := updated.Validate(); err != nil {
			a.fail(c, err)
			return
		}

		// --- Handle new image uploads ---
		added, err := a.uploadFiles(c, "new_images", utils.FolderActivities)
		if err != nil {
			a.fail(c, err)
			return
		}
		if len(added) > 0 {
			updated.Images, changed = append(updated.Images, added...), true
		}
		if !changed {
			a.fail(c, apperr.Invalid("", "no fields to update"))
			return
		}

		if err := save(ctx, a.Stores.Activities, id, &updated); err != nil {
			a.discard(context.WithoutCancel(ctx), added)
			a.fail(c, err)
			return
		}

		var removed []string
		for _, img := range existing.Images {
			if !slices.Contains(updated.Images, img) {
				removed = append(removed, img)
			}
		}
		a.discard(context.WithoutCancel(ctx), removed)

		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteActivity(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
		defer cancel()

		id := c.Param("id")
		existing, err := a.Stores.Activities.Get(ctx, id)
		if err != nil {
			a.fail(c, err)
			return
		}
		if err := a.Stores.Activities.Delete(ctx, id); err != nil {
			a.fail(c, err)
			return
		}
		a.discard(context.WithoutCancel(ctx), existing.Images)

		c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": id})
	}
}
