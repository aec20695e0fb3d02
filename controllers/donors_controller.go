package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	donors "github.com/phillip/trust-manager-go/donors"
	models "github.com/phillip/trust-manager-go/models"
	paging "github.com/phillip/trust-manager-go/paging"
)

const drainPageSize = 100

// ---------------- DONOR SUMMARY ----------------
// ListDonors reads every donation (or those whose donor starts with q) and
// returns the per-donor totals, largest first.
func ListDonors(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		norm, ok := donors.ParseNormalization(c.Query("normalize"))
		if !ok {
			a.fail(c, apperr.Invalid("normalize", "unknown normalization %q", c.Query("normalize")))
			return
		}
		mode := listMode(c, models.SchemaOf[models.Donation]())

		ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
		defer cancel()

		loader := paging.NewLoader(
			paging.NewFetcher[models.Donation](a.Stores.Donations, models.PositionOf[models.Donation]),
			models.IDOf[models.Donation],
			drainPageSize,
		)
		loader.Strict = a.Cfg.IsDevelopment()

		st, err := loader.Drain(ctx, mode)
		if err != nil {
			a.fail(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"donors":    donors.Summarize(st.Items, norm),
			"donations": len(st.Items),
		})
	}
}
