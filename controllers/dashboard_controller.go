package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type counter interface {
	Name() string
	Count(ctx context.Context) (int64, error)
}

// ---------------- DASHBOARD ----------------
func Dashboard(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := a.Stores
		cols := []counter{
			s.Members, s.Trustees, s.Donations, s.Expenses, s.Activities,
			s.Resources, s.Meetings, s.Links, s.Posts,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		counts := make([]int64, len(cols))
		for i, col := range cols {
			g.Go(func() error {
				n, err := col.Count(gctx)
				counts[i] = n
				return err
			})
		}
		var donated, spent int64
		g.Go(func() (err error) {
			donated, err = s.Donations.Sum(gctx, "amount")
			return err
		})
		g.Go(func() (err error) {
			spent, err = s.Expenses.Sum(gctx, "amount")
			return err
		})
		if err := g.Wait(); err != nil {
			a.fail(c, err)
			return
		}

		byName := make(gin.H, len(cols))
		for i, col := range cols {
			byName[col.Name()] = counts[i]
		}
		c.JSON(http.StatusOK, gin.H{
			"counts":          byName,
			"donations_total": donated,
			"expenses_total":  spent,
			"balance":         donated - spent,
		})
	}
}
