package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperr "github.com/phillip/trust-manager-go/apperr"
	models "github.com/phillip/trust-manager-go/models"
	paging "github.com/phillip/trust-manager-go/paging"
	store "github.com/phillip/trust-manager-go/store"
)

const maxPageSize = 100

type listResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
	// Restarted is set when the cursor was rejected and the first page
	// was served instead.
	Restarted bool `json:"restarted,omitempty"`
}

func (a *App) pageSize(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return a.Cfg.PageSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxPageSize {
		return 0, apperr.Invalid("limit", "limit must be between 1 and %d", maxPageSize)
	}
	return n, nil
}

// listMode picks prefix search on the collection's search field when q is set.
func listMode(c *gin.Context, schema models.Schema) paging.Mode {
	if q, ok := c.GetQuery("q"); ok {
		return paging.PrefixSearch(schema.SearchField, q)
	}
	return paging.Default()
}

// ---------------- LIST ----------------
func List[T any, PT models.Doc[T]](a *App, col store.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, err := a.pageSize(c)
		if err != nil {
			a.fail(c, err)
			return
		}
		mode := listMode(c, models.SchemaOf[T, PT]())

		ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
		defer cancel()

		fetcher := paging.NewFetcher[T](col, models.PositionOf[T, PT])
		cursor, err := paging.DecodeCursor(c.Query("cursor"))
		var page paging.Page[T]
		if err == nil {
			page, err = fetcher.Fetch(ctx, mode, cursor, size)
		}

		// --- Stale cursor: restart outside development ---
		restarted := false
		if errors.Is(err, apperr.ErrInvalidCursor) && !a.Cfg.IsDevelopment() {
			restarted = true
			page, err = fetcher.Fetch(ctx, mode, nil, size)
		}
		if err != nil {
			a.fail(c, err)
			return
		}

		resp := listResponse[T]{Items: page.Items, HasMore: page.HasMore, Restarted: restarted}
		if page.Next != nil {
			resp.NextCursor = page.Next.Encode()
		}

		metas := make([]*models.Base, len(page.Items))
		for i := range page.Items {
			metas[i] = PT(&page.Items[i]).Meta()
		}
		if notModified(c, metas, c.Request.URL.RawQuery, resp.NextCursor, strconv.FormatBool(restarted)) {
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- GET ----------------
func Get[T any, PT models.Doc[T]](a *App, col store.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readTimeout)
		defer cancel()

		doc, err := col.Get(ctx, c.Param("id"))
		if err != nil {
			a.fail(c, err)
			return
		}
		if notModified(c, []*models.Base{PT(&doc).Meta()}) {
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// ---------------- CREATE ----------------
func Create[T any, PT models.Doc[T]](a *App, col store.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc T
		if err := c.ShouldBindJSON(&doc); err != nil {
			a.fail(c, apperr.Invalid("", "invalid request body: %v", err))
			return
		}
		if err := insert[T, PT](c.Request.Context(), col, &doc); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

// insert validates doc and writes it; nothing is written when it is invalid.
func insert[T any, PT models.Doc[T]](ctx context.Context, col store.Collection[T], doc *T) error {
	if err := PT(doc).Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return col.Insert(ctx, doc)
}

// ---------------- UPDATE ----------------
// Update merges the JSON body onto the stored document, so absent fields
// keep their values, then re-validates the result before writing it.
func Update[T any, PT models.Doc[T]](a *App, col store.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
		defer cancel()

		id := c.Param("id")
		stored, err := col.Get(ctx, id)
		if err != nil {
			a.fail(c, err)
			return
		}

		// --- Merge onto a copy that shares no slices with the stored one ---
		doc, err := clone(stored)
		if err != nil {
			a.fail(c, err)
			return
		}
		meta := *PT(&stored).Meta()
		if err := json.NewDecoder(c.Request.Body).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				a.fail(c, apperr.Invalid("", "no fields to update"))
				return
			}
			a.fail(c, apperr.Invalid("", "invalid request body: %v", err))
			return
		}
		*PT(&doc).Meta() = meta

		if err := save[T, PT](ctx, col, id, &doc); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func clone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func save[T any, PT models.Doc[T]](ctx context.Context, col store.Collection[T], id string, doc *T) error {
	if err := PT(doc).Validate(); err != nil {
		return err
	}
	return col.Update(ctx, id, doc)
}

// ---------------- DELETE ----------------
func Delete[T any, PT models.Doc[T]](a *App, col store.Collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), writeTimeout)
		defer cancel()

		id := c.Param("id")
		if err := col.Delete(ctx, id); err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted", "id": id})
	}
}
