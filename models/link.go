package models

import (
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

// Link is a reference link shown on the resources page.
type Link struct {
	Base        `bson:",inline"`
	Title       string `bson:"title" json:"title"`
	URL         string `bson:"url" json:"url"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

func (Link) Schema() Schema {
	return Schema{Collection: "links", SortField: "created_at", SearchField: "title"}
}

func (l Link) Position() paging.Position {
	return position(l.Base, l.CreatedAt, l.Title)
}

func (l Link) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return apperr.Invalid("title", "title is required")
	}
	if l.URL == "" {
		return apperr.Invalid("url", "url is required")
	}
	return checkURL("url", l.URL)
}
