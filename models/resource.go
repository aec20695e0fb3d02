package models

import (
	"net/url"
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

// Resource is workshop material: a document, slide deck or recording.
type Resource struct {
	Base        `bson:",inline"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	URL         string    `bson:"url,omitempty" json:"url,omitempty"`
	FileURL     string    `bson:"file_url,omitempty" json:"file_url,omitempty"`
	PublishedOn DateValue `bson:"published_on" json:"published_on"`
}

func (Resource) Schema() Schema {
	return Schema{Collection: "resources", SortField: "published_on", SearchField: "title"}
}

func (r Resource) Position() paging.Position {
	return position(r.Base, r.PublishedOn.Time(), r.Title)
}

func (r Resource) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperr.Invalid("title", "title is required")
	}
	if err := checkURL("url", r.URL); err != nil {
		return err
	}
	if err := r.PublishedOn.check(); err != nil {
		return apperr.Invalid("published_on", "%v", err)
	}
	return nil
}

func checkURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Invalid(field, "must be an http(s) URL")
	}
	return nil
}
