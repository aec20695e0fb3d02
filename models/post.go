package models

import (
	"time"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

// Post is a blog post mirrored from the external blogging platform.
// SourceID is the platform's numeric post id.
type Post struct {
	Base        `bson:",inline"`
	SourceID    int64     `bson:"source_id" json:"source_id"`
	Title       string    `bson:"title" json:"title"`
	Excerpt     string    `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content     string    `bson:"content" json:"content"`
	URL         string    `bson:"url,omitempty" json:"url,omitempty"`
	PublishedAt DateValue `bson:"published_at" json:"published_at"`
	ModifiedAt  time.Time `bson:"modified_at" json:"modified_at"`
}

func (Post) Schema() Schema {
	return Schema{Collection: "posts", SortField: "published_at", SearchField: "title"}
}

func (p Post) Position() paging.Position {
	return position(p.Base, p.PublishedAt.Time(), p.Title)
}

func (p Post) UpsertKey() (string, any) { return "source_id", p.SourceID }

func (p Post) Validate() error {
	if p.SourceID <= 0 {
		return apperr.Invalid("source_id", "source post id must be positive")
	}
	if err := p.PublishedAt.check(); err != nil {
		return apperr.Invalid("published_at", "%v", err)
	}
	return nil
}
