package models

import (
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

type Activity struct {
	Base        `bson:",inline"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Date        DateValue `bson:"date" json:"date"`
	Images      []string  `bson:"images" json:"images"`
}

func (Activity) Schema() Schema {
	return Schema{Collection: "activities", SortField: "date", SearchField: "title"}
}

func (a Activity) Position() paging.Position {
	return position(a.Base, a.Date.Time(), a.Title)
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return apperr.Invalid("title", "title is required")
	}
	if a.Date.IsMissing() {
		return apperr.Invalid("date", "date is required")
	}
	if err := a.Date.check(); err != nil {
		return apperr.Invalid("date", "%v", err)
	}
	return nil
}
