package models

import (
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

type Meeting struct {
	Base      `bson:",inline"`
	Title     string    `bson:"title" json:"title"`
	Agenda    string    `bson:"agenda,omitempty" json:"agenda,omitempty"`
	Date      DateValue `bson:"date" json:"date"`
	Venue     string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Minutes   string    `bson:"minutes,omitempty" json:"minutes,omitempty"`
	Attendees []string  `bson:"attendees" json:"attendees"`
}

func (Meeting) Schema() Schema {
	return Schema{Collection: "meetings", SortField: "date", SearchField: "title"}
}

func (m Meeting) Position() paging.Position {
	return position(m.Base, m.Date.Time(), m.Title)
}

func (m Meeting) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return apperr.Invalid("title", "title is required")
	}
	if m.Date.IsMissing() {
		return apperr.Invalid("date", "date is required")
	}
	if err := m.Date.check(); err != nil {
		return apperr.Invalid("date", "%v", err)
	}
	return nil
}
