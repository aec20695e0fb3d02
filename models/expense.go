package models

import (
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

type Expense struct {
	Base     `bson:",inline"`
	Title    string    `bson:"title" json:"title"`
	Amount   int64     `bson:"amount" json:"amount"`
	Date     DateValue `bson:"date" json:"date"`
	Category string    `bson:"category,omitempty" json:"category,omitempty"`
	PaidTo   string    `bson:"paid_to,omitempty" json:"paid_to,omitempty"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

func (Expense) Schema() Schema {
	return Schema{Collection: "expenses", SortField: "date", SearchField: "title"}
}

func (e Expense) Position() paging.Position {
	return position(e.Base, e.Date.Time(), e.Title)
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return apperr.Invalid("title", "title is required")
	}
	if e.Amount < 0 {
		return apperr.Invalid("amount", "amount must not be negative")
	}
	if e.Date.IsMissing() {
		return apperr.Invalid("date", "date is required")
	}
	if err := e.Date.check(); err != nil {
		return apperr.Invalid("date", "%v", err)
	}
	return nil
}
