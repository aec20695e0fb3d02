package models

import (
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

type Trustee struct {
	Base        `bson:",inline"`
	Name        string    `bson:"name" json:"name"`
	Role        string    `bson:"role,omitempty" json:"role,omitempty"` // chair, secretary, treasurer...
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	AppointedOn DateValue `bson:"appointed_on" json:"appointed_on"`
}

func (Trustee) Schema() Schema {
	return Schema{Collection: "trustees", SortField: "appointed_on", SearchField: "name"}
}

func (t Trustee) Position() paging.Position {
	return position(t.Base, t.AppointedOn.Time(), t.Name)
}

func (t Trustee) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Invalid("name", "name is required")
	}
	if err := checkEmail(t.Email); err != nil {
		return err
	}
	if err := t.AppointedOn.check(); err != nil {
		return apperr.Invalid("appointed_on", "%v", err)
	}
	return nil
}
