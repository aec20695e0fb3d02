package models

import (
	"net/mail"
	"strings"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
)

type Member struct {
	Base     `bson:",inline"`
	Name     string    `bson:"name" json:"name"`
	Email    string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address  string    `bson:"address,omitempty" json:"address,omitempty"`
	JoinedOn DateValue `bson:"joined_on" json:"joined_on"`
	Status   string    `bson:"status" json:"status"` // active, inactive
}

func (Member) Schema() Schema {
	return Schema{Collection: "members", SortField: "joined_on", SearchField: "name"}
}

func (m Member) Position() paging.Position {
	return position(m.Base, m.JoinedOn.Time(), m.Name)
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Invalid("name", "name is required")
	}
	if err := checkEmail(m.Email); err != nil {
		return err
	}
	if err := m.JoinedOn.check(); err != nil {
		return apperr.Invalid("joined_on", "%v", err)
	}
	switch m.Status {
	case "", MemberStatusActive, MemberStatusInactive:
	default:
		return apperr.Invalid("status", "status must be %q or %q", MemberStatusActive, MemberStatusInactive)
	}
	return nil
}

func checkEmail(addr string) error {
	if addr == "" {
		return nil
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return apperr.Invalid("email", "invalid email address")
	}
	return nil
}
