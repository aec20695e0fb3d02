package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/paging"
)

const (
	DonationKindMember  = "member"
	DonationKindGeneral = "general"
)

type Donation struct {
	Base     `bson:",inline"`
	Donor    string              `bson:"donor" json:"donor"`
	Amount   int64               `bson:"amount" json:"amount"` // smallest currency unit
	Date     DateValue           `bson:"date" json:"date"`
	Purpose  string              `bson:"purpose" json:"purpose"`
	Notes    string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Kind     string              `bson:"kind" json:"kind"` // member, general
	MemberID *primitive.ObjectID `bson:"member_id,omitempty" json:"member_id,omitempty"`
}

func (Donation) Schema() Schema {
	return Schema{Collection: "donations", SortField: "date", SearchField: "donor"}
}

func (d Donation) Position() paging.Position {
	return position(d.Base, d.Date.Time(), d.Donor)
}

func (d Donation) Validate() error {
	if strings.TrimSpace(d.Donor) == "" {
		return apperr.Invalid("donor", "donor is required")
	}
	if d.Amount < 0 {
		return apperr.Invalid("amount", "amount must not be negative")
	}
	if d.Date.IsMissing() {
		return apperr.Invalid("date", "date is required")
	}
	if err := d.Date.check(); err != nil {
		return apperr.Invalid("date", "%v", err)
	}
	switch d.Kind {
	case DonationKindMember, DonationKindGeneral:
	default:
		return apperr.Invalid("kind", "kind must be %q or %q", DonationKindMember, DonationKindGeneral)
	}
	return nil
}
