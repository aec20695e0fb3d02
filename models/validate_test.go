package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phillip/trust-manager-go/apperr"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{"donation ok", &Donation{Donor: "A", Amount: 0, Date: ISODate("2024-01-01"), Kind: DonationKindGeneral}, ""},
		{"donation negative", &Donation{Donor: "A", Amount: -1, Date: ISODate("2024-01-01"), Kind: DonationKindGeneral}, "amount"},
		{"donation no donor", &Donation{Donor: "  ", Date: ISODate("2024-01-01"), Kind: DonationKindGeneral}, "donor"},
		{"donation no date", &Donation{Donor: "A", Kind: DonationKindMember}, "date"},
		{"donation bad date", &Donation{Donor: "A", Date: ISODate("soon"), Kind: DonationKindMember}, "date"},
		{"donation bad kind", &Donation{Donor: "A", Date: ISODate("2024-01-01"), Kind: "corporate"}, "kind"},
		{"expense negative", &Expense{Title: "Tea", Amount: -5, Date: ISODate("2024-01-01")}, "amount"},
		{"member bad email", &Member{Name: "Ann", Email: "nope"}, "email"},
		{"member bad status", &Member{Name: "Ann", Status: "gone"}, "status"},
		{"member ok", &Member{Name: "Ann", Email: "ann@example.org", Status: MemberStatusActive}, ""},
		{"trustee no name", &Trustee{}, "name"},
		{"activity no date", &Activity{Title: "Walk"}, "date"},
		{"meeting ok", &Meeting{Title: "AGM", Date: ISODate("2024-09-01")}, ""},
		{"resource bad url", &Resource{Title: "Deck", URL: "ftp://x"}, "url"},
		{"link missing url", &Link{Title: "Gov"}, "url"},
		{"link ok", &Link{Title: "Gov", URL: "https://gov.example"}, ""},
		{"post no source", &Post{Title: "x"}, "source_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantErr, ve.Field)
		})
	}
}

func TestSchemaPositions(t *testing.T) {
	d := Donation{Donor: "Grace", Date: ISODate("2024-05-05")}
	d.Stamp(d.Date.Time())
	p := d.Position()
	require.Equal(t, d.ID.Hex(), p.ID)
	require.Equal(t, "Grace", p.Search)
	require.True(t, p.Sort.Equal(d.Date.Time()))

	require.Equal(t, "donations", SchemaOf[Donation]().Collection)
	require.Equal(t, d.ID.Hex(), IDOf[Donation](d))
}
