// Package donors rolls donation records up into per-donor summaries.
package donors

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/phillip/trust-manager-go/models"
)

// Normalization decides which donor names are treated as the same donor.
type Normalization int

const (
	// Exact groups by the donor string verbatim.
	Exact Normalization = iota
	// CaseInsensitiveTrimmed ignores surrounding whitespace and letter case
	// (Unicode case folding).
	CaseInsensitiveTrimmed
)

// ParseNormalization maps the query-string spelling to a Normalization.
func ParseNormalization(s string) (Normalization, bool) {
	switch s {
	case "", "exact":
		return Exact, true
	case "case-insensitive-trimmed":
		return CaseInsensitiveTrimmed, true
	}
	return Exact, false
}

func (n Normalization) key(name string) string {
	if n == CaseInsensitiveTrimmed {
		return cases.Fold().String(strings.TrimSpace(name))
	}
	return name
}

type Summary struct {
	DonorName      string     `json:"donor_name"`
	TotalAmount    int64      `json:"total_amount"`
	DonationCount  int        `json:"donation_count"`
	MostRecentDate *time.Time `json:"most_recent_date,omitempty"`
}

// Accumulator folds donations one at a time. The zero value groups names
// exactly.
type Accumulator struct {
	Normalization Normalization

	order []string
	byKey map[string]*Summary
}

func NewAccumulator(n Normalization) *Accumulator {
	return &Accumulator{Normalization: n}
}

// Add folds d into the running totals. A later donation only replaces the
// most recent date when strictly newer; a missing date never does.
func (a *Accumulator) Add(d models.Donation) *Accumulator {
	if a.byKey == nil {
		a.byKey = make(map[string]*Summary)
	}
	k := a.Normalization.key(d.Donor)
	s, ok := a.byKey[k]
	if !ok {
		s = &Summary{DonorName: d.Donor}
		a.byKey[k] = s
		a.order = append(a.order, k)
	}
	s.TotalAmount += d.Amount
	s.DonationCount++
	if at, ok := d.Date.Instant(); ok {
		if s.MostRecentDate == nil || at.After(*s.MostRecentDate) {
			s.MostRecentDate = &at
		}
	}
	return a
}

// Summaries returns a copy of the running totals ordered by total amount,
// highest first; equal totals keep first-seen order.
func (a *Accumulator) Summaries() []Summary {
	out := make([]Summary, 0, len(a.order))
	for _, k := range a.order {
		s := *a.byKey[k]
		if s.MostRecentDate != nil {
			t := *s.MostRecentDate
			s.MostRecentDate = &t
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount > out[j].TotalAmount
	})
	return out
}

// Summarize rebuilds donor summaries from scratch for the given donations.
func Summarize(donations []models.Donation, n Normalization) []Summary {
	acc := NewAccumulator(n)
	for _, d := range donations {
		acc.Add(d)
	}
	return acc.Summaries()
}
