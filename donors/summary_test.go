package donors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phillip/trust-manager-go/models"
)

func donation(donor string, amount int64, date time.Time) models.Donation {
	return models.Donation{Donor: donor, Amount: amount, Date: models.NativeDate(date), Kind: models.DonationKindGeneral}
}

func TestSummarizeTotalsAndRecency(t *testing.T) {
	d2 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	got := Summarize([]models.Donation{
		donation("A", 100, d1),
		donation("B", 50, d2),
		donation("A", 30, d3),
	}, Exact)

	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].DonorName)
	require.EqualValues(t, 130, got[0].TotalAmount)
	require.Equal(t, 2, got[0].DonationCount)
	require.True(t, got[0].MostRecentDate.Equal(d3))
	require.Equal(t, "B", got[1].DonorName)
	require.EqualValues(t, 50, got[1].TotalAmount)
	require.Equal(t, 1, got[1].DonationCount)
	require.True(t, got[1].MostRecentDate.Equal(d2))
}

func TestSummarizeEqualDatesKeepFirstSeen(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sameDay := day.In(time.FixedZone("EAT", 3*3600))

	got := Summarize([]models.Donation{
		donation("A", 10, day),
		donation("A", 20, sameDay),
		{Donor: "A", Amount: 5, Date: models.ISODate("2024-06-01")},
	}, Exact)

	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].DonationCount)
	require.True(t, got[0].MostRecentDate.Equal(day))
}

func TestSummarizeTiesKeepFirstSeenDonorOrder(t *testing.T) {
	now := time.Now().UTC()
	got := Summarize([]models.Donation{
		donation("Zed", 40, now),
		donation("Amy", 40, now),
		donation("Bob", 90, now),
	}, Exact)

	names := []string{got[0].DonorName, got[1].DonorName, got[2].DonorName}
	require.Equal(t, []string{"Bob", "Zed", "Amy"}, names)
}

func TestSummarizeIsPure(t *testing.T) {
	in := []models.Donation{
		donation("A", 1, time.Unix(100, 0)),
		donation("B", 2, time.Unix(200, 0)),
		donation("A", 3, time.Unix(300, 0)),
	}
	require.Equal(t, Summarize(in, Exact), Summarize(in, Exact))
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, Exact)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestSummarizeMissingDate(t *testing.T) {
	got := Summarize([]models.Donation{
		{Donor: "A", Amount: 5, Date: models.MissingDate()},
	}, Exact)
	require.Len(t, got, 1)
	require.Nil(t, got[0].MostRecentDate)

	when := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
	got = Summarize([]models.Donation{
		{Donor: "A", Amount: 5, Date: models.MissingDate()},
		{Donor: "A", Amount: 5, Date: models.ISODate("2023-08-01")},
	}, Exact)
	require.True(t, got[0].MostRecentDate.Equal(when))
}

func TestNormalization(t *testing.T) {
	in := []models.Donation{
		donation("John", 10, time.Unix(1, 0)),
		donation("john ", 15, time.Unix(2, 0)),
	}

	require.Len(t, Summarize(in, Exact), 2)

	got := Summarize(in, CaseInsensitiveTrimmed)
	require.Len(t, got, 1)
	require.Equal(t, "John", got[0].DonorName)
	require.EqualValues(t, 25, got[0].TotalAmount)
	require.Equal(t, 2, got[0].DonationCount)
}

func TestNormalizationFoldsNonASCII(t *testing.T) {
	in := []models.Donation{
		donation("Élodie", 5, time.Unix(10, 0)),
		donation(" ÉLODIE", 7, time.Unix(20, 0)),
	}
	require.Len(t, Summarize(in, Exact), 2)

	got := Summarize(in, CaseInsensitiveTrimmed)
	require.Len(t, got, 1)
	require.Equal(t, "Élodie", got[0].DonorName)
	require.EqualValues(t, 12, got[0].TotalAmount)
}

func TestParseNormalization(t *testing.T) {
	n, ok := ParseNormalization("case-insensitive-trimmed")
	require.True(t, ok)
	require.Equal(t, CaseInsensitiveTrimmed, n)

	n, ok = ParseNormalization("")
	require.True(t, ok)
	require.Equal(t, Exact, n)

	_, ok = ParseNormalization("fuzzy")
	require.False(t, ok)
}

func TestAccumulatorMatchesSummarize(t *testing.T) {
	in := []models.Donation{
		donation("A", 7, time.Unix(10, 0)),
		donation("B", 9, time.Unix(5, 0)),
		donation("A", 4, time.Unix(20, 0)),
		donation("C", 11, time.Unix(1, 0)),
	}
	var acc Accumulator
	for _, d := range in {
		acc.Add(d)
	}
	require.Equal(t, Summarize(in, Exact), acc.Summaries())

	// Summaries hands out copies.
	first := acc.Summaries()
	first[0].TotalAmount = 0
	*first[0].MostRecentDate = time.Time{}
	require.Equal(t, Summarize(in, Exact), acc.Summaries())
}
