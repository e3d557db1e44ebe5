package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-02-29"), d)

	_, err = ParseDate("2024-13-01")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEachDayIsInclusive(t *testing.T) {
	var days []Date
	EachDay("2024-01-30", "2024-02-02", func(d Date) { days = append(days, d) })
	assert.Equal(t, []Date{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}, days)

	days = nil
	EachDay("2024-02-02", "2024-01-30", func(d Date) { days = append(days, d) })
	assert.Empty(t, days)
}

func TestClockHours(t *testing.T) {
	h, err := ClockHours("09:00", "17:30")
	require.NoError(t, err)
	assert.InDelta(t, 8.5, h, 0.0001)

	h, err = ClockHours("22:00", "02:00")
	require.NoError(t, err)
	assert.InDelta(t, 4, h, 0.0001)

	_, err = ClockHours("9am", "17:00")
	assert.Error(t, err)
}

func TestSummaryKeyOverlaps(t *testing.T) {
	k := SummaryKey{UserID: "u1", Period: SummaryPeriodWeekly, StartDate: "2024-01-01", EndDate: "2024-01-07"}
	assert.True(t, k.Overlaps("u1", "2024-01-07", "2024-01-09"))
	assert.False(t, k.Overlaps("u1", "2024-01-08", "2024-01-09"))
	assert.False(t, k.Overlaps("u2", "2024-01-02", "2024-01-02"))
}

func TestContractExpiresWithin(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := Contract{ExpiryDate: "2024-03-20"}
	assert.True(t, c.ExpiresWithin(now, 30))
	assert.False(t, c.ExpiresWithin(now, 10))

	c.ExpiryDate = "2024-02-20"
	assert.False(t, c.ExpiresWithin(now, 30))
}

func TestTicketCloneDoesNotShare(t *testing.T) {
	orig := Ticket{
		AssignedTo: &UserSnapshot{Name: "Agent"},
		Comments:   []Comment{{Content: "hi"}},
	}
	cp := orig.Clone()
	cp.AssignedTo.Name = "Other"
	cp.Comments[0].Content = "changed"

	assert.Equal(t, "Agent", orig.AssignedTo.Name)
	assert.Equal(t, "hi", orig.Comments[0].Content)
}
