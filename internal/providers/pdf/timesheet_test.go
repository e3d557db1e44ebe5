package pdf

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTimesheetProducesPDF(t *testing.T) {
	data := TimesheetData{
		Employee: domain.User{Name: "Dana Employee", Email: "dana@example.com"},
		Summary: domain.TimesheetSummary{
			SummaryKey:     domain.SummaryKey{UserID: "user-1", Period: domain.SummaryPeriodWeekly, StartDate: "2024-01-01", EndDate: "2024-01-07"},
			TotalWorkHours: 16,
			LoggedDays:     2,
			DaysInPeriod:   7,
			CompletionRate: 28.57,
			ComputedAt:     time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
		},
		WorkLogs: []domain.WorkLogEntry{
			{Date: "2024-01-02", StartTime: "09:00", EndTime: "17:00", Hours: 8, Description: "Support queue"},
			{Date: "2024-01-01", StartTime: "09:00", EndTime: "17:00", Hours: 8, Description: "Onboarding"},
		},
	}

	r, err := New().GenerateTimesheet(context.Background(), data)
	require.NoError(t, err)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, len(body) > 4)
	assert.Equal(t, "%PDF", string(body[:4]))
}

func TestGenerateTimesheetHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().GenerateTimesheet(ctx, TimesheetData{})
	assert.ErrorIs(t, err, context.Canceled)
}
