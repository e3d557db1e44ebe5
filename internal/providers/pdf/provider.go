package pdf

import (
	"context"
	"io"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"go.uber.org/fx"
)

// TimesheetData is everything printed on one timesheet report.
type TimesheetData struct {
	Employee domain.User
	Summary  domain.TimesheetSummary
	WorkLogs []domain.WorkLogEntry
	Overtime []domain.OvertimeRequest
	Leaves   []domain.LeaveRequest
}

type Provider interface {
	GenerateTimesheet(ctx context.Context, data TimesheetData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateTimesheet(ctx context.Context, data TimesheetData) (io.Reader, error) {
	return nil, nil
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
