package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func (p *PDFProvider) GenerateTimesheet(ctx context.Context, data TimesheetData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	summary := data.Summary

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Timesheet", props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Left}),
		text.NewCol(4, string(summary.Period), props.Text{Size: 10, Align: align.Right, Top: 4}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(data.Employee.Name, props.Text{Style: fontstyle.Bold}),
			text.New(data.Employee.Email, props.Text{Top: 5}),
			text.New(data.Employee.Department, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("%s to %s", summary.StartDate, summary.EndDate), props.Text{Align: align.Right}),
			text.New("Computed "+summary.ComputedAt.Format("2006-01-02 15:04"), props.Text{Top: 5, Align: align.Right, Size: 8}),
		),
	)

	m.AddRow(10,
		text.NewCol(3, "Work hours", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Overtime hours", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Leave days", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Logged days", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Completion", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(3, formatHours(summary.TotalWorkHours), props.Text{Size: 9}),
		text.NewCol(3, formatHours(summary.TotalOvertimeHours), props.Text{Size: 9}),
		text.NewCol(2, fmt.Sprintf("%g", summary.LeaveCount), props.Text{Size: 9}),
		text.NewCol(2, fmt.Sprintf("%d / %d", summary.LoggedDays, summary.DaysInPeriod), props.Text{Size: 9}),
		text.NewCol(2, fmt.Sprintf("%.1f%%", summary.CompletionRate), props.Text{Size: 9, Align: align.Right}),
	)

	logs := append([]domain.WorkLogEntry(nil), data.WorkLogs...)
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })

	m.AddRow(12,
		text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}),
		text.NewCol(2, "Time", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}),
		text.NewCol(2, "Project", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}),
		text.NewCol(4, "Description", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}),
		text.NewCol(2, "Hours", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4, Align: align.Right}),
	)
	for _, entry := range logs {
		m.AddRow(8,
			text.NewCol(2, entry.Date.String(), props.Text{Size: 8}),
			text.NewCol(2, entry.StartTime+"-"+entry.EndTime, props.Text{Size: 8}),
			text.NewCol(2, entry.Project, props.Text{Size: 8}),
			text.NewCol(4, entry.Description, props.Text{Size: 8}),
			text.NewCol(2, formatHours(entry.Hours), props.Text{Size: 8, Align: align.Right}),
		)
	}

	if len(data.Overtime) > 0 {
		m.AddRow(12, text.NewCol(12, "Approved overtime", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}))
		for _, ot := range data.Overtime {
			m.AddRow(8,
				text.NewCol(2, ot.Date.String(), props.Text{Size: 8}),
				text.NewCol(2, ot.StartTime+"-"+ot.EndTime, props.Text{Size: 8}),
				text.NewCol(6, ot.Reason, props.Text{Size: 8}),
				text.NewCol(2, formatHours(ot.TotalHours), props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	if len(data.Leaves) > 0 {
		m.AddRow(12, text.NewCol(12, "Approved leave", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}))
		for _, leave := range data.Leaves {
			m.AddRow(8,
				text.NewCol(4, fmt.Sprintf("%s to %s", leave.StartDate, leave.EndDate), props.Text{Size: 8}),
				text.NewCol(2, string(leave.Type), props.Text{Size: 8}),
				text.NewCol(4, leave.Reason, props.Text{Size: 8}),
				text.NewCol(2, fmt.Sprintf("%g", leave.TotalDays), props.Text{Size: 8, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f h", h)
}
