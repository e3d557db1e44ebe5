package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/providers/pdf"
)

type summaryQuery struct {
	UserID string `form:"user_id"`
	Period string `form:"period"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

func (s *Server) summaryFromQuery(c *gin.Context) (domain.TimesheetSummary, bool) {
	var query summaryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return domain.TimesheetSummary{}, false
	}

	userID := strings.TrimSpace(query.UserID)
	if userID == "" {
		principal, _ := principalFrom(c)
		userID = principal.ID
	}
	period := domain.SummaryPeriod(strings.ToLower(strings.TrimSpace(query.Period)))
	if period == "" {
		period = domain.SummaryPeriodCustom
	}
	start, err := parseOptionalDate(query.Start)
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_start", "start must be YYYY-MM-DD"))
		return domain.TimesheetSummary{}, false
	}
	end, err := parseOptionalDate(query.End)
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_end", "end must be YYYY-MM-DD"))
		return domain.TimesheetSummary{}, false
	}

	summary, err := s.store.TimesheetSummary(c.Request.Context(), userID, period, start, end)
	if err != nil {
		AbortWithError(c, err)
		return domain.TimesheetSummary{}, false
	}
	return summary, true
}

func (s *Server) GetTimesheetSummary(c *gin.Context) {
	summary, ok := s.summaryFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// ExportTimesheet renders the summary and the entries behind it as a PDF.
func (s *Server) ExportTimesheet(c *gin.Context) {
	if s.pdf == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	summary, ok := s.summaryFromQuery(c)
	if !ok {
		return
	}
	employee, found := s.store.GetUser(summary.UserID)
	if !found {
		AbortWithError(c, ErrNotFound)
		return
	}

	data := pdf.TimesheetData{Employee: employee, Summary: summary}
	for _, entry := range s.store.ListWorkLogs() {
		if entry.UserID == summary.UserID && entry.Date.Within(summary.StartDate, summary.EndDate) {
			data.WorkLogs = append(data.WorkLogs, entry)
		}
	}
	for _, req := range s.store.ListOvertimeRequests() {
		if req.UserID == summary.UserID && req.Date.Within(summary.StartDate, summary.EndDate) {
			data.Overtime = append(data.Overtime, req)
		}
	}
	for _, req := range s.store.ListLeaveRequests() {
		if req.UserID == summary.UserID && req.StartDate <= summary.EndDate && req.EndDate >= summary.StartDate {
			data.Leaves = append(data.Leaves, req)
		}
	}

	report, err := s.pdf.GenerateTimesheet(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if report == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	filename := fmt.Sprintf("timesheet-%s-%s-%s.pdf", summary.UserID, summary.StartDate, summary.EndDate)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", report, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, filename),
	})
}
