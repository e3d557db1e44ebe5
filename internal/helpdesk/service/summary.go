package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"github.com/smallbiznis/helpdesk/internal/observability/metrics"
	"go.uber.org/zap"
)

const summaryOp = "timesheet.summary"

// TimesheetSummary returns the cached summary for the key or computes and
// caches it. Writes to work logs, overtime or leave touching the key's user
// and range evict it.
func (s *Store) TimesheetSummary(ctx context.Context, userID string, period domain.SummaryPeriod, start, end domain.Date) (domain.TimesheetSummary, error) {
	key := domain.SummaryKey{UserID: strings.TrimSpace(userID), Period: period, StartDate: start, EndDate: end}
	if err := validateSummaryKey(key); err != nil {
		s.metrics.RecordMutation("timesheet-summaries", "compute", metrics.OutcomeRejected)
		s.notifier.Notify(ctx, notify.Toast{
			Title:       "Could not compute timesheet summary",
			Description: err.Error(),
			Severity:    notify.SeverityDestructive,
			At:          s.clock.Now(),
		})
		return domain.TimesheetSummary{}, domain.Reject(summaryOp, err)
	}

	s.mu.RLock()
	cached, ok := s.summaries[key]
	s.mu.RUnlock()
	if ok {
		s.metrics.RecordSummaryCacheHit()
		return cached, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.summaries[key]; ok {
		s.metrics.RecordSummaryCacheHit()
		return cached, nil
	}

	summary := computeSummary(s.data, key, s.console.Get().Timesheet.WorkingDaysOnly)
	summary.ComputedAt = s.clock.Now()
	s.summaries[key] = summary
	s.summaryOrder = prepend(s.summaryOrder, key)
	s.metrics.RecordSummaryComputed()

	logger.WithContext(ctx, s.log).Debug("timesheet summary computed",
		zap.String("user_id", key.UserID),
		zap.String("period", string(key.Period)),
		zap.String("start", key.StartDate.String()),
		zap.String("end", key.EndDate.String()),
		zap.Float64("completion_rate", summary.CompletionRate),
	)
	return summary, nil
}

func validateSummaryKey(key domain.SummaryKey) error {
	if key.UserID == "" {
		return invalid("user id is required")
	}
	if !key.Period.Valid() {
		return invalid("unknown period %q", key.Period)
	}
	if err := checkRange(key.StartDate, key.EndDate); err != nil {
		return fmt.Errorf("summary range: %w", err)
	}
	return nil
}

// computeSummary scans the dataset for one key. Ranges are inclusive on both
// ends. A day with several logs counts once.
func computeSummary(ds domain.Dataset, key domain.SummaryKey, workingDaysOnly bool) domain.TimesheetSummary {
	counts := func(d domain.Date) bool { return !workingDaysOnly || !d.Weekend() }

	summary := domain.TimesheetSummary{SummaryKey: key}

	logged := make(map[domain.Date]struct{})
	for _, w := range ds.WorkLogs {
		if w.UserID != key.UserID || !w.Date.Within(key.StartDate, key.EndDate) {
			continue
		}
		summary.TotalWorkHours += w.Hours
		logged[w.Date] = struct{}{}
	}
	summary.LoggedDays = len(logged)

	for _, o := range ds.OvertimeRequests {
		if o.UserID != key.UserID || o.Status != domain.RequestStatusApproved {
			continue
		}
		if o.Date.Within(key.StartDate, key.EndDate) {
			summary.TotalOvertimeHours += o.TotalHours
		}
	}

	for _, l := range ds.LeaveRequests {
		if l.UserID != key.UserID || l.Status != domain.RequestStatusApproved {
			continue
		}
		from, to := max(l.StartDate, key.StartDate), min(l.EndDate, key.EndDate)
		domain.EachDay(from, to, func(d domain.Date) {
			if counts(d) {
				summary.LeaveCount++
			}
		})
	}

	domain.EachDay(key.StartDate, key.EndDate, func(d domain.Date) {
		if counts(d) {
			summary.DaysInPeriod++
		}
	})

	if summary.DaysInPeriod > 0 {
		rate := (float64(summary.LoggedDays) + summary.LeaveCount) / float64(summary.DaysInPeriod) * 100
		summary.CompletionRate = math.Round(min(rate, 100)*100) / 100
	}
	summary.TotalWorkHours = math.Round(summary.TotalWorkHours*100) / 100
	summary.TotalOvertimeHours = math.Round(summary.TotalOvertimeHours*100) / 100
	return summary
}
