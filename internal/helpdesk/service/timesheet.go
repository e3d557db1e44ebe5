package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfOvertime(o domain.OvertimeRequest) string { return o.ID }
func idOfWorkLog(w domain.WorkLogEntry) string     { return w.ID }
func idOfLeave(l domain.LeaveRequest) string       { return l.ID }

func (s *Store) ListOvertimeRequests() []domain.OvertimeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.data.OvertimeRequests, domain.OvertimeRequest.Clone)
}

func (s *Store) GetOvertimeRequest(id string) (domain.OvertimeRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.OvertimeRequests, id, idOfOvertime); idx >= 0 {
		return s.data.OvertimeRequests[idx].Clone(), true
	}
	return domain.OvertimeRequest{}, false
}

// CreateOvertimeRequest files a pending request for the principal.
func (s *Store) CreateOvertimeRequest(ctx context.Context, in domain.CreateOvertimeInput) (domain.OvertimeRequest, error) {
	var created domain.OvertimeRequest
	err := s.mutate(ctx, domain.KindOvertimeRequest, "create", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		if !in.Date.Valid() {
			return nil, invalid("date %q", in.Date)
		}
		hours := in.TotalHours
		if hours == 0 {
			derived, err := domain.ClockHours(in.StartTime, in.EndTime)
			if err != nil {
				return nil, err
			}
			hours = derived
		}
		if hours <= 0 {
			return nil, invalid("overtime hours must be positive")
		}

		now := s.clock.Now()
		created = domain.OvertimeRequest{
			ID:         s.ids.Next(domain.KindOvertimeRequest.IDPrefix()),
			UserID:     principal.ID,
			Date:       in.Date,
			StartTime:  in.StartTime,
			EndTime:    in.EndTime,
			TotalHours: hours,
			Reason:     strings.TrimSpace(in.Reason),
			Status:     domain.RequestStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.data.OvertimeRequests = prepend(s.data.OvertimeRequests, created)
		s.invalidateSummaries(created.UserID, created.Date, created.Date)
		return s.changed(domain.KindOvertimeRequest, domain.OpCreated, created.ID, created.Clone()), nil
	})
	return created, err
}

func (s *Store) UpdateOvertimeRequest(ctx context.Context, id string, patch domain.OvertimePatch) error {
	return s.mutate(ctx, domain.KindOvertimeRequest, "update", func() (*change, error) {
		idx := findByID(s.data.OvertimeRequests, id, idOfOvertime)
		if idx < 0 {
			return nil, nil
		}
		before := s.data.OvertimeRequests[idx]
		o := before.Clone()
		now := s.clock.Now()

		if patch.Status != nil {
			if err := s.decide(ctx, authorization.ObjectOvertime, o.Status, *patch.Status); err != nil {
				return nil, err
			}
			if *patch.Status != o.Status {
				o.Status = *patch.Status
				o.ApproverID, o.DecidedAt = s.decision(now)
			}
		}
		if patch.Date != nil {
			if !patch.Date.Valid() {
				return nil, invalid("date %q", *patch.Date)
			}
			o.Date = *patch.Date
		}
		if patch.StartTime != nil {
			o.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			o.EndTime = *patch.EndTime
		}
		if patch.TotalHours != nil {
			if *patch.TotalHours <= 0 {
				return nil, invalid("overtime hours must be positive")
			}
			o.TotalHours = *patch.TotalHours
		}
		if patch.Reason != nil {
			o.Reason = strings.TrimSpace(*patch.Reason)
		}
		o.UpdatedAt = now
		s.data.OvertimeRequests[idx] = o

		s.invalidateSummaries(before.UserID, before.Date, before.Date)
		s.invalidateSummaries(o.UserID, o.Date, o.Date)
		return s.changed(domain.KindOvertimeRequest, domain.OpUpdated, o.ID, o.Clone()), nil
	})
}

func (s *Store) DeleteOvertimeRequest(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindOvertimeRequest, "delete", func() (*change, error) {
		idx := findByID(s.data.OvertimeRequests, id, idOfOvertime)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.OvertimeRequests[idx]
		s.data.OvertimeRequests = removeAt(s.data.OvertimeRequests, idx)
		s.invalidateSummaries(removed.UserID, removed.Date, removed.Date)
		return s.changed(domain.KindOvertimeRequest, domain.OpDeleted, id, removed.Clone()), nil
	})
}

func (s *Store) ListWorkLogs() []domain.WorkLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.WorkLogs)
}

func (s *Store) GetWorkLog(id string) (domain.WorkLogEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.WorkLogs, id, idOfWorkLog); idx >= 0 {
		return s.data.WorkLogs[idx], true
	}
	return domain.WorkLogEntry{}, false
}

// CreateWorkLog derives Hours from the clock times once. Later edits to the
// times leave Hours alone unless the patch sets it.
func (s *Store) CreateWorkLog(ctx context.Context, in domain.CreateWorkLogInput) (domain.WorkLogEntry, error) {
	var created domain.WorkLogEntry
	err := s.mutate(ctx, domain.KindWorkLog, "create", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		if !in.Date.Valid() {
			return nil, invalid("date %q", in.Date)
		}
		hours, err := domain.ClockHours(in.StartTime, in.EndTime)
		if err != nil {
			return nil, err
		}
		if hours <= 0 {
			return nil, invalid("work log must span some time")
		}

		now := s.clock.Now()
		created = domain.WorkLogEntry{
			ID:          s.ids.Next(domain.KindWorkLog.IDPrefix()),
			UserID:      principal.ID,
			Date:        in.Date,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			Hours:       hours,
			Project:     strings.TrimSpace(in.Project),
			Description: s.sanitize(in.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.data.WorkLogs = prepend(s.data.WorkLogs, created)
		s.invalidateSummaries(created.UserID, created.Date, created.Date)
		return s.changed(domain.KindWorkLog, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateWorkLog(ctx context.Context, id string, patch domain.WorkLogPatch) error {
	return s.mutate(ctx, domain.KindWorkLog, "update", func() (*change, error) {
		idx := findByID(s.data.WorkLogs, id, idOfWorkLog)
		if idx < 0 {
			return nil, nil
		}
		before := s.data.WorkLogs[idx]
		w := before
		if patch.Date != nil {
			if !patch.Date.Valid() {
				return nil, invalid("date %q", *patch.Date)
			}
			w.Date = *patch.Date
		}
		if patch.StartTime != nil {
			w.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			w.EndTime = *patch.EndTime
		}
		if patch.Hours != nil {
			if *patch.Hours <= 0 {
				return nil, invalid("hours must be positive")
			}
			w.Hours = *patch.Hours
		}
		if patch.Project != nil {
			w.Project = strings.TrimSpace(*patch.Project)
		}
		if patch.Description != nil {
			w.Description = s.sanitize(*patch.Description)
		}
		w.UpdatedAt = s.clock.Now()
		s.data.WorkLogs[idx] = w

		s.invalidateSummaries(before.UserID, before.Date, before.Date)
		s.invalidateSummaries(w.UserID, w.Date, w.Date)
		return s.changed(domain.KindWorkLog, domain.OpUpdated, w.ID, w), nil
	})
}

func (s *Store) DeleteWorkLog(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindWorkLog, "delete", func() (*change, error) {
		idx := findByID(s.data.WorkLogs, id, idOfWorkLog)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.WorkLogs[idx]
		s.data.WorkLogs = removeAt(s.data.WorkLogs, idx)
		s.invalidateSummaries(removed.UserID, removed.Date, removed.Date)
		return s.changed(domain.KindWorkLog, domain.OpDeleted, id, removed), nil
	})
}

func (s *Store) ListLeaveRequests() []domain.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.data.LeaveRequests, domain.LeaveRequest.Clone)
}

func (s *Store) GetLeaveRequest(id string) (domain.LeaveRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.LeaveRequests, id, idOfLeave); idx >= 0 {
		return s.data.LeaveRequests[idx].Clone(), true
	}
	return domain.LeaveRequest{}, false
}

func (s *Store) CreateLeaveRequest(ctx context.Context, in domain.CreateLeaveInput) (domain.LeaveRequest, error) {
	var created domain.LeaveRequest
	err := s.mutate(ctx, domain.KindLeaveRequest, "create", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		if err := checkRange(in.StartDate, in.EndDate); err != nil {
			return nil, err
		}
		leaveType := in.Type
		if leaveType == "" {
			leaveType = domain.LeaveTypeAnnual
		}
		days := in.TotalDays
		if days == 0 {
			domain.EachDay(in.StartDate, in.EndDate, func(domain.Date) { days++ })
		}
		if days < 0 {
			return nil, invalid("leave days cannot be negative")
		}

		now := s.clock.Now()
		created = domain.LeaveRequest{
			ID:        s.ids.Next(domain.KindLeaveRequest.IDPrefix()),
			UserID:    principal.ID,
			Type:      leaveType,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			TotalDays: days,
			Reason:    strings.TrimSpace(in.Reason),
			Status:    domain.RequestStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.data.LeaveRequests = prepend(s.data.LeaveRequests, created)
		s.invalidateSummaries(created.UserID, created.StartDate, created.EndDate)
		return s.changed(domain.KindLeaveRequest, domain.OpCreated, created.ID, created.Clone()), nil
	})
	return created, err
}

func (s *Store) UpdateLeaveRequest(ctx context.Context, id string, patch domain.LeavePatch) error {
	return s.mutate(ctx, domain.KindLeaveRequest, "update", func() (*change, error) {
		idx := findByID(s.data.LeaveRequests, id, idOfLeave)
		if idx < 0 {
			return nil, nil
		}
		before := s.data.LeaveRequests[idx]
		l := before.Clone()
		now := s.clock.Now()

		if patch.Status != nil {
			if err := s.decide(ctx, authorization.ObjectLeave, l.Status, *patch.Status); err != nil {
				return nil, err
			}
			if *patch.Status != l.Status {
				l.Status = *patch.Status
				l.ApproverID, l.DecidedAt = s.decision(now)
			}
		}
		if patch.Type != nil {
			l.Type = *patch.Type
		}
		if patch.StartDate != nil {
			l.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			l.EndDate = *patch.EndDate
		}
		if err := checkRange(l.StartDate, l.EndDate); err != nil {
			return nil, err
		}
		if patch.TotalDays != nil {
			if *patch.TotalDays < 0 {
				return nil, invalid("leave days cannot be negative")
			}
			l.TotalDays = *patch.TotalDays
		}
		if patch.Reason != nil {
			l.Reason = strings.TrimSpace(*patch.Reason)
		}
		l.UpdatedAt = now
		s.data.LeaveRequests[idx] = l

		s.invalidateSummaries(before.UserID, before.StartDate, before.EndDate)
		s.invalidateSummaries(l.UserID, l.StartDate, l.EndDate)
		return s.changed(domain.KindLeaveRequest, domain.OpUpdated, l.ID, l.Clone()), nil
	})
}

func (s *Store) DeleteLeaveRequest(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindLeaveRequest, "delete", func() (*change, error) {
		idx := findByID(s.data.LeaveRequests, id, idOfLeave)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.LeaveRequests[idx]
		s.data.LeaveRequests = removeAt(s.data.LeaveRequests, idx)
		s.invalidateSummaries(removed.UserID, removed.StartDate, removed.EndDate)
		return s.changed(domain.KindLeaveRequest, domain.OpDeleted, id, removed.Clone()), nil
	})
}

// decide validates a request status change. Moving to a decided status needs
// the approve permission on object.
func (s *Store) decide(ctx context.Context, object string, from, to domain.RequestStatus) error {
	if !to.Valid() {
		return invalid("unknown status %q", to)
	}
	if from == to {
		return nil
	}
	if !from.CanTransitionTo(to) {
		return fmtTransition(string(from), string(to))
	}
	if to.Decided() {
		return s.authorize(ctx, object, authorization.ActionApprove)
	}
	return nil
}

func (s *Store) decision(now time.Time) (string, *time.Time) {
	approver := ""
	if principal, ok := s.currentPrincipal(); ok {
		approver = principal.ID
	}
	at := now
	return approver, &at
}

func checkRange(start, end domain.Date) error {
	if !start.Valid() || !end.Valid() {
		return invalid("dates %q and %q", start, end)
	}
	if start > end {
		return domain.ErrInvalidRange
	}
	return nil
}

// invalidateSummaries drops cached summaries of userID whose range touches
// [from, to]. mu must be held for writing.
func (s *Store) invalidateSummaries(userID string, from, to domain.Date) {
	if len(s.summaryOrder) == 0 {
		return
	}
	kept := s.summaryOrder[:0:0]
	for _, key := range s.summaryOrder {
		if key.Overlaps(userID, from, to) {
			delete(s.summaries, key)
			continue
		}
		kept = append(kept, key)
	}
	s.summaryOrder = kept
}
