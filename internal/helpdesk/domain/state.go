package domain

import "time"

// Dataset is the set of persisted collections a Loader returns.
type Dataset struct {
	Users             []User             `json:"users"`
	Tickets           []Ticket           `json:"tickets"`
	OvertimeRequests  []OvertimeRequest  `json:"overtime_requests"`
	WorkLogs          []WorkLogEntry     `json:"work_logs"`
	LeaveRequests     []LeaveRequest     `json:"leave_requests"`
	Reviews           []OutsourceReview  `json:"reviews"`
	EnvironmentSetups []EnvironmentSetup `json:"environment_setups"`
	Contracts         []Contract         `json:"contracts"`
	Squads            []Squad            `json:"squads"`
	Projects          []Project          `json:"projects"`
	Assignments       []Assignment       `json:"assignments"`
	Notifications     []Notification     `json:"notifications"`
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	Dataset
	TimesheetSummaries []TimesheetSummary `json:"timesheet_summaries"`
	CurrentPrincipal   *User              `json:"current_principal,omitempty"`
	IsAuthenticated    bool               `json:"is_authenticated"`
}

// Clone returns a deep copy; nested slices and pointers are not shared.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Users:             cloneSlice(d.Users, identity[User]),
		Tickets:           cloneSlice(d.Tickets, Ticket.Clone),
		OvertimeRequests:  cloneSlice(d.OvertimeRequests, OvertimeRequest.Clone),
		WorkLogs:          cloneSlice(d.WorkLogs, identity[WorkLogEntry]),
		LeaveRequests:     cloneSlice(d.LeaveRequests, LeaveRequest.Clone),
		Reviews:           cloneSlice(d.Reviews, identity[OutsourceReview]),
		EnvironmentSetups: cloneSlice(d.EnvironmentSetups, EnvironmentSetup.Clone),
		Contracts:         cloneSlice(d.Contracts, Contract.Clone),
		Squads:            cloneSlice(d.Squads, identity[Squad]),
		Projects:          cloneSlice(d.Projects, identity[Project]),
		Assignments:       cloneSlice(d.Assignments, identity[Assignment]),
		Notifications:     cloneSlice(d.Notifications, identity[Notification]),
	}
}

func (t Ticket) Clone() Ticket {
	out := t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		out.AssignedTo = &assignee
	}
	out.Comments = cloneSlice(t.Comments, identity[Comment])
	out.Attachments = cloneSlice(t.Attachments, identity[Attachment])
	return out
}

func (o OvertimeRequest) Clone() OvertimeRequest {
	o.DecidedAt = cloneTime(o.DecidedAt)
	return o
}

func (l LeaveRequest) Clone() LeaveRequest {
	l.DecidedAt = cloneTime(l.DecidedAt)
	return l
}

func (e EnvironmentSetup) Clone() EnvironmentSetup {
	e.Items = cloneSlice(e.Items, identity[SetupItem])
	e.CompletionDate = cloneTime(e.CompletionDate)
	return e
}

func (c Contract) Clone() Contract {
	c.Documents = cloneSlice(c.Documents, identity[Document])
	return c
}

func identity[T any](v T) T { return v }

func cloneSlice[T any](in []T, clone func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
