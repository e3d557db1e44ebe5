package domain

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusRejected   TicketStatus = "rejected"
	TicketStatusApproved   TicketStatus = "approved"
)

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:    {TicketStatusInProgress, TicketStatusApproved, TicketStatusRejected},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusRejected},
	TicketStatusResolved:   {TicketStatusPending},
	TicketStatusRejected:   {TicketStatusPending},
	TicketStatusApproved:   nil,
}

func (s TicketStatus) Valid() bool {
	_, ok := ticketTransitions[s]
	return ok
}

// CanTransitionTo reports whether a ticket in status s may move to next.
// Staying in the same status is always allowed.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return allowed(ticketTransitions, s, next)
}

// RequestStatus is shared by overtime and leave requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: nil,
	RequestStatusRejected: nil,
}

func (s RequestStatus) Valid() bool {
	_, ok := requestTransitions[s]
	return ok
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	return allowed(requestTransitions, s, next)
}

// Decided is true once an approver has acted.
func (s RequestStatus) Decided() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type SetupStatus string

const (
	SetupStatusPending    SetupStatus = "pending"
	SetupStatusInProgress SetupStatus = "in_progress"
	SetupStatusResolved   SetupStatus = "resolved"
)

func (s SetupStatus) Valid() bool {
	switch s {
	case SetupStatusPending, SetupStatusInProgress, SetupStatusResolved:
		return true
	}
	return false
}

type SetupItemStatus string

const (
	SetupItemStatusPending    SetupItemStatus = "pending"
	SetupItemStatusInProgress SetupItemStatus = "in_progress"
	SetupItemStatusDone       SetupItemStatus = "done"
	SetupItemStatusBlocked    SetupItemStatus = "blocked"
)

var setupItemTransitions = map[SetupItemStatus][]SetupItemStatus{
	SetupItemStatusPending:    {SetupItemStatusInProgress, SetupItemStatusDone},
	SetupItemStatusInProgress: {SetupItemStatusPending, SetupItemStatusBlocked, SetupItemStatusDone},
	SetupItemStatusBlocked:    {SetupItemStatusInProgress, SetupItemStatusDone},
	SetupItemStatusDone:       nil,
}

func (s SetupItemStatus) Valid() bool {
	_, ok := setupItemTransitions[s]
	return ok
}

func (s SetupItemStatus) CanTransitionTo(next SetupItemStatus) bool {
	return allowed(setupItemTransitions, s, next)
}

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusPending    ContractStatus = "pending"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusPending, ContractStatusExpired, ContractStatusTerminated:
		return true
	}
	return false
}

type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusUpcoming  AssignmentStatus = "upcoming"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusPlanned   AssignmentStatus = "planned"
)

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusActive, AssignmentStatusUpcoming, AssignmentStatusCompleted, AssignmentStatusPlanned:
		return true
	}
	return false
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	if from == to {
		_, ok := table[from]
		return ok
	}
	for _, candidate := range table[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
