package domain

import "time"

// Kind names an entity collection. The value doubles as the backend resource path.
type Kind string

const (
	KindUser             Kind = "users"
	KindTicket           Kind = "tickets"
	KindOvertimeRequest  Kind = "overtime-requests"
	KindWorkLog          Kind = "work-logs"
	KindLeaveRequest     Kind = "leave-requests"
	KindReview           Kind = "reviews"
	KindEnvironmentSetup Kind = "environment-setups"
	KindContract         Kind = "contracts"
	KindSquad            Kind = "squads"
	KindProject          Kind = "projects"
	KindAssignment       Kind = "assignments"
	KindNotification     Kind = "notifications"
)

var kindPrefixes = map[Kind]string{
	KindUser:             "user",
	KindTicket:           "ticket",
	KindOvertimeRequest:  "overtime",
	KindWorkLog:          "worklog",
	KindLeaveRequest:     "leave",
	KindReview:           "review",
	KindEnvironmentSetup: "setup",
	KindContract:         "contract",
	KindSquad:            "squad",
	KindProject:          "project",
	KindAssignment:       "assignment",
	KindNotification:     "notification",
}

// Kinds lists every persisted collection in load order.
func Kinds() []Kind {
	return []Kind{
		KindUser, KindTicket, KindOvertimeRequest, KindWorkLog, KindLeaveRequest, KindReview,
		KindEnvironmentSetup, KindContract, KindSquad, KindProject, KindAssignment, KindNotification,
	}
}

func (k Kind) Valid() bool {
	_, ok := kindPrefixes[k]
	return ok
}

// IDPrefix is the "<kind>" part of ids minted for this collection.
func (k Kind) IDPrefix() string { return kindPrefixes[k] }

// Id prefixes of nested records.
const (
	PrefixComment    = "comment"
	PrefixAttachment = "attachment"
	PrefixDocument   = "document"
	PrefixSetupItem  = "item"
)

type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Event describes one applied mutation. Entity holds a copy of the record
// after the change, or the removed record for OpDeleted.
type Event struct {
	Kind   Kind      `json:"kind"`
	Op     Op        `json:"op"`
	ID     string    `json:"id"`
	Entity any       `json:"entity"`
	At     time.Time `json:"at"`
}

type Observer func(Event)
