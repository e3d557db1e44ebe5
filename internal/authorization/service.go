package authorization

import (
	"context"
	"errors"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
)

const (
	ObjectUser             = "user"
	ObjectTicket           = "ticket"
	ObjectOvertime         = "overtime_request"
	ObjectWorkLog          = "work_log"
	ObjectLeave            = "leave_request"
	ObjectTimesheetSummary = "timesheet_summary"
	ObjectReview           = "review"
	ObjectEnvironmentSetup = "environment_setup"
	ObjectContract         = "contract"
	ObjectSquad            = "squad"
	ObjectProject          = "project"
	ObjectAssignment       = "assignment"
	ObjectNotification     = "notification"
	ObjectUpload           = "upload"
)

const (
	ActionView    = "view"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionComment = "comment"
	ActionExport  = "export"
)

// Service decides whether a role may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, role domain.Role, object, action string) error
}

// ObjectForKind maps a collection to its policy object.
func ObjectForKind(kind domain.Kind) string {
	switch kind {
	case domain.KindUser:
		return ObjectUser
	case domain.KindTicket:
		return ObjectTicket
	case domain.KindOvertimeRequest:
		return ObjectOvertime
	case domain.KindWorkLog:
		return ObjectWorkLog
	case domain.KindLeaveRequest:
		return ObjectLeave
	case domain.KindReview:
		return ObjectReview
	case domain.KindEnvironmentSetup:
		return ObjectEnvironmentSetup
	case domain.KindContract:
		return ObjectContract
	case domain.KindSquad:
		return ObjectSquad
	case domain.KindProject:
		return ObjectProject
	case domain.KindAssignment:
		return ObjectAssignment
	case domain.KindNotification:
		return ObjectNotification
	}
	return ""
}
