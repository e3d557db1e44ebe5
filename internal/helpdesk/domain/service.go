package domain

import "context"

// Loader supplies the initial collections on bootstrap and login.
type Loader interface {
	Load(ctx context.Context) (Dataset, error)
}

// Authenticator verifies credentials for the store's login flow.
//
// Authenticate may return a user with an empty ID; the store then resolves the
// principal by email from the loaded users.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (User, error)
	// Resume returns the principal of a session that survived a restart.
	Resume(ctx context.Context) (User, bool, error)
	Logout(ctx context.Context) error
}

// Service is the single owner of every entity collection. All mutations are
// serialised; readers receive copies.
//
// Update, delete and the special operations are silent no-ops when the target
// id does not exist. Refusals are returned as *RejectedError.
type Service interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) (User, error)
	Logout(ctx context.Context) error
	CurrentPrincipal() (User, bool)
	IsAuthenticated() bool
	Snapshot() State
	Subscribe(fn Observer) (unsubscribe func())

	ListUsers() []User
	GetUser(id string) (User, bool)
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) error
	DeleteUser(ctx context.Context, id string) error

	ListTickets() []Ticket
	GetTicket(id string) (Ticket, bool)
	CreateTicket(ctx context.Context, in CreateTicketInput) (Ticket, error)
	UpdateTicket(ctx context.Context, id string, patch TicketPatch) error
	DeleteTicket(ctx context.Context, id string) error
	AddComment(ctx context.Context, ticketID, content string) error
	AddTicketAttachment(ctx context.Context, ticketID string, in FileInput) error

	ListOvertimeRequests() []OvertimeRequest
	GetOvertimeRequest(id string) (OvertimeRequest, bool)
	CreateOvertimeRequest(ctx context.Context, in CreateOvertimeInput) (OvertimeRequest, error)
	UpdateOvertimeRequest(ctx context.Context, id string, patch OvertimePatch) error
	DeleteOvertimeRequest(ctx context.Context, id string) error

	ListWorkLogs() []WorkLogEntry
	GetWorkLog(id string) (WorkLogEntry, bool)
	CreateWorkLog(ctx context.Context, in CreateWorkLogInput) (WorkLogEntry, error)
	UpdateWorkLog(ctx context.Context, id string, patch WorkLogPatch) error
	DeleteWorkLog(ctx context.Context, id string) error

	ListLeaveRequests() []LeaveRequest
	GetLeaveRequest(id string) (LeaveRequest, bool)
	CreateLeaveRequest(ctx context.Context, in CreateLeaveInput) (LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, id string, patch LeavePatch) error
	DeleteLeaveRequest(ctx context.Context, id string) error

	TimesheetSummary(ctx context.Context, userID string, period SummaryPeriod, start, end Date) (TimesheetSummary, error)

	ListReviews() []OutsourceReview
	GetReview(id string) (OutsourceReview, bool)
	CreateReview(ctx context.Context, in CreateReviewInput) (OutsourceReview, error)
	UpdateReview(ctx context.Context, id string, patch ReviewPatch) error
	DeleteReview(ctx context.Context, id string) error

	ListEnvironmentSetups() []EnvironmentSetup
	GetEnvironmentSetup(id string) (EnvironmentSetup, bool)
	CreateEnvironmentSetup(ctx context.Context, in CreateEnvironmentSetupInput) (EnvironmentSetup, error)
	UpdateEnvironmentSetup(ctx context.Context, setup EnvironmentSetup) error
	UpdateEnvironmentSetupItem(ctx context.Context, setupID, itemID string, patch SetupItemPatch) error
	DeleteEnvironmentSetup(ctx context.Context, id string) error

	ListContracts() []Contract
	GetContract(id string) (Contract, bool)
	CreateContract(ctx context.Context, in CreateContractInput) (Contract, error)
	UpdateContract(ctx context.Context, id string, patch ContractPatch) error
	DeleteContract(ctx context.Context, id string) error
	AddContractDocument(ctx context.Context, contractID string, in FileInput) error

	ListSquads() []Squad
	GetSquad(id string) (Squad, bool)
	CreateSquad(ctx context.Context, in CreateSquadInput) (Squad, error)
	UpdateSquad(ctx context.Context, id string, patch SquadPatch) error
	DeleteSquad(ctx context.Context, id string) error

	ListProjects() []Project
	GetProject(id string) (Project, bool)
	CreateProject(ctx context.Context, in CreateProjectInput) (Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) error
	DeleteProject(ctx context.Context, id string) error

	ListAssignments() []Assignment
	GetAssignment(id string) (Assignment, bool)
	CreateAssignment(ctx context.Context, in CreateAssignmentInput) (Assignment, error)
	UpdateAssignment(ctx context.Context, id string, patch AssignmentPatch) error
	DeleteAssignment(ctx context.Context, id string) error

	ListNotifications(userID string) []Notification
	UnreadNotificationCount(userID string) int
	CreateNotification(ctx context.Context, in CreateNotificationInput) (Notification, error)
	MarkNotificationAsRead(ctx context.Context, id string) error
	MarkAllNotificationsAsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}
