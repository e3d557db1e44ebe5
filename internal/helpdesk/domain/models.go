package domain

import "time"

type Role string

const (
	RoleRequester  Role = "requester"
	RoleAgent      Role = "agent"
	RoleApprover   Role = "approver"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleITSupport  Role = "it_support"
	RoleEmployee   Role = "employee"
)

var roles = map[Role]struct{}{
	RoleRequester: {}, RoleAgent: {}, RoleApprover: {}, RoleSupervisor: {},
	RoleAdmin: {}, RoleHR: {}, RoleITSupport: {}, RoleEmployee: {},
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

// Roles lists every known role in a stable order.
func Roles() []Role {
	return []Role{RoleRequester, RoleAgent, RoleApprover, RoleSupervisor, RoleAdmin, RoleHR, RoleITSupport, RoleEmployee}
}

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar,omitempty"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSnapshot is a copy of a user's identity frozen at the moment it was
// embedded. Later changes to the User do not propagate.
type UserSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
}

func (u User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Avatar:     u.Avatar,
		Role:       u.Role,
		Department: u.Department,
	}
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccess   TicketCategory = "access"
	TicketCategoryOther    TicketCategory = "other"
)

type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Requester   UserSnapshot   `json:"requester"`
	AssignedTo  *UserSnapshot  `json:"assigned_to,omitempty"`
	Comments    []Comment      `json:"comments"`
	Attachments []Attachment   `json:"attachments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserAvatar string    `json:"user_avatar,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Attachment is metadata for a file stored by the backend. The bytes live
// behind FileID.
type Attachment struct {
	ID         string    `json:"id"`
	FileID     string    `json:"file_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type OvertimeRequest struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Date       Date          `json:"date"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	TotalHours float64       `json:"total_hours"`
	Reason     string        `json:"reason"`
	Status     RequestStatus `json:"status"`
	ApproverID string        `json:"approver_id,omitempty"`
	DecidedAt  *time.Time    `json:"decided_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type LeaveType string

const (
	LeaveTypeAnnual   LeaveType = "annual"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypePersonal LeaveType = "personal"
	LeaveTypeUnpaid   LeaveType = "unpaid"
	LeaveTypeOther    LeaveType = "other"
)

type LeaveRequest struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Type       LeaveType     `json:"type"`
	StartDate  Date          `json:"start_date"`
	EndDate    Date          `json:"end_date"`
	TotalDays  float64       `json:"total_days"`
	Reason     string        `json:"reason"`
	Status     RequestStatus `json:"status"`
	ApproverID string        `json:"approver_id,omitempty"`
	DecidedAt  *time.Time    `json:"decided_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type WorkLogEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        Date      `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Hours       float64   `json:"hours"`
	Project     string    `json:"project,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SummaryPeriod string

const (
	SummaryPeriodWeekly  SummaryPeriod = "weekly"
	SummaryPeriodMonthly SummaryPeriod = "monthly"
	SummaryPeriodCustom  SummaryPeriod = "custom"
)

func (p SummaryPeriod) Valid() bool {
	switch p {
	case SummaryPeriodWeekly, SummaryPeriodMonthly, SummaryPeriodCustom:
		return true
	}
	return false
}

// SummaryKey identifies one cached TimesheetSummary.
type SummaryKey struct {
	UserID    string        `json:"user_id"`
	Period    SummaryPeriod `json:"period"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
}

// Overlaps reports whether the key belongs to userID and its range intersects [from, to].
func (k SummaryKey) Overlaps(userID string, from, to Date) bool {
	return k.UserID == userID && k.StartDate <= to && k.EndDate >= from
}

type TimesheetSummary struct {
	SummaryKey
	TotalWorkHours     float64   `json:"total_work_hours"`
	TotalOvertimeHours float64   `json:"total_overtime_hours"`
	LeaveCount         float64   `json:"leave_count"`
	LoggedDays         int       `json:"logged_days"`
	DaysInPeriod       int       `json:"days_in_period"`
	CompletionRate     float64   `json:"completion_rate"`
	ComputedAt         time.Time `json:"computed_at"`
}

// ReviewCriteria holds the five fixed scores of a review, each 1 to 5.
type ReviewCriteria struct {
	Quality       int `json:"quality"`
	Productivity  int `json:"productivity"`
	Communication int `json:"communication"`
	Teamwork      int `json:"teamwork"`
	Initiative    int `json:"initiative"`
}

func (c ReviewCriteria) scores() []int {
	return []int{c.Quality, c.Productivity, c.Communication, c.Teamwork, c.Initiative}
}

func (c ReviewCriteria) Valid() bool {
	for _, s := range c.scores() {
		if s < 1 || s > 5 {
			return false
		}
	}
	return true
}

func (c ReviewCriteria) Average() float64 {
	total := 0
	for _, s := range c.scores() {
		total += s
	}
	return float64(total) / 5
}

type OutsourceReview struct {
	ID         string         `json:"id"`
	ReviewerID string         `json:"reviewer_id"`
	RevieweeID string         `json:"reviewee_id"`
	Period     string         `json:"period"`
	Criteria   ReviewCriteria `json:"criteria"`
	// OverallScore is the criteria average, kept in step by the store.
	OverallScore float64   `json:"overall_score"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SetupCategory string

const (
	SetupCategoryDevice   SetupCategory = "device"
	SetupCategoryMDM      SetupCategory = "mdm"
	SetupCategoryOS       SetupCategory = "os"
	SetupCategorySoftware SetupCategory = "software"
	SetupCategoryAccount  SetupCategory = "account"
)

func (c SetupCategory) Valid() bool {
	switch c {
	case SetupCategoryDevice, SetupCategoryMDM, SetupCategoryOS, SetupCategorySoftware, SetupCategoryAccount:
		return true
	}
	return false
}

type SetupItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  SetupCategory   `json:"category"`
	Status    SetupItemStatus `json:"status"`
	Note      string          `json:"note,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type EnvironmentSetup struct {
	ID             string      `json:"id"`
	StaffID        string      `json:"staff_id"`
	StaffName      string      `json:"staff_name"`
	Title          string      `json:"title"`
	Status         SetupStatus `json:"status"`
	Items          []SetupItem `json:"items"`
	CompletionDate *time.Time  `json:"completion_date,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AllItemsDone is false for an empty checklist.
func (e EnvironmentSetup) AllItemsDone() bool {
	if len(e.Items) == 0 {
		return false
	}
	for _, it := range e.Items {
		if it.Status != SetupItemStatusDone {
			return false
		}
	}
	return true
}

type Document struct {
	ID         string    `json:"id"`
	FileID     string    `json:"file_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Contract struct {
	ID         string         `json:"id"`
	StaffID    string         `json:"staff_id"`
	StaffName  string         `json:"staff_name"`
	Title      string         `json:"title"`
	Vendor     string         `json:"vendor,omitempty"`
	StartDate  Date           `json:"start_date"`
	ExpiryDate Date           `json:"expiry_date"`
	Status     ContractStatus `json:"status"`
	Documents  []Document     `json:"documents"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ExpiresWithin reports whether the expiry date falls in [today, today+days].
// It is a read-side hint; Status is never derived from it.
func (c Contract) ExpiresWithin(now time.Time, days int) bool {
	today := NewDate(now)
	limit := NewDate(now.AddDate(0, 0, days))
	return c.ExpiryDate >= today && c.ExpiryDate <= limit
}

type Squad struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	LeadID      string    `json:"lead_id,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Client      string    `json:"client,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Assignment struct {
	ID          string           `json:"id"`
	StaffID     string           `json:"staff_id"`
	SquadID     string           `json:"squad_id,omitempty"`
	ProjectID   string           `json:"project_id,omitempty"`
	Role        string           `json:"role"`
	Utilization int              `json:"utilization"`
	Status      AssignmentStatus `json:"status"`
	StartDate   Date             `json:"start_date,omitempty"`
	EndDate     Date             `json:"end_date,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Link      string           `json:"link,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
