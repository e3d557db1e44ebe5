package domain

// Create inputs carry caller-supplied fields only. Ids, owners, initial
// statuses and timestamps are assigned by the store.
//
// Patches use nil to mean "leave unchanged".

type CreateUserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Active     *bool  `json:"active"`
}

type UserPatch struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Avatar     *string `json:"avatar"`
	Role       *Role   `json:"role"`
	Department *string `json:"department"`
	Active     *bool   `json:"active"`
}

type CreateTicketInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	AssignedTo  *UserSnapshot  `json:"assigned_to"`
}

type TicketPatch struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *TicketStatus   `json:"status"`
	Category    *TicketCategory `json:"category"`
	Priority    *TicketPriority `json:"priority"`
	AssignedTo  *UserSnapshot   `json:"assigned_to"`
	// Unassign clears AssignedTo; it wins over AssignedTo.
	Unassign bool `json:"unassign"`
}

// FileInput is the metadata registered once a file has been uploaded.
type FileInput struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
}

type CreateOvertimeInput struct {
	Date      Date   `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	// TotalHours is computed by the caller; zero means derive it from the clock times.
	TotalHours float64 `json:"total_hours"`
	Reason     string  `json:"reason"`
}

type OvertimePatch struct {
	Date       *Date          `json:"date"`
	StartTime  *string        `json:"start_time"`
	EndTime    *string        `json:"end_time"`
	TotalHours *float64       `json:"total_hours"`
	Reason     *string        `json:"reason"`
	Status     *RequestStatus `json:"status"`
}

type CreateLeaveInput struct {
	Type      LeaveType `json:"type"`
	StartDate Date      `json:"start_date"`
	EndDate   Date      `json:"end_date"`
	// TotalDays is computed by the caller; zero means count calendar days.
	TotalDays float64 `json:"total_days"`
	Reason    string  `json:"reason"`
}

type LeavePatch struct {
	Type      *LeaveType     `json:"type"`
	StartDate *Date          `json:"start_date"`
	EndDate   *Date          `json:"end_date"`
	TotalDays *float64       `json:"total_days"`
	Reason    *string        `json:"reason"`
	Status    *RequestStatus `json:"status"`
}

type CreateWorkLogInput struct {
	Date        Date   `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Project     string `json:"project"`
	Description string `json:"description"`
}

type WorkLogPatch struct {
	Date        *Date    `json:"date"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Hours       *float64 `json:"hours"`
	Project     *string  `json:"project"`
	Description *string  `json:"description"`
}

type CreateReviewInput struct {
	RevieweeID string         `json:"reviewee_id"`
	Period     string         `json:"period"`
	Criteria   ReviewCriteria `json:"criteria"`
	Comment    string         `json:"comment"`
}

type ReviewPatch struct {
	Period   *string         `json:"period"`
	Criteria *ReviewCriteria `json:"criteria"`
	Comment  *string         `json:"comment"`
}

type SetupItemInput struct {
	Name     string        `json:"name"`
	Category SetupCategory `json:"category"`
	Note     string        `json:"note"`
}

type CreateEnvironmentSetupInput struct {
	StaffID   string           `json:"staff_id"`
	StaffName string           `json:"staff_name"`
	Title     string           `json:"title"`
	Items     []SetupItemInput `json:"items"`
}

type SetupItemPatch struct {
	Status *SetupItemStatus `json:"status"`
	Note   *string          `json:"note"`
}

type CreateContractInput struct {
	StaffID    string         `json:"staff_id"`
	StaffName  string         `json:"staff_name"`
	Title      string         `json:"title"`
	Vendor     string         `json:"vendor"`
	StartDate  Date           `json:"start_date"`
	ExpiryDate Date           `json:"expiry_date"`
	Status     ContractStatus `json:"status"`
}

type ContractPatch struct {
	StaffID    *string         `json:"staff_id"`
	StaffName  *string         `json:"staff_name"`
	Title      *string         `json:"title"`
	Vendor     *string         `json:"vendor"`
	StartDate  *Date           `json:"start_date"`
	ExpiryDate *Date           `json:"expiry_date"`
	Status     *ContractStatus `json:"status"`
}

type CreateSquadInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	LeadID      string `json:"lead_id"`
	Description string `json:"description"`
}

type SquadPatch struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	LeadID      *string `json:"lead_id"`
	Description *string `json:"description"`
}

type CreateProjectInput struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Client      string `json:"client"`
	Description string `json:"description"`
}

type ProjectPatch struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Client      *string `json:"client"`
	Description *string `json:"description"`
}

type CreateAssignmentInput struct {
	StaffID     string           `json:"staff_id"`
	SquadID     string           `json:"squad_id"`
	ProjectID   string           `json:"project_id"`
	Role        string           `json:"role"`
	Utilization int              `json:"utilization"`
	Status      AssignmentStatus `json:"status"`
	StartDate   Date             `json:"start_date"`
	EndDate     Date             `json:"end_date"`
}

type AssignmentPatch struct {
	SquadID     *string           `json:"squad_id"`
	ProjectID   *string           `json:"project_id"`
	Role        *string           `json:"role"`
	Utilization *int              `json:"utilization"`
	Status      *AssignmentStatus `json:"status"`
	StartDate   *Date             `json:"start_date"`
	EndDate     *Date             `json:"end_date"`
}

type CreateNotificationInput struct {
	UserID  string           `json:"user_id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
	Link    string           `json:"link"`
}
