// Package fixtures holds the static seed data used when the console runs
// without a backend, and to seed the backend on first start.
package fixtures

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

// DefaultPassword is the seeded password of every fixture account.
const DefaultPassword = "helpdesk"

// AdminEmail belongs to the first fixture user.
const AdminEmail = "admin@helpdesk.local"

// Build returns a fresh dataset with dates placed around now. The first user
// is an admin.
func Build(now time.Time) domain.Dataset {
	now = now.UTC()
	day := func(offset int) domain.Date { return domain.NewDate(now.AddDate(0, 0, offset)) }
	at := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	ptr := func(t time.Time) *time.Time { return &t }

	users := []domain.User{
		user("user-1", "Alya Prameswari", AdminEmail, domain.RoleAdmin, "Operations", at(-120)),
		user("user-2", "Bima Santoso", "bima@helpdesk.local", domain.RoleAgent, "IT", at(-100)),
		user("user-3", "Citra Lestari", "citra@helpdesk.local", domain.RoleApprover, "Finance", at(-90)),
		user("user-4", "Dimas Hartono", "dimas@helpdesk.local", domain.RoleSupervisor, "Engineering", at(-80)),
		user("user-5", "Eka Wulandari", "eka@helpdesk.local", domain.RoleHR, "People", at(-70)),
		user("user-6", "Fajar Nugroho", "fajar@helpdesk.local", domain.RoleITSupport, "IT", at(-60)),
		user("user-7", "Gita Maharani", "gita@helpdesk.local", domain.RoleEmployee, "Engineering", at(-50)),
		user("user-8", "Hadi Pratama", "hadi@helpdesk.local", domain.RoleRequester, "Sales", at(-40)),
	}
	snap := func(i int) domain.UserSnapshot { return users[i].Snapshot() }
	agent := snap(1)

	tickets := []domain.Ticket{
		{
			ID: "ticket-3", Title: "VPN drops every few minutes", Description: "Connection resets on the office network.",
			Status: domain.TicketStatusInProgress, Category: domain.TicketCategoryNetwork, Priority: domain.TicketPriorityHigh,
			Requester: snap(6), AssignedTo: &agent,
			Comments: []domain.Comment{{
				ID: "comment-1", TicketID: "ticket-3", UserID: users[1].ID, UserName: users[1].Name,
				Content: "Collecting client logs.", CreatedAt: at(-1),
			}},
			Attachments: []domain.Attachment{},
			CreatedAt:   at(-2), UpdatedAt: at(-1),
		},
		{
			ID: "ticket-2", Title: "Access to the finance share", Description: "Need read access for the quarterly close.",
			Status: domain.TicketStatusPending, Category: domain.TicketCategoryAccess, Priority: domain.TicketPriorityMedium,
			Requester: snap(7), Comments: []domain.Comment{}, Attachments: []domain.Attachment{},
			CreatedAt: at(-4), UpdatedAt: at(-4),
		},
		{
			ID: "ticket-1", Title: "Laptop battery replacement", Description: "Battery health below 60%.",
			Status: domain.TicketStatusResolved, Category: domain.TicketCategoryHardware, Priority: domain.TicketPriorityLow,
			Requester: snap(3), AssignedTo: ptrSnapshot(snap(5)), Comments: []domain.Comment{}, Attachments: []domain.Attachment{},
			CreatedAt: at(-10), UpdatedAt: at(-7),
		},
	}

	overtime := []domain.OvertimeRequest{
		{
			ID: "overtime-2", UserID: users[6].ID, Date: day(-1), StartTime: "18:00", EndTime: "21:00",
			TotalHours: 3, Reason: "Release support", Status: domain.RequestStatusPending,
			CreatedAt: at(-1), UpdatedAt: at(-1),
		},
		{
			ID: "overtime-1", UserID: users[6].ID, Date: day(-6), StartTime: "17:00", EndTime: "19:30",
			TotalHours: 2.5, Reason: "Incident follow-up", Status: domain.RequestStatusApproved,
			ApproverID: users[2].ID, DecidedAt: ptr(at(-5)),
			CreatedAt: at(-6), UpdatedAt: at(-5),
		},
	}

	workLogs := []domain.WorkLogEntry{
		workLog("worklog-3", users[6].ID, day(-1), "09:00", "17:00", "Helpdesk", "Ticket triage", at(-1)),
		workLog("worklog-2", users[6].ID, day(-2), "09:00", "12:00", "Helpdesk", "Onboarding laptops", at(-2)),
		workLog("worklog-1", users[6].ID, day(-2), "13:00", "17:30", "Helpdesk", "Network audit", at(-2)),
	}

	leaves := []domain.LeaveRequest{
		{
			ID: "leave-2", UserID: users[7].ID, Type: domain.LeaveTypeSick, StartDate: day(-3), EndDate: day(-3),
			TotalDays: 1, Reason: "Flu", Status: domain.RequestStatusPending,
			CreatedAt: at(-3), UpdatedAt: at(-3),
		},
		{
			ID: "leave-1", UserID: users[6].ID, Type: domain.LeaveTypeAnnual, StartDate: day(-14), EndDate: day(-12),
			TotalDays: 3, Reason: "Family trip", Status: domain.RequestStatusApproved,
			ApproverID: users[4].ID, DecidedAt: ptr(at(-20)),
			CreatedAt: at(-21), UpdatedAt: at(-20),
		},
	}

	criteria := domain.ReviewCriteria{Quality: 4, Productivity: 4, Communication: 5, Teamwork: 4, Initiative: 3}
	reviews := []domain.OutsourceReview{{
		ID: "review-1", ReviewerID: users[3].ID, RevieweeID: users[6].ID, Period: periodLabel(now.AddDate(0, -1, 0)),
		Criteria: criteria, OverallScore: criteria.Average(), Comment: "Reliable during the migration.",
		CreatedAt: at(-15), UpdatedAt: at(-15),
	}}

	setups := []domain.EnvironmentSetup{
		{
			ID: "setup-2", StaffID: users[7].ID, StaffName: users[7].Name, Title: "New joiner setup",
			Status: domain.SetupStatusInProgress,
			Items: []domain.SetupItem{
				{ID: "item-4", Name: "Issue laptop", Category: domain.SetupCategoryDevice, Status: domain.SetupItemStatusDone, UpdatedAt: at(-3)},
				{ID: "item-5", Name: "Enrol in MDM", Category: domain.SetupCategoryMDM, Status: domain.SetupItemStatusInProgress, UpdatedAt: at(-2)},
				{ID: "item-6", Name: "Create SSO account", Category: domain.SetupCategoryAccount, Status: domain.SetupItemStatusPending, UpdatedAt: at(-3)},
			},
			CreatedAt: at(-3), UpdatedAt: at(-2),
		},
		{
			ID: "setup-1", StaffID: users[6].ID, StaffName: users[6].Name, Title: "Engineering workstation",
			Status: domain.SetupStatusResolved,
			Items: []domain.SetupItem{
				{ID: "item-1", Name: "Install OS updates", Category: domain.SetupCategoryOS, Status: domain.SetupItemStatusDone, UpdatedAt: at(-40)},
				{ID: "item-2", Name: "Install IDE", Category: domain.SetupCategorySoftware, Status: domain.SetupItemStatusDone, UpdatedAt: at(-40)},
				{ID: "item-3", Name: "Grant repository access", Category: domain.SetupCategoryAccount, Status: domain.SetupItemStatusDone, UpdatedAt: at(-39)},
			},
			CompletionDate: ptr(at(-39)),
			CreatedAt:      at(-45), UpdatedAt: at(-39),
		},
	}

	contracts := []domain.Contract{
		{
			ID: "contract-2", StaffID: users[6].ID, StaffName: users[6].Name, Title: "Outsourced engineer",
			Vendor: "Nusantara Talent", StartDate: day(-340), ExpiryDate: day(20), Status: domain.ContractStatusActive,
			Documents: []domain.Document{}, CreatedAt: at(-340), UpdatedAt: at(-340),
		},
		{
			ID: "contract-1", StaffID: users[7].ID, StaffName: users[7].Name, Title: "Support analyst",
			Vendor: "Archipelago Staffing", StartDate: day(-30), ExpiryDate: day(335), Status: domain.ContractStatusActive,
			Documents: []domain.Document{}, CreatedAt: at(-30), UpdatedAt: at(-30),
		},
	}

	squads := []domain.Squad{{
		ID: "squad-1", Name: "Platform", Code: "platform", LeadID: users[3].ID,
		Description: "Internal tooling and infrastructure", CreatedAt: at(-200), UpdatedAt: at(-200),
	}}
	projects := []domain.Project{{
		ID: "project-1", Name: "Helpdesk Revamp", Code: "helpdesk-revamp", Client: "Internal",
		CreatedAt: at(-90), UpdatedAt: at(-90),
	}}
	assignments := []domain.Assignment{{
		ID: "assignment-1", StaffID: users[6].ID, SquadID: "squad-1", ProjectID: "project-1",
		Role: "Backend engineer", Utilization: 80, Status: domain.AssignmentStatusActive,
		StartDate: day(-90), EndDate: day(90), CreatedAt: at(-90), UpdatedAt: at(-90),
	}}

	notifications := []domain.Notification{
		{
			ID: "notification-2", UserID: users[0].ID, Title: "New ticket", Message: "Access to the finance share",
			Type: domain.NotificationInfo, Link: "/tickets/ticket-2", CreatedAt: at(-4), UpdatedAt: at(-4),
		},
		{
			ID: "notification-1", UserID: users[0].ID, Title: "Setup completed", Message: "Engineering workstation",
			Type: domain.NotificationSuccess, Link: "/environment-setups/setup-1", IsRead: true,
			CreatedAt: at(-39), UpdatedAt: at(-39),
		},
	}

	return domain.Dataset{
		Users:             users,
		Tickets:           tickets,
		OvertimeRequests:  overtime,
		WorkLogs:          workLogs,
		LeaveRequests:     leaves,
		Reviews:           reviews,
		EnvironmentSetups: setups,
		Contracts:         contracts,
		Squads:            squads,
		Projects:          projects,
		Assignments:       assignments,
		Notifications:     notifications,
	}
}

func user(id, name, email string, role domain.Role, department string, created time.Time) domain.User {
	return domain.User{
		ID:         id,
		Name:       name,
		Email:      email,
		Role:       role,
		Department: department,
		Active:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func workLog(id, userID string, date domain.Date, start, end, project, description string, at time.Time) domain.WorkLogEntry {
	hours, _ := domain.ClockHours(start, end)
	return domain.WorkLogEntry{
		ID:          id,
		UserID:      userID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Hours:       hours,
		Project:     project,
		Description: description,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func ptrSnapshot(s domain.UserSnapshot) *domain.UserSnapshot { return &s }

func periodLabel(t time.Time) string { return t.Format("2006-01") }

// Loader serves Build at the current clock time.
type Loader struct {
	clock clock.Clock
}

func NewLoader(c clock.Clock) *Loader {
	return &Loader{clock: c}
}

func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	return Build(l.clock.Now()), nil
}

// Authenticator accepts any non-empty credential pair. The store resolves the
// principal by email, falling back to the first user.
type Authenticator struct{}

func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

func (Authenticator) Authenticate(_ context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return domain.User{Email: email}, nil
}

func (Authenticator) Resume(context.Context) (domain.User, bool, error) {
	return domain.User{}, false, nil
}

func (Authenticator) Logout(context.Context) error { return nil }
