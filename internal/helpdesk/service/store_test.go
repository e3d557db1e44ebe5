package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/smallbiznis/helpdesk/internal/idgen"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

type harness struct {
	store  *Store
	clock  *clock.FakeClock
	toasts *notify.Recorder
	loader *countingLoader
}

type countingLoader struct {
	mu    sync.Mutex
	inner domain.Loader
	calls int
}

func (l *countingLoader) Load(ctx context.Context) (domain.Dataset, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.inner.Load(ctx)
}

func (l *countingLoader) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func newHarness(t *testing.T, console config.ConsoleConfig) *harness {
	t.Helper()
	fc := clock.NewFakeClock(testNow)
	enforcer, err := authorization.NewEnforcer()
	require.NoError(t, err)
	loader := &countingLoader{inner: fixtures.NewLoader(fc)}
	recorder := notify.NewRecorder(100)

	store := New(Params{
		Log:      zap.NewNop(),
		Clock:    fc,
		IDs:      idgen.MustNew(1),
		Loader:   loader,
		Auth:     fixtures.NewAuthenticator(),
		Authz:    authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		Notifier: recorder,
		Console:  config.NewStaticConsoleConfigHolder(console),
	})
	return &harness{store: store, clock: fc, toasts: recorder, loader: loader}
}

// signedIn returns a harness logged in as the fixture user with email.
func signedIn(t *testing.T, email string) *harness {
	t.Helper()
	h := newHarness(t, config.DefaultConsoleConfig())
	_, err := h.store.Login(context.Background(), email, "secret")
	require.NoError(t, err)
	h.toasts.Drain()
	return h
}

func (h *harness) lastToast(t *testing.T) notify.Toast {
	t.Helper()
	toast, ok := h.toasts.Last()
	require.True(t, ok, "expected a toast")
	return toast
}

func TestLoginLoadsCollections(t *testing.T) {
	h := newHarness(t, config.DefaultConsoleConfig())
	ctx := context.Background()

	assert.False(t, h.store.IsAuthenticated())
	assert.Empty(t, h.store.ListUsers())

	principal, err := h.store.Login(ctx, "someone@example.com", "pw")
	require.NoError(t, err)

	assert.True(t, h.store.IsAuthenticated())
	assert.NotEmpty(t, h.store.ListUsers())
	assert.NotEmpty(t, h.store.ListTickets())
	// Unknown email falls back to the first user, an admin.
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, domain.RoleAdmin, principal.Role)
	assert.Equal(t, notify.SeveritySuccess, h.lastToast(t).Severity)
}

func TestLoginResolvesPrincipalByEmail(t *testing.T) {
	h := newHarness(t, config.DefaultConsoleConfig())

	principal, err := h.store.Login(context.Background(), "GITA@helpdesk.local", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user-7", principal.ID)

	current, ok := h.store.CurrentPrincipal()
	require.True(t, ok)
	assert.Equal(t, principal, current)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	h := newHarness(t, config.DefaultConsoleConfig())

	_, err := h.store.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = h.store.Login(context.Background(), "a@b.c", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, 0, h.loader.Calls())
}

func TestLogoutKeepsCollections(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()
	users := len(h.store.ListUsers())

	require.NoError(t, h.store.Logout(ctx))

	assert.False(t, h.store.IsAuthenticated())
	_, ok := h.store.CurrentPrincipal()
	assert.False(t, ok)
	assert.Len(t, h.store.ListUsers(), users)

	// A second login reuses the loaded collections.
	_, err := h.store.Login(ctx, fixtures.AdminEmail, "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, h.loader.Calls())
}

func TestBootstrapReloads(t *testing.T) {
	h := newHarness(t, config.DefaultConsoleConfig())
	ctx := context.Background()

	require.NoError(t, h.store.Bootstrap(ctx))
	require.NoError(t, h.store.Bootstrap(ctx))

	assert.Equal(t, 2, h.loader.Calls())
	assert.NotEmpty(t, h.store.ListTickets())
	// The fixture authenticator has no persisted session.
	assert.False(t, h.store.IsAuthenticated())
}

func TestCreateStampsOwnerAndInitialStatus(t *testing.T) {
	h := signedIn(t, "gita@helpdesk.local")
	ctx := context.Background()
	principal, _ := h.store.CurrentPrincipal()

	ticket, err := h.store.CreateTicket(ctx, domain.CreateTicketInput{Title: "Printer jam"})
	require.NoError(t, err)
	assert.Equal(t, principal.ID, ticket.Requester.ID)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Equal(t, testNow, ticket.CreatedAt)
	assert.Equal(t, testNow, ticket.UpdatedAt)

	overtime, err := h.store.CreateOvertimeRequest(ctx, domain.CreateOvertimeInput{
		Date: "2025-05-19", StartTime: "18:00", EndTime: "20:30",
	})
	require.NoError(t, err)
	assert.Equal(t, principal.ID, overtime.UserID)
	assert.Equal(t, domain.RequestStatusPending, overtime.Status)
	assert.InDelta(t, 2.5, overtime.TotalHours, 0.0001)

	workLog, err := h.store.CreateWorkLog(ctx, domain.CreateWorkLogInput{
		Date: "2025-05-19", StartTime: "09:00", EndTime: "17:00",
	})
	require.NoError(t, err)
	assert.Equal(t, principal.ID, workLog.UserID)
	assert.InDelta(t, 8.0, workLog.Hours, 0.0001)

	leave, err := h.store.CreateLeaveRequest(ctx, domain.CreateLeaveInput{
		Type: domain.LeaveTypeSick, StartDate: "2025-05-21", EndDate: "2025-05-22",
	})
	require.NoError(t, err)
	assert.Equal(t, principal.ID, leave.UserID)
	assert.Equal(t, domain.RequestStatusPending, leave.Status)
	assert.Equal(t, 2.0, leave.TotalDays)

	review, err := h.store.CreateReview(ctx, domain.CreateReviewInput{
		RevieweeID: "user-8",
		Criteria:   domain.ReviewCriteria{Quality: 5, Productivity: 4, Communication: 4, Teamwork: 3, Initiative: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, principal.ID, review.ReviewerID)
	assert.Equal(t, 4.0, review.OverallScore)
}

func TestCreateWithoutPrincipalIsNoop(t *testing.T) {
	h := newHarness(t, config.DefaultConsoleConfig())
	ctx := context.Background()
	require.NoError(t, h.store.Bootstrap(ctx))
	before := h.store.Snapshot()
	h.toasts.Drain()

	ticket, err := h.store.CreateTicket(ctx, domain.CreateTicketInput{Title: "VPN"})
	require.NoError(t, err)
	assert.Empty(t, ticket.ID)

	_, err = h.store.CreateWorkLog(ctx, domain.CreateWorkLogInput{Date: "2025-05-19", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	_, err = h.store.CreateOvertimeRequest(ctx, domain.CreateOvertimeInput{Date: "2025-05-19", TotalHours: 1})
	require.NoError(t, err)
	_, err = h.store.CreateLeaveRequest(ctx, domain.CreateLeaveInput{StartDate: "2025-05-19", EndDate: "2025-05-19"})
	require.NoError(t, err)
	_, err = h.store.CreateReview(ctx, domain.CreateReviewInput{RevieweeID: "user-2", Criteria: domain.ReviewCriteria{Quality: 1, Productivity: 1, Communication: 1, Teamwork: 1, Initiative: 1}})
	require.NoError(t, err)
	require.NoError(t, h.store.AddComment(ctx, "ticket-1", "hello"))

	assert.Equal(t, before.Dataset, h.store.Snapshot().Dataset)
	assert.Empty(t, h.toasts.Toasts())
}

func TestMissingIDIsNoop(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()
	before := h.store.Snapshot()

	title := "changed"
	status := domain.RequestStatusApproved
	hours := 3.0
	name := "x"
	util := 50
	itemStatus := domain.SetupItemStatusDone

	require.NoError(t, h.store.UpdateUser(ctx, "missing", domain.UserPatch{Name: &name}))
	require.NoError(t, h.store.DeleteUser(ctx, "missing"))
	require.NoError(t, h.store.UpdateTicket(ctx, "missing", domain.TicketPatch{Title: &title}))
	require.NoError(t, h.store.DeleteTicket(ctx, "missing"))
	require.NoError(t, h.store.AddComment(ctx, "missing", "hello"))
	require.NoError(t, h.store.AddTicketAttachment(ctx, "missing", domain.FileInput{FileID: "f", Name: "n"}))
	require.NoError(t, h.store.UpdateOvertimeRequest(ctx, "missing", domain.OvertimePatch{Status: &status}))
	require.NoError(t, h.store.DeleteOvertimeRequest(ctx, "missing"))
	require.NoError(t, h.store.UpdateWorkLog(ctx, "missing", domain.WorkLogPatch{Hours: &hours}))
	require.NoError(t, h.store.DeleteWorkLog(ctx, "missing"))
	require.NoError(t, h.store.UpdateLeaveRequest(ctx, "missing", domain.LeavePatch{Status: &status}))
	require.NoError(t, h.store.DeleteLeaveRequest(ctx, "missing"))
	require.NoError(t, h.store.UpdateReview(ctx, "missing", domain.ReviewPatch{Comment: &title}))
	require.NoError(t, h.store.DeleteReview(ctx, "missing"))
	require.NoError(t, h.store.UpdateEnvironmentSetup(ctx, domain.EnvironmentSetup{ID: "missing", Title: "t"}))
	require.NoError(t, h.store.UpdateEnvironmentSetupItem(ctx, "missing", "item-1", domain.SetupItemPatch{Status: &itemStatus}))
	require.NoError(t, h.store.UpdateEnvironmentSetupItem(ctx, "setup-2", "missing", domain.SetupItemPatch{Status: &itemStatus}))
	require.NoError(t, h.store.DeleteEnvironmentSetup(ctx, "missing"))
	require.NoError(t, h.store.UpdateContract(ctx, "missing", domain.ContractPatch{Title: &title}))
	require.NoError(t, h.store.DeleteContract(ctx, "missing"))
	require.NoError(t, h.store.AddContractDocument(ctx, "missing", domain.FileInput{FileID: "f", Name: "n"}))
	require.NoError(t, h.store.UpdateSquad(ctx, "missing", domain.SquadPatch{Name: &name}))
	require.NoError(t, h.store.DeleteSquad(ctx, "missing"))
	require.NoError(t, h.store.UpdateProject(ctx, "missing", domain.ProjectPatch{Name: &name}))
	require.NoError(t, h.store.DeleteProject(ctx, "missing"))
	require.NoError(t, h.store.UpdateAssignment(ctx, "missing", domain.AssignmentPatch{Utilization: &util}))
	require.NoError(t, h.store.DeleteAssignment(ctx, "missing"))
	require.NoError(t, h.store.MarkNotificationAsRead(ctx, "missing"))
	require.NoError(t, h.store.DeleteNotification(ctx, "missing"))

	assert.Equal(t, before.Dataset, h.store.Snapshot().Dataset)
	assert.Empty(t, h.toasts.Toasts())
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()
	principal, _ := h.store.CurrentPrincipal()

	err := h.store.DeleteUser(ctx, principal.ID)
	require.Error(t, err)
	assert.True(t, domain.IsRejected(err))
	assert.ErrorIs(t, err, domain.ErrSelfDelete)

	_, ok := h.store.GetUser(principal.ID)
	assert.True(t, ok)
	assert.Equal(t, notify.SeverityDestructive, h.lastToast(t).Severity)

	require.NoError(t, h.store.DeleteUser(ctx, "user-8"))
	_, ok = h.store.GetUser("user-8")
	assert.False(t, ok)
	assert.Equal(t, notify.SeveritySuccess, h.lastToast(t).Severity)
}

func TestCreatePrependsNewest(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	first, err := h.store.CreateSquad(ctx, domain.CreateSquadInput{Name: "Mobile Apps"})
	require.NoError(t, err)
	second, err := h.store.CreateSquad(ctx, domain.CreateSquadInput{Name: "Data Platform"})
	require.NoError(t, err)

	squads := h.store.ListSquads()
	assert.Equal(t, second.ID, squads[0].ID)
	assert.Equal(t, first.ID, squads[1].ID)
	assert.Equal(t, "data-platform", second.Code)

	r1, err := h.store.CreateTicket(ctx, domain.CreateTicketInput{Title: "R1"})
	require.NoError(t, err)
	r2, err := h.store.CreateTicket(ctx, domain.CreateTicketInput{Title: "R2"})
	require.NoError(t, err)
	tickets := h.store.ListTickets()
	assert.Equal(t, r2.ID, tickets[0].ID)
	assert.Equal(t, r1.ID, tickets[1].ID)
}

func TestSuccessToastOnEveryOperation(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	created, err := h.store.CreateProject(ctx, domain.CreateProjectInput{Name: "Billing"})
	require.NoError(t, err)
	name := "Billing v2"
	require.NoError(t, h.store.UpdateProject(ctx, created.ID, domain.ProjectPatch{Name: &name}))
	require.NoError(t, h.store.DeleteProject(ctx, created.ID))

	toasts := h.toasts.Toasts()
	require.Len(t, toasts, 3)
	for _, toast := range toasts {
		assert.Equal(t, notify.SeveritySuccess, toast.Severity)
	}
	assert.Equal(t, "Project created", toasts[0].Title)
}

func TestObserversSeeEventsInOrder(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	var events []domain.Event
	unsubscribe := h.store.Subscribe(func(ev domain.Event) { events = append(events, ev) })

	ticket, err := h.store.CreateTicket(ctx, domain.CreateTicketInput{Title: "Mouse broken"})
	require.NoError(t, err)
	require.NoError(t, h.store.AddComment(ctx, ticket.ID, "on it"))
	require.NoError(t, h.store.DeleteTicket(ctx, ticket.ID))
	unsubscribe()
	require.NoError(t, h.store.DeleteTicket(ctx, "ticket-1"))

	require.Len(t, events, 3)
	assert.Equal(t, domain.OpCreated, events[0].Op)
	assert.Equal(t, domain.OpUpdated, events[1].Op)
	assert.Equal(t, domain.OpDeleted, events[2].Op)
	for _, ev := range events {
		assert.Equal(t, domain.KindTicket, ev.Kind)
		assert.Equal(t, ticket.ID, ev.ID)
	}
	commented, ok := events[1].Entity.(domain.Ticket)
	require.True(t, ok)
	assert.Len(t, commented.Comments, 1)
}

func TestReadersReceiveCopies(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)

	tickets := h.store.ListTickets()
	tickets[0].Title = "mutated"
	tickets[0].Comments = append(tickets[0].Comments, domain.Comment{ID: "x"})

	fresh := h.store.ListTickets()
	assert.NotEqual(t, "mutated", fresh[0].Title)
	assert.Len(t, fresh[0].Comments, 1)
}

func TestConcurrentCreatesAreSerialised(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()
	before := len(h.store.ListWorkLogs())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.store.CreateWorkLog(ctx, domain.CreateWorkLogInput{
				Date: "2025-05-19", StartTime: "09:00", EndTime: "10:00",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	logs := h.store.ListWorkLogs()
	assert.Len(t, logs, before+50)
	seen := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		seen[l.ID] = struct{}{}
	}
	assert.Len(t, seen, len(logs))
}

func TestUpdateUserRefreshesPrincipal(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()
	principal, _ := h.store.CurrentPrincipal()

	name := "Alya P."
	require.NoError(t, h.store.UpdateUser(ctx, principal.ID, domain.UserPatch{Name: &name}))

	current, _ := h.store.CurrentPrincipal()
	assert.Equal(t, "Alya P.", current.Name)
	assert.Equal(t, testNow, current.UpdatedAt)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)

	_, err := h.store.CreateUser(context.Background(), domain.CreateUserInput{Name: "Dup", Email: "BIMA@helpdesk.local"})
	assert.True(t, domain.IsRejected(err))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := h.store.CreateUser(context.Background(), domain.CreateUserInput{Name: "Indah", Email: "indah@helpdesk.local"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, created.Role)
	assert.True(t, created.Active)
}
