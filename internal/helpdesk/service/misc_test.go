package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsAreScopedToPrincipal(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	_, err := h.store.CreateNotification(ctx, domain.CreateNotificationInput{UserID: "user-2", Title: "Assigned"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.store.UnreadNotificationCount("user-1"))
	assert.Equal(t, 1, h.store.UnreadNotificationCount("user-2"))

	// Another user's notification is untouched.
	other := h.store.ListNotifications("user-2")[0]
	require.NoError(t, h.store.MarkNotificationAsRead(ctx, other.ID))
	assert.Equal(t, 1, h.store.UnreadNotificationCount("user-2"))

	require.NoError(t, h.store.MarkAllNotificationsAsRead(ctx))
	assert.Zero(t, h.store.UnreadNotificationCount("user-1"))
	assert.Equal(t, 1, h.store.UnreadNotificationCount("user-2"))

	// Idempotent: no further toast.
	h.toasts.Drain()
	require.NoError(t, h.store.MarkAllNotificationsAsRead(ctx))
	require.NoError(t, h.store.MarkNotificationAsRead(ctx, "notification-2"))
	assert.Empty(t, h.toasts.Toasts())
}

func TestMarkNotificationAsRead(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)

	require.NoError(t, h.store.MarkNotificationAsRead(context.Background(), "notification-2"))
	notifications := h.store.ListNotifications("user-1")
	require.Len(t, notifications, 2)
	assert.True(t, notifications[0].IsRead)
	assert.Equal(t, testNow, notifications[0].UpdatedAt)
}

func TestReviewCriteriaBounds(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	_, err := h.store.CreateReview(ctx, domain.CreateReviewInput{
		RevieweeID: "user-7",
		Criteria:   domain.ReviewCriteria{Quality: 6, Productivity: 4, Communication: 4, Teamwork: 4, Initiative: 4},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	criteria := domain.ReviewCriteria{Quality: 2, Productivity: 2, Communication: 3, Teamwork: 3, Initiative: 3}
	require.NoError(t, h.store.UpdateReview(ctx, "review-1", domain.ReviewPatch{Criteria: &criteria}))
	review, _ := h.store.GetReview("review-1")
	assert.Equal(t, 2.6, review.OverallScore)
}

func TestContractDefaultsAndDocuments(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	contract, err := h.store.CreateContract(ctx, domain.CreateContractInput{
		StaffID: "user-8", Title: "Sales contractor", StartDate: "2025-06-01", ExpiryDate: "2026-05-31",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ContractStatusPending, contract.Status)
	assert.Equal(t, "Hadi Pratama", contract.StaffName)
	assert.Empty(t, contract.Documents)

	require.NoError(t, h.store.AddContractDocument(ctx, contract.ID, domain.FileInput{FileID: "f-1", Name: "signed.pdf", Size: 10}))
	got, _ := h.store.GetContract(contract.ID)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "signed.pdf", got.Documents[0].Name)

	_, err = h.store.CreateContract(ctx, domain.CreateContractInput{
		StaffID: "user-8", Title: "Backwards", StartDate: "2025-06-01", ExpiryDate: "2025-05-01",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestAssignmentUtilizationBounds(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	_, err := h.store.CreateAssignment(ctx, domain.CreateAssignmentInput{StaffID: "user-7", Utilization: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	created, err := h.store.CreateAssignment(ctx, domain.CreateAssignmentInput{StaffID: "user-7", SquadID: "squad-1", Utilization: 20})
	require.NoError(t, err)
	assert.Equal(t, domain.AssignmentStatusPlanned, created.Status)

	negative := -1
	err = h.store.UpdateAssignment(ctx, created.ID, domain.AssignmentPatch{Utilization: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSquadCodesAreUnique(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)

	_, err := h.store.CreateSquad(context.Background(), domain.CreateSquadInput{Name: "Platform Team", Code: "Platform"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	project, err := h.store.CreateProject(context.Background(), domain.CreateProjectInput{Name: "Mobile Banking App"})
	require.NoError(t, err)
	assert.Equal(t, "mobile-banking-app", project.Code)
}
