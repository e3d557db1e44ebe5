package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemStatus(s domain.SetupItemStatus) domain.SetupItemPatch {
	return domain.SetupItemPatch{Status: &s}
}

func TestChecklistResolvesWhenLastItemDone(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	require.NoError(t, h.store.UpdateEnvironmentSetupItem(ctx, "setup-2", "item-5", itemStatus(domain.SetupItemStatusDone)))
	setup, _ := h.store.GetEnvironmentSetup("setup-2")
	assert.Equal(t, domain.SetupStatusInProgress, setup.Status)
	assert.Nil(t, setup.CompletionDate)

	h.clock.Advance(time.Hour)
	require.NoError(t, h.store.UpdateEnvironmentSetupItem(ctx, "setup-2", "item-6", itemStatus(domain.SetupItemStatusDone)))
	setup, _ = h.store.GetEnvironmentSetup("setup-2")
	assert.Equal(t, domain.SetupStatusResolved, setup.Status)
	require.NotNil(t, setup.CompletionDate)
	assert.Equal(t, testNow.Add(time.Hour), *setup.CompletionDate)
	assert.Equal(t, "Environment setup completed", h.lastToast(t).Title)
}

func TestChecklistLeavesPendingParentAlone(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	created, err := h.store.CreateEnvironmentSetup(ctx, domain.CreateEnvironmentSetupInput{
		StaffID: "user-8",
		Title:   "Sales laptop",
		Items: []domain.SetupItemInput{
			{Name: "Laptop", Category: domain.SetupCategoryDevice},
			{Name: "CRM account", Category: domain.SetupCategoryAccount},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SetupStatusPending, created.Status)
	assert.Equal(t, "Hadi Pratama", created.StaffName)
	require.Len(t, created.Items, 2)

	require.NoError(t, h.store.UpdateEnvironmentSetupItem(ctx, created.ID, created.Items[0].ID, itemStatus(domain.SetupItemStatusDone)))
	setup, _ := h.store.GetEnvironmentSetup(created.ID)
	assert.Equal(t, domain.SetupStatusPending, setup.Status)
	assert.Nil(t, setup.CompletionDate)
}

func TestChecklistDoneIsTerminal(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	err := h.store.UpdateEnvironmentSetupItem(ctx, "setup-2", "item-4", itemStatus(domain.SetupItemStatusPending))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = h.store.UpdateEnvironmentSetupItem(ctx, "setup-2", "item-6", itemStatus(domain.SetupItemStatusBlocked))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	setup, _ := h.store.GetEnvironmentSetup("setup-2")
	assert.Equal(t, domain.SetupItemStatusDone, setup.Items[0].Status)
	assert.Equal(t, domain.SetupItemStatusPending, setup.Items[2].Status)
}

func TestReplaceSetupReappliesCompletion(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	setup, ok := h.store.GetEnvironmentSetup("setup-1")
	require.True(t, ok)
	require.Equal(t, domain.SetupStatusResolved, setup.Status)

	setup.Items = append(setup.Items, domain.SetupItem{Name: "Install VPN client", Category: domain.SetupCategorySoftware, Status: domain.SetupItemStatusPending})
	require.NoError(t, h.store.UpdateEnvironmentSetup(ctx, setup))

	got, _ := h.store.GetEnvironmentSetup("setup-1")
	assert.Equal(t, domain.SetupStatusInProgress, got.Status)
	assert.Nil(t, got.CompletionDate)
	require.Len(t, got.Items, 4)
	assert.NotEmpty(t, got.Items[3].ID)

	// A caller claiming resolved with open items is corrected.
	got.Status = domain.SetupStatusResolved
	require.NoError(t, h.store.UpdateEnvironmentSetup(ctx, got))
	got, _ = h.store.GetEnvironmentSetup("setup-1")
	assert.Equal(t, domain.SetupStatusInProgress, got.Status)

	got.Items[3].Status = domain.SetupItemStatusDone
	require.NoError(t, h.store.UpdateEnvironmentSetup(ctx, got))
	got, _ = h.store.GetEnvironmentSetup("setup-1")
	assert.Equal(t, domain.SetupStatusResolved, got.Status)
	assert.NotNil(t, got.CompletionDate)
}

func TestReplaceSetupKeepsCreatedAt(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)
	ctx := context.Background()

	setup, _ := h.store.GetEnvironmentSetup("setup-2")
	createdAt := setup.CreatedAt
	setup.CreatedAt = time.Time{}
	setup.Title = "Joiner setup"
	require.NoError(t, h.store.UpdateEnvironmentSetup(ctx, setup))

	got, _ := h.store.GetEnvironmentSetup("setup-2")
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.Equal(t, testNow, got.UpdatedAt)
	assert.Equal(t, "Joiner setup", got.Title)
}

func TestReplaceSetupValidatesItemTransitions(t *testing.T) {
	h := signedIn(t, fixtures.AdminEmail)

	setup, _ := h.store.GetEnvironmentSetup("setup-1")
	setup.Items[0].Status = domain.SetupItemStatusPending
	err := h.store.UpdateEnvironmentSetup(context.Background(), setup)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
