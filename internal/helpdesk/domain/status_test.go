package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketTransitions(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		ok       bool
	}{
		{TicketStatusPending, TicketStatusInProgress, true},
		{TicketStatusPending, TicketStatusApproved, true},
		{TicketStatusPending, TicketStatusResolved, false},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusResolved, TicketStatusPending, true},
		{TicketStatusRejected, TicketStatusPending, true},
		{TicketStatusApproved, TicketStatusPending, false},
		{TicketStatusApproved, TicketStatusApproved, true},
		{TicketStatus("bogus"), TicketStatus("bogus"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestRequestStatusIsTerminalOnceDecided(t *testing.T) {
	assert.True(t, RequestStatusPending.CanTransitionTo(RequestStatusRejected))
	assert.True(t, RequestStatusPending.CanTransitionTo(RequestStatusApproved))
	assert.False(t, RequestStatusRejected.CanTransitionTo(RequestStatusApproved))
	assert.False(t, RequestStatusApproved.CanTransitionTo(RequestStatusPending))
	assert.True(t, RequestStatusRejected.Decided())
	assert.False(t, RequestStatusPending.Decided())
}

func TestSetupItemTransitions(t *testing.T) {
	assert.True(t, SetupItemStatusPending.CanTransitionTo(SetupItemStatusDone))
	assert.True(t, SetupItemStatusBlocked.CanTransitionTo(SetupItemStatusInProgress))
	assert.False(t, SetupItemStatusPending.CanTransitionTo(SetupItemStatusBlocked))
	assert.False(t, SetupItemStatusDone.CanTransitionTo(SetupItemStatusPending))
}

func TestReviewCriteria(t *testing.T) {
	c := ReviewCriteria{Quality: 5, Productivity: 4, Communication: 3, Teamwork: 4, Initiative: 4}
	assert.True(t, c.Valid())
	assert.InDelta(t, 4.0, c.Average(), 0.0001)

	c.Initiative = 6
	assert.False(t, c.Valid())
}

func TestAllItemsDone(t *testing.T) {
	setup := EnvironmentSetup{}
	assert.False(t, setup.AllItemsDone())

	setup.Items = []SetupItem{{Status: SetupItemStatusDone}, {Status: SetupItemStatusDone}}
	assert.True(t, setup.AllItemsDone())

	setup.Items[1].Status = SetupItemStatusBlocked
	assert.False(t, setup.AllItemsDone())
}
