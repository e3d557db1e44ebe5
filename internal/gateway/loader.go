package gateway

import (
	"context"
	"fmt"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

// Loader fills the store from the backend, one collection per request.
type Loader struct {
	client *Client
}

func NewLoader(client *Client) *Loader {
	return &Loader{client: client}
}

var _ domain.Loader = (*Loader)(nil)

func (l *Loader) Load(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	steps := []func(context.Context) error{
		list(l.client, domain.KindUser, &ds.Users),
		list(l.client, domain.KindTicket, &ds.Tickets),
		list(l.client, domain.KindOvertimeRequest, &ds.OvertimeRequests),
		list(l.client, domain.KindWorkLog, &ds.WorkLogs),
		list(l.client, domain.KindLeaveRequest, &ds.LeaveRequests),
		list(l.client, domain.KindReview, &ds.Reviews),
		list(l.client, domain.KindEnvironmentSetup, &ds.EnvironmentSetups),
		list(l.client, domain.KindContract, &ds.Contracts),
		list(l.client, domain.KindSquad, &ds.Squads),
		list(l.client, domain.KindProject, &ds.Projects),
		list(l.client, domain.KindAssignment, &ds.Assignments),
		list(l.client, domain.KindNotification, &ds.Notifications),
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return domain.Dataset{}, err
		}
	}
	return ds, nil
}

func list[T any](client *Client, kind domain.Kind, dst *[]T) func(context.Context) error {
	return func(ctx context.Context) error {
		items, err := NewResource[T](client, kind).List(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", kind, err)
		}
		*dst = items
		return nil
	}
}
