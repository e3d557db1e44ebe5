package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/fixtures"
	"go.uber.org/zap"
)

// Seed loads the demo dataset into an empty database. Every seeded user can
// sign in with fixtures.DefaultPassword.
func Seed(ctx context.Context, resources *ResourceService, clk clock.Clock, log *zap.Logger) error {
	count, err := resources.Count(ctx)
	if err != nil {
		return fmt.Errorf("count resources: %w", err)
	}
	if count > 0 {
		log.Debug("database already seeded", zap.Int64("resources", count))
		return nil
	}

	data := fixtures.Build(clk.Now())
	steps := []struct {
		kind  domain.Kind
		items any
	}{
		{domain.KindUser, data.Users},
		{domain.KindTicket, data.Tickets},
		{domain.KindOvertimeRequest, data.OvertimeRequests},
		{domain.KindWorkLog, data.WorkLogs},
		{domain.KindLeaveRequest, data.LeaveRequests},
		{domain.KindReview, data.Reviews},
		{domain.KindEnvironmentSetup, data.EnvironmentSetups},
		{domain.KindContract, data.Contracts},
		{domain.KindSquad, data.Squads},
		{domain.KindProject, data.Projects},
		{domain.KindAssignment, data.Assignments},
		{domain.KindNotification, data.Notifications},
	}

	total := 0
	for _, step := range steps {
		raw, err := json.Marshal(step.items)
		if err != nil {
			return err
		}
		var docs []json.RawMessage
		if err := json.Unmarshal(raw, &docs); err != nil {
			return err
		}
		for _, doc := range docs {
			if _, err := resources.Create(ctx, step.kind, doc); err != nil {
				return fmt.Errorf("seed %s: %w", step.kind, err)
			}
		}
		total += len(docs)
	}

	log.Info("seeded demo dataset", zap.Int("resources", total))
	return nil
}
