package authorization

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorizeApprovals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.Authorize(ctx, domain.RoleAdmin, ObjectOvertime, ActionApprove))
	assert.NoError(t, svc.Authorize(ctx, domain.RoleApprover, ObjectLeave, ActionApprove))
	assert.NoError(t, svc.Authorize(ctx, domain.RoleHR, ObjectLeave, ActionApprove))
	assert.ErrorIs(t, svc.Authorize(ctx, domain.RoleHR, ObjectOvertime, ActionApprove), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, domain.RoleEmployee, ObjectOvertime, ActionApprove), ErrForbidden)
}

func TestAuthorizeMemberBaseline(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, role := range domain.Roles() {
		assert.NoError(t, svc.Authorize(ctx, role, ObjectTicket, ActionCreate), role)
		assert.NoError(t, svc.Authorize(ctx, role, ObjectWorkLog, ActionDelete), role)
	}
	assert.ErrorIs(t, svc.Authorize(ctx, domain.RoleRequester, ObjectUser, ActionDelete), ErrForbidden)
}

func TestAuthorizeRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, domain.Role("ghost"), ObjectTicket, ActionView), ErrInvalidRole)
	assert.ErrorIs(t, svc.Authorize(ctx, domain.RoleAdmin, " ", ActionView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, domain.RoleAdmin, ObjectTicket, ""), ErrInvalidAction)
}

func TestEnforcerWithDBPersistsPolicies(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	enforcer, err := NewEnforcerWithDB(db)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("casbin_rule").Count(&count).Error)
	assert.Greater(t, count, int64(0))

	svc := NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
	assert.NoError(t, svc.Authorize(context.Background(), domain.RoleSupervisor, ObjectReview, ActionCreate))
}
