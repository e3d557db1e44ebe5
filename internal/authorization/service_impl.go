package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const memberRole = "role:member"

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an in-memory enforcer seeded with the built-in policy.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

// NewEnforcerWithDB persists policies through the gorm adapter so operators
// can extend them in the casbin_rule table.
func NewEnforcerWithDB(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, role domain.Role, object, action string) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(subjectFor(role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("role", string(role)),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func subjectFor(role domain.Role) string {
	return fmt.Sprintf("role:%s", role)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Every signed-in role
		{memberRole, ObjectUser, ActionView},
		{memberRole, ObjectTicket, ActionView},
		{memberRole, ObjectTicket, ActionCreate},
		{memberRole, ObjectTicket, ActionComment},
		{memberRole, ObjectOvertime, ActionView},
		{memberRole, ObjectOvertime, ActionCreate},
		{memberRole, ObjectOvertime, ActionUpdate},
		{memberRole, ObjectOvertime, ActionDelete},
		{memberRole, ObjectWorkLog, "*"},
		{memberRole, ObjectLeave, ActionView},
		{memberRole, ObjectLeave, ActionCreate},
		{memberRole, ObjectLeave, ActionUpdate},
		{memberRole, ObjectLeave, ActionDelete},
		{memberRole, ObjectTimesheetSummary, ActionView},
		{memberRole, ObjectTimesheetSummary, ActionExport},
		{memberRole, ObjectEnvironmentSetup, ActionView},
		{memberRole, ObjectContract, ActionView},
		{memberRole, ObjectSquad, ActionView},
		{memberRole, ObjectProject, ActionView},
		{memberRole, ObjectAssignment, ActionView},
		{memberRole, ObjectNotification, ActionView},
		{memberRole, ObjectNotification, ActionUpdate},
		{memberRole, ObjectNotification, ActionDelete},
		{memberRole, ObjectUpload, ActionCreate},

		// Ticket handling
		{"role:agent", ObjectTicket, ActionUpdate},
		{"role:it_support", ObjectTicket, ActionUpdate},
		{"role:it_support", ObjectEnvironmentSetup, "*"},

		// Approvals
		{"role:approver", ObjectTicket, ActionUpdate},
		{"role:approver", ObjectTicket, ActionApprove},
		{"role:approver", ObjectOvertime, ActionApprove},
		{"role:approver", ObjectLeave, ActionApprove},
		{"role:supervisor", ObjectTicket, ActionUpdate},
		{"role:supervisor", ObjectTicket, ActionApprove},
		{"role:supervisor", ObjectOvertime, ActionApprove},
		{"role:supervisor", ObjectLeave, ActionApprove},
		{"role:supervisor", ObjectReview, "*"},
		{"role:supervisor", ObjectAssignment, "*"},
		{"role:supervisor", ObjectSquad, "*"},
		{"role:supervisor", ObjectProject, "*"},

		// People operations
		{"role:hr", ObjectUser, "*"},
		{"role:hr", ObjectLeave, ActionApprove},
		{"role:hr", ObjectReview, "*"},
		{"role:hr", ObjectContract, "*"},
		{"role:hr", ObjectAssignment, "*"},
		{"role:hr", ObjectEnvironmentSetup, "*"},
		{"role:hr", ObjectNotification, ActionCreate},

		{"role:admin", "*", "*"},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	for _, role := range domain.Roles() {
		if _, err := enforcer.AddGroupingPolicy(subjectFor(role), memberRole); err != nil {
			return err
		}
	}
	return nil
}
