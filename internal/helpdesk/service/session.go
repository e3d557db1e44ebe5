package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/notify"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"go.uber.org/zap"
)

// Bootstrap replaces every collection with a fresh load and resumes a
// persisted session when the authenticator has one.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	user, ok, err := s.auth.Resume(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("session resume failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	principal, found := resolvePrincipal(s.data.Users, user)
	if !found {
		return nil
	}
	s.principal = &principal
	s.authenticated = true
	return nil
}

// Login authenticates, loads the collections on first use and installs the
// principal. Collections already loaded are kept.
func (s *Store) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.notifier.Notify(ctx, notify.Toast{
			Title:       "Sign in failed",
			Description: err.Error(),
			Severity:    notify.SeverityDestructive,
			At:          s.clock.Now(),
		})
		return domain.User{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		if err := s.load(ctx); err != nil {
			return domain.User{}, err
		}
	}

	s.mu.Lock()
	principal, found := resolvePrincipal(s.data.Users, user)
	if found {
		s.principal = &principal
		s.authenticated = true
	}
	s.mu.Unlock()

	if !found {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	logger.WithContext(ctx, s.log).Info("principal signed in",
		zap.String("user_id", principal.ID),
		zap.String("role", string(principal.Role)),
	)
	s.notifier.Notify(ctx, notify.Toast{
		Title:       "Signed in",
		Description: fmt.Sprintf("Welcome back, %s", principal.Name),
		Severity:    notify.SeveritySuccess,
		At:          s.clock.Now(),
	})
	return principal, nil
}

// Logout clears the principal. Collections stay in memory.
func (s *Store) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.auth.Logout(ctx); err != nil {
		logger.WithContext(ctx, s.log).Warn("credential clear failed", zap.Error(err))
	}

	s.mu.Lock()
	s.principal = nil
	s.authenticated = false
	s.mu.Unlock()

	s.notifier.Notify(ctx, notify.Toast{
		Title:    "Signed out",
		Severity: notify.SeveritySuccess,
		At:       s.clock.Now(),
	})
	return nil
}

func (s *Store) CurrentPrincipal() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPrincipal()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// load must be called with writeMu held.
func (s *Store) load(ctx context.Context) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = ds
	s.loaded = true
	s.summaries = make(map[domain.SummaryKey]domain.TimesheetSummary)
	s.summaryOrder = nil
	if s.principal != nil {
		if idx := findByID(s.data.Users, s.principal.ID, idOfUser); idx >= 0 {
			p := s.data.Users[idx]
			s.principal = &p
		}
	}
	logger.WithContext(ctx, s.log).Info("collections loaded",
		zap.Int("users", len(ds.Users)),
		zap.Int("tickets", len(ds.Tickets)),
	)
	return nil
}

// resolvePrincipal picks the loaded record for an authenticated user: by id,
// then by email, then the authenticated record itself, then the first user.
func resolvePrincipal(users []domain.User, user domain.User) (domain.User, bool) {
	if user.ID != "" {
		if idx := findByID(users, user.ID, idOfUser); idx >= 0 {
			return users[idx], true
		}
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return u, true
		}
	}
	if user.ID != "" {
		return user, true
	}
	if len(users) > 0 {
		return users[0], true
	}
	return domain.User{}, false
}
