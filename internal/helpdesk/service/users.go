package service

import (
	"context"
	"slices"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfUser(u domain.User) string { return u.ID }

func (s *Store) ListUsers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Users)
}

func (s *Store) GetUser(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Users, id, idOfUser); idx >= 0 {
		return s.data.Users[idx], true
	}
	return domain.User{}, false
}

func (s *Store) CreateUser(ctx context.Context, in domain.CreateUserInput) (domain.User, error) {
	var created domain.User
	err := s.mutate(ctx, domain.KindUser, "create", func() (*change, error) {
		name := strings.TrimSpace(in.Name)
		email := strings.TrimSpace(in.Email)
		if name == "" || email == "" {
			return nil, invalid("name and email are required")
		}
		role := in.Role
		if role == "" {
			role = domain.RoleEmployee
		}
		if !role.Valid() {
			return nil, invalid("unknown role %q", role)
		}
		for _, u := range s.data.Users {
			if strings.EqualFold(u.Email, email) {
				return nil, invalid("email %s already in use", email)
			}
		}
		active := true
		if in.Active != nil {
			active = *in.Active
		}

		now := s.clock.Now()
		created = domain.User{
			ID:         s.ids.Next(domain.KindUser.IDPrefix()),
			Name:       name,
			Email:      email,
			Avatar:     in.Avatar,
			Role:       role,
			Department: strings.TrimSpace(in.Department),
			Active:     active,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.data.Users = prepend(s.data.Users, created)
		return s.changed(domain.KindUser, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error {
	return s.mutate(ctx, domain.KindUser, "update", func() (*change, error) {
		idx := findByID(s.data.Users, id, idOfUser)
		if idx < 0 {
			return nil, nil
		}
		u := s.data.Users[idx]
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return nil, invalid("name cannot be empty")
			}
			u.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Email != nil {
			if strings.TrimSpace(*patch.Email) == "" {
				return nil, invalid("email cannot be empty")
			}
			u.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Avatar != nil {
			u.Avatar = *patch.Avatar
		}
		if patch.Role != nil {
			if !patch.Role.Valid() {
				return nil, invalid("unknown role %q", *patch.Role)
			}
			u.Role = *patch.Role
		}
		if patch.Department != nil {
			u.Department = strings.TrimSpace(*patch.Department)
		}
		if patch.Active != nil {
			u.Active = *patch.Active
		}
		u.UpdatedAt = s.clock.Now()
		s.data.Users[idx] = u

		if s.principal != nil && s.principal.ID == u.ID {
			p := u
			s.principal = &p
		}
		return s.changed(domain.KindUser, domain.OpUpdated, u.ID, u), nil
	})
}

// DeleteUser refuses to remove the signed-in principal.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindUser, "delete", func() (*change, error) {
		if s.principal != nil && s.principal.ID == id {
			return nil, domain.ErrSelfDelete
		}
		idx := findByID(s.data.Users, id, idOfUser)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Users[idx]
		s.data.Users = removeAt(s.data.Users, idx)
		return s.changed(domain.KindUser, domain.OpDeleted, id, removed), nil
	})
}
