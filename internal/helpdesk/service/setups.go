package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfSetup(e domain.EnvironmentSetup) string { return e.ID }
func idOfSetupItem(it domain.SetupItem) string   { return it.ID }

func (s *Store) ListEnvironmentSetups() []domain.EnvironmentSetup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.data.EnvironmentSetups, domain.EnvironmentSetup.Clone)
}

func (s *Store) GetEnvironmentSetup(id string) (domain.EnvironmentSetup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.EnvironmentSetups, id, idOfSetup); idx >= 0 {
		return s.data.EnvironmentSetups[idx].Clone(), true
	}
	return domain.EnvironmentSetup{}, false
}

func (s *Store) CreateEnvironmentSetup(ctx context.Context, in domain.CreateEnvironmentSetupInput) (domain.EnvironmentSetup, error) {
	var created domain.EnvironmentSetup
	err := s.mutate(ctx, domain.KindEnvironmentSetup, "create", func() (*change, error) {
		staffID := strings.TrimSpace(in.StaffID)
		title := strings.TrimSpace(in.Title)
		if staffID == "" || title == "" {
			return nil, invalid("staff and title are required")
		}

		now := s.clock.Now()
		items := make([]domain.SetupItem, 0, len(in.Items))
		for _, it := range in.Items {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				return nil, invalid("checklist item name is required")
			}
			if !it.Category.Valid() {
				return nil, invalid("unknown item category %q", it.Category)
			}
			items = append(items, domain.SetupItem{
				ID:        s.ids.Next(domain.PrefixSetupItem),
				Name:      name,
				Category:  it.Category,
				Status:    domain.SetupItemStatusPending,
				Note:      strings.TrimSpace(it.Note),
				UpdatedAt: now,
			})
		}

		staffName := strings.TrimSpace(in.StaffName)
		if staffName == "" {
			if idx := findByID(s.data.Users, staffID, idOfUser); idx >= 0 {
				staffName = s.data.Users[idx].Name
			}
		}
		created = domain.EnvironmentSetup{
			ID:        s.ids.Next(domain.KindEnvironmentSetup.IDPrefix()),
			StaffID:   staffID,
			StaffName: staffName,
			Title:     title,
			Status:    domain.SetupStatusPending,
			Items:     items,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.data.EnvironmentSetups = prepend(s.data.EnvironmentSetups, created)
		return s.changed(domain.KindEnvironmentSetup, domain.OpCreated, created.ID, created.Clone()), nil
	})
	return created, err
}

// UpdateEnvironmentSetup replaces the stored record with setup. CreatedAt is
// kept, item ids are minted where missing and the completion invariant is
// re-applied, so a caller cannot leave the status out of step with the items.
func (s *Store) UpdateEnvironmentSetup(ctx context.Context, setup domain.EnvironmentSetup) error {
	return s.mutate(ctx, domain.KindEnvironmentSetup, "update", func() (*change, error) {
		idx := findByID(s.data.EnvironmentSetups, setup.ID, idOfSetup)
		if idx < 0 {
			return nil, nil
		}
		current := s.data.EnvironmentSetups[idx]
		next := setup.Clone()
		if strings.TrimSpace(next.Title) == "" {
			return nil, invalid("title cannot be empty")
		}
		if next.Status == "" {
			next.Status = current.Status
		}
		if !next.Status.Valid() {
			return nil, invalid("unknown setup status %q", next.Status)
		}

		now := s.clock.Now()
		for i := range next.Items {
			it := &next.Items[i]
			if !it.Category.Valid() {
				return nil, invalid("unknown item category %q", it.Category)
			}
			if !it.Status.Valid() {
				return nil, invalid("unknown item status %q", it.Status)
			}
			if it.ID == "" {
				it.ID = s.ids.Next(domain.PrefixSetupItem)
				it.UpdatedAt = now
				continue
			}
			if j := findByID(current.Items, it.ID, idOfSetupItem); j >= 0 {
				prev := current.Items[j]
				if !prev.Status.CanTransitionTo(it.Status) {
					return nil, fmtTransition(string(prev.Status), string(it.Status))
				}
				if prev != *it {
					it.UpdatedAt = now
				}
			}
		}

		next.CreatedAt = current.CreatedAt
		next.UpdatedAt = now
		if next.CompletionDate == nil {
			next.CompletionDate = cloneTimePtr(current.CompletionDate)
		}
		reconcileSetup(&next, now)
		s.data.EnvironmentSetups[idx] = next
		return s.changed(domain.KindEnvironmentSetup, domain.OpUpdated, next.ID, next.Clone()), nil
	})
}

// UpdateEnvironmentSetupItem changes one checklist item. Marking the last
// open item done resolves the setup and stamps its completion date.
func (s *Store) UpdateEnvironmentSetupItem(ctx context.Context, setupID, itemID string, patch domain.SetupItemPatch) error {
	return s.mutate(ctx, domain.KindEnvironmentSetup, "update", func() (*change, error) {
		idx := findByID(s.data.EnvironmentSetups, setupID, idOfSetup)
		if idx < 0 {
			return nil, nil
		}
		e := s.data.EnvironmentSetups[idx].Clone()
		j := findByID(e.Items, itemID, idOfSetupItem)
		if j < 0 {
			return nil, nil
		}

		now := s.clock.Now()
		it := &e.Items[j]
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, invalid("unknown item status %q", *patch.Status)
			}
			if !it.Status.CanTransitionTo(*patch.Status) {
				return nil, fmtTransition(string(it.Status), string(*patch.Status))
			}
			it.Status = *patch.Status
		}
		if patch.Note != nil {
			it.Note = strings.TrimSpace(*patch.Note)
		}
		it.UpdatedAt = now
		e.UpdatedAt = now
		reconcileSetup(&e, now)
		s.data.EnvironmentSetups[idx] = e

		ch := s.changed(domain.KindEnvironmentSetup, domain.OpUpdated, e.ID, e.Clone())
		if e.Status == domain.SetupStatusResolved {
			ch.title = "Environment setup completed"
		}
		return ch, nil
	})
}

func (s *Store) DeleteEnvironmentSetup(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindEnvironmentSetup, "delete", func() (*change, error) {
		idx := findByID(s.data.EnvironmentSetups, id, idOfSetup)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.EnvironmentSetups[idx]
		s.data.EnvironmentSetups = removeAt(s.data.EnvironmentSetups, idx)
		return s.changed(domain.KindEnvironmentSetup, domain.OpDeleted, id, removed.Clone()), nil
	})
}

// reconcileSetup keeps the parent status in step with its checklist: all
// items done means resolved with a completion date, and a resolved setup
// with open items drops back to in_progress.
func reconcileSetup(e *domain.EnvironmentSetup, now time.Time) {
	switch {
	case e.AllItemsDone():
		e.Status = domain.SetupStatusResolved
		if e.CompletionDate == nil {
			at := now
			e.CompletionDate = &at
		}
	case e.Status == domain.SetupStatusResolved:
		e.Status = domain.SetupStatusInProgress
		e.CompletionDate = nil
	default:
		e.CompletionDate = nil
	}
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
