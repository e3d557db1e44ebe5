package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfNotification(n domain.Notification) string { return n.ID }

// ListNotifications returns the user's notifications, newest first.
func (s *Store) ListNotifications(userID string) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, 0)
	for _, n := range s.data.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *Store) UnreadNotificationCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.data.Notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

func (s *Store) CreateNotification(ctx context.Context, in domain.CreateNotificationInput) (domain.Notification, error) {
	var created domain.Notification
	err := s.mutate(ctx, domain.KindNotification, "create", func() (*change, error) {
		userID := strings.TrimSpace(in.UserID)
		title := strings.TrimSpace(in.Title)
		if userID == "" || title == "" {
			return nil, invalid("user and title are required")
		}
		typ := in.Type
		if typ == "" {
			typ = domain.NotificationInfo
		}

		now := s.clock.Now()
		created = domain.Notification{
			ID:        s.ids.Next(domain.KindNotification.IDPrefix()),
			UserID:    userID,
			Title:     title,
			Message:   strings.TrimSpace(in.Message),
			Type:      typ,
			Link:      in.Link,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.data.Notifications = prepend(s.data.Notifications, created)
		return s.changed(domain.KindNotification, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

// MarkNotificationAsRead only touches notifications of the principal. Marking
// a read notification again does nothing.
func (s *Store) MarkNotificationAsRead(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindNotification, "read", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		idx := findByID(s.data.Notifications, id, idOfNotification)
		if idx < 0 {
			return nil, nil
		}
		n := s.data.Notifications[idx]
		if n.UserID != principal.ID || n.IsRead {
			return nil, nil
		}
		n.IsRead = true
		n.UpdatedAt = s.clock.Now()
		s.data.Notifications[idx] = n

		ch := s.changed(domain.KindNotification, domain.OpUpdated, n.ID, n)
		ch.title = "Notification marked as read"
		return ch, nil
	})
}

// MarkAllNotificationsAsRead emits one event per notification it flips.
func (s *Store) MarkAllNotificationsAsRead(ctx context.Context) error {
	return s.mutate(ctx, domain.KindNotification, "read", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		now := s.clock.Now()
		ch := &change{title: "All notifications marked as read"}
		for i, n := range s.data.Notifications {
			if n.UserID != principal.ID || n.IsRead {
				continue
			}
			n.IsRead = true
			n.UpdatedAt = now
			s.data.Notifications[i] = n
			ch.events = append(ch.events, domain.Event{
				Kind:   domain.KindNotification,
				Op:     domain.OpUpdated,
				ID:     n.ID,
				Entity: n,
				At:     now,
			})
		}
		if len(ch.events) == 0 {
			return nil, nil
		}
		return ch, nil
	})
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindNotification, "delete", func() (*change, error) {
		idx := findByID(s.data.Notifications, id, idOfNotification)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Notifications[idx]
		s.data.Notifications = removeAt(s.data.Notifications, idx)
		return s.changed(domain.KindNotification, domain.OpDeleted, id, removed), nil
	})
}
