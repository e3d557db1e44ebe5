package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/authorization"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfTicket(t domain.Ticket) string { return t.ID }

func (s *Store) ListTickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.data.Tickets, domain.Ticket.Clone)
}

func (s *Store) GetTicket(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Tickets, id, idOfTicket); idx >= 0 {
		return s.data.Tickets[idx].Clone(), true
	}
	return domain.Ticket{}, false
}

// CreateTicket records the principal as requester. Without a principal it
// does nothing.
func (s *Store) CreateTicket(ctx context.Context, in domain.CreateTicketInput) (domain.Ticket, error) {
	var created domain.Ticket
	err := s.mutate(ctx, domain.KindTicket, "create", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		priority := in.Priority
		if priority == "" {
			priority = domain.TicketPriorityMedium
		}
		if !priority.Valid() {
			return nil, invalid("unknown priority %q", priority)
		}
		category := in.Category
		if category == "" {
			category = domain.TicketCategoryOther
		}

		now := s.clock.Now()
		created = domain.Ticket{
			ID:          s.ids.Next(domain.KindTicket.IDPrefix()),
			Title:       title,
			Description: s.sanitize(in.Description),
			Status:      domain.TicketStatusPending,
			Category:    category,
			Priority:    priority,
			Requester:   principal.Snapshot(),
			Comments:    []domain.Comment{},
			Attachments: []domain.Attachment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if in.AssignedTo != nil {
			assignee := *in.AssignedTo
			created.AssignedTo = &assignee
		}
		s.data.Tickets = prepend(s.data.Tickets, created)
		return s.changed(domain.KindTicket, domain.OpCreated, created.ID, created.Clone()), nil
	})
	return created, err
}

func (s *Store) UpdateTicket(ctx context.Context, id string, patch domain.TicketPatch) error {
	return s.mutate(ctx, domain.KindTicket, "update", func() (*change, error) {
		idx := findByID(s.data.Tickets, id, idOfTicket)
		if idx < 0 {
			return nil, nil
		}
		t := s.data.Tickets[idx].Clone()

		if patch.Status != nil && *patch.Status != t.Status {
			next := *patch.Status
			if !t.Status.CanTransitionTo(next) {
				return nil, fmtTransition(string(t.Status), string(next))
			}
			if next == domain.TicketStatusApproved || next == domain.TicketStatusRejected {
				if err := s.authorize(ctx, authorization.ObjectTicket, authorization.ActionApprove); err != nil {
					return nil, err
				}
			}
			t.Status = next
		}
		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return nil, invalid("title cannot be empty")
			}
			t.Title = title
		}
		if patch.Description != nil {
			t.Description = s.sanitize(*patch.Description)
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return nil, invalid("unknown priority %q", *patch.Priority)
			}
			t.Priority = *patch.Priority
		}
		switch {
		case patch.Unassign:
			t.AssignedTo = nil
		case patch.AssignedTo != nil:
			assignee := *patch.AssignedTo
			t.AssignedTo = &assignee
		}
		t.UpdatedAt = s.clock.Now()
		s.data.Tickets[idx] = t
		return s.changed(domain.KindTicket, domain.OpUpdated, t.ID, t.Clone()), nil
	})
}

func (s *Store) DeleteTicket(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindTicket, "delete", func() (*change, error) {
		idx := findByID(s.data.Tickets, id, idOfTicket)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Tickets[idx]
		s.data.Tickets = removeAt(s.data.Tickets, idx)
		return s.changed(domain.KindTicket, domain.OpDeleted, id, removed.Clone()), nil
	})
}

// AddComment appends a comment authored by the principal and bumps the
// ticket's UpdatedAt. The author fields are frozen at this moment.
func (s *Store) AddComment(ctx context.Context, ticketID, content string) error {
	return s.mutate(ctx, domain.KindTicket, "comment", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		idx := findByID(s.data.Tickets, ticketID, idOfTicket)
		if idx < 0 {
			return nil, nil
		}
		content = strings.TrimSpace(s.sanitize(content))
		if content == "" {
			return nil, invalid("comment is empty")
		}

		now := s.clock.Now()
		t := s.data.Tickets[idx].Clone()
		t.Comments = append(t.Comments, domain.Comment{
			ID:         s.ids.Next(domain.PrefixComment),
			TicketID:   t.ID,
			UserID:     principal.ID,
			UserName:   principal.Name,
			UserAvatar: principal.Avatar,
			Content:    content,
			CreatedAt:  now,
		})
		t.UpdatedAt = now
		s.data.Tickets[idx] = t

		ch := s.changed(domain.KindTicket, domain.OpUpdated, t.ID, t.Clone())
		ch.title = "Comment added"
		return ch, nil
	})
}

// AddTicketAttachment registers metadata for a file that is already uploaded.
func (s *Store) AddTicketAttachment(ctx context.Context, ticketID string, in domain.FileInput) error {
	return s.mutate(ctx, domain.KindTicket, "attach", func() (*change, error) {
		idx := findByID(s.data.Tickets, ticketID, idOfTicket)
		if idx < 0 {
			return nil, nil
		}
		if strings.TrimSpace(in.FileID) == "" || strings.TrimSpace(in.Name) == "" {
			return nil, invalid("file id and name are required")
		}

		now := s.clock.Now()
		uploadedBy := ""
		if principal, ok := s.currentPrincipal(); ok {
			uploadedBy = principal.ID
		}
		t := s.data.Tickets[idx].Clone()
		t.Attachments = append(t.Attachments, domain.Attachment{
			ID:         s.ids.Next(domain.PrefixAttachment),
			FileID:     in.FileID,
			Name:       in.Name,
			Type:       in.Type,
			Size:       in.Size,
			UploadedBy: uploadedBy,
			UploadedAt: now,
		})
		t.UpdatedAt = now
		s.data.Tickets[idx] = t

		ch := s.changed(domain.KindTicket, domain.OpUpdated, t.ID, t.Clone())
		ch.title = "Attachment added"
		return ch, nil
	})
}
