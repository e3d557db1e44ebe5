package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfContract(c domain.Contract) string { return c.ID }

func (s *Store) ListContracts() []domain.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.data.Contracts, domain.Contract.Clone)
}

func (s *Store) GetContract(id string) (domain.Contract, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Contracts, id, idOfContract); idx >= 0 {
		return s.data.Contracts[idx].Clone(), true
	}
	return domain.Contract{}, false
}

// CreateContract stores the contract with the given status, pending when
// empty. Status never follows the expiry date on its own.
func (s *Store) CreateContract(ctx context.Context, in domain.CreateContractInput) (domain.Contract, error) {
	var created domain.Contract
	err := s.mutate(ctx, domain.KindContract, "create", func() (*change, error) {
		staffID := strings.TrimSpace(in.StaffID)
		title := strings.TrimSpace(in.Title)
		if staffID == "" || title == "" {
			return nil, invalid("staff and title are required")
		}
		if err := checkRange(in.StartDate, in.ExpiryDate); err != nil {
			return nil, err
		}
		status := in.Status
		if status == "" {
			status = domain.ContractStatusPending
		}
		if !status.Valid() {
			return nil, invalid("unknown contract status %q", status)
		}
		staffName := strings.TrimSpace(in.StaffName)
		if staffName == "" {
			if idx := findByID(s.data.Users, staffID, idOfUser); idx >= 0 {
				staffName = s.data.Users[idx].Name
			}
		}

		now := s.clock.Now()
		created = domain.Contract{
			ID:         s.ids.Next(domain.KindContract.IDPrefix()),
			StaffID:    staffID,
			StaffName:  staffName,
			Title:      title,
			Vendor:     strings.TrimSpace(in.Vendor),
			StartDate:  in.StartDate,
			ExpiryDate: in.ExpiryDate,
			Status:     status,
			Documents:  []domain.Document{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.data.Contracts = prepend(s.data.Contracts, created)
		return s.changed(domain.KindContract, domain.OpCreated, created.ID, created.Clone()), nil
	})
	return created, err
}

func (s *Store) UpdateContract(ctx context.Context, id string, patch domain.ContractPatch) error {
	return s.mutate(ctx, domain.KindContract, "update", func() (*change, error) {
		idx := findByID(s.data.Contracts, id, idOfContract)
		if idx < 0 {
			return nil, nil
		}
		c := s.data.Contracts[idx].Clone()
		if patch.StaffID != nil {
			c.StaffID = strings.TrimSpace(*patch.StaffID)
		}
		if patch.StaffName != nil {
			c.StaffName = strings.TrimSpace(*patch.StaffName)
		}
		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return nil, invalid("title cannot be empty")
			}
			c.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Vendor != nil {
			c.Vendor = strings.TrimSpace(*patch.Vendor)
		}
		if patch.StartDate != nil {
			c.StartDate = *patch.StartDate
		}
		if patch.ExpiryDate != nil {
			c.ExpiryDate = *patch.ExpiryDate
		}
		if err := checkRange(c.StartDate, c.ExpiryDate); err != nil {
			return nil, err
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, invalid("unknown contract status %q", *patch.Status)
			}
			c.Status = *patch.Status
		}
		c.UpdatedAt = s.clock.Now()
		s.data.Contracts[idx] = c
		return s.changed(domain.KindContract, domain.OpUpdated, c.ID, c.Clone()), nil
	})
}

func (s *Store) DeleteContract(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindContract, "delete", func() (*change, error) {
		idx := findByID(s.data.Contracts, id, idOfContract)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Contracts[idx]
		s.data.Contracts = removeAt(s.data.Contracts, idx)
		return s.changed(domain.KindContract, domain.OpDeleted, id, removed.Clone()), nil
	})
}

// AddContractDocument registers metadata for an uploaded document.
func (s *Store) AddContractDocument(ctx context.Context, contractID string, in domain.FileInput) error {
	return s.mutate(ctx, domain.KindContract, "attach", func() (*change, error) {
		idx := findByID(s.data.Contracts, contractID, idOfContract)
		if idx < 0 {
			return nil, nil
		}
		if strings.TrimSpace(in.FileID) == "" || strings.TrimSpace(in.Name) == "" {
			return nil, invalid("file id and name are required")
		}

		now := s.clock.Now()
		c := s.data.Contracts[idx].Clone()
		c.Documents = append(c.Documents, domain.Document{
			ID:         s.ids.Next(domain.PrefixDocument),
			FileID:     in.FileID,
			Name:       in.Name,
			Type:       in.Type,
			Size:       in.Size,
			UploadedAt: now,
		})
		c.UpdatedAt = now
		s.data.Contracts[idx] = c

		ch := s.changed(domain.KindContract, domain.OpUpdated, c.ID, c.Clone())
		ch.title = "Document uploaded"
		return ch, nil
	})
}
