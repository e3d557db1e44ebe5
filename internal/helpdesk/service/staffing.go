package service

import (
	"context"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfSquad(q domain.Squad) string           { return q.ID }
func idOfProject(p domain.Project) string       { return p.ID }
func idOfAssignment(a domain.Assignment) string { return a.ID }

// codeFor slugs the explicit code, or the name when no code was given.
func codeFor(code, name string) string {
	if c := strings.TrimSpace(code); c != "" {
		return slug.Make(c)
	}
	return slug.Make(name)
}

func (s *Store) ListSquads() []domain.Squad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Squads)
}

func (s *Store) GetSquad(id string) (domain.Squad, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Squads, id, idOfSquad); idx >= 0 {
		return s.data.Squads[idx], true
	}
	return domain.Squad{}, false
}

func (s *Store) CreateSquad(ctx context.Context, in domain.CreateSquadInput) (domain.Squad, error) {
	var created domain.Squad
	err := s.mutate(ctx, domain.KindSquad, "create", func() (*change, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalid("name is required")
		}
		code := codeFor(in.Code, name)
		if s.squadCodeTaken(code, "") {
			return nil, invalid("squad code %s already in use", code)
		}

		now := s.clock.Now()
		created = domain.Squad{
			ID:          s.ids.Next(domain.KindSquad.IDPrefix()),
			Name:        name,
			Code:        code,
			LeadID:      strings.TrimSpace(in.LeadID),
			Description: strings.TrimSpace(in.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.data.Squads = prepend(s.data.Squads, created)
		return s.changed(domain.KindSquad, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateSquad(ctx context.Context, id string, patch domain.SquadPatch) error {
	return s.mutate(ctx, domain.KindSquad, "update", func() (*change, error) {
		idx := findByID(s.data.Squads, id, idOfSquad)
		if idx < 0 {
			return nil, nil
		}
		q := s.data.Squads[idx]
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return nil, invalid("name cannot be empty")
			}
			q.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Code != nil {
			code := codeFor(*patch.Code, q.Name)
			if s.squadCodeTaken(code, q.ID) {
				return nil, invalid("squad code %s already in use", code)
			}
			q.Code = code
		}
		if patch.LeadID != nil {
			q.LeadID = strings.TrimSpace(*patch.LeadID)
		}
		if patch.Description != nil {
			q.Description = strings.TrimSpace(*patch.Description)
		}
		q.UpdatedAt = s.clock.Now()
		s.data.Squads[idx] = q
		return s.changed(domain.KindSquad, domain.OpUpdated, q.ID, q), nil
	})
}

func (s *Store) DeleteSquad(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindSquad, "delete", func() (*change, error) {
		idx := findByID(s.data.Squads, id, idOfSquad)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Squads[idx]
		s.data.Squads = removeAt(s.data.Squads, idx)
		return s.changed(domain.KindSquad, domain.OpDeleted, id, removed), nil
	})
}

func (s *Store) squadCodeTaken(code, exceptID string) bool {
	return slices.ContainsFunc(s.data.Squads, func(q domain.Squad) bool {
		return q.Code == code && q.ID != exceptID
	})
}

func (s *Store) ListProjects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Projects)
}

func (s *Store) GetProject(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Projects, id, idOfProject); idx >= 0 {
		return s.data.Projects[idx], true
	}
	return domain.Project{}, false
}

func (s *Store) CreateProject(ctx context.Context, in domain.CreateProjectInput) (domain.Project, error) {
	var created domain.Project
	err := s.mutate(ctx, domain.KindProject, "create", func() (*change, error) {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalid("name is required")
		}
		code := codeFor(in.Code, name)
		if s.projectCodeTaken(code, "") {
			return nil, invalid("project code %s already in use", code)
		}

		now := s.clock.Now()
		created = domain.Project{
			ID:          s.ids.Next(domain.KindProject.IDPrefix()),
			Name:        name,
			Code:        code,
			Client:      strings.TrimSpace(in.Client),
			Description: strings.TrimSpace(in.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.data.Projects = prepend(s.data.Projects, created)
		return s.changed(domain.KindProject, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) error {
	return s.mutate(ctx, domain.KindProject, "update", func() (*change, error) {
		idx := findByID(s.data.Projects, id, idOfProject)
		if idx < 0 {
			return nil, nil
		}
		p := s.data.Projects[idx]
		if patch.Name != nil {
			if strings.TrimSpace(*patch.Name) == "" {
				return nil, invalid("name cannot be empty")
			}
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Code != nil {
			code := codeFor(*patch.Code, p.Name)
			if s.projectCodeTaken(code, p.ID) {
				return nil, invalid("project code %s already in use", code)
			}
			p.Code = code
		}
		if patch.Client != nil {
			p.Client = strings.TrimSpace(*patch.Client)
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		p.UpdatedAt = s.clock.Now()
		s.data.Projects[idx] = p
		return s.changed(domain.KindProject, domain.OpUpdated, p.ID, p), nil
	})
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindProject, "delete", func() (*change, error) {
		idx := findByID(s.data.Projects, id, idOfProject)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Projects[idx]
		s.data.Projects = removeAt(s.data.Projects, idx)
		return s.changed(domain.KindProject, domain.OpDeleted, id, removed), nil
	})
}

func (s *Store) projectCodeTaken(code, exceptID string) bool {
	return slices.ContainsFunc(s.data.Projects, func(p domain.Project) bool {
		return p.Code == code && p.ID != exceptID
	})
}

func (s *Store) ListAssignments() []domain.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Assignments)
}

func (s *Store) GetAssignment(id string) (domain.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Assignments, id, idOfAssignment); idx >= 0 {
		return s.data.Assignments[idx], true
	}
	return domain.Assignment{}, false
}

// CreateAssignment stores the status as given, planned when empty.
func (s *Store) CreateAssignment(ctx context.Context, in domain.CreateAssignmentInput) (domain.Assignment, error) {
	var created domain.Assignment
	err := s.mutate(ctx, domain.KindAssignment, "create", func() (*change, error) {
		staffID := strings.TrimSpace(in.StaffID)
		if staffID == "" {
			return nil, invalid("staff is required")
		}
		if err := checkUtilization(in.Utilization); err != nil {
			return nil, err
		}
		status := in.Status
		if status == "" {
			status = domain.AssignmentStatusPlanned
		}
		if !status.Valid() {
			return nil, invalid("unknown assignment status %q", status)
		}
		if err := checkOptionalRange(in.StartDate, in.EndDate); err != nil {
			return nil, err
		}

		now := s.clock.Now()
		created = domain.Assignment{
			ID:          s.ids.Next(domain.KindAssignment.IDPrefix()),
			StaffID:     staffID,
			SquadID:     strings.TrimSpace(in.SquadID),
			ProjectID:   strings.TrimSpace(in.ProjectID),
			Role:        strings.TrimSpace(in.Role),
			Utilization: in.Utilization,
			Status:      status,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.data.Assignments = prepend(s.data.Assignments, created)
		return s.changed(domain.KindAssignment, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateAssignment(ctx context.Context, id string, patch domain.AssignmentPatch) error {
	return s.mutate(ctx, domain.KindAssignment, "update", func() (*change, error) {
		idx := findByID(s.data.Assignments, id, idOfAssignment)
		if idx < 0 {
			return nil, nil
		}
		a := s.data.Assignments[idx]
		if patch.SquadID != nil {
			a.SquadID = strings.TrimSpace(*patch.SquadID)
		}
		if patch.ProjectID != nil {
			a.ProjectID = strings.TrimSpace(*patch.ProjectID)
		}
		if patch.Role != nil {
			a.Role = strings.TrimSpace(*patch.Role)
		}
		if patch.Utilization != nil {
			if err := checkUtilization(*patch.Utilization); err != nil {
				return nil, err
			}
			a.Utilization = *patch.Utilization
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, invalid("unknown assignment status %q", *patch.Status)
			}
			a.Status = *patch.Status
		}
		if patch.StartDate != nil {
			a.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			a.EndDate = *patch.EndDate
		}
		if err := checkOptionalRange(a.StartDate, a.EndDate); err != nil {
			return nil, err
		}
		a.UpdatedAt = s.clock.Now()
		s.data.Assignments[idx] = a
		return s.changed(domain.KindAssignment, domain.OpUpdated, a.ID, a), nil
	})
}

func (s *Store) DeleteAssignment(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindAssignment, "delete", func() (*change, error) {
		idx := findByID(s.data.Assignments, id, idOfAssignment)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Assignments[idx]
		s.data.Assignments = removeAt(s.data.Assignments, idx)
		return s.changed(domain.KindAssignment, domain.OpDeleted, id, removed), nil
	})
}

func checkUtilization(v int) error {
	if v < 0 || v > 100 {
		return invalid("utilization %d outside 0-100", v)
	}
	return nil
}

// checkOptionalRange validates whichever of the two dates is set.
func checkOptionalRange(start, end domain.Date) error {
	switch {
	case start != "" && !start.Valid():
		return invalid("start date %q", start)
	case end != "" && !end.Valid():
		return invalid("end date %q", end)
	case start != "" && end != "" && start > end:
		return domain.ErrInvalidRange
	}
	return nil
}
