package service

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

func idOfReview(r domain.OutsourceReview) string { return r.ID }

func overallScore(c domain.ReviewCriteria) float64 {
	return math.Round(c.Average()*100) / 100
}

func (s *Store) ListReviews() []domain.OutsourceReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Reviews)
}

func (s *Store) GetReview(id string) (domain.OutsourceReview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := findByID(s.data.Reviews, id, idOfReview); idx >= 0 {
		return s.data.Reviews[idx], true
	}
	return domain.OutsourceReview{}, false
}

// CreateReview records the principal as reviewer.
func (s *Store) CreateReview(ctx context.Context, in domain.CreateReviewInput) (domain.OutsourceReview, error) {
	var created domain.OutsourceReview
	err := s.mutate(ctx, domain.KindReview, "create", func() (*change, error) {
		principal, ok := s.currentPrincipal()
		if !ok {
			return nil, nil
		}
		reviewee := strings.TrimSpace(in.RevieweeID)
		if reviewee == "" {
			return nil, invalid("reviewee is required")
		}
		if !in.Criteria.Valid() {
			return nil, invalid("criteria scores must be between 1 and 5")
		}

		now := s.clock.Now()
		created = domain.OutsourceReview{
			ID:           s.ids.Next(domain.KindReview.IDPrefix()),
			ReviewerID:   principal.ID,
			RevieweeID:   reviewee,
			Period:       strings.TrimSpace(in.Period),
			Criteria:     in.Criteria,
			OverallScore: overallScore(in.Criteria),
			Comment:      s.sanitize(in.Comment),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		s.data.Reviews = prepend(s.data.Reviews, created)
		return s.changed(domain.KindReview, domain.OpCreated, created.ID, created), nil
	})
	return created, err
}

func (s *Store) UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) error {
	return s.mutate(ctx, domain.KindReview, "update", func() (*change, error) {
		idx := findByID(s.data.Reviews, id, idOfReview)
		if idx < 0 {
			return nil, nil
		}
		r := s.data.Reviews[idx]
		if patch.Criteria != nil {
			if !patch.Criteria.Valid() {
				return nil, invalid("criteria scores must be between 1 and 5")
			}
			r.Criteria = *patch.Criteria
			r.OverallScore = overallScore(r.Criteria)
		}
		if patch.Period != nil {
			r.Period = strings.TrimSpace(*patch.Period)
		}
		if patch.Comment != nil {
			r.Comment = s.sanitize(*patch.Comment)
		}
		r.UpdatedAt = s.clock.Now()
		s.data.Reviews[idx] = r
		return s.changed(domain.KindReview, domain.OpUpdated, r.ID, r), nil
	})
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	return s.mutate(ctx, domain.KindReview, "delete", func() (*change, error) {
		idx := findByID(s.data.Reviews, id, idOfReview)
		if idx < 0 {
			return nil, nil
		}
		removed := s.data.Reviews[idx]
		s.data.Reviews = removeAt(s.data.Reviews, idx)
		return s.changed(domain.KindReview, domain.OpDeleted, id, removed), nil
	})
}
