package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/pkg/db/option"
	"github.com/smallbiznis/helpdesk/pkg/db/pagination"
	"github.com/smallbiznis/helpdesk/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ResourceService stores console records as JSON documents keyed by kind and
// id. The console owns the ids and the record shape.
type ResourceService struct {
	db        *gorm.DB
	resources repository.Repository[Resource]
	accounts  *AccountService
	clock     clock.Clock
	log       *zap.Logger
}

func NewResourceService(conn *gorm.DB, accounts *AccountService, clk clock.Clock, log *zap.Logger) *ResourceService {
	return &ResourceService{
		db:        conn,
		resources: repository.ProvideStore[Resource](conn),
		accounts:  accounts,
		clock:     clk,
		log:       log.Named("backend.resources"),
	}
}

type Page struct {
	Items    []json.RawMessage
	PageInfo *pagination.PageInfo
}

// recordMeta is the part of a payload the backend indexes on.
type recordMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func parseKind(raw string) (domain.Kind, error) {
	kind := domain.Kind(raw)
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, raw)
	}
	return kind, nil
}

// List returns most-recent-first. Without page parameters every record is
// returned in one page.
func (s *ResourceService) List(ctx context.Context, kind domain.Kind, page pagination.Pagination) (Page, error) {
	opts := []option.QueryOption{option.OrderBy("created_at desc, id desc")}
	paged := page.PageSize > 0 || page.PageToken != ""
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return Page{}, fmt.Errorf("%w: bad page token", ErrInvalidRequest)
		}
		at, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return Page{}, fmt.Errorf("%w: bad page token", ErrInvalidRequest)
		}
		opts = append(opts, option.Where("created_at < ? OR (created_at = ? AND id < ?)", at, at, cursor.ID))
	}
	if paged {
		opts = append(opts, option.Limit(page.Size()+1))
	}

	rows, err := s.resources.Find(ctx, &Resource{Kind: string(kind)}, opts...)
	if err != nil {
		return Page{}, err
	}

	out := Page{}
	if paged {
		var info pagination.PageInfo
		rows, info = pagination.BuildCursorPageInfo(rows, page.Size(), func(r *Resource) string {
			token, _ := pagination.EncodeCursor(pagination.Cursor{
				ID:        r.ID,
				CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
			})
			return token
		})
		out.PageInfo = &info
	}
	out.Items = make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		out.Items = append(out.Items, json.RawMessage(row.Payload))
	}
	return out, nil
}

func (s *ResourceService) Get(ctx context.Context, kind domain.Kind, id string) (json.RawMessage, error) {
	row, err := s.resources.FindOne(ctx, &Resource{Kind: string(kind), ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return json.RawMessage(row.Payload), nil
}

func (s *ResourceService) Create(ctx context.Context, kind domain.Kind, payload json.RawMessage) (json.RawMessage, error) {
	meta, err := decodeMeta(payload)
	if err != nil {
		return nil, err
	}
	if meta.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}

	now := s.clock.Now().UTC()
	createdAt := meta.CreatedAt.UTC()
	if meta.CreatedAt.IsZero() {
		createdAt = now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.resources.WithTrx(tx).Create(ctx, &Resource{
			Kind:      string(kind),
			ID:        meta.ID,
			Payload:   datatypes.JSON(payload),
			CreatedAt: createdAt,
			UpdatedAt: now,
		})
		if err != nil {
			return translate(err)
		}
		return s.afterWrite(ctx, tx, kind, payload)
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Update replaces the stored document. The path id wins; a payload naming a
// different id is refused.
func (s *ResourceService) Update(ctx context.Context, kind domain.Kind, id string, payload json.RawMessage) (json.RawMessage, error) {
	meta, err := decodeMeta(payload)
	if err != nil {
		return nil, err
	}
	if meta.ID != "" && meta.ID != id {
		return nil, fmt.Errorf("%w: payload id %q does not match %q", ErrInvalidRequest, meta.ID, id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.resources.WithTrx(tx).Update(ctx, &Resource{Kind: string(kind), ID: id}, map[string]any{
			"payload":    datatypes.JSON(payload),
			"updated_at": s.clock.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}
		return s.afterWrite(ctx, tx, kind, payload)
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Delete succeeds whether or not the record exists.
func (s *ResourceService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.resources.WithTrx(tx).Delete(ctx, &Resource{Kind: string(kind), ID: id}); err != nil {
			return err
		}
		if kind == domain.KindUser {
			return s.accounts.removeUser(ctx, tx, id)
		}
		return nil
	})
}

// Count is used by the seeder.
func (s *ResourceService) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Resource{}).Count(&count).Error
	return count, err
}

func (s *ResourceService) afterWrite(ctx context.Context, tx *gorm.DB, kind domain.Kind, payload json.RawMessage) error {
	if kind != domain.KindUser {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if user.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	return s.accounts.syncUser(ctx, tx, user)
}

func decodeMeta(payload json.RawMessage) (recordMeta, error) {
	var meta recordMeta
	if !json.Valid(payload) {
		return meta, fmt.Errorf("%w: body is not valid JSON", ErrInvalidRequest)
	}
	if err := json.Unmarshal(payload, &meta); err != nil {
		return meta, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return meta, nil
}
