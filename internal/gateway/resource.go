package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
)

// ResourcePath is the backend path of a collection, or of one record when id
// is set.
func ResourcePath(kind domain.Kind, id string) string {
	path := "/api/" + string(kind)
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

// Resource is a typed view of one backend collection.
type Resource[T any] struct {
	client *Client
	kind   domain.Kind
}

func NewResource[T any](client *Client, kind domain.Kind) Resource[T] {
	return Resource[T]{client: client, kind: kind}
}

func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.Request(ctx, http.MethodGet, ResourcePath(r.kind, ""), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.client.Request(ctx, http.MethodGet, ResourcePath(r.kind, id), nil, &out)
	return out, err
}

func (r Resource[T]) Create(ctx context.Context, v T) error {
	return r.client.Request(ctx, http.MethodPost, ResourcePath(r.kind, ""), v, nil)
}

func (r Resource[T]) Update(ctx context.Context, id string, v T) error {
	return r.client.Request(ctx, http.MethodPut, ResourcePath(r.kind, id), v, nil)
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Request(ctx, http.MethodDelete, ResourcePath(r.kind, id), nil, nil)
}
