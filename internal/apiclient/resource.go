package apiclient

import (
	"context"
	"net/http"

	"github.com/nurpe/office-admin/internal/model"
)

// Resource is the typed view of one remote collection.
type Resource[T model.Record] struct {
	client *Client
	res    model.Resource
}

func For[T model.Record](c *Client, res model.Resource) *Resource[T] {
	return &Resource[T]{client: c, res: res}
}

func (r *Resource[T]) Descriptor() model.Resource {
	return r.res
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if _, err := r.client.do(ctx, call{resource: r.res, op: model.OpList, method: http.MethodGet, out: &rows}); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Create posts rec and returns the server copy, which must carry an id.
func (r *Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	decoded, err := r.client.do(ctx, call{resource: r.res, op: model.OpCreate, method: http.MethodPost, body: rec, out: &created})
	if err != nil {
		return created, err
	}
	if !decoded {
		return created, &NetworkError{Resource: r.res.Name, Action: model.OpCreate.String(), StatusCode: http.StatusOK, Err: ErrEmptyResponse}
	}
	if created.RecordID() == "" {
		return created, &NetworkError{Resource: r.res.Name, Action: model.OpCreate.String(), StatusCode: http.StatusOK, Err: ErrMissingID}
	}
	return created, nil
}

// Update sends the changed fields of id. The bool reports whether the server
// answered with a record.
func (r *Resource[T]) Update(ctx context.Context, id model.ID, changes map[string]any) (T, bool, error) {
	var updated T
	decoded, err := r.client.do(ctx, call{resource: r.res, op: model.OpUpdate, method: http.MethodPut, id: id, body: changes, out: &updated})
	if err != nil {
		return updated, false, err
	}
	if decoded && updated.RecordID() == "" {
		decoded = false
	}
	return updated, decoded, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id model.ID) error {
	_, err := r.client.do(ctx, call{resource: r.res, op: model.OpDelete, method: http.MethodDelete, id: id})
	return err
}
