package view

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/store"
)

// Row is one rendered table line. Index is 1-based and follows store order.
type Row[T model.Record] struct {
	Index    int
	Record   T
	Unsynced bool
	Reason   string
}

// BuildRows renders records in the order given.
func BuildRows[T model.Record](records []T, unsynced func(model.ID) (string, bool)) []Row[T] {
	rows := make([]Row[T], 0, len(records))
	for i, rec := range records {
		row := Row[T]{Index: i + 1, Record: rec}
		if unsynced != nil {
			row.Reason, row.Unsynced = unsynced(rec.RecordID())
		}
		rows = append(rows, row)
	}
	return rows
}

// Table is the editable table state shared by every resource page.
type Table[T model.Record] struct {
	api   *apiclient.Resource[T]
	store *store.Store[T]
	log   zerolog.Logger

	mu      sync.RWMutex
	loading bool
	loadErr error
	done    chan struct{}
	once    sync.Once
}

func NewTable[T model.Record](api *apiclient.Resource[T], m *metrics.Collector, log zerolog.Logger) *Table[T] {
	res := api.Descriptor()
	return &Table[T]{
		api:   api,
		store: store.New[T](res.Name, m),
		log:   log.With().Str("resource", res.Name).Logger(),
		done:  make(chan struct{}),
	}
}

func (t *Table[T]) Resource() model.Resource {
	return t.api.Descriptor()
}

// Mount fetches the collection once and fills the store.
func (t *Table[T]) Mount(ctx context.Context) error {
	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()

	rows, err := t.api.List(ctx)
	if err == nil {
		err = t.store.Load(rows)
	}

	t.mu.Lock()
	t.loading = false
	t.loadErr = err
	t.mu.Unlock()
	t.once.Do(func() { close(t.done) })

	if errors.Is(err, store.ErrDetached) {
		t.log.Debug().Msg("list arrived after unmount, dropped")
	}
	return err
}

// MountAsync starts Mount in the background; the returned channel closes when
// the initial fetch has finished.
func (t *Table[T]) MountAsync(ctx context.Context) <-chan struct{} {
	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()
	go func() {
		_ = t.Mount(ctx)
	}()
	return t.done
}

// Done is closed once the first fetch has finished.
func (t *Table[T]) Done() <-chan struct{} {
	return t.done
}

func (t *Table[T]) Loading() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loading
}

func (t *Table[T]) LoadError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loadErr
}

func (t *Table[T]) Rows() []Row[T] {
	return BuildRows(t.store.All(), t.store.Unsynced)
}

func (t *Table[T]) Records() []T {
	return t.store.All()
}

func (t *Table[T]) Get(id model.ID) (T, bool) {
	return t.store.Get(id)
}

func (t *Table[T]) Unmount() {
	t.store.Detach()
}

// Delete removes id on the server and then locally. A not-found answer means
// the record is already gone, so it is dropped locally as well.
func (t *Table[T]) Delete(ctx context.Context, id model.ID) (Notice, error) {
	err := t.api.Delete(ctx, id)
	switch {
	case err == nil:
	case apiclient.IsNotFound(err):
		if rmErr := t.store.Remove(id); rmErr != nil && !errors.Is(rmErr, store.ErrNotFound) {
			return Notice{}, rmErr
		}
		return info("Rekord był już usunięty"), nil
	default:
		return failure("Nie udało się usunąć rekordu", err), err
	}

	if err := t.store.Remove(id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return Notice{}, err
	}
	return success("Usunięto rekord"), nil
}
