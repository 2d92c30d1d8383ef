package service

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/pkg/result"
	"github.com/pahanabooks/console-api/pkg/store"
)

// Caches holds the console's current view of each backend collection.
// Every full listing goes through these stores so that an older, slower
// load never overwrites a newer one.
type Caches struct {
	Bills     *store.Store[[]entity.Bill]
	Orders    *store.Store[[]entity.Order]
	Books     *store.Store[[]entity.Book]
	Customers *store.Store[[]entity.Customer]
	Blog      *store.Store[[]entity.BlogPost]
}

// NewCaches creates empty caches
func NewCaches() *Caches {
	return &Caches{
		Bills:     store.New[[]entity.Bill](),
		Orders:    store.New[[]entity.Order](),
		Books:     store.New[[]entity.Book](),
		Customers: store.New[[]entity.Customer](),
		Blog:      store.New[[]entity.BlogPost](),
	}
}

// load runs fetch through st and wraps the outcome. The fresh value is
// returned even when a newer load has already been committed.
func load[T any](ctx context.Context, st *store.Store[T], fetch func(context.Context) (T, error)) result.Result[T] {
	return result.Fetch(ctx, func(ctx context.Context) (T, error) {
		v, _, err := st.Load(ctx, fetch)
		return v, err
	})
}
