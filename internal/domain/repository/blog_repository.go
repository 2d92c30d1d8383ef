package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// BlogRepository defines the backend blog operations
type BlogRepository interface {
	List(ctx context.Context) ([]entity.BlogPost, error)
	Popular(ctx context.Context) ([]entity.BlogPost, error)
	GetByID(ctx context.Context, id string) (*entity.BlogPost, error)
	Related(ctx context.Context, id string) ([]entity.BlogPost, error)
	Tags(ctx context.Context) ([]string, error)
}
