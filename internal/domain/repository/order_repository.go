package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
)

// OrderRepository defines the backend order operations
type OrderRepository interface {
	List(ctx context.Context) ([]entity.Order, error)
	ListByEmail(ctx context.Context, email string) ([]entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Place(ctx context.Context, order *entity.Order) (*entity.Order, error)
	Update(ctx context.Context, id string, order *entity.Order) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
