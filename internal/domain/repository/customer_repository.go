package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// CustomerRepository defines the backend customer operations
type CustomerRepository interface {
	List(ctx context.Context) ([]entity.Customer, error)
	// GetByAccountNumber resolves a customer for billing; nil when unknown
	GetByAccountNumber(ctx context.Context, accountNumber string) (*entity.Customer, error)
	Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	Update(ctx context.Context, id string, customer *entity.Customer) (*entity.Customer, error)
	Delete(ctx context.Context, id string) error
}
