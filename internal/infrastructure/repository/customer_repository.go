package repository

import (
	"context"
	"log"
	"strings"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

type customerRepository struct {
	api *backend.Client
}

// NewCustomerRepository creates a customer repository backed by the REST API
func NewCustomerRepository(api *backend.Client) domainRepo.CustomerRepository {
	return &customerRepository{api: api}
}

func (r *customerRepository) List(ctx context.Context) ([]entity.Customer, error) {
	raw, err := r.api.DoRaw(ctx, "GET", "/api/admin/customers", nil, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[entity.Customer](raw)
}

func (r *customerRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*entity.Customer, error) {
	var resp struct {
		Customer *entity.Customer `json:"customer"`
	}
	err := r.api.Get(ctx, "/api/billing/customer/"+backend.PathEscape(accountNumber), nil, &resp)
	if err == nil {
		return resp.Customer, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	// Older backends only expose customers through the admin list.
	customers, listErr := r.List(ctx)
	if listErr != nil {
		log.Printf("[customers] fallback scan for %s failed: %v", accountNumber, listErr)
		return nil, nil
	}
	for i := range customers {
		if strings.EqualFold(customers[i].AccountNumber, accountNumber) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	var resp struct {
		Customer *entity.Customer `json:"customer"`
	}
	if err := r.api.Post(ctx, "/api/admin/customers", customer, &resp); err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

func (r *customerRepository) Update(ctx context.Context, id string, customer *entity.Customer) (*entity.Customer, error) {
	var resp struct {
		Customer *entity.Customer `json:"customer"`
	}
	if err := r.api.Put(ctx, "/api/admin/customers/"+backend.PathEscape(id), customer, &resp); err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, "/api/admin/customers/"+backend.PathEscape(id), nil)
}

// isNotFound reports a lookup miss, whether signalled by status or by a
// success:false envelope.
func isNotFound(err error) bool {
	appErr := apperror.GetAppError(err)
	return appErr.Code == 404 || appErr.Code == 422
}
