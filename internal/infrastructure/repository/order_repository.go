package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
)

type orderRepository struct {
	api *backend.Client
}

// NewOrderRepository creates an order repository backed by the REST API
func NewOrderRepository(api *backend.Client) domainRepo.OrderRepository {
	return &orderRepository{api: api}
}

type orderResponse struct {
	Order *entity.Order `json:"order"`
}

func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, "/api/admin/orders")
}

func (r *orderRepository) ListByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	return r.list(ctx, "/api/orders/email/"+backend.PathEscape(email))
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	if err := r.api.Get(ctx, "/api/orders/"+backend.PathEscape(id), nil, &order); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Place(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	var resp orderResponse
	if err := r.api.Post(ctx, "/api/orders", order, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (r *orderRepository) Update(ctx context.Context, id string, order *entity.Order) (*entity.Order, error) {
	body := map[string]interface{}{
		"customerName": order.CustomerName,
		"quantity":     order.Quantity,
		"totalPrice":   order.TotalPrice.InexactFloat64(),
		"status":       order.Status.String(),
	}
	var resp orderResponse
	if err := r.api.Put(ctx, "/api/admin/orders/"+backend.PathEscape(id), body, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (*entity.Order, error) {
	var resp orderResponse
	body := map[string]string{"status": status.String()}
	if err := r.api.Put(ctx, "/api/admin/orders/"+backend.PathEscape(id)+"/status", body, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.api.Delete(ctx, "/api/admin/orders/"+backend.PathEscape(id), nil)
}

func (r *orderRepository) list(ctx context.Context, path string) ([]entity.Order, error) {
	raw, err := r.api.DoRaw(ctx, "GET", path, nil, nil)
	if err != nil {
		return nil, err
	}
	return backend.DecodeList[entity.Order](raw)
}
