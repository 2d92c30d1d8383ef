package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/pahanabooks/console-api/pkg/store"
	"github.com/shopspring/decimal"
)

// OrderService manages storefront orders through the backend
type OrderService struct {
	orders     repository.OrderRepository
	sessions   repository.SessionRepository
	caches     *Caches
	bus        *eventbus.Bus
	notifier   *Notifier
	lastUpdate *store.Store[time.Time]
	now        func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	caches *Caches,
	bus *eventbus.Bus,
	notifier *Notifier,
) *OrderService {
	if caches == nil {
		caches = NewCaches()
	}
	return &OrderService{
		orders:     orders,
		sessions:   sessions,
		caches:     caches,
		bus:        bus,
		notifier:   notifier,
		lastUpdate: store.New[time.Time](),
		now:        time.Now,
	}
}

// OrderEvent is published when an order changes
type OrderEvent struct {
	OrderID string    `json:"order_id"`
	Type    string    `json:"type"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

// OrderUpdates tells a session whether orders changed since it last looked
type OrderUpdates struct {
	LastUpdate *time.Time `json:"last_update"`
	LastCheck  *time.Time `json:"last_check"`
	Changed    bool       `json:"changed"`
}

// PlaceOrderInput represents a storefront order
type PlaceOrderInput struct {
	BookID        string
	BookTitle     string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Quantity      int
	TotalPrice    decimal.Decimal
	PaymentMethod string
	StreetAddress string
	City          string
	PostalCode    string
	Country       string
}

// UpdateOrderInput represents the admin order edit
type UpdateOrderInput struct {
	CustomerName string
	Quantity     int
	TotalPrice   decimal.Decimal
	Status       enum.OrderStatus
}

// ListOrders returns a page of all orders
func (s *OrderService) ListOrders(ctx context.Context, status enum.OrderStatus, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	res := load(ctx, s.caches.Orders, s.orders.List)
	if !res.OK() {
		s.notify(res.Err)
		return nil, res.Err
	}

	orders := res.Data
	if status != "" {
		if !status.IsValid() {
			return nil, apperror.NewFieldError("status", "Unknown order status")
		}
		filtered := make([]entity.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}
	return pagination.Paginate(orders, params), nil
}

// ListByEmail returns a customer's orders
func (s *OrderService) ListByEmail(ctx context.Context, email string) ([]entity.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.NewFieldError("email", "Email is required")
	}
	orders, err := s.orders.ListByEmail(ctx, email)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	return orders, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// PlaceOrder submits a storefront order
func (s *OrderService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*entity.Order, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.BookID) == "" {
		fields = append(fields, apperror.FieldError{Field: "book_id", Message: "book is required"})
	}
	if strings.TrimSpace(input.FirstName) == "" {
		fields = append(fields, apperror.FieldError{Field: "first_name", Message: "first name is required"})
	}
	if strings.TrimSpace(input.Email) == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "email is required"})
	}
	if input.Quantity < 1 {
		fields = append(fields, apperror.FieldError{Field: "quantity", Message: "quantity must be at least 1"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	order, err := s.orders.Place(ctx, &entity.Order{
		BookID:        input.BookID,
		BookTitle:     input.BookTitle,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		CustomerName:  strings.TrimSpace(input.FirstName + " " + input.LastName),
		Email:         strings.TrimSpace(input.Email),
		Phone:         input.Phone,
		Quantity:      input.Quantity,
		TotalPrice:    input.TotalPrice,
		PaymentMethod: input.PaymentMethod,
		StreetAddress: input.StreetAddress,
		City:          input.City,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		Status:        enum.OrderStatusPending,
	})
	if err != nil {
		s.notify(err)
		return nil, err
	}
	id := ""
	if order != nil {
		id = order.ID
	}
	s.changed(id, "placed", enum.OrderStatusPending)
	return order, nil
}

// UpdateOrder edits an order's customer, quantity, price and status
func (s *OrderService) UpdateOrder(ctx context.Context, id string, input *UpdateOrderInput) (*entity.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" || input.Quantity <= 0 || !input.TotalPrice.IsPositive() {
		return nil, apperror.NewBadRequestError("Please fill in all required fields correctly.")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, apperror.NewFieldError("status", "Unknown order status")
	}

	order, err := s.orders.Update(ctx, id, &entity.Order{
		CustomerName: strings.TrimSpace(input.CustomerName),
		Quantity:     input.Quantity,
		TotalPrice:   input.TotalPrice,
		Status:       input.Status,
	})
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, "updated", input.Status)
	return order, nil
}

// UpdateStatus moves an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldError("status", "Unknown order status")
	}
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, "status", status)
	return order, nil
}

// DeleteOrder removes an order
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		s.notify(err)
		return err
	}
	s.changed(id, "deleted", "")
	return nil
}

// Updates reports whether orders changed since the session last checked,
// then records this check.
func (s *OrderService) Updates(ctx context.Context, p *Principal) (*OrderUpdates, error) {
	session, err := s.sessions.GetByID(ctx, p.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrSessionExpired
	}

	out := &OrderUpdates{LastCheck: session.LastOrderCheckAt}
	snap := s.lastUpdate.Snapshot()
	if !snap.Loaded {
		return out, nil
	}

	last := snap.Value
	out.LastUpdate = &last
	out.Changed = session.LastOrderCheckAt == nil || last.After(*session.LastOrderCheckAt)
	if out.Changed {
		if err := s.sessions.TouchOrderCheck(ctx, p.SessionID, last); err != nil {
			log.Printf("[orders] failed to record order check for %s: %v", p.SessionID, err)
		}
	}
	return out, nil
}

func (s *OrderService) changed(id, kind string, status enum.OrderStatus) {
	at := s.now().UTC()
	s.lastUpdate.Commit(s.lastUpdate.Begin(), at)
	publish(s.bus, TopicOrdersUpdated, OrderEvent{OrderID: id, Type: kind, Status: status.String(), At: at})
}

func (s *OrderService) notify(err error) {
	if s.notifier == nil {
		log.Printf("[orders] %v", err)
		return
	}
	s.notifier.Failure("orders", err)
}
