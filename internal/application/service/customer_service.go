package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customers repository.CustomerRepository
	caches    *Caches
	bus       *eventbus.Bus
	notifier  *Notifier
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers repository.CustomerRepository, caches *Caches, bus *eventbus.Bus, notifier *Notifier) *CustomerService {
	if caches == nil {
		caches = NewCaches()
	}
	return &CustomerService{customers: customers, caches: caches, bus: bus, notifier: notifier}
}

// CustomerEvent is published when a customer record changes
type CustomerEvent struct {
	CustomerID    string    `json:"customer_id"`
	AccountNumber string    `json:"account_number,omitempty"`
	Type          string    `json:"type"`
	At            time.Time `json:"at"`
}

// CustomerInput represents the create/update customer input
type CustomerInput struct {
	AccountNumber string
	Name          string
	Email         string
	Phone         string
	Address       string
}

// ListCustomers returns a page of customers, optionally filtered by a
// case-insensitive match on name, account number, email or phone
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	res := load(ctx, s.caches.Customers, s.customers.List)
	if !res.OK() {
		s.notify(res.Err)
		return nil, res.Err
	}

	customers := res.Data
	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		filtered := make([]entity.Customer, 0, len(customers))
		for _, c := range customers {
			if matchesCustomer(&c, q) {
				filtered = append(filtered, c)
			}
		}
		customers = filtered
	}
	return pagination.Paginate(customers, params), nil
}

// GetByAccountNumber looks a customer up for billing
func (s *CustomerService) GetByAccountNumber(ctx context.Context, accountNumber string) (*entity.Customer, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, apperror.NewFieldError("account_number", "Please enter an account number")
	}
	customer, err := s.customers.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// CreateCustomer registers a customer from the admin console
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	if err := validateCustomer(input); err != nil {
		return nil, err
	}

	customer, err := s.customers.Create(ctx, input.toEntity())
	if err != nil {
		s.notify(err)
		return nil, err
	}
	if customer != nil {
		s.changed(customer.ID, customer.AccountNumber, "create")
	}
	return customer, nil
}

// UpdateCustomer replaces a customer's details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, input *CustomerInput) (*entity.Customer, error) {
	if err := validateCustomer(input); err != nil {
		return nil, err
	}

	customer, err := s.customers.Update(ctx, id, input.toEntity())
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.changed(id, input.AccountNumber, "edit")
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		s.notify(err)
		return err
	}
	s.changed(id, "", "delete")
	return nil
}

func (s *CustomerService) changed(id, accountNumber, kind string) {
	publish(s.bus, TopicCustomersUpdated, CustomerEvent{
		CustomerID:    id,
		AccountNumber: accountNumber,
		Type:          kind,
		At:            time.Now().UTC(),
	})
}

func (s *CustomerService) notify(err error) {
	if s.notifier == nil {
		log.Printf("[customers] %v", err)
		return
	}
	s.notifier.Failure("customers", err)
}

func validateCustomer(input *CustomerInput) error {
	var fields []apperror.FieldError
	check := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			fields = append(fields, apperror.FieldError{Field: field, Message: field + " is required"})
		}
	}
	check("account_number", input.AccountNumber)
	check("name", input.Name)
	check("email", input.Email)
	check("phone", input.Phone)
	if len(fields) == 0 {
		return nil
	}
	err := apperror.NewValidationError(fields)
	err.Message = "Please fill in all required fields."
	return err
}

func matchesCustomer(c *entity.Customer, q string) bool {
	for _, v := range []string{c.Name, c.AccountNumber, c.Email, c.Phone, c.Username} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (in *CustomerInput) toEntity() *entity.Customer {
	return &entity.Customer{
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
	}
}
