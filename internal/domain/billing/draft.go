package billing

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

// Submission validation messages
const (
	MsgCustomerRequired      = "Please fetch a customer first"
	MsgItemsRequired         = "Please add at least one book to the bill"
	MsgPaymentMethodRequired = "Please select a payment method"
)

// Payment holds the settlement details entered on submit
type Payment struct {
	Method        enum.PaymentMethod `json:"payment_method"`
	TransactionID string             `json:"transaction_id,omitempty"`
	AdminNotes    string             `json:"admin_notes,omitempty"`
}

// Draft is the bill being built by one console session. Every change and
// every read goes through mu, so a checkout sees the customer and the items
// from the same moment.
type Draft struct {
	mu       sync.RWMutex
	items    *LineItems
	customer *entity.Customer
	discount Discount
	tax      Tax
}

// NewDraft creates an empty draft with no discount and no tax
func NewDraft() *Draft {
	return &Draft{
		items:    NewLineItems(),
		discount: Discount{Kind: enum.DiscountNone},
		tax:      Tax{Kind: enum.TaxNone},
	}
}

// SetCustomer records the resolved customer and returns the updated draft
func (d *Draft) SetCustomer(c *entity.Customer) *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customer = c
	return d.snapshot()
}

// Customer returns the resolved customer, or nil
func (d *Draft) Customer() *entity.Customer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.customer
}

// AddItem adds a book, merging with an existing row for the same book
func (d *Draft) AddItem(book *Book, quantity int) (*AddResult, *Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	result, err := d.items.Add(book, quantity)
	if err != nil {
		return nil, nil, err
	}
	return result, d.snapshot(), nil
}

// RemoveItem deletes a line item. Unknown ids are ignored.
func (d *Draft) RemoveItem(id uuid.UUID) *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items.Remove(id)
	return d.snapshot()
}

// ClearItems empties the line items and keeps the customer
func (d *Draft) ClearItems() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items.Clear()
	return d.snapshot()
}

// SetAdjustments replaces the discount and tax selection
func (d *Draft) SetAdjustments(discount Discount, tax Tax) (*Snapshot, error) {
	if err := discount.Validate(); err != nil {
		return nil, err
	}
	if err := tax.Validate(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.discount = discount
	d.tax = tax
	return d.snapshot(), nil
}

// Adjustments returns the current discount and tax selection
func (d *Draft) Adjustments() (Discount, Tax) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.discount, d.tax
}

// Validate checks the draft can be submitted with the given payment
func (d *Draft) Validate(p Payment) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.validate(p)
}

// Checkout validates the draft and returns the snapshot to submit, both
// taken under one lock
func (d *Draft) Checkout(p Payment) (*Snapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := d.validate(p); err != nil {
		return nil, err
	}
	return d.snapshot(), nil
}

func (d *Draft) validate(p Payment) error {
	if d.customer == nil {
		return apperror.NewFieldError("account_number", MsgCustomerRequired)
	}
	if d.items.Len() == 0 {
		return apperror.NewFieldError("items", MsgItemsRequired)
	}
	if strings.TrimSpace(string(p.Method)) == "" {
		return apperror.NewFieldError("payment_method", MsgPaymentMethodRequired)
	}
	if !p.Method.IsValid() {
		return apperror.NewFieldError("payment_method", "Unknown payment method")
	}
	return nil
}

// Reset clears items, customer and adjustments
func (d *Draft) Reset() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items.Clear()
	d.customer = nil
	d.discount = Discount{Kind: enum.DiscountNone}
	d.tax = Tax{Kind: enum.TaxNone}
	return d.snapshot()
}

// Snapshot is a point-in-time view of a draft
type Snapshot struct {
	Customer *entity.Customer `json:"customer,omitempty"`
	Items    []LineItem       `json:"items"`
	Discount Discount         `json:"discount"`
	Tax      Tax              `json:"tax"`
	Totals   Totals           `json:"totals"`
	Display  Display          `json:"display"`
}

// Snapshot returns the full draft state with fresh totals
func (d *Draft) Snapshot() *Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot()
}

func (d *Draft) snapshot() *Snapshot {
	items := d.items.Items()
	totals := Calculate(items, d.discount, d.tax)
	return &Snapshot{
		Customer: d.customer,
		Items:    items,
		Discount: d.discount,
		Tax:      d.tax,
		Totals:   totals,
		Display:  totals.Display(),
	}
}

// Drafts holds one draft per session key
type Drafts struct {
	mu     sync.Mutex
	drafts map[string]*Draft
}

// NewDrafts creates an empty registry
func NewDrafts() *Drafts {
	return &Drafts{drafts: make(map[string]*Draft)}
}

// Get returns the draft for key, creating it on first use
func (r *Drafts) Get(key string) *Draft {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.drafts[key]
	if !ok {
		d = NewDraft()
		r.drafts[key] = d
	}
	return d
}

// Drop discards the draft for key
func (r *Drafts) Drop(key string) {
	r.mu.Lock()
	delete(r.drafts, key)
	r.mu.Unlock()
}
