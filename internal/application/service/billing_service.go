package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/pahanabooks/console-api/pkg/store"
)

// CurrentBill is the bill a session is looking at. Generated is set when
// the session produced it rather than opening it from history.
type CurrentBill struct {
	Bill      *entity.Bill
	Generated bool
}

// BillingService drives the bill builder and bill history
type BillingService struct {
	bills     repository.BillRepository
	customers repository.CustomerRepository
	books     repository.BookRepository
	drafts    *billing.Drafts
	bus       *eventbus.Bus
	notifier  *Notifier

	mu      sync.Mutex
	current map[string]*store.Store[CurrentBill]
}

// NewBillingService creates a new billing service
func NewBillingService(
	bills repository.BillRepository,
	customers repository.CustomerRepository,
	books repository.BookRepository,
	drafts *billing.Drafts,
	bus *eventbus.Bus,
	notifier *Notifier,
) *BillingService {
	return &BillingService{
		bills:     bills,
		customers: customers,
		books:     books,
		drafts:    drafts,
		bus:       bus,
		notifier:  notifier,
		current:   make(map[string]*store.Store[CurrentBill]),
	}
}

// BillEvent is published when a bill changes
type BillEvent struct {
	BillNumber    string `json:"bill_number"`
	AccountNumber string `json:"account_number,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	Status        string `json:"status,omitempty"`
	Total         string `json:"total,omitempty"`
}

func billEvent(b *entity.Bill) BillEvent {
	return BillEvent{
		BillNumber:    b.BillNumber,
		AccountNumber: b.AccountNumber,
		CustomerName:  b.CustomerName,
		Status:        b.Status.String(),
		Total:         billing.Money(b.Amount()),
	}
}

// Draft returns the session's bill draft with fresh totals
func (s *BillingService) Draft(p *Principal) *billing.Snapshot {
	return s.drafts.Get(p.DraftKey()).Snapshot()
}

// CustomerOutput is the resolved customer with the updated draft
type CustomerOutput struct {
	Customer *entity.Customer `json:"customer"`
	Draft    *billing.Snapshot `json:"draft"`
}

// ResolveCustomer looks up the customer a bill is for
func (s *BillingService) ResolveCustomer(ctx context.Context, p *Principal, accountNumber string) (*CustomerOutput, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return nil, apperror.NewFieldError("account_number", "Please enter an account number")
	}

	customer, err := s.customers.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		s.notify("billing", err)
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewAppError(404, "Customer not found with account number: "+accountNumber)
	}

	draft := s.drafts.Get(p.DraftKey()).SetCustomer(customer)
	return &CustomerOutput{Customer: customer, Draft: draft}, nil
}

// ItemOutput is the result of a line-item change
type ItemOutput struct {
	Result *billing.AddResult `json:"result,omitempty"`
	Draft  *billing.Snapshot  `json:"draft"`
}

// AddItem adds a catalog book to the draft, merging with an existing row
func (s *BillingService) AddItem(ctx context.Context, p *Principal, bookID string, quantity int) (*ItemOutput, error) {
	bookID = strings.TrimSpace(bookID)
	if bookID == "" {
		return nil, apperror.NewFieldError("book_id", billing.MsgBookRequired)
	}
	if quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", billing.MsgQuantityInvalid)
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		s.notify("billing", err)
		return nil, err
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}

	result, draft, err := s.drafts.Get(p.DraftKey()).AddItem(&billing.Book{ID: book.ID, Title: book.Title, UnitPrice: book.Price}, quantity)
	if err != nil {
		return nil, err
	}
	return &ItemOutput{Result: result, Draft: draft}, nil
}

// RemoveItem deletes a line item. Removing an unknown id is a no-op.
func (s *BillingService) RemoveItem(p *Principal, itemID uuid.UUID) *billing.Snapshot {
	return s.drafts.Get(p.DraftKey()).RemoveItem(itemID)
}

// ClearItems empties the draft's line items
func (s *BillingService) ClearItems(p *Principal) *billing.Snapshot {
	return s.drafts.Get(p.DraftKey()).ClearItems()
}

// ResetDraft discards the whole draft
func (s *BillingService) ResetDraft(p *Principal) *billing.Snapshot {
	return s.drafts.Get(p.DraftKey()).Reset()
}

// SetAdjustments selects the discount and tax
func (s *BillingService) SetAdjustments(p *Principal, discount billing.Discount, tax billing.Tax) (*billing.Snapshot, error) {
	return s.drafts.Get(p.DraftKey()).SetAdjustments(discount, tax)
}

// Submit validates the draft and asks the backend to generate the bill. The
// draft is cleared only after the backend confirms.
func (s *BillingService) Submit(ctx context.Context, p *Principal, payment billing.Payment) (*entity.Bill, error) {
	draft := s.drafts.Get(p.DraftKey())
	snap, err := draft.Checkout(payment)
	if err != nil {
		return nil, err
	}

	req := &repository.GenerateBillRequest{
		CustomerAccountNumber: snap.Customer.AccountNumber,
		Items:                 make([]repository.GenerateBillItem, 0, len(snap.Items)),
		Subtotal:              snap.Totals.Subtotal.InexactFloat64(),
		Discount:              snap.Totals.Discount.InexactFloat64(),
		Tax:                   snap.Totals.Tax.InexactFloat64(),
		Total:                 snap.Totals.Total.InexactFloat64(),
		PaymentMethod:         payment.Method.String(),
		TransactionID:         strings.TrimSpace(payment.TransactionID),
		AdminNotes:            strings.TrimSpace(payment.AdminNotes),
	}
	for _, item := range snap.Items {
		req.Items = append(req.Items, repository.GenerateBillItem{
			BookID:   item.BookID,
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.InexactFloat64(),
		})
	}

	bill, err := s.bills.Generate(ctx, req)
	if err != nil {
		s.notify("billing", err)
		return nil, err
	}

	draft.Reset()
	cur := s.currentStore(p)
	cur.Commit(cur.Begin(), CurrentBill{Bill: bill, Generated: true})

	publish(s.bus, TopicBillGenerated, billEvent(bill))
	if s.notifier != nil {
		s.notifier.Notify(LevelSuccess, "Bill "+bill.BillNumber+" generated successfully", false)
	}
	return bill, nil
}

// SaveBill marks a bill SAVED on the backend. Local state changes only
// after the backend confirms.
func (s *BillingService) SaveBill(ctx context.Context, p *Principal, billNumber string) (*entity.Bill, error) {
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		return nil, apperror.NewFieldError("bill_number", "Bill number is required")
	}

	bill, err := s.bills.UpdateStatus(ctx, billNumber, enum.BillStatusSaved)
	if err != nil {
		s.notify("billing", err)
		return nil, err
	}

	cur := s.currentStore(p)
	held, _ := cur.Get()
	if bill == nil && held.Bill != nil && held.Bill.BillNumber == billNumber {
		copied := *held.Bill
		copied.Status = enum.BillStatusSaved
		bill = &copied
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if held.Bill != nil && held.Bill.BillNumber == billNumber {
		cur.Commit(cur.Begin(), CurrentBill{Bill: bill, Generated: held.Generated})
	}

	publish(s.bus, TopicBillSaved, billEvent(bill))
	return bill, nil
}

// GetBill loads a bill and makes it the session's current bill. A newer
// overlapping load supersedes an older one.
func (s *BillingService) GetBill(ctx context.Context, p *Principal, billNumber string) (*CurrentBill, error) {
	cur := s.currentStore(p)
	if held, ok := cur.Get(); ok && held.Generated && held.Bill != nil && held.Bill.BillNumber == billNumber {
		return &held, nil
	}

	var missing bool
	loaded, _, err := cur.Load(ctx, func(ctx context.Context) (CurrentBill, error) {
		bill, err := s.bills.GetByNumber(ctx, billNumber)
		if err != nil {
			return CurrentBill{}, err
		}
		if bill == nil {
			missing = true
			return CurrentBill{}, apperror.NewNotFoundError("Bill")
		}
		return CurrentBill{Bill: bill}, nil
	})
	if err != nil {
		if !missing {
			s.notify("billing", err)
		}
		return nil, err
	}
	return &loaded, nil
}

// Current returns the session's current bill, if any
func (s *BillingService) Current(p *Principal) (*CurrentBill, bool) {
	held, ok := s.currentStore(p).Get()
	if !ok || held.Bill == nil {
		return nil, false
	}
	return &held, true
}

// BillFilter narrows the bill history
type BillFilter struct {
	AccountNumber string
	Search        string
	Status        enum.BillStatus
	Pagination    *pagination.PaginationParams
}

// ListBills returns a page of bill history
func (s *BillingService) ListBills(ctx context.Context, filter *BillFilter) (*pagination.PaginatedResult[entity.Bill], error) {
	var (
		bills []entity.Bill
		err   error
	)
	switch {
	case filter.AccountNumber != "":
		bills, err = s.bills.ListByAccount(ctx, filter.AccountNumber)
	case filter.Search != "":
		bills, err = s.bills.Search(ctx, filter.Search)
	case filter.Status != "":
		if !filter.Status.IsValid() {
			return nil, apperror.NewFieldError("status", "Unknown bill status")
		}
		bills, err = s.bills.ListByStatus(ctx, filter.Status)
	default:
		bills, err = s.bills.List(ctx)
	}
	if err != nil {
		s.notify("billing", err)
		return nil, err
	}
	return pagination.Paginate(bills, filter.Pagination), nil
}

// DeleteBill removes a bill on the backend
func (s *BillingService) DeleteBill(ctx context.Context, p *Principal, billNumber string) error {
	if err := s.bills.Delete(ctx, billNumber); err != nil {
		s.notify("billing", err)
		return err
	}

	cur := s.currentStore(p)
	if held, ok := cur.Get(); ok && held.Bill != nil && held.Bill.BillNumber == billNumber {
		cur.Commit(cur.Begin(), CurrentBill{})
	}
	publish(s.bus, TopicBillDeleted, BillEvent{BillNumber: billNumber})
	return nil
}

// Forget drops the per-session state held for a closed session
func (s *BillingService) Forget(p *Principal) {
	s.drafts.Drop(p.DraftKey())
	s.mu.Lock()
	delete(s.current, p.DraftKey())
	s.mu.Unlock()
}

func (s *BillingService) currentStore(p *Principal) *store.Store[CurrentBill] {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.current[p.DraftKey()]
	if !ok {
		st = store.New[CurrentBill]()
		s.current[p.DraftKey()] = st
	}
	return st
}

func (s *BillingService) notify(component string, err error) {
	if s.notifier == nil {
		return
	}
	// Validation problems are answered inline; only backend trouble is broadcast.
	if apperror.GetAppError(err).Code >= 500 {
		s.notifier.Failure(component, err)
	}
}
