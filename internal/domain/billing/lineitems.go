package billing

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// Messages reported back to the operator after an add
const (
	MsgItemAdded       = "Book added to bill"
	MsgQuantityUpdated = "Quantity updated for existing book"
	MsgBookRequired    = "Please select a book"
	MsgQuantityInvalid = "Please enter a valid quantity"
)

// LineItem is one book on an in-progress bill
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	BookID    string          `json:"book_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (i *LineItem) recompute() {
	i.Subtotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Book is the selection being added to a bill
type Book struct {
	ID        string
	Title     string
	UnitPrice decimal.Decimal
}

// AddResult describes the effect of an add
type AddResult struct {
	Item    LineItem `json:"item"`
	Merged  bool     `json:"merged"`
	Message string   `json:"message"`
}

// LineItems is the ordered line-item list of one bill draft. Rows are
// unique by book id; adding a book already present merges quantities.
type LineItems struct {
	mu    sync.Mutex
	items []LineItem
	newID func() uuid.UUID
}

// NewLineItems creates an empty line-item list
func NewLineItems() *LineItems {
	return &LineItems{newID: uuid.New}
}

// Add appends a book or merges it into the existing row for the same book.
// A merge keeps the price of the existing row. Invalid input is rejected
// without touching the list.
func (l *LineItems) Add(book *Book, quantity int) (*AddResult, error) {
	if book == nil || book.ID == "" {
		return nil, apperror.NewFieldError("book_id", MsgBookRequired)
	}
	if quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", MsgQuantityInvalid)
	}
	if book.UnitPrice.IsNegative() {
		return nil, apperror.NewFieldError("unit_price", "Please enter a valid price")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].BookID == book.ID {
			l.items[i].Quantity += quantity
			l.items[i].recompute()
			return &AddResult{Item: l.items[i], Merged: true, Message: MsgQuantityUpdated}, nil
		}
	}

	item := LineItem{
		ID:        l.newID(),
		BookID:    book.ID,
		Title:     book.Title,
		UnitPrice: book.UnitPrice,
		Quantity:  quantity,
	}
	item.recompute()
	l.items = append(l.items, item)

	return &AddResult{Item: item, Message: MsgItemAdded}, nil
}

// Remove deletes the row with the given id. Unknown ids are a no-op; the
// return value reports whether a row was removed.
func (l *LineItems) Remove(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list
func (l *LineItems) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}

// Items returns a copy of the rows in insertion order
func (l *LineItems) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of rows
func (l *LineItems) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
