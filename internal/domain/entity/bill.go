package entity

import (
	"encoding/json"

	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Bill is a finalized sale record persisted by the backend. The console
// treats it as read-only apart from status transitions.
type Bill struct {
	ID            string             `json:"id"`
	BillNumber    string             `json:"billNumber"`
	AccountNumber string             `json:"accountNumber"`
	CustomerName  string             `json:"customerName"`
	BillDate      Timestamp          `json:"billDate"`
	Status        enum.BillStatus    `json:"status"`
	PaymentMethod enum.PaymentMethod `json:"paymentMethod"`
	TransactionID string             `json:"transactionId,omitempty"`
	Items         []BillItem         `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	AdminNotes    string             `json:"adminNotes,omitempty"`

	// legacy unit-based billing
	UnitsConsumed int             `json:"unitsConsumed,omitempty"`
	RatePerUnit   decimal.Decimal `json:"ratePerUnit"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}

// UnmarshalJSON fills BillDate from the older date and createdAt fields
// when the backend leaves billDate empty.
func (b *Bill) UnmarshalJSON(data []byte) error {
	type plain Bill
	aux := struct {
		*plain
		Date      Timestamp `json:"date"`
		CreatedAt Timestamp `json:"createdAt"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.BillDate.IsZero() {
		b.BillDate = aux.Date
	}
	if b.BillDate.IsZero() {
		b.BillDate = aux.CreatedAt
	}
	return nil
}

// BillItem is one book line on a persisted bill
type BillItem struct {
	BookID   string          `json:"bookId"`
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Amount is the revenue the bill contributes: total, falling back to the
// legacy totalAmount when total is zero.
func (b *Bill) Amount() decimal.Decimal {
	if !b.Total.IsZero() {
		return b.Total
	}
	return b.TotalAmount
}

// LineAmount is the item subtotal, derived from price when the backend left it empty
func (i *BillItem) LineAmount() decimal.Decimal {
	if !i.Subtotal.IsZero() {
		return i.Subtotal
	}
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
