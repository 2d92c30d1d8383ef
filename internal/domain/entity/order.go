package entity

import (
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Order is a customer order placed through the storefront
type Order struct {
	ID            string           `json:"id"`
	BookID        string           `json:"bookId"`
	BookTitle     string           `json:"bookTitle"`
	FirstName     string           `json:"firstName,omitempty"`
	LastName      string           `json:"lastName,omitempty"`
	CustomerName  string           `json:"customerName,omitempty"`
	Email         string           `json:"email,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Quantity      int              `json:"quantity"`
	TotalPrice    decimal.Decimal  `json:"totalPrice"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	StreetAddress string           `json:"streetAddress,omitempty"`
	City          string           `json:"city,omitempty"`
	PostalCode    string           `json:"postalCode,omitempty"`
	Country       string           `json:"country,omitempty"`
	OrderDate     Timestamp        `json:"orderDate"`
	Status        enum.OrderStatus `json:"status"`
}

// TitleOrUnknown is the key orders are grouped by in reports
func (o *Order) TitleOrUnknown() string {
	if o.BookTitle == "" {
		return "Unknown"
	}
	return o.BookTitle
}
