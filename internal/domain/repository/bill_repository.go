package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/enum"
)

// GenerateBillItem is one line of a bill submission
type GenerateBillItem struct {
	BookID   string  `json:"bookId"`
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// GenerateBillRequest is the payload accepted by the bill generator
type GenerateBillRequest struct {
	CustomerAccountNumber string             `json:"customerAccountNumber"`
	Items                 []GenerateBillItem `json:"items"`
	Subtotal              float64            `json:"subtotal"`
	Discount              float64            `json:"discount"`
	Tax                   float64            `json:"tax"`
	Total                 float64            `json:"total"`
	PaymentMethod         string             `json:"paymentMethod"`
	TransactionID         string             `json:"transactionId,omitempty"`
	AdminNotes            string             `json:"adminNotes,omitempty"`
}

// BillRepository defines the backend billing operations
type BillRepository interface {
	Generate(ctx context.Context, req *GenerateBillRequest) (*entity.Bill, error)
	List(ctx context.Context) ([]entity.Bill, error)
	GetByNumber(ctx context.Context, billNumber string) (*entity.Bill, error)
	ListByAccount(ctx context.Context, accountNumber string) ([]entity.Bill, error)
	Search(ctx context.Context, query string) ([]entity.Bill, error)
	ListByStatus(ctx context.Context, status enum.BillStatus) ([]entity.Bill, error)
	UpdateStatus(ctx context.Context, billNumber string, status enum.BillStatus) (*entity.Bill, error)
	Delete(ctx context.Context, billNumber string) error
}
