package request

// ResolveCustomerRequest selects the customer a bill is for
type ResolveCustomerRequest struct {
	AccountNumber string `json:"account_number" binding:"required"`
}

// AddItemRequest adds a book to the bill
type AddItemRequest struct {
	BookID   string `json:"book_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// AdjustmentsRequest sets the bill's discount and tax. Amounts arrive as
// plain JSON numbers.
type AdjustmentsRequest struct {
	DiscountType  string  `json:"discount_type" binding:"omitempty,discount_kind"`
	DiscountValue float64 `json:"discount_value" binding:"gte=0"`
	TaxType       string  `json:"tax_type" binding:"omitempty,tax_kind"`
}

// SubmitBillRequest generates the bill from the draft. The payment method
// is checked after the draft so missing customer or items are reported first.
type SubmitBillRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=32"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=255"`
	AdminNotes    string `json:"admin_notes" binding:"omitempty,max=2000"`
}

// BillFilterRequest narrows the bill history
type BillFilterRequest struct {
	AccountNumber string `form:"account_number"`
	Search        string `form:"search"`
	Status        string `form:"status"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// EmailBillRequest sends a bill by email. An empty address falls back to
// the customer's email.
type EmailBillRequest struct {
	To string `json:"to" binding:"omitempty,email"`
}
