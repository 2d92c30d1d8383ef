package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/billing"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// BillingHandler handles the bill builder and bill history
type BillingHandler struct {
	billingService *service.BillingService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Draft returns the caller's bill draft
func (h *BillingHandler) Draft(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, "Draft retrieved successfully", h.billingService.Draft(p))
}

// ResolveCustomer selects the customer the bill is for
func (h *BillingHandler) ResolveCustomer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.ResolveCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.billingService.ResolveCustomer(c.Request.Context(), p, req.AccountNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer found: "+out.Customer.DisplayName(), out.Draft)
}

// AddItem adds a book to the draft
func (h *BillingHandler) AddItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.billingService.AddItem(c.Request.Context(), p, req.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Book added to bill"
	if out.Result != nil && out.Result.Message != "" {
		message = out.Result.Message
	}
	response.OK(c, message, out)
}

// RemoveItem removes one line item
func (h *BillingHandler) RemoveItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}
	response.OK(c, "Item removed from bill", h.billingService.RemoveItem(p, id))
}

// ClearItems empties the draft's line items
func (h *BillingHandler) ClearItems(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, "All items cleared", h.billingService.ClearItems(p))
}

// Reset discards the draft
func (h *BillingHandler) Reset(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, "Bill form reset", h.billingService.ResetDraft(p))
}

// SetAdjustments selects the discount and tax
func (h *BillingHandler) SetAdjustments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.AdjustmentsRequest
	if !bindJSON(c, &req) {
		return
	}

	discount := billing.Discount{
		Kind:  enum.ParseDiscountKind(req.DiscountType),
		Value: decimal.NewFromFloat(req.DiscountValue),
	}
	tax := billing.Tax{Kind: enum.ParseTaxKind(req.TaxType)}

	draft, err := h.billingService.SetAdjustments(p, discount, tax)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill totals updated", draft)
}

// Submit generates the bill
// @Summary Generate bill
// @Description Submits the draft to the backend. The draft is cleared only when the backend confirms.
// @Tags billing
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replay protection key"
// @Param request body request.SubmitBillRequest true "Payment details"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /billing/bills [post]
func (h *BillingHandler) Submit(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.SubmitBillRequest
	if !bindJSON(c, &req) {
		return
	}

	bill, err := h.billingService.Submit(c.Request.Context(), p, billing.Payment{
		Method:        enum.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		TransactionID: req.TransactionID,
		AdminNotes:    req.AdminNotes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill generated successfully", bill)
}

// List returns bill history
func (h *BillingHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	result, err := h.billingService.ListBills(c.Request.Context(), &service.BillFilter{
		AccountNumber: strings.TrimSpace(filter.AccountNumber),
		Search:        strings.TrimSpace(filter.Search),
		Status:        enum.BillStatus(strings.ToUpper(strings.TrimSpace(filter.Status))),
		Pagination:    &pagination.PaginationParams{Page: filter.Page, PerPage: filter.PerPage},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get opens a bill
func (h *BillingHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	current, err := h.billingService.GetBill(c.Request.Context(), p, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill retrieved successfully", gin.H{
		"bill":      current.Bill,
		"generated": current.Generated,
	})
}

// Save marks a bill as saved
func (h *BillingHandler) Save(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	bill, err := h.billingService.SaveBill(c.Request.Context(), p, c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill saved successfully!", bill)
}

// Delete removes a bill
func (h *BillingHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.billingService.DeleteBill(c.Request.Context(), p, c.Param("number")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill deleted successfully", nil)
}
