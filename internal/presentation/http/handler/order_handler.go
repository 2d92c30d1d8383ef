package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/enum"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders, optionally by status
func (h *OrderHandler) List(c *gin.Context) {
	var filter request.OrderFilterRequest
	if !bindQuery(c, &filter) {
		return
	}

	status := enum.OrderStatus(strings.ToUpper(strings.TrimSpace(filter.Status)))
	result, err := h.orderService.ListOrders(c.Request.Context(), status, &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// ListByEmail returns the orders placed under an email address
func (h *OrderHandler) ListByEmail(c *gin.Context) {
	orders, err := h.orderService.ListByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Orders retrieved successfully", orders)
}

// Get handles getting an order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved successfully", order)
}

// Place handles a storefront order
func (h *OrderHandler) Place(c *gin.Context) {
	var req request.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), &service.PlaceOrderInput{
		BookID:        req.BookID,
		BookTitle:     req.BookTitle,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Quantity:      req.Quantity,
		TotalPrice:    decimal.NewFromFloat(req.TotalPrice),
		PaymentMethod: req.PaymentMethod,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order placed successfully", order)
}

// Update handles the admin order edit
func (h *OrderHandler) Update(c *gin.Context) {
	var req request.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), &service.UpdateOrderInput{
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
		TotalPrice:   decimal.NewFromFloat(req.TotalPrice),
		Status:       enum.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order updated successfully", order)
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req request.OrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	status := enum.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order status updated successfully", order)
}

// Delete handles deleting an order
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order deleted successfully", nil)
}

// Updates reports whether orders changed since the caller last checked
func (h *OrderHandler) Updates(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	updates, err := h.orderService.Updates(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order updates retrieved", updates)
}
