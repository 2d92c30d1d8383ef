package request

// PlaceOrderRequest represents a storefront order
type PlaceOrderRequest struct {
	BookID        string  `json:"book_id" binding:"required"`
	BookTitle     string  `json:"book_title"`
	FirstName     string  `json:"first_name" binding:"required,max=100"`
	LastName      string  `json:"last_name" binding:"required,max=100"`
	Email         string  `json:"email" binding:"required,email"`
	Phone         string  `json:"phone" binding:"required,max=50"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	TotalPrice    float64 `json:"total_price" binding:"gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	StreetAddress string  `json:"street_address" binding:"required"`
	City          string  `json:"city" binding:"required"`
	PostalCode    string  `json:"postal_code" binding:"required"`
	Country       string  `json:"country" binding:"required"`
}

// UpdateOrderRequest represents the admin order edit. Required fields are
// checked together by the service.
type UpdateOrderRequest struct {
	CustomerName string  `json:"customer_name"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status" binding:"omitempty,order_status"`
}

// OrderStatusRequest changes an order's status
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// OrderFilterRequest narrows the order list
type OrderFilterRequest struct {
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
