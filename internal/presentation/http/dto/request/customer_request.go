package request

// CustomerRequest represents a customer create or update. Missing fields
// are reported together by the service.
type CustomerRequest struct {
	AccountNumber string `json:"account_number" binding:"max=100"`
	Name          string `json:"name" binding:"max=255"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" binding:"max=50"`
	Address       string `json:"address" binding:"max=500"`
}
