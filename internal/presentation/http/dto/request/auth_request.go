package request

// LoginRequest represents an operator or customer sign-in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a storefront customer sign-up
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=100"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
	Name            string `json:"name" binding:"required,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"omitempty,max=50"`
	Address         string `json:"address" binding:"omitempty,max=500"`
}
