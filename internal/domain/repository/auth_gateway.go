package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// Admin is the operator account returned by the admin login
type Admin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// AdminLogin is a successful operator sign-in
type AdminLogin struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// RegisterCustomerInput is the storefront sign-up payload
type RegisterCustomerInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// AuthGateway performs sign-in against the backend. Tokens are opaque to
// the console.
type AuthGateway interface {
	AdminLogin(ctx context.Context, username, password string) (*AdminLogin, error)
	AdminProfile(ctx context.Context) (*Admin, error)
	CustomerLogin(ctx context.Context, username, password string) (string, error)
	CustomerRegister(ctx context.Context, in *RegisterCustomerInput) (*entity.Customer, error)
	CustomerProfile(ctx context.Context) (*entity.Customer, error)
}
