package repository

import (
	"context"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	domainRepo "github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

type authGateway struct {
	api *backend.Client
}

// NewAuthGateway creates the backend sign-in gateway
func NewAuthGateway(api *backend.Client) domainRepo.AuthGateway {
	return &authGateway{api: api}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (g *authGateway) AdminLogin(ctx context.Context, username, password string) (*domainRepo.AdminLogin, error) {
	var resp domainRepo.AdminLogin
	if err := g.api.Post(ctx, "/api/admin/login", credentials{username, password}, &resp); err != nil {
		return nil, asCredentialError(err)
	}
	if resp.Token == "" {
		return nil, apperror.ErrInvalidCredentials
	}
	return &resp, nil
}

func (g *authGateway) AdminProfile(ctx context.Context) (*domainRepo.Admin, error) {
	var admin domainRepo.Admin
	if err := g.api.Get(ctx, "/api/admin/profile", nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (g *authGateway) CustomerLogin(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := g.api.Post(ctx, "/api/customers/login", credentials{username, password}, &resp); err != nil {
		return "", asCredentialError(err)
	}
	if resp.Token == "" {
		return "", apperror.ErrInvalidCredentials
	}
	return resp.Token, nil
}

func (g *authGateway) CustomerRegister(ctx context.Context, in *domainRepo.RegisterCustomerInput) (*entity.Customer, error) {
	var customer entity.Customer
	if err := g.api.Post(ctx, "/api/customers/register", in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (g *authGateway) CustomerProfile(ctx context.Context) (*entity.Customer, error) {
	var customer entity.Customer
	if err := g.api.Get(ctx, "/api/customers/profile", nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// asCredentialError folds backend auth rejections into the console's
// credential error.
func asCredentialError(err error) error {
	switch apperror.GetAppError(err).Code {
	case 401, 403:
		return apperror.ErrInvalidCredentials
	}
	return err
}
