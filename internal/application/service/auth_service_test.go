package service

import (
	"context"
	"testing"
	"time"

	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/sealer"
	"github.com/pahanabooks/console-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, gw *mockAuthGateway) (*AuthService, *memSessions) {
	t.Helper()
	s, err := sealer.New("test-seal-key")
	require.NoError(t, err)
	sessions := newMemSessions()
	return NewAuthService(gw, sessions, s, utils.NewJWTManager("test-secret", time.Hour)), sessions
}

func TestAuthService_AdminLoginAndAuthenticate(t *testing.T) {
	gw := &mockAuthGateway{adminLoginFn: func(ctx context.Context, username, password string) (*repository.AdminLogin, error) {
		if password != "secret" {
			return nil, apperror.ErrInvalidCredentials
		}
		return &repository.AdminLogin{Token: "backend-token", Admin: repository.Admin{Username: username, Name: "Shop Admin"}}, nil
	}}
	svc, sessions := newAuthService(t, gw)
	ctx := context.Background()

	_, err := svc.AdminLogin(ctx, &LoginInput{Username: "admin", Password: "wrong"})
	require.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	out, err := svc.AdminLogin(ctx, &LoginInput{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, "Shop Admin", out.Session.DisplayName)

	stored, err := sessions.GetByID(ctx, out.Session.ID)
	require.NoError(t, err)
	assert.NotContains(t, string(stored.SealedToken), "backend-token")

	p, err := svc.Authenticate(ctx, out.AccessToken)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.Equal(t, "backend-token", p.Token)

	require.NoError(t, svc.Logout(ctx, p.SessionID))
	_, err = svc.Authenticate(ctx, out.AccessToken)
	require.ErrorIs(t, err, apperror.ErrSessionExpired)
}

func TestAuthService_LoginValidation(t *testing.T) {
	svc, _ := newAuthService(t, &mockAuthGateway{})

	_, err := svc.AdminLogin(context.Background(), &LoginInput{})
	require.Error(t, err)
	assert.Len(t, apperror.GetAppError(err).Errors, 2)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t, &mockAuthGateway{})
	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestAuthService_CustomerLoginEnrichesSession(t *testing.T) {
	gw := &mockAuthGateway{
		customerLoginFn: func(ctx context.Context, username, password string) (string, error) {
			return "cust-token", nil
		},
		customerProfileFn: func(ctx context.Context) (*entity.Customer, error) {
			assert.Equal(t, "cust-token", backend.TokenFrom(ctx))
			return &entity.Customer{Name: "Nimal Perera", AccountNumber: "ACC001", ProfilePhoto: "data:image/png;base64,AA=="}, nil
		},
	}
	svc, _ := newAuthService(t, gw)

	out, err := svc.CustomerLogin(context.Background(), &LoginInput{Username: "nimal", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Nimal Perera", out.Session.DisplayName)
	assert.Equal(t, "ACC001", out.Session.AccountNumber)
	assert.Equal(t, entity.RoleCustomer, out.Session.Role)
}

func TestAuthService_ProfileFallsBackToSession(t *testing.T) {
	gw := &mockAuthGateway{
		customerLoginFn: func(ctx context.Context, username, password string) (string, error) {
			return "cust-token", nil
		},
		customerProfileFn: func(ctx context.Context) (*entity.Customer, error) {
			if backend.TokenFrom(ctx) == "cust-token" {
				return &entity.Customer{Name: "Nimal", ProfilePhoto: "photo-1"}, nil
			}
			return nil, apperror.ErrBackendUnavailable
		},
	}
	svc, _ := newAuthService(t, gw)
	ctx := context.Background()

	out, err := svc.CustomerLogin(ctx, &LoginInput{Username: "nimal", Password: "pw"})
	require.NoError(t, err)
	p, err := svc.Authenticate(ctx, out.AccessToken)
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, p)
	require.NoError(t, err)
	assert.True(t, profile.Cached)
	assert.Equal(t, "photo-1", profile.ProfilePhoto)
}

func TestAuthService_Register(t *testing.T) {
	gw := &mockAuthGateway{customerRegisterFn: func(ctx context.Context, in *repository.RegisterCustomerInput) (*entity.Customer, error) {
		return &entity.Customer{ID: "c9", Username: in.Username, Email: in.Email}, nil
	}}
	svc, _ := newAuthService(t, gw)

	_, err := svc.Register(context.Background(), &repository.RegisterCustomerInput{Username: "x", Password: "123"})
	require.Error(t, err)

	c, err := svc.Register(context.Background(), &repository.RegisterCustomerInput{Username: "kamal", Password: "123456", Email: "k@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "c9", c.ID)
}
