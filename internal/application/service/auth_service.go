package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/infrastructure/backend"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/sealer"
	"github.com/pahanabooks/console-api/pkg/utils"
)

// AuthService handles sign-in and console sessions
type AuthService struct {
	gateway     repository.AuthGateway
	sessionRepo repository.SessionRepository
	sealer      *sealer.Sealer
	jwtManager  *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	gateway repository.AuthGateway,
	sessionRepo repository.SessionRepository,
	sealer *sealer.Sealer,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		gateway:     gateway,
		sessionRepo: sessionRepo,
		sealer:      sealer,
		jwtManager:  jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Session     *entity.Session
	AccessToken string
	ExpiresAt   time.Time
	Admin       *repository.Admin
	Customer    *entity.Customer
}

// AdminLogin signs an operator in against the backend and opens a session
func (s *AuthService) AdminLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if err := validateCredentials(input); err != nil {
		return nil, err
	}

	login, err := s.gateway.AdminLogin(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	name := login.Admin.Name
	if name == "" {
		name = input.Username
	}
	session := &entity.Session{
		Subject:     input.Username,
		Role:        entity.RoleAdmin,
		DisplayName: name,
	}
	out, err := s.open(ctx, session, login.Token)
	if err != nil {
		return nil, err
	}
	out.Admin = &login.Admin
	return out, nil
}

// CustomerLogin signs a storefront customer in and opens a session
func (s *AuthService) CustomerLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if err := validateCredentials(input); err != nil {
		return nil, err
	}

	token, err := s.gateway.CustomerLogin(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		Subject:     input.Username,
		Role:        entity.RoleCustomer,
		DisplayName: input.Username,
	}

	// The profile only enriches the session; sign-in succeeds without it.
	customer, err := s.gateway.CustomerProfile(backend.WithToken(ctx, token))
	if err != nil {
		log.Printf("[auth] profile lookup for %s failed: %v", input.Username, err)
		customer = nil
	}
	if customer != nil {
		session.DisplayName = customer.DisplayName()
		session.AccountNumber = customer.AccountNumber
		session.ProfilePhoto = customer.ProfilePhoto
	}

	out, err := s.open(ctx, session, token)
	if err != nil {
		return nil, err
	}
	out.Customer = customer
	return out, nil
}

// Register creates a storefront customer account
func (s *AuthService) Register(ctx context.Context, input *repository.RegisterCustomerInput) (*entity.Customer, error) {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.Username) == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "Username is required"})
	}
	if len(input.Password) < 6 {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if strings.TrimSpace(input.Email) == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}
	return s.gateway.CustomerRegister(ctx, input)
}

// Authenticate resolves a console access token to its principal
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*Principal, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		return nil, apperror.ErrSessionExpired
	}

	token, err := s.sealer.Open(session.SealedToken)
	if err != nil {
		log.Printf("[auth] session %s token could not be opened: %v", session.ID, err)
		return nil, apperror.ErrSessionExpired
	}

	return &Principal{
		SessionID:     session.ID,
		Username:      session.Subject,
		Role:          session.Role,
		DisplayName:   session.DisplayName,
		AccountNumber: session.AccountNumber,
		Token:         string(token),
	}, nil
}

// Logout ends a session
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// ProfileOutput is the signed-in account as the backend reports it
type ProfileOutput struct {
	Role         string            `json:"role"`
	DisplayName  string            `json:"display_name"`
	ProfilePhoto string            `json:"profile_photo,omitempty"`
	Admin        *repository.Admin `json:"admin,omitempty"`
	Customer     *entity.Customer  `json:"customer,omitempty"`
	Cached       bool              `json:"cached"`
}

// Profile fetches the caller's profile and caches the photo on the session.
// When the backend is unreachable the cached session data is returned.
func (s *AuthService) Profile(ctx context.Context, p *Principal) (*ProfileOutput, error) {
	session, err := s.sessionRepo.GetByID(ctx, p.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrSessionExpired
	}

	out := &ProfileOutput{Role: session.Role, DisplayName: session.DisplayName, ProfilePhoto: session.ProfilePhoto}

	if p.IsAdmin() {
		admin, err := s.gateway.AdminProfile(ctx)
		if err != nil {
			return cachedProfile(out, err)
		}
		out.Admin = admin
		return out, nil
	}

	customer, err := s.gateway.CustomerProfile(ctx)
	if err != nil {
		return cachedProfile(out, err)
	}
	out.Customer = customer
	out.DisplayName = customer.DisplayName()
	if customer.ProfilePhoto != "" && customer.ProfilePhoto != session.ProfilePhoto {
		session.ProfilePhoto = customer.ProfilePhoto
		session.AccountNumber = customer.AccountNumber
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			log.Printf("[auth] caching profile photo for session %s: %v", session.ID, err)
		}
	}
	out.ProfilePhoto = session.ProfilePhoto
	return out, nil
}

// CleanupExpired removes sessions past their expiry
func (s *AuthService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *AuthService) open(ctx context.Context, session *entity.Session, backendToken string) (*LoginOutput, error) {
	sealed, err := s.sealer.Seal([]byte(backendToken))
	if err != nil {
		return nil, err
	}
	session.ID = uuid.New()
	session.SealedToken = sealed

	accessToken, expiresAt, err := s.jwtManager.GenerateAccessToken(session.ID, session.Subject, session.Role)
	if err != nil {
		return nil, err
	}
	session.ExpiresAt = expiresAt

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &LoginOutput{
		Session:     session,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func validateCredentials(input *LoginInput) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.Username) == "" {
		fields = append(fields, apperror.FieldError{Field: "username", Message: "Username is required"})
	}
	if input.Password == "" {
		fields = append(fields, apperror.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

func cachedProfile(out *ProfileOutput, err error) (*ProfileOutput, error) {
	if apperror.GetAppError(err).Code != 502 {
		return nil, err
	}
	out.Cached = true
	return out, nil
}
