package service

import (
	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// Principal is the authenticated caller of a console request
type Principal struct {
	SessionID     uuid.UUID
	Username      string
	Role          string
	DisplayName   string
	AccountNumber string
	// Token is the unsealed backend bearer token
	Token string
}

// IsAdmin reports whether the caller signed in as an operator
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == entity.RoleAdmin
}

// DraftKey identifies the caller's bill draft
func (p *Principal) DraftKey() string {
	return p.SessionID.String()
}
