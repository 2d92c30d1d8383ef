package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Session is a signed-in console operator or customer. The backend bearer
// token is stored sealed; only the console can open it.
type Session struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Subject          string     `gorm:"size:255;not null;index" json:"subject"`
	Role             string     `gorm:"size:32;not null" json:"role"`
	DisplayName      string     `gorm:"size:255" json:"display_name,omitempty"`
	AccountNumber    string     `gorm:"size:100" json:"account_number,omitempty"`
	SealedToken      []byte     `gorm:"not null" json:"-"`
	ProfilePhoto     string     `gorm:"type:text" json:"profile_photo,omitempty"`
	LastOrderCheckAt *time.Time `json:"last_order_check_at,omitempty"`
	ExpiresAt        time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "console_sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
