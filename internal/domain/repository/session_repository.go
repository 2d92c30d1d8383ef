package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
)

// SessionRepository persists console sessions
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	// TouchOrderCheck records when the session last looked for order updates
	TouchOrderCheck(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
