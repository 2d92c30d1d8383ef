package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
	"github.com/pahanabooks/console-api/pkg/apperror"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	// Required rejects POST requests that carry no key
	Required bool
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// keyGate lets one request per (session, key) run at a time. Later
// requests wait for it to finish and then look up its stored response.
type keyGate struct {
	mu       sync.Mutex
	inflight map[string]chan struct{}
}

func newKeyGate() *keyGate {
	return &keyGate{inflight: make(map[string]chan struct{})}
}

// acquire blocks until the key is free or ctx ends. The returned func
// releases the key.
func (g *keyGate) acquire(ctx context.Context, key string) (func(), error) {
	for {
		g.mu.Lock()
		done, busy := g.inflight[key]
		if !busy {
			done = make(chan struct{})
			g.inflight[key] = done
			g.mu.Unlock()
			return func() {
				g.mu.Lock()
				delete(g.inflight, key)
				g.mu.Unlock()
				close(done)
			}, nil
		}
		g.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Idempotency replays the stored response when a session repeats a
// mutating request with the same key. Concurrent repeats wait for the first
// request and then replay it. Only successful responses are kept, so a
// failed bill submission can be retried under the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	gate := newKeyGate()

	return func(c *gin.Context) {
		// Only apply to POST, PUT, PATCH methods
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			if config.Required && c.Request.Method == http.MethodPost {
				response.BadRequest(c, "Idempotency-Key header is required for this request")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		sessionID := sessionIDFrom(c)
		if sessionID == uuid.Nil {
			c.Next()
			return
		}

		release, err := gate.acquire(c.Request.Context(), sessionID.String()+"/"+idempotencyKey)
		if err != nil {
			response.Error(c, apperror.NewAppError(http.StatusConflict, "A request with this Idempotency-Key is still being processed"))
			c.Abort()
			return
		}
		defer release()

		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, sessionID)
		if err != nil {
			log.Printf("[idempotency] lookup %s: %v", idempotencyKey, err)
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			SessionID:    sessionID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: c.Writer.Status(),
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			log.Printf("[idempotency] store %s: %v", idempotencyKey, err)
		}
	}
}

func sessionIDFrom(c *gin.Context) uuid.UUID {
	if p := GetPrincipal(c); p != nil {
		return p.SessionID
	}
	return uuid.Nil
}
