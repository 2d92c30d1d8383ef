package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/entity"
	"github.com/pahanabooks/console-api/internal/presentation/http/middleware"
	"github.com/pahanabooks/console-api/pkg/apperror"
	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth map[string]*service.Principal

func (a tokenAuth) Authenticate(_ context.Context, token string) (*service.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, apperror.ErrInvalidToken
}

// newEventServer serves the stream over a real listener since gin's
// Stream needs a writer that supports CloseNotify.
func newEventServer(t *testing.T, bus *eventbus.Bus) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := tokenAuth{
		"admin":    {SessionID: uuid.New(), Role: entity.RoleAdmin},
		"customer": {SessionID: uuid.New(), Role: entity.RoleCustomer},
	}
	r := gin.New()
	r.GET("/events", middleware.AuthMiddleware(auth), NewEventHandler(bus).Stream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func openStream(t *testing.T, ctx context.Context, srv *httptest.Server, token, topics string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?topics="+topics, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp
}

func waitForSubscribers(t *testing.T, bus *eventbus.Bus, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return bus.Subscribers() == n }, 2*time.Second, 5*time.Millisecond)
}

// nextEvent returns the name of the next SSE event on the stream
func nextEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event:"); ok {
			return name
		}
	}
}

func TestEventStreamRestrictsCustomerTopics(t *testing.T) {
	bus := eventbus.New(8)
	srv := newEventServer(t, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A customer asking for bill events still only gets storefront topics
	resp := openStream(t, ctx, srv, "customer", "bills.*")
	defer resp.Body.Close()
	waitForSubscribers(t, bus, 1)

	assert.Equal(t, 0, bus.Publish("bills.generated", map[string]string{"bill": "B1"}))
	assert.Equal(t, 1, bus.Publish("books.updated", map[string]string{"book": "BK1"}))

	assert.Equal(t, "books.updated", nextEvent(t, bufio.NewReader(resp.Body)))
}

func TestEventStreamAdminTopics(t *testing.T) {
	bus := eventbus.New(8)
	srv := newEventServer(t, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := openStream(t, ctx, srv, "admin", "bills.*")
	defer resp.Body.Close()
	waitForSubscribers(t, bus, 1)

	assert.Equal(t, 0, bus.Publish("books.updated", nil))
	assert.Equal(t, 1, bus.Publish("bills.generated", map[string]string{"bill": "B1"}))

	assert.Equal(t, "bills.generated", nextEvent(t, bufio.NewReader(resp.Body)))
}

func TestEventStreamEndsOnDisconnect(t *testing.T) {
	bus := eventbus.New(8)
	srv := newEventServer(t, bus)

	ctx, cancel := context.WithCancel(context.Background())
	resp := openStream(t, ctx, srv, "customer", "")
	waitForSubscribers(t, bus, 1)

	cancel()
	resp.Body.Close()

	waitForSubscribers(t, bus, 0)
}

func TestEventStreamRequiresAuth(t *testing.T) {
	srv := newEventServer(t, eventbus.New(8))

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
