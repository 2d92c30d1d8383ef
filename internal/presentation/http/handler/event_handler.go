package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/pkg/eventbus"
)

const keepAliveInterval = 25 * time.Second

// customerTopics are the topics a storefront customer may follow
var customerTopics = []string{"books.*", "orders.*"}

// EventHandler streams bus events to console clients as server-sent events
type EventHandler struct {
	bus *eventbus.Bus
}

// NewEventHandler creates a new event handler
func NewEventHandler(bus *eventbus.Bus) *EventHandler {
	return &EventHandler{bus: bus}
}

// Stream subscribes to the requested topics (comma separated, ".*"
// wildcards allowed) until the client disconnects. Events that arrive while
// the client is slow are dropped.
func (h *EventHandler) Stream(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	topics := splitTopics(c.Query("topics"))
	if !p.IsAdmin() {
		topics = customerTopics
	}

	sub := h.bus.Subscribe(topics...)
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Content-Type", "text/event-stream")

	// Send headers now so the client sees the stream open before any event
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, open := <-sub.C():
			if !open {
				return false
			}
			c.SSEvent(ev.Topic, ev)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}

func splitTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
