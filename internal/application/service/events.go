package service

import (
	"log"
	"time"

	"github.com/pahanabooks/console-api/pkg/eventbus"
	"github.com/pahanabooks/console-api/pkg/utils"
)

// Event topics published on the console bus
const (
	TopicBillGenerated    = "bills.generated"
	TopicBillSaved        = "bills.saved"
	TopicBillDeleted      = "bills.deleted"
	TopicBooksUpdated     = "books.updated"
	TopicOrdersUpdated    = "orders.updated"
	TopicCustomersUpdated = "customers.updated"
	TopicReportsRefreshed = "reports.refreshed"
	TopicNotification     = "notifications"
)

// Notification levels
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notification is a transient, auto-dismissing message for console clients
type Notification struct {
	ID             string    `json:"id"`
	Level          string    `json:"level"`
	Message        string    `json:"message"`
	DismissAfterMs int64     `json:"dismiss_after_ms"`
	At             time.Time `json:"at"`
}

// Notifier publishes notifications on the bus. Delivery is best effort.
type Notifier struct {
	bus          *eventbus.Bus
	defaultTTL   time.Duration
	importantTTL time.Duration
}

// NewNotifier creates a notifier with the given dismiss timeouts
func NewNotifier(bus *eventbus.Bus, defaultTTL, importantTTL time.Duration) *Notifier {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Second
	}
	if importantTTL <= 0 {
		importantTTL = 20 * time.Second
	}
	return &Notifier{bus: bus, defaultTTL: defaultTTL, importantTTL: importantTTL}
}

// Notify publishes a notification and returns it
func (n *Notifier) Notify(level, message string, important bool) Notification {
	ttl := n.defaultTTL
	if important {
		ttl = n.importantTTL
	}
	note := Notification{
		ID:             utils.ShortID("N"),
		Level:          level,
		Message:        message,
		DismissAfterMs: ttl.Milliseconds(),
		At:             time.Now().UTC(),
	}
	if n.bus != nil {
		n.bus.Publish(TopicNotification, note)
	}
	return note
}

// Failure reports an error as a notification, logging it with a component prefix
func (n *Notifier) Failure(component string, err error) {
	log.Printf("[%s] %v", component, err)
	n.Notify(LevelError, err.Error(), false)
}

// publish sends a domain event if a bus is configured
func publish(bus *eventbus.Bus, topic string, payload interface{}) {
	if bus == nil {
		return
	}
	bus.Publish(topic, payload)
}
