package service

import (
	"context"
	"fmt"
	"log"

	"github.com/credfacil/backoffice-api/internal/domain/entity"
	"github.com/credfacil/backoffice-api/pkg/email"
)

// Notification event names
const (
	EventInstallmentSelfReported = "installment_self_reported"
	EventSaleCreated             = "sale_created"
	EventSaleCanceled            = "sale_canceled"
)

// Event is a back-office notification emitted by the services
type Event struct {
	Name    string
	StoreID string
	Subject string
	Title   string
	Lines   []string
}

// Notifier delivers back-office events. Delivery failures must never
// fail the business operation that emitted the event.
type Notifier interface {
	Notify(ctx context.Context, store *entity.Store, event Event)
}

// NoopNotifier discards every event
type NoopNotifier struct{}

// Notify implements Notifier
func (NoopNotifier) Notify(ctx context.Context, store *entity.Store, event Event) {}

// EmailNotifier delivers events to the store's notification address over SMTP
type EmailNotifier struct {
	mailer *email.EmailService
}

// NewEmailNotifier creates an email-backed notifier
func NewEmailNotifier(mailer *email.EmailService) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

// Notify sends the event by email when the store opted in. Errors are
// logged and swallowed.
func (n *EmailNotifier) Notify(ctx context.Context, store *entity.Store, event Event) {
	if store == nil || !store.Settings.EmailNotifications || store.Settings.NotifyEmail == "" {
		return
	}
	if err := n.mailer.SendNotification(store.Settings.NotifyEmail, event.Subject, event.Title, event.Lines); err != nil {
		log.Printf("notification %s for store %s failed: %v", event.Name, store.ID, err)
	}
}

// saleEventLines formats the common body of sale events
func saleEventLines(sale *entity.Sale) []string {
	lines := []string{
		fmt.Sprintf("Sale %s", sale.ID),
	}
	if sale.Customer.Name != "" {
		lines = append(lines, fmt.Sprintf("Customer: %s", sale.Customer.Name))
	}
	lines = append(lines, fmt.Sprintf("Total: R$ %s", sale.Total().StringFixed(2)))
	return lines
}
