// Package notify publishes purchase events for the order-confirmation
// mailer. Sinks are best effort: callers log failures and move on.
package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stylish/internal/server/models"
)

// PurchaseEvent is the payload the order-confirmation mailer consumes.
type PurchaseEvent struct {
	OrderID         string            `json:"orderId"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerName    string            `json:"customerName"`
	Products        []models.LineItem `json:"products"`
	TotalAmount     float64           `json:"totalAmount"`
	ShippingAddress *string           `json:"shippingAddress"`
	Sender          string            `json:"sender,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// NewPurchaseEvent builds the event for a persisted purchase made by identity.
func NewPurchaseEvent(p *models.Purchase, identity models.Identity, sender string) PurchaseEvent {
	return PurchaseEvent{
		OrderID:         p.ID,
		CustomerEmail:   identity.Email,
		CustomerName:    identity.Name,
		Products:        p.Products,
		TotalAmount:     p.TotalAmount,
		ShippingAddress: p.ShippingAddress,
		Sender:          sender,
		CreatedAt:       p.CreatedAt,
	}
}

// Notifier delivers purchase events.
type Notifier interface {
	PurchaseRecorded(ctx context.Context, event PurchaseEvent) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) PurchaseRecorded(context.Context, PurchaseEvent) error { return nil }
func (Nop) Close() error { return nil }
