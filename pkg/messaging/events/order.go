// Package events holds the order lifecycle events published to JetStream.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging"
)

// OrderCreatedEvent is published after an order has been persisted and its
// payment hash computed.
type OrderCreatedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (o OrderCreatedEvent) Subject() string {
	return messaging.OrderCreatedSubject
}

func (o OrderCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}

// OrderPaidEvent is published when an order's payment status transitions to
// SUCCESS.
type OrderPaidEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	Amount  float64   `json:"amount"`
	PaidAt  time.Time `json:"paid_at"`
}

func (o OrderPaidEvent) Subject() string {
	return messaging.OrderPaidSubject
}

func (o OrderPaidEvent) Payload() ([]byte, error) {
	return json.Marshal(o)
}
