// Package messaging defines the event contract shared by publishers and
// subscribers.
package messaging

import (
	"context"
)

// Subjects for order lifecycle events.
const (
	OrderCreatedSubject = "order.created"
	OrderPaidSubject    = "order.paid"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
