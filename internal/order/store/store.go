// Package store provides an interface for order storage operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Fulfillment status wire values.
const (
	StatusProcess   = "PROCESS"
	StatusDeliver   = "DELIVER"
	StatusCompleted = "COMPLETED"
)

// Payment status wire values.
const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

// ValidStatus reports whether s is a known fulfillment status.
func ValidStatus(s string) bool {
	return s == StatusProcess || s == StatusDeliver || s == StatusCompleted
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentSuccess || s == PaymentFailed
}

// Order is the persisted purchase record. Amount and Date never change after
// creation; Status and PaymentStatus are mutated through dedicated updates.
type Order struct {
	ID            uuid.UUID
	Date          time.Time
	Amount        float64
	Status        string
	PaymentStatus string
	UserID        uuid.UUID
	AddressID     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is a denormalized product snapshot owned by exactly one order.
// Later catalog edits or deletions never touch these rows.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Image     string
	Price     float64
	NewPrice  float64
	Qty       int32
}

type CreateOrderParams struct {
	Date          time.Time
	Amount        float64
	Status        string
	PaymentStatus string
	UserID        uuid.UUID
	AddressID     uuid.UUID
}

type CreateOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Image     string
	Price     float64
	NewPrice  float64
	Qty       int32
}

// MonthlySales is one month's SUCCESS-paid revenue, keyed by the first day
// of the month.
type MonthlySales struct {
	Month time.Time
	Total float64
}

// OrderStore is an interface for order storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type OrderStore interface {
	// CreateOrder persists a new order together with its item snapshots in
	// one transaction. Returns ErrDuplicateOrder on a uniqueness violation.
	CreateOrder(ctx context.Context, params *CreateOrderParams, items *[]CreateOrderItemParams) (*Order, *[]OrderItem, error)

	// FindByID retrieves a single order and its items by the order id.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, *[]OrderItem, error)

	// FindAll returns orders across all users, newest first.
	FindAll(ctx context.Context, offset, limit int32) (*[]Order, error)

	// CountAll returns the total number of orders.
	CountAll(ctx context.Context) (int64, error)

	// FindByUser returns a user's SUCCESS-paid orders, newest first.
	// Pending and failed payment attempts are excluded.
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int32) (*[]Order, error)

	// CountByUser counts a user's SUCCESS-paid orders.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// UpdatePaymentStatus sets the payment status of an order in a single
	// atomic update and returns the updated row.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (*Order, error)

	// UpdateStatus sets the fulfillment status of an order and returns the
	// updated row. Returns ErrOrderNotFound if no order exists with the given ID.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error)

	// SumSuccessAmount returns the historical sum of amounts over
	// SUCCESS-paid orders.
	SumSuccessAmount(ctx context.Context) (float64, error)

	// SumSuccessAmountByMonth groups SUCCESS-paid order amounts by calendar
	// month for orders dated at or after from, oldest month first.
	SumSuccessAmountByMonth(ctx context.Context, from time.Time) ([]MonthlySales, error)

	// CountByStatus counts orders with the given fulfillment status.
	CountByStatus(ctx context.Context, status string) (int64, error)
}
