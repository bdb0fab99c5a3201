// Package errors provides custom error types for order-related operations.
package errors

import "errors"

var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("an order with the same identity already exists")

var ErrCreateOrder = errors.New("failed to create order")
var ErrCreateOrderItem = errors.New("failed to create order item")
var ErrUpdateOrder = errors.New("failed to update order")

var ErrFailedToFindOrder = errors.New("failed to find order")
var ErrFailedToFindOrders = errors.New("failed to find orders")
var ErrFailedToFindOrderItems = errors.New("failed to find order items")

// ErrPaymentMismatch means the integrity hash presented on payment
// completion does not match the hash computed over the stored amount.
var ErrPaymentMismatch = errors.New("payment hash does not match the order amount")

var ErrInvalidStatus = errors.New("invalid order status")
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
