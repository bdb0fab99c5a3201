// Package service provides the implementation of order lifecycle business
// logic: checkout initialization, payment completion and fulfillment updates.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	ordererrors "github.com/viniduminsara/ClearLens-Backend/internal/order/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/order/store"
	"github.com/viniduminsara/ClearLens-Backend/internal/payment"
	productservice "github.com/viniduminsara/ClearLens-Backend/internal/product/service"
	userservice "github.com/viniduminsara/ClearLens-Backend/internal/user/service"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging/events"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// UserAccessor is the slice of the user service the order lifecycle needs:
// existence checks for the buyer and delivery address, and the cart clear
// that follows a successful payment.
type UserAccessor interface {
	RetrieveUserByID(ctx context.Context, id uuid.UUID) (*userservice.UserDto, error)
	RetrieveAddressByID(ctx context.Context, id uuid.UUID) (*userservice.AddressDto, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*userservice.UserDto, error)
}

// CatalogAccessor resolves line items against the current catalog. Snapshots
// taken at checkout come from here, never from the client payload.
type CatalogAccessor interface {
	RetrieveProductByID(ctx context.Context, id uuid.UUID) (*productservice.ProductDto, error)
}

// OrderService defines the methods for managing the order lifecycle.
type OrderService interface {
	// InitializeNewOrder persists a PROCESS/PENDING order for the user and
	// returns it together with the payment session the checkout widget needs.
	InitializeNewOrder(ctx context.Context, userID uuid.UUID, dto OrderCreateDto) (*PaymentSessionDto, error)

	// CompleteOrderPayment records the processor's verdict. A SUCCESS verdict
	// must carry an integrity hash matching the stored amount; on SUCCESS the
	// buyer's cart is cleared and the refreshed profile returned. Non-SUCCESS
	// verdicts update the order and return no profile.
	CompleteOrderPayment(ctx context.Context, dto CompletePaymentDto) (*userservice.UserDto, error)

	// UpdateOrderStatus sets the fulfillment status of an order.
	// Returns ErrOrderNotFound if no order exists with the given ID.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDto, error)

	// RetrieveOrderByID retrieves a single order with its line items.
	RetrieveOrderByID(ctx context.Context, id uuid.UUID) (*OrderDto, error)

	// RetrieveAllOrders returns a page of orders across all users, newest first.
	RetrieveAllOrders(ctx context.Context, page, limit int32) (*web.Page[OrderDto], error)

	// RetrieveUserOrders returns a page of the user's SUCCESS-paid orders,
	// newest first. Pending and failed attempts are excluded.
	RetrieveUserOrders(ctx context.Context, userID uuid.UUID, page, limit int32) (*web.Page[OrderDto], error)
}

// Service implements OrderService.
type Service struct {
	orderStore   store.OrderStore
	users        UserAccessor
	catalog      CatalogAccessor
	hasher       *payment.Hasher
	publisher    messaging.Publisher
	createdCount metric.Int64Counter
	paidCount    metric.Int64Counter
}

// NewService creates a new instance of OrderService.
func NewService(orderStore store.OrderStore, users UserAccessor, catalog CatalogAccessor, hasher *payment.Hasher, publisher messaging.Publisher) *Service {
	meter := otel.Meter("order-service")
	createdCount, err := meter.Int64Counter("orders_created", metric.WithDescription("Total number of created orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_created counter: %v", err))
	}
	paidCount, err := meter.Int64Counter("orders_paid", metric.WithDescription("Total number of successfully paid orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_paid counter: %v", err))
	}
	return &Service{
		orderStore:   orderStore,
		users:        users,
		catalog:      catalog,
		hasher:       hasher,
		publisher:    publisher,
		createdCount: createdCount,
		paidCount:    paidCount,
	}
}

// OrderDto represents the data transfer object for an order.
type OrderDto struct {
	ID            uuid.UUID      `json:"id"`
	Date          string         `json:"date"`
	Amount        float64        `json:"amount"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"paymentStatus"`
	UserID        uuid.UUID      `json:"userId"`
	AddressID     uuid.UUID      `json:"addressId"`
	Items         []OrderItemDto `json:"orderItems,omitempty"`
	CreatedAt     string         `json:"created_at"`
}

// OrderItemDto is a line item snapshot as taken at checkout time.
type OrderItemDto struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	NewPrice  float64   `json:"newPrice"`
	Qty       int32     `json:"qty"`
}

// OrderCreateDto represents the data transfer object for initializing a new
// order. Only product references and quantities are trusted; names, images
// and prices are re-resolved against the catalog.
type OrderCreateDto struct {
	AddressID uuid.UUID            `json:"addressId" validate:"required"`
	Items     []OrderItemCreateDto `json:"orderItems" validate:"required,gt=0,dive"`
}

type OrderItemCreateDto struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Qty       int32     `json:"qty" validate:"required,min=1"`
}

// CompletePaymentDto represents the processor callback recording a payment
// verdict. Hash is required for a SUCCESS verdict.
type CompletePaymentDto struct {
	OrderID       uuid.UUID `json:"orderId" validate:"required"`
	PaymentStatus string    `json:"paymentStatus" validate:"required,oneof=PENDING SUCCESS FAILED"`
	Hash          string    `json:"hash"`
}

// PaymentSessionDto is everything the payment widget needs to start a
// checkout for a freshly created order.
type PaymentSessionDto struct {
	Order      OrderDto `json:"order"`
	MerchantID string   `json:"merchantId"`
	Amount     string   `json:"amount"`
	Currency   string   `json:"currency"`
	Hash       string   `json:"hash"`
}

// InitializeNewOrder resolves the draft against the catalog, persists a
// PROCESS/PENDING order and returns the payment session for it.
func (s *Service) InitializeNewOrder(ctx context.Context, userID uuid.UUID, dto OrderCreateDto) (*PaymentSessionDto, error) {
	if _, err := s.users.RetrieveUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.RetrieveAddressByID(ctx, dto.AddressID); err != nil {
		return nil, err
	}

	var amount float64
	items := make([]store.CreateOrderItemParams, 0, len(dto.Items))
	for _, item := range dto.Items {
		product, err := s.catalog.RetrieveProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, store.CreateOrderItemParams{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			NewPrice:  product.NewPrice,
			Qty:       item.Qty,
		})
		amount += unitPrice(product) * float64(item.Qty)
	}

	order, created, err := s.orderStore.CreateOrder(ctx, &store.CreateOrderParams{
		Date:          time.Now().UTC(),
		Amount:        amount,
		Status:        store.StatusProcess,
		PaymentStatus: store.PaymentPending,
		UserID:        userID,
		AddressID:     dto.AddressID,
	}, &items)
	if err != nil {
		return nil, err
	}

	event := events.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Amount:    order.Amount,
		CreatedAt: order.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish OrderCreatedEvent", "error", err)
	}
	s.createdCount.Add(ctx, 1)

	return &PaymentSessionDto{
		Order:      *toDto(order, created),
		MerchantID: s.hasher.MerchantID(),
		Amount:     payment.FormatAmount(order.Amount),
		Currency:   payment.Currency(),
		Hash:       s.hasher.Hash(order.ID.String(), order.Amount),
	}, nil
}

// CompleteOrderPayment verifies and records the payment verdict.
func (s *Service) CompleteOrderPayment(ctx context.Context, dto CompletePaymentDto) (*userservice.UserDto, error) {
	if !store.ValidPaymentStatus(dto.PaymentStatus) {
		return nil, ordererrors.ErrInvalidPaymentStatus
	}

	order, _, err := s.orderStore.FindByID(ctx, dto.OrderID)
	if err != nil {
		return nil, err
	}

	if dto.PaymentStatus == store.PaymentSuccess {
		// The hash binds the verdict to the stored amount; a mismatch means
		// the callback was forged or the amount was tampered with in flight.
		if dto.Hash != s.hasher.Hash(order.ID.String(), order.Amount) {
			return nil, ordererrors.ErrPaymentMismatch
		}
	}

	updated, err := s.orderStore.UpdatePaymentStatus(ctx, dto.OrderID, dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	if dto.PaymentStatus != store.PaymentSuccess {
		return nil, nil
	}

	event := events.OrderPaidEvent{
		OrderID: updated.ID,
		UserID:  updated.UserID,
		Amount:  updated.Amount,
		PaidAt:  updated.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish OrderPaidEvent", "error", err)
	}
	s.paidCount.Add(ctx, 1)

	// The payment status is already committed; a cart failure here surfaces
	// to the caller without rolling the order back.
	return s.users.ClearCart(ctx, updated.UserID)
}

// UpdateOrderStatus sets the fulfillment status and returns the updated order.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDto, error) {
	if !store.ValidStatus(status) {
		return nil, ordererrors.ErrInvalidStatus
	}
	updated, err := s.orderStore.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	return toDto(updated, nil), nil
}

// RetrieveOrderByID retrieves an order by its ID and returns it as an OrderDto.
func (s *Service) RetrieveOrderByID(ctx context.Context, id uuid.UUID) (*OrderDto, error) {
	order, items, err := s.orderStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDto(order, items), nil
}

// RetrieveAllOrders retrieves a page of orders across all users.
func (s *Service) RetrieveAllOrders(ctx context.Context, page, limit int32) (*web.Page[OrderDto], error) {
	orders, err := s.orderStore.FindAll(ctx, web.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.orderStore.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return pageOf(orders, total, page, limit), nil
}

// RetrieveUserOrders retrieves a page of the user's SUCCESS-paid orders.
func (s *Service) RetrieveUserOrders(ctx context.Context, userID uuid.UUID, page, limit int32) (*web.Page[OrderDto], error) {
	if _, err := s.users.RetrieveUserByID(ctx, userID); err != nil {
		return nil, err
	}
	orders, err := s.orderStore.FindByUser(ctx, userID, web.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.orderStore.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return pageOf(orders, total, page, limit), nil
}

// unitPrice is the effective catalog price for one unit. A discounted price
// wins when present.
func unitPrice(p *productservice.ProductDto) float64 {
	if p.NewPrice > 0 {
		return p.NewPrice
	}
	return p.Price
}

func pageOf(orders *[]store.Order, total int64, page, limit int32) *web.Page[OrderDto] {
	dtos := make([]OrderDto, len(*orders))
	for i, o := range *orders {
		dtos[i] = *toDto(&o, nil)
	}
	result := web.NewPage(dtos, total, page, limit)
	return &result
}

// toDto converts a store.Order to an OrderDto.
func toDto(order *store.Order, items *[]store.OrderItem) *OrderDto {
	if order == nil {
		return nil
	}

	var itemsDto []OrderItemDto
	if items != nil {
		itemsDto = make([]OrderItemDto, 0, len(*items))
		for _, item := range *items {
			itemsDto = append(itemsDto, OrderItemDto{
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Price:     item.Price,
				NewPrice:  item.NewPrice,
				Qty:       item.Qty,
			})
		}
	}

	return &OrderDto{
		ID:            order.ID,
		Date:          order.Date.Format(time.RFC3339),
		Amount:        order.Amount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		UserID:        order.UserID,
		AddressID:     order.AddressID,
		Items:         itemsDto,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}
