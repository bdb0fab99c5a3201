// Package rest provides HTTP handlers for order lifecycle operations.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	ordererrors "github.com/viniduminsara/ClearLens-Backend/internal/order/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/order/service"
	usererrors "github.com/viniduminsara/ClearLens-Backend/internal/user/errors"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

type Handler struct {
	service  service.OrderService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the order API with the provided service.
func NewHandler(service service.OrderService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "order_rest"),
	}
}

// RegisterRoutes registers the order routes. The router is expected to run
// the Authenticate middleware already.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/init", h.InitializeOrder)
		r.Patch("/complete", h.CompletePayment)
		r.Get("/user", h.FindUserOrders)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.FindAllOrders)
			r.Patch("/{id}/status", h.UpdateStatus)
		})

		r.Get("/{id}", h.FindByID)
	})
}

// InitializeOrder creates a PROCESS/PENDING order for the caller and returns
// the payment session.
func (h *Handler) InitializeOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}

	var dto service.OrderCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to initialize order", "userID", principal.ID)
	session, err := h.service.InitializeNewOrder(r.Context(), principal.ID, dto)
	if err != nil {
		switch {
		case errors.Is(err, usererrors.ErrUserNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, "User not found")
		case errors.Is(err, usererrors.ErrAddressNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, "Address not found")
		case errors.Is(err, ordererrors.ErrDuplicateOrder):
			web.RespondError(w, mLogger, http.StatusConflict, "Order already exists")
		default:
			mLogger.ErrorContext(r.Context(), "Error initializing order", "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to initialize order")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Order initialized successfully", slog.String("ID", session.Order.ID.String()))
	web.Respond(w, mLogger, http.StatusCreated, "Order created successfully", session)
}

// CompletePayment records the payment processor's verdict for an order.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if _, ok := web.GetPrincipal(w, r, mLogger); !ok {
		return
	}

	var dto service.CompletePaymentDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to complete payment", "orderID", dto.OrderID, "status", dto.PaymentStatus)
	profile, err := h.service.CompleteOrderPayment(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, ordererrors.ErrOrderNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", dto.OrderID))
		case errors.Is(err, ordererrors.ErrPaymentMismatch):
			mLogger.WarnContext(r.Context(), "Payment hash mismatch", "orderID", dto.OrderID)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Payment verification failed")
		case errors.Is(err, ordererrors.ErrInvalidPaymentStatus):
			web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid payment status")
		default:
			mLogger.ErrorContext(r.Context(), "Error completing payment", "orderID", dto.OrderID, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to complete payment")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Payment completed", slog.String("ID", dto.OrderID.String()), "status", dto.PaymentStatus)
	web.Respond(w, mLogger, http.StatusOK, "Payment completed successfully", profile)
}

// UpdateStatus sets an order's fulfillment status from the `orderStatus`
// query parameter.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	status := r.URL.Query().Get("orderStatus")

	mLogger.DebugContext(r.Context(), "Received request to update order status", "ID", id, "status", status)
	updated, err := h.service.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		switch {
		case errors.Is(err, ordererrors.ErrInvalidStatus):
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Invalid order status: %s", status))
		case errors.Is(err, ordererrors.ErrOrderNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", id))
		default:
			mLogger.ErrorContext(r.Context(), "Error updating order status", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update order status")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Order status updated", slog.String("ID", id.String()), "status", status)
	web.Respond(w, mLogger, http.StatusOK, "Order status updated successfully", updated)
}

// FindByID retrieves an order with its line items.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.RetrieveOrderByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ordererrors.ErrOrderNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving order", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve order with ID %s", id))
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Order retrieved successfully", found)
}

// FindAllOrders returns a page of orders across all users.
func (h *Handler) FindAllOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, limit := web.ParsePageParams(r)

	list, err := h.service.RetrieveAllOrders(r.Context(), page, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving order list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Orders retrieved successfully", list)
}

// FindUserOrders returns a page of the caller's SUCCESS-paid orders.
func (h *Handler) FindUserOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}
	page, limit := web.ParsePageParams(r)

	list, err := h.service.RetrieveUserOrders(r.Context(), principal.ID, page, limit)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, "User not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving user orders", "userID", principal.ID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Orders retrieved successfully", list)
}

// validateStruct runs the request DTO through the validator and writes the
// field errors on failure.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dto any) bool {
	if err := h.validate.Struct(dto); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Validation failed: %v", errorResponse))
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
