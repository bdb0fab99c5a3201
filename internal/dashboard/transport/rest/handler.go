// Package rest provides the HTTP handler for the admin dashboard.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/viniduminsara/ClearLens-Backend/internal/dashboard/service"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

type Handler struct {
	service service.DashboardService
	logger  *slog.Logger
}

// NewHandler creates a new instance of the dashboard API with the provided service.
func NewHandler(service service.DashboardService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "dashboard_rest"),
	}
}

// RegisterRoutes registers the dashboard route. The router is expected to
// run Authenticate and the admin gate already.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.GetDashboard)
}

// GetDashboard returns the storefront aggregates for the admin dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	data, err := h.service.GetDashboardData(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error assembling dashboard", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Dashboard data retrieved successfully", data)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
