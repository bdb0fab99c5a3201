// Package rest provides HTTP handlers for catalog operations.
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
	producterrors "github.com/viniduminsara/ClearLens-Backend/internal/product/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/product/service"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the catalog API with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "product_rest"),
	}
}

// RegisterPublicRoutes registers the read side of the catalog. Browsing
// requires no token. Routes are registered method by method so the admin
// mutations can share the same paths under a different middleware chain.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/products", h.FindAllProducts)
	r.Get("/products/trending", h.FindTrendingProducts)
	r.Get("/products/{id}", h.FindByID)
}

// RegisterAdminRoutes registers the catalog mutations. The router is
// expected to run Authenticate and the admin gate already.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/products", h.Create)
	r.Put("/products/{id}", h.Update)
	r.Delete("/products/{id}", h.Delete)
}

// FindAllProducts returns a page of the catalog.
func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, limit := web.ParsePageParams(r)

	list, err := h.service.RetrieveProducts(r.Context(), page, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Products retrieved successfully", list)
}

// FindTrendingProducts returns the trending subset of the catalog.
func (h *Handler) FindTrendingProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)

	list, err := h.service.RetrieveTrendingProducts(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving trending products", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch trending products")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Trending products retrieved successfully", list)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.RetrieveProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Product retrieved successfully", found)
}

// Create adds a product to the catalog.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	created, err := h.service.CreateNewProduct(r.Context(), dto)
	if err != nil {
		if errors.Is(err, producterrors.ErrDuplicateProduct) {
			web.RespondError(w, mLogger, http.StatusConflict, "Product already exists")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", slog.String("ID", created.ID.String()))
	web.Respond(w, mLogger, http.StatusCreated, "Product created successfully", created)
}

// Update replaces a product's catalog fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	var dto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, dto)
	if err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update product")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Product updated successfully", updated)
}

// Delete removes a product from the catalog.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, producterrors.ErrProductNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", slog.String("ID", id.String()))
	web.Respond(w, mLogger, http.StatusOK, "Product deleted successfully", nil)
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
