// Package rest provides HTTP handlers for account, cart, wishlist and
// address book operations.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	producterrors "github.com/viniduminsara/ClearLens-Backend/internal/product/errors"
	usererrors "github.com/viniduminsara/ClearLens-Backend/internal/user/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/user/service"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

type Handler struct {
	service  service.UserService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new instance of the user API with the provided service.
func NewHandler(service service.UserService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "user_rest"),
	}
}

// RegisterPublicRoutes registers the routes reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)
	})
}

// RegisterRoutes registers the account routes. The router is expected to run
// the Authenticate middleware already.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/users", func(r chi.Router) {
		r.With(adminOnly).Get("/", h.FindAllUsers)
		r.Get("/me", h.Profile)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/{productId}", h.AddCartItem)
			r.Delete("/{productId}", h.RemoveCartItem)
		})
		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/{productId}", h.AddWishlistItem)
			r.Delete("/{productId}", h.RemoveWishlistItem)
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.FindAddresses)
			r.Post("/", h.CreateAddress)
			r.Put("/{id}", h.UpdateAddress)
			r.Delete("/{id}", h.DeleteAddress)
		})
	})
}

// Signup registers a new USER-role account.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.SignupDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	token, err := h.service.Signup(r.Context(), dto)
	if err != nil {
		if errors.Is(err, usererrors.ErrDuplicateUser) {
			web.RespondError(w, mLogger, http.StatusConflict, "Username or email already in use")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating user", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create user")
		return
	}
	mLogger.InfoContext(r.Context(), "User signed up", slog.String("ID", token.User.ID.String()))
	web.Respond(w, mLogger, http.StatusCreated, "User created successfully", token)
}

// Signin authenticates by username and password.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.SigninDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	token, err := h.service.Signin(r.Context(), dto)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) || errors.Is(err, usererrors.ErrInvalidCredentials) {
			mLogger.WarnContext(r.Context(), "Failed sign in attempt", "username", dto.Username)
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error signing in", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Signed in successfully", token)
}

// Profile returns the caller's account with cart and wishlist populated.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}

	profile, err := h.service.RetrieveUserByID(r.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			web.RespondError(w, mLogger, http.StatusNotFound, "User not found")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving profile", "userID", principal.ID, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "User retrieved successfully", profile)
}

// FindAllUsers returns a page of accounts.
func (h *Handler) FindAllUsers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	page, limit := web.ParsePageParams(r)

	list, err := h.service.RetrieveUsers(r.Context(), page, limit)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving user list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Users retrieved successfully", list)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	h.linkOp(w, r, h.service.AddCartItem, "Product added to cart")
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.linkOp(w, r, h.service.RemoveCartItem, "Product removed from cart")
}

func (h *Handler) AddWishlistItem(w http.ResponseWriter, r *http.Request) {
	h.linkOp(w, r, h.service.AddWishlistItem, "Product added to wishlist")
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	h.linkOp(w, r, h.service.RemoveWishlistItem, "Product removed from wishlist")
}

// FindAddresses returns the caller's address book.
func (h *Handler) FindAddresses(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}

	addresses, err := h.service.RetrieveUserAddresses(r.Context(), principal.ID)
	if err != nil {
		h.respondAddressError(w, r, mLogger, err)
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Addresses retrieved successfully", addresses)
}

// CreateAddress adds an address to the caller's book.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}

	var dto service.AddressCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	addresses, err := h.service.CreateUserAddress(r.Context(), principal.ID, dto)
	if err != nil {
		h.respondAddressError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Address created", "userID", principal.ID)
	web.Respond(w, mLogger, http.StatusCreated, "Address created successfully", addresses)
}

// UpdateAddress replaces one of the caller's addresses.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	var dto service.AddressCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, dto) {
		return
	}

	addresses, err := h.service.UpdateUserAddress(r.Context(), principal.ID, id, dto)
	if err != nil {
		h.respondAddressError(w, r, mLogger, err)
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Address updated successfully", addresses)
}

// DeleteAddress removes one of the caller's addresses.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	addresses, err := h.service.DeleteUserAddress(r.Context(), principal.ID, id)
	if err != nil {
		h.respondAddressError(w, r, mLogger, err)
		return
	}
	web.Respond(w, mLogger, http.StatusOK, "Address deleted successfully", addresses)
}

type linkFunc func(ctx context.Context, userID, productID uuid.UUID) (*service.UserDto, error)

// linkOp parses the product id, runs a cart or wishlist mutation and writes
// the refreshed profile.
func (h *Handler) linkOp(w http.ResponseWriter, r *http.Request, op linkFunc, message string) {
	mLogger := h.loggerWithReqID(r)
	principal, ok := web.GetPrincipal(w, r, mLogger)
	if !ok {
		return
	}
	productID, ok := web.ParsePathID(w, r, mLogger, "productId")
	if !ok {
		return
	}

	profile, err := op(r.Context(), principal.ID, productID)
	if err != nil {
		switch {
		case errors.Is(err, usererrors.ErrUserNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, "User not found")
		case errors.Is(err, producterrors.ErrProductNotFound):
			web.RespondError(w, mLogger, http.StatusNotFound, "Product not found")
		case errors.Is(err, usererrors.ErrProductAlreadyInCart),
			errors.Is(err, usererrors.ErrProductAlreadyInWishlist):
			web.RespondError(w, mLogger, http.StatusConflict, err.Error())
		case errors.Is(err, usererrors.ErrProductNotInCart),
			errors.Is(err, usererrors.ErrProductNotInWishlist):
			web.RespondError(w, mLogger, http.StatusNotFound, err.Error())
		default:
			mLogger.ErrorContext(r.Context(), "Cart operation failed", "userID", principal.ID, "productID", productID, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to update cart")
		}
		return
	}
	web.Respond(w, mLogger, http.StatusOK, message, profile)
}

// respondAddressError maps address book sentinels onto HTTP statuses.
func (h *Handler) respondAddressError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch {
	case errors.Is(err, usererrors.ErrUserNotFound):
		web.RespondError(w, mLogger, http.StatusNotFound, "User not found")
	case errors.Is(err, usererrors.ErrAddressNotFound):
		web.RespondError(w, mLogger, http.StatusNotFound, "Address not found")
	case errors.Is(err, usererrors.ErrAddressLimit):
		web.RespondError(w, mLogger, http.StatusBadRequest, "You can only save up to 3 addresses")
	case errors.Is(err, usererrors.ErrAddressAccessDenied):
		web.RespondError(w, mLogger, http.StatusUnauthorized, "Address does not belong to the user")
	default:
		mLogger.ErrorContext(r.Context(), "Address operation failed", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to process address")
	}
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
