// Package app contains the application setup for the storefront.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/viniduminsara/ClearLens-Backend/internal/config"
	dashboardservice "github.com/viniduminsara/ClearLens-Backend/internal/dashboard/service"
	dashboardrest "github.com/viniduminsara/ClearLens-Backend/internal/dashboard/transport/rest"
	orderservice "github.com/viniduminsara/ClearLens-Backend/internal/order/service"
	orderstore "github.com/viniduminsara/ClearLens-Backend/internal/order/store"
	orderrest "github.com/viniduminsara/ClearLens-Backend/internal/order/transport/rest"
	"github.com/viniduminsara/ClearLens-Backend/internal/payment"
	productservice "github.com/viniduminsara/ClearLens-Backend/internal/product/service"
	productstore "github.com/viniduminsara/ClearLens-Backend/internal/product/store"
	productrest "github.com/viniduminsara/ClearLens-Backend/internal/product/transport/rest"
	userservice "github.com/viniduminsara/ClearLens-Backend/internal/user/service"
	userstore "github.com/viniduminsara/ClearLens-Backend/internal/user/store"
	userrest "github.com/viniduminsara/ClearLens-Backend/internal/user/transport/rest"
	"github.com/viniduminsara/ClearLens-Backend/pkg/auth"
	"github.com/viniduminsara/ClearLens-Backend/pkg/messaging"
	"github.com/viniduminsara/ClearLens-Backend/pkg/server"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
)

type Dependencies struct {
	UserService      userservice.UserService
	ProductService   productservice.ProductService
	OrderService     orderservice.OrderService
	DashboardService dashboardservice.DashboardService
	Tokens           *auth.TokenIssuer
	Logger           *slog.Logger
}

// SetupDependencies wires the stores, services and the token issuer.
func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		return nil, err
	}
	hasher, err := payment.NewHasher(cfg.Merchant)
	if err != nil {
		return nil, err
	}

	userStore := userstore.NewPgStore(dbPool)
	productStore := productstore.NewPgStore(dbPool)
	orderStore := orderstore.NewPgStore(dbPool)

	users := userservice.NewService(userStore, productStore, tokens)
	products := productservice.NewService(productStore)
	orders := orderservice.NewService(orderStore, users, products, hasher, publisher)
	dashboard := dashboardservice.NewService(orderStore, userStore)

	return &Dependencies{
		UserService:      users,
		ProductService:   products,
		OrderService:     orders,
		DashboardService: dashboard,
		Tokens:           tokens,
		Logger:           logger,
	}, nil
}

// SetupHttpHandler initializes the router and routes for the storefront.
// Used by handler tests to stand up the full HTTP surface.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	userHandler := userrest.NewHandler(deps.UserService, deps.Logger)
	productHandler := productrest.NewHandler(deps.ProductService, deps.Logger)
	orderHandler := orderrest.NewHandler(deps.OrderService, deps.Logger)
	dashboardHandler := dashboardrest.NewHandler(deps.DashboardService, deps.Logger)

	authenticate := web.Authenticate(deps.Tokens, deps.Logger)
	adminOnly := web.RequireAdmin(deps.Logger)

	mux.Route("/api", func(r chi.Router) {
		userHandler.RegisterPublicRoutes(r)
		productHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			userHandler.RegisterRoutes(r, adminOnly)
			orderHandler.RegisterRoutes(r, adminOnly)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				productHandler.RegisterAdminRoutes(r)
				dashboardHandler.RegisterRoutes(r)
			})
		})
	})
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// SetupHttpServer creates and configures the HTTP server for the storefront.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
