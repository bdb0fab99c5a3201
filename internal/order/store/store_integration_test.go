package store

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	ordererrors "github.com/viniduminsara/ClearLens-Backend/internal/order/errors"
)

const skipIntegrationTests = "STOREFRONT_SKIP_INTEGRATION_TESTS"

// OrderStoreSuite is a test suite for the OrderStore implementation.
type OrderStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       OrderStore
	logger      *slog.Logger
	ctx         context.Context
}

// SetupSuite starts a PostgreSQL container and applies the migrations.
func (s *OrderStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dbName := "storefront_db"
	dbUser := "user"
	dbPassword := "password"

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	for i := range 10 {
		s.logger.Info("Pinging PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	wd, _ := os.Getwd()
	migrationsPath := filepath.Join(wd, "../../../migrations")
	sourceURL := "file://" + migrationsPath
	m, err := migrate.New(sourceURL, connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	s.logger.Info("Migrations applied")

	s.store = NewPgStore(s.dbPool)
	s.logger.Info("Initialization complete for OrderStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *OrderStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

// SetupTest truncates the order and user tables before each test.
func (s *OrderStoreSuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE order_items, orders, users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")
}

// createUser inserts an account row and returns its id.
func (s *OrderStoreSuite) createUser(username string) uuid.UUID {
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx, `
		INSERT INTO users (username, email, password)
		VALUES ($1, $1 || '@example.com', 'x')
		RETURNING id`, username).Scan(&id)
	require.NoError(s.T(), err, "Failed to insert user")
	return id
}

// createOrder persists an order without items.
func (s *OrderStoreSuite) createOrder(userID uuid.UUID, date time.Time, amount float64, status, paymentStatus string) *Order {
	order, _, err := s.store.CreateOrder(s.ctx, &CreateOrderParams{
		Date:          date,
		Amount:        amount,
		Status:        status,
		PaymentStatus: paymentStatus,
		UserID:        userID,
		AddressID:     uuid.New(),
	}, &[]CreateOrderItemParams{})
	require.NoError(s.T(), err, "Failed to create order")
	return order
}

func (s *OrderStoreSuite) TestCreateOrderWithItems() {
	userID := s.createUser("buyer1")
	productID := uuid.New()

	order, items, err := s.store.CreateOrder(s.ctx, &CreateOrderParams{
		Date:          time.Now().UTC(),
		Amount:        3001,
		Status:        StatusProcess,
		PaymentStatus: PaymentPending,
		UserID:        userID,
		AddressID:     uuid.New(),
	}, &[]CreateOrderItemParams{
		{ProductID: productID, Name: "Aviator Classic", Image: "img", Price: 2000, NewPrice: 1500.5, Qty: 2},
	})

	require.NoError(s.T(), err)
	require.NotNil(s.T(), order)
	assert.NotEqual(s.T(), uuid.Nil, order.ID)
	assert.InDelta(s.T(), 3001.0, order.Amount, 1e-9)
	require.Len(s.T(), *items, 1)
	assert.Equal(s.T(), order.ID, (*items)[0].OrderID)
	assert.Equal(s.T(), "Aviator Classic", (*items)[0].Name)

	// the snapshot survives a round trip
	found, foundItems, err := s.store.FindByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), order.ID, found.ID)
	assert.Equal(s.T(), StatusProcess, found.Status)
	assert.Equal(s.T(), PaymentPending, found.PaymentStatus)
	require.Len(s.T(), *foundItems, 1)
	assert.InDelta(s.T(), 1500.5, (*foundItems)[0].NewPrice, 1e-9)
}

func (s *OrderStoreSuite) TestFindByIDNotFound() {
	_, _, err := s.store.FindByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestFindByUserFiltersAndSorts() {
	userID := s.createUser("buyer2")
	otherID := s.createUser("buyer3")
	base := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	older := s.createOrder(userID, base, 100, StatusCompleted, PaymentSuccess)
	newer := s.createOrder(userID, base.AddDate(0, 0, 5), 200, StatusProcess, PaymentSuccess)
	s.createOrder(userID, base.AddDate(0, 0, 10), 300, StatusProcess, PaymentPending)
	s.createOrder(userID, base.AddDate(0, 0, 11), 400, StatusProcess, PaymentFailed)
	s.createOrder(otherID, base, 500, StatusProcess, PaymentSuccess)

	orders, err := s.store.FindByUser(s.ctx, userID, 0, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), *orders, 2, "only SUCCESS-paid orders are visible")
	assert.Equal(s.T(), newer.ID, (*orders)[0].ID, "newest first")
	assert.Equal(s.T(), older.ID, (*orders)[1].ID)

	count, err := s.store.CountByUser(s.ctx, userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), count)
}

func (s *OrderStoreSuite) TestUpdatePaymentStatus() {
	userID := s.createUser("buyer4")
	order := s.createOrder(userID, time.Now().UTC(), 100, StatusProcess, PaymentPending)

	updated, err := s.store.UpdatePaymentStatus(s.ctx, order.ID, PaymentSuccess)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), PaymentSuccess, updated.PaymentStatus)
	assert.Equal(s.T(), StatusProcess, updated.Status, "fulfillment status untouched")

	_, err = s.store.UpdatePaymentStatus(s.ctx, uuid.New(), PaymentSuccess)
	assert.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestUpdateStatus() {
	userID := s.createUser("buyer5")
	order := s.createOrder(userID, time.Now().UTC(), 100, StatusProcess, PaymentPending)

	updated, err := s.store.UpdateStatus(s.ctx, order.ID, StatusDeliver)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), StatusDeliver, updated.Status)

	_, err = s.store.UpdateStatus(s.ctx, uuid.New(), StatusDeliver)
	assert.ErrorIs(s.T(), err, ordererrors.ErrOrderNotFound)
}

func (s *OrderStoreSuite) TestSalesAggregates() {
	userID := s.createUser("buyer6")
	march := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)

	s.createOrder(userID, march, 100, StatusCompleted, PaymentSuccess)
	s.createOrder(userID, march.AddDate(0, 0, 1), 50.25, StatusCompleted, PaymentSuccess)
	s.createOrder(userID, april, 200, StatusProcess, PaymentSuccess)
	s.createOrder(userID, april, 999, StatusProcess, PaymentFailed)

	total, err := s.store.SumSuccessAmount(s.ctx)
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 350.25, total, 1e-9)

	monthly, err := s.store.SumSuccessAmountByMonth(s.ctx, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(s.T(), err)
	require.Len(s.T(), monthly, 2)
	assert.Equal(s.T(), time.March, monthly[0].Month.Month())
	assert.InDelta(s.T(), 150.25, monthly[0].Total, 1e-9)
	assert.Equal(s.T(), time.April, monthly[1].Month.Month())
	assert.InDelta(s.T(), 200.0, monthly[1].Total, 1e-9)

	completed, err := s.store.CountByStatus(s.ctx, StatusCompleted)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), completed)
}

func (s *OrderStoreSuite) TestFindAllPagination() {
	userID := s.createUser("buyer7")
	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.createOrder(userID, base.AddDate(0, 0, i), float64(100*(i+1)), StatusProcess, PaymentPending)
	}

	firstPage, err := s.store.FindAll(s.ctx, 0, 2)
	require.NoError(s.T(), err)
	require.Len(s.T(), *firstPage, 2)
	assert.True(s.T(), (*firstPage)[0].Date.After((*firstPage)[1].Date))

	total, err := s.store.CountAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
}

// TestOrderStoreIntegration runs the OrderStore integration tests.
func TestOrderStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(OrderStoreSuite))
}
