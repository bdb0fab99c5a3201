package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	ordererrors "github.com/viniduminsara/ClearLens-Backend/internal/order/errors"
)

// uniqueViolation is the Postgres error code for a unique constraint failure.
const uniqueViolation = "23505"

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of OrderStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const orderColumns = `id, date, amount, status, payment_status, user_id, address_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Date, &o.Amount, &o.Status, &o.PaymentStatus, &o.UserID, &o.AddressID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (p *PgStore) CreateOrder(ctx context.Context, params *CreateOrderParams, items *[]CreateOrderItemParams) (*Order, *[]OrderItem, error) {
	var createdOrder *Order
	var createdItems *[]OrderItem

	txErr := p.withTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO orders (date, amount, status, payment_status, user_id, address_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+orderColumns,
			params.Date, params.Amount, params.Status, params.PaymentStatus, params.UserID, params.AddressID,
		)
		order, err := scanOrder(row)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ordererrors.ErrDuplicateOrder
			}
			return ordererrors.ErrCreateOrder
		}

		orderItems := make([]OrderItem, 0, len(*items))
		for _, item := range *items {
			var created OrderItem
			err := tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, name, image, price, new_price, qty)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id, order_id, product_id, name, image, price, new_price, qty`,
				order.ID, item.ProductID, item.Name, item.Image, item.Price, item.NewPrice, item.Qty,
			).Scan(&created.ID, &created.OrderID, &created.ProductID, &created.Name, &created.Image, &created.Price, &created.NewPrice, &created.Qty)
			if err != nil {
				return ordererrors.ErrCreateOrderItem
			}
			orderItems = append(orderItems, created)
		}
		createdOrder = order
		createdItems = &orderItems
		return nil
	})

	if txErr != nil {
		return nil, nil, txErr
	}

	return createdOrder, createdItems, nil
}

func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Order, *[]OrderItem, error) {
	order, err := scanOrder(p.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ordererrors.ErrOrderNotFound
		}
		return nil, nil, ordererrors.ErrFailedToFindOrder
	}

	items, err := p.findItems(ctx, id)
	if err != nil {
		return nil, nil, ordererrors.ErrFailedToFindOrderItems
	}
	return order, items, nil
}

func (p *PgStore) findItems(ctx context.Context, orderID uuid.UUID) (*[]OrderItem, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id, order_id, product_id, name, image, price, new_price, qty
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Image, &it.Price, &it.NewPrice, &it.Qty); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return &items, rows.Err()
}

func (p *PgStore) FindAll(ctx context.Context, offset, limit int32) (*[]Order, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		ORDER BY date DESC
		OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	return collectOrders(rows)
}

func (p *PgStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, ordererrors.ErrFailedToFindOrders
	}
	return count, nil
}

func (p *PgStore) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int32) (*[]Order, error) {
	rows, err := p.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = $1 AND payment_status = $2
		ORDER BY date DESC
		OFFSET $3 LIMIT $4`, userID, PaymentSuccess, offset, limit)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	return collectOrders(rows)
}

func (p *PgStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE user_id = $1 AND payment_status = $2`, userID, PaymentSuccess).Scan(&count)
	if err != nil {
		return 0, ordererrors.ErrFailedToFindOrders
	}
	return count, nil
}

func (p *PgStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (*Order, error) {
	row := p.db.QueryRow(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, paymentStatus)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, ordererrors.ErrUpdateOrder
	}
	return order, nil
}

func (p *PgStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error) {
	row := p.db.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ordererrors.ErrOrderNotFound
		}
		return nil, ordererrors.ErrUpdateOrder
	}
	return order, nil
}

func (p *PgStore) SumSuccessAmount(ctx context.Context) (float64, error) {
	var total float64
	err := p.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM orders
		WHERE payment_status = $1`, PaymentSuccess).Scan(&total)
	if err != nil {
		return 0, ordererrors.ErrFailedToFindOrders
	}
	return total, nil
}

func (p *PgStore) SumSuccessAmountByMonth(ctx context.Context, from time.Time) ([]MonthlySales, error) {
	rows, err := p.db.Query(ctx, `
		SELECT date_trunc('month', date) AS month, SUM(amount) AS total
		FROM orders
		WHERE payment_status = $1 AND date >= $2
		GROUP BY 1
		ORDER BY 1`, PaymentSuccess, from)
	if err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	defer rows.Close()

	sales := make([]MonthlySales, 0)
	for rows.Next() {
		var m MonthlySales
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, ordererrors.ErrFailedToFindOrders
		}
		sales = append(sales, m)
	}
	if err := rows.Err(); err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	return sales, nil
}

func (p *PgStore) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, ordererrors.ErrFailedToFindOrders
	}
	return count, nil
}

func collectOrders(rows pgx.Rows) (*[]Order, error) {
	defer rows.Close()
	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Date, &o.Amount, &o.Status, &o.PaymentStatus, &o.UserID, &o.AddressID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, ordererrors.ErrFailedToFindOrders
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, ordererrors.ErrFailedToFindOrders
	}
	return &orders, nil
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return ordererrors.ErrTransactionBegin
	}

	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return ordererrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ordererrors.ErrTransactionCommit
	}

	return nil
}
