package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	producterrors "github.com/viniduminsara/ClearLens-Backend/internal/product/errors"
)

const uniqueViolation = "23505"

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

const productColumns = `id, name, description, brand, category, gender, weight, quantity, image, rating, price, new_price, trending, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Gender, &p.Weight,
		&p.Quantity, &p.Image, &p.Rating, &p.Price, &p.NewPrice, &p.Trending, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, producterrors.ErrProductNotFound
		}
		return nil, producterrors.ErrFailedToFindProducts
	}
	return product, nil
}

func (s *PgStore) FindAll(ctx context.Context, offset, limit int32) (*[]Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, producterrors.ErrFailedToFindProducts
	}
	return collectProducts(rows)
}

func (s *PgStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, producterrors.ErrFailedToFindProducts
	}
	return count, nil
}

func (s *PgStore) FindTrending(ctx context.Context, limit int32) (*[]Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE trending
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, producterrors.ErrFailedToFindProducts
	}
	return collectProducts(rows)
}

func (s *PgStore) Create(ctx context.Context, params *CreateProductParams) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO products (name, description, brand, category, gender, weight, quantity, image, rating, price, new_price, trending)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+productColumns,
		params.Name, params.Description, params.Brand, params.Category, params.Gender, params.Weight,
		params.Quantity, params.Image, params.Rating, params.Price, params.NewPrice, params.Trending,
	)
	product, err := scanProduct(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, producterrors.ErrDuplicateProduct
		}
		return nil, producterrors.ErrCreateProduct
	}
	return product, nil
}

func (s *PgStore) Update(ctx context.Context, params *UpdateProductParams) (*Product, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, brand = $4, category = $5, gender = $6, weight = $7,
		    quantity = $8, image = $9, rating = $10, price = $11, new_price = $12, trending = $13,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		params.ID, params.Name, params.Description, params.Brand, params.Category, params.Gender, params.Weight,
		params.Quantity, params.Image, params.Rating, params.Price, params.NewPrice, params.Trending,
	)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, producterrors.ErrProductNotFound
		}
		return nil, producterrors.ErrUpdateProduct
	}
	return product, nil
}

func (s *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return producterrors.ErrDeleteProduct
	}
	if tag.RowsAffected() == 0 {
		return producterrors.ErrProductNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) (*[]Product, error) {
	defer rows.Close()
	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Gender, &p.Weight,
			&p.Quantity, &p.Image, &p.Rating, &p.Price, &p.NewPrice, &p.Trending, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, producterrors.ErrFailedToFindProducts
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, producterrors.ErrFailedToFindProducts
	}
	return &products, nil
}
