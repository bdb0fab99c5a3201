package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	productstore "github.com/viniduminsara/ClearLens-Backend/internal/product/store"
	usererrors "github.com/viniduminsara/ClearLens-Backend/internal/user/errors"
)

const uniqueViolation = "23505"

type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of UserStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (s *PgStore) CreateUser(ctx context.Context, params *CreateUserParams) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, role, created_at`,
		params.Username, params.Email, params.Password, params.Role,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, usererrors.ErrDuplicateUser
		}
		return nil, usererrors.ErrCreateUser
	}
	return &u, nil
}

func (s *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, role, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &u, nil
}

func (s *PgStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, username, email, password, role, created_at FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &u, nil
}

func (s *PgStore) FindAll(ctx context.Context, offset, limit int32) (*[]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, username, email, role, created_at FROM users
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, usererrors.ErrFailedToFindUsers
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &users, nil
}

func (s *PgStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, usererrors.ErrFailedToFindUsers
	}
	return count, nil
}

func (s *PgStore) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, usererrors.ErrFailedToFindUsers
	}
	return count, nil
}

func (s *PgStore) CartProducts(ctx context.Context, userID uuid.UUID) (*[]productstore.Product, error) {
	return s.linkedProducts(ctx, "cart_items", userID)
}

func (s *PgStore) WishlistProducts(ctx context.Context, userID uuid.UUID) (*[]productstore.Product, error) {
	return s.linkedProducts(ctx, "wishlist_items", userID)
}

// linkedProducts joins a link table (cart_items or wishlist_items) against
// the catalog. The table name is always one of the two fixed literals.
func (s *PgStore) linkedProducts(ctx context.Context, table string, userID uuid.UUID) (*[]productstore.Product, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.brand, p.category, p.gender, p.weight,
		       p.quantity, p.image, p.rating, p.price, p.new_price, p.trending, p.created_at, p.updated_at
		FROM `+table+` l
		JOIN products p ON p.id = l.product_id
		WHERE l.user_id = $1
		ORDER BY l.added_at`, userID)
	if err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	defer rows.Close()

	products := make([]productstore.Product, 0)
	for rows.Next() {
		var p productstore.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Gender, &p.Weight,
			&p.Quantity, &p.Image, &p.Rating, &p.Price, &p.NewPrice, &p.Trending, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, usererrors.ErrFailedToFindUsers
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &products, nil
}

func (s *PgStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.addLink(ctx, "cart_items", userID, productID, usererrors.ErrProductAlreadyInCart)
}

func (s *PgStore) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.removeLink(ctx, "cart_items", userID, productID, usererrors.ErrProductNotInCart)
}

func (s *PgStore) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return usererrors.ErrUpdateUser
	}
	return nil
}

func (s *PgStore) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.addLink(ctx, "wishlist_items", userID, productID, usererrors.ErrProductAlreadyInWishlist)
}

func (s *PgStore) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.removeLink(ctx, "wishlist_items", userID, productID, usererrors.ErrProductNotInWishlist)
}

func (s *PgStore) addLink(ctx context.Context, table string, userID, productID uuid.UUID, duplicateErr error) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO `+table+` (user_id, product_id) VALUES ($1, $2)`, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return duplicateErr
		}
		return usererrors.ErrUpdateUser
	}
	return nil
}

func (s *PgStore) removeLink(ctx context.Context, table string, userID, productID uuid.UUID, missingErr error) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM `+table+` WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return usererrors.ErrUpdateUser
	}
	if tag.RowsAffected() == 0 {
		return missingErr
	}
	return nil
}

const addressColumns = `id, user_id, full_name, mobile_number, house_no, street, city, postal_code`

func (s *PgStore) FindAddressesByUser(ctx context.Context, userID uuid.UUID) (*[]Address, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.MobileNumber, &a.HouseNo, &a.Street, &a.City, &a.PostalCode); err != nil {
			return nil, usererrors.ErrFailedToFindUsers
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &addresses, nil
}

func (s *PgStore) FindAddressByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	var a Address
	err := s.db.QueryRow(ctx, `
		SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.FullName, &a.MobileNumber, &a.HouseNo, &a.Street, &a.City, &a.PostalCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usererrors.ErrAddressNotFound
		}
		return nil, usererrors.ErrFailedToFindUsers
	}
	return &a, nil
}

func (s *PgStore) CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, usererrors.ErrFailedToFindUsers
	}
	return count, nil
}

func (s *PgStore) CreateAddress(ctx context.Context, userID uuid.UUID, params *AddressParams) (*Address, error) {
	var a Address
	err := s.db.QueryRow(ctx, `
		INSERT INTO addresses (user_id, full_name, mobile_number, house_no, street, city, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+addressColumns,
		userID, params.FullName, params.MobileNumber, params.HouseNo, params.Street, params.City, params.PostalCode,
	).Scan(&a.ID, &a.UserID, &a.FullName, &a.MobileNumber, &a.HouseNo, &a.Street, &a.City, &a.PostalCode)
	if err != nil {
		return nil, usererrors.ErrCreateAddress
	}
	return &a, nil
}

func (s *PgStore) UpdateAddress(ctx context.Context, id uuid.UUID, params *AddressParams) (*Address, error) {
	var a Address
	err := s.db.QueryRow(ctx, `
		UPDATE addresses
		SET full_name = $2, mobile_number = $3, house_no = $4, street = $5, city = $6, postal_code = $7
		WHERE id = $1
		RETURNING `+addressColumns,
		id, params.FullName, params.MobileNumber, params.HouseNo, params.Street, params.City, params.PostalCode,
	).Scan(&a.ID, &a.UserID, &a.FullName, &a.MobileNumber, &a.HouseNo, &a.Street, &a.City, &a.PostalCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, usererrors.ErrAddressNotFound
		}
		return nil, usererrors.ErrUpdateAddress
	}
	return &a, nil
}

func (s *PgStore) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return usererrors.ErrDeleteAddress
	}
	if tag.RowsAffected() == 0 {
		return usererrors.ErrAddressNotFound
	}
	return nil
}
