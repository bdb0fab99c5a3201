// Package store provides an interface for user, cart and address storage
// operations.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	productstore "github.com/viniduminsara/ClearLens-Backend/internal/product/store"
)

// User account roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// maxAddresses caps the address book size per user.
const MaxAddresses = 3

// User is a stored account. Password holds the bcrypt hash and is only
// populated by FindByUsername.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
}

type CreateUserParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Address is a stored delivery address owned by a single user.
type Address struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	FullName     string
	MobileNumber string
	HouseNo      string
	Street       string
	City         string
	PostalCode   string
}

type AddressParams struct {
	FullName     string
	MobileNumber string
	HouseNo      string
	Street       string
	City         string
	PostalCode   string
}

// UserStore is an interface for user storage operations.
type UserStore interface {
	// CreateUser persists a new account.
	// Returns ErrDuplicateUser on a uniqueness violation.
	CreateUser(ctx context.Context, params *CreateUserParams) (*User, error)

	// FindByID retrieves an account by id, without the password hash.
	// Returns ErrUserNotFound if no user exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername retrieves an account by username including the
	// password hash. Returns ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll returns accounts, newest first.
	FindAll(ctx context.Context, offset, limit int32) (*[]User, error)

	// CountAll returns the total number of accounts.
	CountAll(ctx context.Context) (int64, error)

	// CountByRole counts accounts holding the given role.
	CountByRole(ctx context.Context, role string) (int64, error)

	// CartProducts returns the products currently in the user's cart.
	CartProducts(ctx context.Context, userID uuid.UUID) (*[]productstore.Product, error)

	// WishlistProducts returns the products currently in the user's wishlist.
	WishlistProducts(ctx context.Context, userID uuid.UUID) (*[]productstore.Product, error)

	// AddCartItem links a product to the user's cart.
	// Returns ErrProductAlreadyInCart when the link already exists.
	AddCartItem(ctx context.Context, userID, productID uuid.UUID) error

	// RemoveCartItem unlinks a product from the user's cart.
	// Returns ErrProductNotInCart when no such link exists.
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error

	// ClearCart removes every product from the user's cart.
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// AddWishlistItem links a product to the user's wishlist.
	// Returns ErrProductAlreadyInWishlist when the link already exists.
	AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) error

	// RemoveWishlistItem unlinks a product from the user's wishlist.
	// Returns ErrProductNotInWishlist when no such link exists.
	RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) error

	// FindAddressesByUser returns the user's address book.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) (*[]Address, error)

	// FindAddressByID retrieves a single address.
	// Returns ErrAddressNotFound if no address exists with the given ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// CountAddressesByUser counts the user's stored addresses.
	CountAddressesByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// CreateAddress persists a new address owned by the user.
	CreateAddress(ctx context.Context, userID uuid.UUID, params *AddressParams) (*Address, error)

	// UpdateAddress replaces an address's fields.
	// Returns ErrAddressNotFound if no address exists with the given ID.
	UpdateAddress(ctx context.Context, id uuid.UUID, params *AddressParams) (*Address, error)

	// DeleteAddress removes an address.
	// Returns ErrAddressNotFound if no address exists with the given ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error
}
