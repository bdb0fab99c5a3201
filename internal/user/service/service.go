// Package service provides the implementation of account, cart and address
// book business logic.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	productservice "github.com/viniduminsara/ClearLens-Backend/internal/product/service"
	productstore "github.com/viniduminsara/ClearLens-Backend/internal/product/store"
	usererrors "github.com/viniduminsara/ClearLens-Backend/internal/user/errors"
	"github.com/viniduminsara/ClearLens-Backend/internal/user/store"
	"github.com/viniduminsara/ClearLens-Backend/pkg/auth"
	"github.com/viniduminsara/ClearLens-Backend/pkg/web"
	"golang.org/x/crypto/bcrypt"
)

// UserService defines the methods for managing accounts, carts, wishlists
// and address books.
type UserService interface {
	// Signup creates a USER-role account and returns a signed token.
	// Returns ErrDuplicateUser when the username or email is taken.
	Signup(ctx context.Context, dto SignupDto) (*TokenDto, error)

	// Signin authenticates by username and password.
	// Returns ErrUserNotFound for an unknown username and
	// ErrInvalidCredentials for a wrong password.
	Signin(ctx context.Context, dto SigninDto) (*TokenDto, error)

	// RetrieveUsers returns a page of accounts.
	RetrieveUsers(ctx context.Context, page, limit int32) (*web.Page[UserDto], error)

	// RetrieveUserByID returns an account with cart and wishlist populated.
	RetrieveUserByID(ctx context.Context, id uuid.UUID) (*UserDto, error)

	// AddCartItem puts a product in the user's cart and returns the
	// updated profile.
	AddCartItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error)

	// RemoveCartItem takes a product out of the user's cart and returns
	// the updated profile.
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error)

	// ClearCart empties the user's cart and returns the updated profile.
	// Invoked by the order payment completion path.
	ClearCart(ctx context.Context, userID uuid.UUID) (*UserDto, error)

	// AddWishlistItem puts a product in the user's wishlist and returns
	// the updated profile.
	AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error)

	// RemoveWishlistItem takes a product out of the user's wishlist and
	// returns the updated profile.
	RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error)

	// RetrieveUserAddresses returns the user's address book.
	RetrieveUserAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDto, error)

	// CreateUserAddress adds an address and returns the updated book.
	// Returns ErrAddressLimit when the user already stores three.
	CreateUserAddress(ctx context.Context, userID uuid.UUID, dto AddressCreateDto) ([]AddressDto, error)

	// UpdateUserAddress replaces an owned address and returns the updated
	// book. Returns ErrAddressAccessDenied for someone else's address.
	UpdateUserAddress(ctx context.Context, userID, addressID uuid.UUID, dto AddressCreateDto) ([]AddressDto, error)

	// DeleteUserAddress removes an owned address and returns the updated
	// book. Returns ErrAddressAccessDenied for someone else's address.
	DeleteUserAddress(ctx context.Context, userID, addressID uuid.UUID) ([]AddressDto, error)

	// RetrieveAddressByID returns a single address. Used by order creation
	// to resolve the delivery address reference.
	RetrieveAddressByID(ctx context.Context, id uuid.UUID) (*AddressDto, error)
}

// Service implements UserService.
type Service struct {
	userStore    store.UserStore
	productStore productstore.ProductStore
	tokens       *auth.TokenIssuer
}

// NewService creates a new instance of UserService.
func NewService(userStore store.UserStore, productStore productstore.ProductStore, tokens *auth.TokenIssuer) *Service {
	return &Service{
		userStore:    userStore,
		productStore: productStore,
		tokens:       tokens,
	}
}

// UserDto represents the data transfer object for an account profile.
type UserDto struct {
	ID       uuid.UUID                   `json:"id"`
	Username string                      `json:"username"`
	Email    string                      `json:"email"`
	Role     string                      `json:"role"`
	Cart     []productservice.ProductDto `json:"cart"`
	Wishlist []productservice.ProductDto `json:"wishlist"`
}

// TokenDto carries a freshly issued token together with the profile.
type TokenDto struct {
	Token string  `json:"token"`
	User  UserDto `json:"user"`
}

type SignupDto struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninDto struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddressDto represents the data transfer object for a delivery address.
type AddressDto struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	MobileNumber string    `json:"mobileNumber"`
	HouseNo      string    `json:"houseNo"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	PostalCode   string    `json:"postalCode"`
}

type AddressCreateDto struct {
	FullName     string `json:"fullName" validate:"required"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
	HouseNo      string `json:"houseNo" validate:"required"`
	Street       string `json:"street" validate:"required"`
	City         string `json:"city" validate:"required"`
	PostalCode   string `json:"postalCode" validate:"required"`
}

func (s *Service) Signup(ctx context.Context, dto SignupDto) (*TokenDto, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, usererrors.ErrCreateUser
	}

	user, err := s.userStore.CreateUser(ctx, &store.CreateUserParams{
		Username: dto.Username,
		Email:    dto.Email,
		Password: string(hashed),
		Role:     store.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *Service) Signin(ctx context.Context, dto SigninDto) (*TokenDto, error) {
	user, err := s.userStore.FindByUsername(ctx, dto.Username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)); err != nil {
		return nil, usererrors.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *Service) issueToken(user *store.User) (*TokenDto, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, usererrors.ErrCreateUser
	}
	return &TokenDto{
		Token: token,
		User:  UserDto{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role, Cart: []productservice.ProductDto{}, Wishlist: []productservice.ProductDto{}},
	}, nil
}

func (s *Service) RetrieveUsers(ctx context.Context, page, limit int32) (*web.Page[UserDto], error) {
	users, err := s.userStore.FindAll(ctx, web.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.userStore.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDto, len(*users))
	for i, u := range *users {
		dtos[i] = UserDto{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role,
			Cart: []productservice.ProductDto{}, Wishlist: []productservice.ProductDto{}}
	}
	result := web.NewPage(dtos, total, page, limit)
	return &result, nil
}

func (s *Service) RetrieveUserByID(ctx context.Context, id uuid.UUID) (*UserDto, error) {
	user, err := s.userStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

// toProfile assembles a UserDto with cart and wishlist populated.
func (s *Service) toProfile(ctx context.Context, user *store.User) (*UserDto, error) {
	cart, err := s.userStore.CartProducts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	wishlist, err := s.userStore.WishlistProducts(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserDto{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Cart:     toProductDtos(cart),
		Wishlist: toProductDtos(wishlist),
	}, nil
}

func toProductDtos(products *[]productstore.Product) []productservice.ProductDto {
	dtos := make([]productservice.ProductDto, 0, len(*products))
	for _, p := range *products {
		dtos = append(dtos, productservice.ProductDto{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Brand:       p.Brand,
			Category:    p.Category,
			Gender:      p.Gender,
			Weight:      p.Weight,
			Quantity:    p.Quantity,
			Image:       p.Image,
			Rating:      p.Rating,
			Price:       p.Price,
			NewPrice:    p.NewPrice,
			Trending:    p.Trending,
		})
	}
	return dtos
}

// checkUserAndProduct verifies both referenced entities exist before a cart
// or wishlist mutation.
func (s *Service) checkUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*store.User, error) {
	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productStore.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) AddCartItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error) {
	user, err := s.checkUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.AddCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

func (s *Service) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error) {
	user, err := s.checkUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.RemoveCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

func (s *Service) ClearCart(ctx context.Context, userID uuid.UUID) (*UserDto, error) {
	user, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.ClearCart(ctx, userID); err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

func (s *Service) AddWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error) {
	user, err := s.checkUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.AddWishlistItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

func (s *Service) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (*UserDto, error) {
	user, err := s.checkUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.userStore.RemoveWishlistItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.toProfile(ctx, user)
}

func (s *Service) RetrieveUserAddresses(ctx context.Context, userID uuid.UUID) ([]AddressDto, error) {
	if _, err := s.userStore.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.addressBook(ctx, userID)
}

func (s *Service) CreateUserAddress(ctx context.Context, userID uuid.UUID, dto AddressCreateDto) ([]AddressDto, error) {
	if _, err := s.userStore.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	count, err := s.userStore.CountAddressesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= store.MaxAddresses {
		return nil, usererrors.ErrAddressLimit
	}
	if _, err := s.userStore.CreateAddress(ctx, userID, toAddressParams(dto)); err != nil {
		return nil, err
	}
	return s.addressBook(ctx, userID)
}

func (s *Service) UpdateUserAddress(ctx context.Context, userID, addressID uuid.UUID, dto AddressCreateDto) ([]AddressDto, error) {
	if err := s.checkAddressOwnership(ctx, userID, addressID); err != nil {
		return nil, err
	}
	if _, err := s.userStore.UpdateAddress(ctx, addressID, toAddressParams(dto)); err != nil {
		return nil, err
	}
	return s.addressBook(ctx, userID)
}

func (s *Service) DeleteUserAddress(ctx context.Context, userID, addressID uuid.UUID) ([]AddressDto, error) {
	if err := s.checkAddressOwnership(ctx, userID, addressID); err != nil {
		return nil, err
	}
	if err := s.userStore.DeleteAddress(ctx, addressID); err != nil {
		return nil, err
	}
	return s.addressBook(ctx, userID)
}

func (s *Service) RetrieveAddressByID(ctx context.Context, id uuid.UUID) (*AddressDto, error) {
	address, err := s.userStore.FindAddressByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toAddressDto(*address)
	return &dto, nil
}

func (s *Service) checkAddressOwnership(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.userStore.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, usererrors.ErrAddressNotFound) {
			// Hide whether the address exists from non-owners.
			return usererrors.ErrAddressAccessDenied
		}
		return err
	}
	if address.UserID != userID {
		return usererrors.ErrAddressAccessDenied
	}
	return nil
}

func (s *Service) addressBook(ctx context.Context, userID uuid.UUID) ([]AddressDto, error) {
	addresses, err := s.userStore.FindAddressesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]AddressDto, 0, len(*addresses))
	for _, a := range *addresses {
		dtos = append(dtos, toAddressDto(a))
	}
	return dtos, nil
}

func toAddressParams(dto AddressCreateDto) *store.AddressParams {
	return &store.AddressParams{
		FullName:     dto.FullName,
		MobileNumber: dto.MobileNumber,
		HouseNo:      dto.HouseNo,
		Street:       dto.Street,
		City:         dto.City,
		PostalCode:   dto.PostalCode,
	}
}

func toAddressDto(a store.Address) AddressDto {
	return AddressDto{
		ID:           a.ID,
		FullName:     a.FullName,
		MobileNumber: a.MobileNumber,
		HouseNo:      a.HouseNo,
		Street:       a.Street,
		City:         a.City,
		PostalCode:   a.PostalCode,
	}
}
