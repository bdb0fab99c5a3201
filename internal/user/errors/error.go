// Package errors provides custom error types for user-related operations.
package errors

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateUser = errors.New("a user with the same username or email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrCreateUser = errors.New("failed to create user")
var ErrUpdateUser = errors.New("failed to update user")
var ErrFailedToFindUsers = errors.New("failed to find users")

var ErrProductAlreadyInCart = errors.New("product is already in cart")
var ErrProductNotInCart = errors.New("product is not in cart")
var ErrProductAlreadyInWishlist = errors.New("product is already in wishlist")
var ErrProductNotInWishlist = errors.New("product is not in wishlist")

var ErrAddressNotFound = errors.New("address not found")
var ErrAddressLimit = errors.New("you can only save up to 3 addresses")
var ErrAddressAccessDenied = errors.New("address does not belong to the user")
var ErrCreateAddress = errors.New("failed to create address")
var ErrUpdateAddress = errors.New("failed to update address")
var ErrDeleteAddress = errors.New("failed to delete address")
