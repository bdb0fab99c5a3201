// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrDuplicateProduct = errors.New("a product with the same name already exists")

var ErrCreateProduct = errors.New("failed to create product")
var ErrUpdateProduct = errors.New("failed to update product")
var ErrDeleteProduct = errors.New("failed to delete product")
var ErrFailedToFindProducts = errors.New("failed to find products")
