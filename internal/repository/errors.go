package repository

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartExists      = errors.New("cart already exists for user")
	ErrVersionConflict = errors.New("cart was modified concurrently")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrOrderNotFound   = errors.New("order not found")
)
