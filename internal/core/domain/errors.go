package domain

import "errors"

// Sentinel errors shared by the ports and their adapters. The storage layer
// translates driver errors (no rows, duplicate key, foreign key) into these;
// services and handlers match with errors.Is.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrDuplicateUser     = errors.New("username or email already taken")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)
