package service

import "errors"

// Sentinel errors returned by the services on top of the domain ones.
// Handlers match with errors.Is to pick response codes.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateRequest   = errors.New("duplicate request")
)
