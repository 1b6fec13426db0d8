package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrLoginRequired      = errors.New("login required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIngredient  = errors.New("ingredient name is required")
)
