package packages

import "errors"

var (
	ErrNotFound  = errors.New("package not found")
	ErrInvalidID = errors.New("invalid package id")
)
