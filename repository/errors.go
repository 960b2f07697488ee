package repository

import "errors"

var (
	ErrNotFound     = errors.New("repository: record not found")
	ErrEmailTaken   = errors.New("repository: email is already registered")
	ErrInvalidInput = errors.New("repository: invalid input")
	ErrQuery        = errors.New("repository: query failed")
)
