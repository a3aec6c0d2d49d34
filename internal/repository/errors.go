package repository

import "errors"

// Common errors that can be returned by the repositories
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrPostNotFound      = errors.New("post not found")
)
