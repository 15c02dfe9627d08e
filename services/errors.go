package services

import "errors"

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrStorageUnavailable = errors.New("attachment storage is not configured")
)
