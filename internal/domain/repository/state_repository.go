package repository

import (
	"context"
	"errors"
)

// ErrStateNotFound is returned by Get for a missing key.
var ErrStateNotFound = errors.New("state key not found")

// Durable client-side keys.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyTheme    = "theme"
)

// StateRepository is durable key-value storage that survives restarts
type StateRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
