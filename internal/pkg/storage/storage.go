package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is durable key/value storage. Every Set fully overwrites the previous value.
type Storage interface {
	// Get returns the stored bytes or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key
	Set(ctx context.Context, key string, value []byte) error
}

// Well-known keys.
const (
	KeyEmployees = "employees"
	KeyViewMode  = "viewMode"
)
