package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Caller-facing error kinds. Everything a service returns wraps exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
)

const defaultStoreTimeout = 5 * time.Second

func validationErr(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: timed out waiting for the store: %w", ErrStorage, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// isKnown reports whether err already carries a caller-facing kind.
func isKnown(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStorage)
}

func withStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}
