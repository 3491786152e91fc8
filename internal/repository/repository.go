// Package repository is the only reader and writer of persisted users,
// contacts, properties and property images.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"makemystay/internal/metrics"
	apperrors "makemystay/pkg/errors"
)

// Option configures a repository.
type Option func(*base)

// WithClock replaces the time source used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		b.now = now
	}
}

type base struct {
	db  *gorm.DB
	now func() time.Time
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// read runs a query outside a transaction.
func (b *base) read(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	start := time.Now()
	err := fn(b.db.WithContext(ctx))
	metrics.RecordDBQuery(op, time.Since(start), err)
	return translate(op, err)
}

// transaction runs fn in a single transaction. Any error rolls the whole
// transaction back. Errors that are not already classified surface as
// DatabaseError.
func (b *base) transaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := b.db.WithContext(ctx).Transaction(fn)
	metrics.RecordDBQuery(op, time.Since(start), err)
	return translate(op, err)
}

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	log.Printf("[DB] %s failed: %v", op, err)
	return apperrors.Database("Database operation failed", fmt.Errorf("%s: %w", op, err))
}

// notFound maps gorm.ErrRecordNotFound to a NotFound error for resource.
func notFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, id)
	}
	return err
}

func nullNotAllowed(field string) error {
	return apperrors.Validation(fmt.Sprintf("%s cannot be null", field))
}
