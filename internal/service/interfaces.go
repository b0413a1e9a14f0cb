// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mverdeja/footfall/internal/model"
)

// TransactionSource supplies raw CSV text for the engine to load. The
// fetch may be slow or fail with a network error; the engine awaits it
// before any synchronous processing begins.
type TransactionSource interface {
	FetchCSV(ctx context.Context) (string, error)
}

// TransactionFilter defines filtering options for archive queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Storage defines the contract for the raw-transaction archive. Derived
// metrics are never persisted; only the imported rows are.
type Storage interface {
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactions(ctx context.Context) (int, error)
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
