// Package interfaces defines service contracts for FinVoice
package interfaces

import (
	"context"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	LedgerStore() LedgerStore

	// Lifecycle
	Close() error
}

// LedgerStore persists one LedgerRecord document per user.
//
// Put is a conditional write: it succeeds only when the stored document still
// carries the version the record was loaded with, and increments the version
// on success. A lost race surfaces as models.ErrVersionConflict so callers
// can retry the whole load-compute-store sequence. This keeps each logical
// ledger operation visible as a single persisted write.
type LedgerStore interface {
	Get(ctx context.Context, userID string) (*models.LedgerRecord, error)
	Create(ctx context.Context, record *models.LedgerRecord) error
	Put(ctx context.Context, record *models.LedgerRecord) error
	Delete(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)
	Close() error
}
