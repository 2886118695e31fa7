package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// LedgerStore persists one ledger document per user in the "ledger" table.
type LedgerStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewLedgerStore creates a LedgerStore on an open SurrealDB connection.
func NewLedgerStore(db *surrealdb.DB, logger *common.Logger) *LedgerStore {
	return &LedgerStore{
		db:     db,
		logger: logger,
	}
}

func (s *LedgerStore) Get(ctx context.Context, userID string) (*models.LedgerRecord, error) {
	record, err := surrealdb.Select[models.LedgerRecord](ctx, s.db, surrealmodels.NewRecordID("ledger", userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.NewNotFoundError("user", userID)
		}
		return nil, models.NewPersistenceError("ledger select", err)
	}
	if record == nil {
		return nil, models.NewNotFoundError("user", userID)
	}
	return record, nil
}

func (s *LedgerStore) Create(ctx context.Context, record *models.LedgerRecord) error {
	record.Version = 1
	sql := "CREATE $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("ledger", record.UserID),
		"record": record,
	}
	if _, err := surrealdb.Query[[]models.LedgerRecord](ctx, s.db, sql, vars); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("ledger for user '%s' already exists", record.UserID)
		}
		return models.NewPersistenceError("ledger create", err)
	}
	return nil
}

// Put performs a conditional write: the document is replaced only when the
// stored version still matches the version the record was loaded with, so a
// concurrent writer cannot be silently overwritten. The whole logical
// operation (sub-ledger append + balance adjustment) lands as one write.
func (s *LedgerStore) Put(ctx context.Context, record *models.LedgerRecord) error {
	expected := record.Version
	record.Version = expected + 1
	record.UpdatedAt = time.Now().UTC()

	sql := "UPDATE $rid CONTENT $record WHERE version = $expected RETURN AFTER"
	vars := map[string]any{
		"rid":      surrealmodels.NewRecordID("ledger", record.UserID),
		"record":   record,
		"expected": expected,
	}

	results, err := surrealdb.Query[[]models.LedgerRecord](ctx, s.db, sql, vars)
	if err != nil {
		record.Version = expected
		return models.NewPersistenceError("ledger update", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		record.Version = expected
		return models.ErrVersionConflict
	}
	return nil
}

func (s *LedgerStore) Delete(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.LedgerRecord](ctx, s.db, surrealmodels.NewRecordID("ledger", userID))
	if err != nil && !isNotFoundError(err) {
		return models.NewPersistenceError("ledger delete", err)
	}
	return nil
}

func (s *LedgerStore) ListUsers(ctx context.Context) ([]string, error) {
	sql := "SELECT user_id FROM ledger"
	results, err := surrealdb.Query[[]models.LedgerRecord](ctx, s.db, sql, nil)
	if err != nil {
		return nil, models.NewPersistenceError("ledger list", err)
	}

	var ids []string
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

func (s *LedgerStore) Close() error {
	return nil
}

// isNotFoundError detects SurrealDB "no such record" responses.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// Compile-time check
var _ interfaces.LedgerStore = (*LedgerStore)(nil)
