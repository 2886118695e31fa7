// Package budget manages per-category spending limits within a user's ledger.
// The spent counter is advanced by the expense path, not here.
package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// Compile-time interface check
var _ interfaces.BudgetService = (*Service)(nil)

const putRetries = 3

// Service implements BudgetService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new budget service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

func (s *Service) update(ctx context.Context, userID string, mutate func(*models.LedgerRecord) error) (*models.LedgerRecord, error) {
	var lastErr error
	for attempt := 0; attempt < putRetries; attempt++ {
		record, err := s.storage.LedgerStore().Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := mutate(record); err != nil {
			return nil, err
		}
		if err := s.storage.LedgerStore().Put(ctx, record); err != nil {
			if errors.Is(err, models.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return record, nil
	}
	return nil, models.NewPersistenceError("budget write", lastErr)
}

// CreateBudget adds a spending limit for a category. Categories are unique
// per ledger (case-insensitive); the spent counter starts at zero.
func (s *Service) CreateBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (*models.LedgerRecord, error) {
	if category == "" {
		return nil, models.NewValidationError("category", "category is required")
	}
	if limit.Sign() <= 0 {
		return nil, models.NewValidationError("limit", "valid limit is required")
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		if l.BudgetByCategory(category) != nil {
			return models.NewValidationError("category", "budget for this category already exists")
		}
		l.Budgets = append(l.Budgets, models.Budget{
			ID:        uuid.New().String(),
			Category:  category,
			Limit:     limit,
			Spent:     decimal.Zero,
			CreatedAt: time.Now().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("category", category).Str("limit", limit.String()).Msg("Budget created")
	return record, nil
}

// DeleteBudget removes a budget by id.
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID string) (*models.LedgerRecord, error) {
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		for i := range l.Budgets {
			if l.Budgets[i].ID == budgetID {
				l.Budgets = append(l.Budgets[:i], l.Budgets[i+1:]...)
				return nil
			}
		}
		return models.NewNotFoundError("budget", budgetID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("budget", budgetID).Msg("Budget deleted")
	return record, nil
}
