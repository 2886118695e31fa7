// Package ledger implements the transaction recorder: validated appends to
// the per-user sub-ledgers and the unified transaction log, with the running
// balance adjusted in the same persisted write.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// putRetries bounds the optimistic-concurrency retry loop. Two concurrent
// writers against the same user can race; the loser reloads and reapplies.
const putRetries = 3

var oneHundred = decimal.NewFromInt(100)

// Service implements LedgerService
type Service struct {
	storage  interfaces.StorageManager
	currency string
	logger   *common.Logger
}

// NewService creates a new ledger service. currency is the default currency
// code stamped on new ledgers.
func NewService(storage interfaces.StorageManager, currency string, logger *common.Logger) *Service {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &Service{
		storage:  storage,
		currency: currency,
		logger:   logger,
	}
}

// CreateLedger creates an empty ledger for a user at account creation.
func (s *Service) CreateLedger(ctx context.Context, userID string) (*models.LedgerRecord, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId", "user id is required")
	}
	record := models.NewLedgerRecord(userID)
	record.Currency = s.currency
	if err := s.storage.LedgerStore().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create ledger: %w", err)
	}
	s.logger.Info().Str("user", userID).Msg("Ledger created")
	return record, nil
}

// GetLedger loads the full ledger for a user.
func (s *Service) GetLedger(ctx context.Context, userID string) (*models.LedgerRecord, error) {
	return s.storage.LedgerStore().Get(ctx, userID)
}

// update runs one logical operation as a load-mutate-store sequence, retrying
// the whole sequence when the conditional write loses a version race.
// Validation failures inside mutate abort before anything is persisted.
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
	return nil, models.NewPersistenceError("ledger write", lastErr)
}

// RecordIncome appends an income event, mirrors it into the transaction log,
// and increments the balance.
func (s *Service) RecordIncome(ctx context.Context, userID string, amount decimal.Decimal, reason string) (*models.LedgerRecord, error) {
	if amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount", "valid amount is required")
	}
	if reason == "" {
		reason = "Income"
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		l.MonthlyIncome = append(l.MonthlyIncome, models.IncomeEntry{
			Amount: amount,
			Reason: reason,
			Date:   now,
		})
		l.TotalBalance = l.TotalBalance.Add(amount)
		l.Transactions = append(l.Transactions, models.Transaction{
			ID:       uuid.New().String(),
			Title:    reason,
			Amount:   amount,
			Type:     models.TransactionTypeIncome,
			Category: "Income",
			Date:     now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("reason", reason).Str("amount", amount.String()).Msg("Income recorded")
	return record, nil
}

// RecordExpense appends an expense event, mirrors it into the transaction
// log, decrements the balance, and advances the matching budget's spent
// counter.
func (s *Service) RecordExpense(ctx context.Context, userID, title string, amount decimal.Decimal, category string) (*models.LedgerRecord, error) {
	if title == "" {
		return nil, models.NewValidationError("title", "title is required")
	}
	if amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount", "valid amount is required")
	}
	if category == "" {
		category = "Other"
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		l.MonthlyExpenses = append(l.MonthlyExpenses, models.ExpenseEntry{
			Title:    title,
			Amount:   amount,
			Category: category,
			Date:     now,
		})
		l.TotalBalance = l.TotalBalance.Sub(amount)
		l.Transactions = append(l.Transactions, models.Transaction{
			ID:       uuid.New().String(),
			Title:    title,
			Amount:   amount,
			Type:     models.TransactionTypeExpense,
			Category: category,
			Date:     now,
		})
		if b := l.BudgetByCategory(category); b != nil {
			b.Spent = b.Spent.Add(amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("title", title).Str("category", category).Str("amount", amount.String()).Msg("Expense recorded")
	return record, nil
}

// RecordSaving appends a savings deposit. The deposit is modeled as money
// leaving the spendable balance, so the mirrored transaction is expense-typed.
// Rate is the deposit as a percent of the most recent income (zero when no
// income exists).
func (s *Service) RecordSaving(ctx context.Context, userID string, amount decimal.Decimal) (*models.LedgerRecord, error) {
	if amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount", "valid amount is required")
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		rate := decimal.Zero
		if last := l.LastIncome(); last.Sign() > 0 {
			rate = amount.Div(last).Mul(oneHundred).Round(2)
		}
		l.Savings = append(l.Savings, models.SavingEntry{
			Amount: amount,
			Rate:   rate,
			Date:   now,
		})
		l.TotalBalance = l.TotalBalance.Sub(amount)
		l.Transactions = append(l.Transactions, models.Transaction{
			ID:          uuid.New().String(),
			Title:       "Saving Deposit",
			Amount:      amount,
			Type:        models.TransactionTypeExpense,
			Category:    "Savings",
			Description: "Amount added to savings",
			Date:        now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("amount", amount.String()).Msg("Saving recorded")
	return record, nil
}

// RecordInvestmentMark records a mark-to-market valuation. Growth is the
// percent change versus the previous mark (zero when no previous value). A
// mark is not a cash movement, so the balance is untouched.
func (s *Service) RecordInvestmentMark(ctx context.Context, userID string, value decimal.Decimal) (*models.LedgerRecord, error) {
	if value.Sign() <= 0 {
		return nil, models.NewValidationError("value", "valid investment value is required")
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		growth := decimal.Zero
		if prev := l.Investments.CurrentValue; prev.Sign() > 0 {
			growth = value.Sub(prev).Div(prev).Mul(oneHundred).Round(2)
		}
		l.Investments.CurrentValue = value
		l.Investments.Performance = append(l.Investments.Performance, models.PerformanceMark{
			Value:  value,
			Growth: growth,
			Date:   now,
		})
		l.Transactions = append(l.Transactions, models.Transaction{
			ID:          uuid.New().String(),
			Title:       "Investment Update",
			Amount:      value,
			Type:        models.TransactionTypeInvestment,
			Category:    "Investments",
			Description: fmt.Sprintf("Investment value updated to %s", value.String()),
			Date:        now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("value", value.String()).Msg("Investment mark recorded")
	return record, nil
}

// RecordTransaction appends directly to the unified log without touching the
// typed sub-ledgers. This is the generic path used when the caller (e.g. the
// voice advisory service) already knows the transaction shape.
func (s *Service) RecordTransaction(ctx context.Context, userID string, input models.TransactionInput) (*models.LedgerRecord, error) {
	if input.Title == "" {
		return nil, models.NewValidationError("title", "title is required")
	}
	if input.Amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount", "valid amount is required")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, models.NewValidationError("type", "type must be income or expense")
	}
	category := input.Category
	if category == "" {
		category = "Other"
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		now := time.Now().UTC()
		l.Transactions = append(l.Transactions, models.Transaction{
			ID:          uuid.New().String(),
			Title:       input.Title,
			Amount:      input.Amount,
			Type:        input.Type,
			Category:    category,
			RelatedGoal: input.RelatedGoal,
			Description: input.Description,
			Date:        now,
		})
		if input.Type == models.TransactionTypeIncome {
			l.TotalBalance = l.TotalBalance.Add(input.Amount)
		} else {
			l.TotalBalance = l.TotalBalance.Sub(input.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("title", input.Title).Str("type", string(input.Type)).Msg("Transaction recorded")
	return record, nil
}

// resolveTransaction finds a log entry by id, or by zero-based index when ref
// parses as an integer.
func resolveTransaction(l *models.LedgerRecord, ref string) (int, error) {
	for i := range l.Transactions {
		if l.Transactions[i].ID == ref {
			return i, nil
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 0 && idx < len(l.Transactions) {
		return idx, nil
	}
	return -1, models.NewNotFoundError("transaction", ref)
}

// UpdateTransaction mutates a log entry in place and rederives the running
// balance from the full transaction set, preserving the balance invariant.
func (s *Service) UpdateTransaction(ctx context.Context, userID, ref string, patch models.TransactionPatch) (*models.LedgerRecord, error) {
	if patch.Amount != nil && patch.Amount.Sign() <= 0 {
		return nil, models.NewValidationError("amount", "valid amount is required")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, models.NewValidationError("type", "unknown transaction type")
	}

	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		i, err := resolveTransaction(l, ref)
		if err != nil {
			return err
		}
		tx := &l.Transactions[i]
		if patch.Title != nil {
			tx.Title = *patch.Title
		}
		if patch.Amount != nil {
			tx.Amount = *patch.Amount
		}
		if patch.Type != nil {
			tx.Type = *patch.Type
		}
		if patch.Category != nil {
			tx.Category = *patch.Category
		}
		if patch.RelatedGoal != nil {
			tx.RelatedGoal = *patch.RelatedGoal
		}
		if patch.Description != nil {
			tx.Description = *patch.Description
		}
		l.TotalBalance = l.RecomputeBalance()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("transaction", ref).Msg("Transaction updated")
	return record, nil
}

// DeleteTransaction removes a log entry and rederives the running balance
// from the remaining transaction set.
func (s *Service) DeleteTransaction(ctx context.Context, userID, ref string) (*models.LedgerRecord, error) {
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		i, err := resolveTransaction(l, ref)
		if err != nil {
			return err
		}
		l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
		l.TotalBalance = l.RecomputeBalance()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Str("transaction", ref).Msg("Transaction deleted")
	return record, nil
}

// ReapplyLastIncome adds the most recent income amount to the balance again.
// This mirrors the historical update-balance endpoint; it intentionally does
// not touch the transaction log.
func (s *Service) ReapplyLastIncome(ctx context.Context, userID string) (*models.LedgerRecord, error) {
	record, err := s.update(ctx, userID, func(l *models.LedgerRecord) error {
		l.TotalBalance = l.TotalBalance.Add(l.LastIncome())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", userID).Msg("Balance updated from last income")
	return record, nil
}
