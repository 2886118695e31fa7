package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// LedgerService is the transaction recorder: it validates a payload, appends
// to the appropriate sub-ledger and the unified transaction log, and adjusts
// the running balance — all persisted as one write. Every mutating method
// returns the full updated ledger.
type LedgerService interface {
	CreateLedger(ctx context.Context, userID string) (*models.LedgerRecord, error)
	GetLedger(ctx context.Context, userID string) (*models.LedgerRecord, error)

	RecordIncome(ctx context.Context, userID string, amount decimal.Decimal, reason string) (*models.LedgerRecord, error)
	RecordExpense(ctx context.Context, userID, title string, amount decimal.Decimal, category string) (*models.LedgerRecord, error)
	RecordSaving(ctx context.Context, userID string, amount decimal.Decimal) (*models.LedgerRecord, error)
	RecordInvestmentMark(ctx context.Context, userID string, value decimal.Decimal) (*models.LedgerRecord, error)
	RecordTransaction(ctx context.Context, userID string, input models.TransactionInput) (*models.LedgerRecord, error)

	// UpdateTransaction and DeleteTransaction rederive the running balance
	// from the remaining transaction log after the change. The reference is
	// a transaction id, or a zero-based log index when it parses as an
	// integer.
	UpdateTransaction(ctx context.Context, userID, ref string, patch models.TransactionPatch) (*models.LedgerRecord, error)
	DeleteTransaction(ctx context.Context, userID, ref string) (*models.LedgerRecord, error)

	// ReapplyLastIncome adds the most recent income amount to the balance
	// again (the update-balance endpoint's historical behavior).
	ReapplyLastIncome(ctx context.Context, userID string) (*models.LedgerRecord, error)
}

// GoalService manages goal entries within a ledger.
type GoalService interface {
	CreateGoal(ctx context.Context, userID string, input models.GoalInput) (*models.LedgerRecord, *models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, patch models.GoalPatch) (*models.LedgerRecord, *models.Goal, error)
	ToggleGoalCompletion(ctx context.Context, userID, goalID string) (*models.LedgerRecord, *models.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID string) (*models.LedgerRecord, error)
}

// BudgetService manages budget entries within a ledger.
type BudgetService interface {
	CreateBudget(ctx context.Context, userID, category string, limit decimal.Decimal) (*models.LedgerRecord, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) (*models.LedgerRecord, error)
}

// AnalyticsService derives dashboard metrics from a ledger. Read-only; never
// persists.
type AnalyticsService interface {
	Summary(ctx context.Context, userID string) (*models.AnalyticsSummary, error)
}

// AdvisoryClient is the boundary to the external voice/AI advisory service.
// The ledger core never calls it; its parsed intents re-enter through the
// generic transaction path.
type AdvisoryClient interface {
	Ask(ctx context.Context, userID, text string) (responseText, transcribedText string, err error)
}
