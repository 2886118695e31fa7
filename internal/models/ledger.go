// Package models defines data structures for FinVoice
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType categorizes entries in the unified transaction log.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeInvestment TransactionType = "investment"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeInvestment:
		return true
	}
	return false
}

// GoalPriority ranks a goal relative to the user's other goals.
type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// IncomeEntry is one recorded income event.
type IncomeEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	Date   time.Time       `json:"date"`
}

// ExpenseEntry is one recorded expense event.
type ExpenseEntry struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     time.Time       `json:"date"`
}

// SavingEntry is one savings deposit. Rate is the deposit expressed as a
// percentage of the most recent income at the time of deposit.
type SavingEntry struct {
	Amount decimal.Decimal `json:"amount"`
	Rate   decimal.Decimal `json:"rate"`
	Date   time.Time       `json:"date"`
}

// PerformanceMark is one mark-to-market investment valuation. Growth is the
// percentage change versus the previous mark.
type PerformanceMark struct {
	Value  decimal.Decimal `json:"value"`
	Growth decimal.Decimal `json:"growth"`
	Date   time.Time       `json:"date"`
}

// Investments holds the current portfolio valuation and its mark history.
type Investments struct {
	CurrentValue decimal.Decimal   `json:"current_value"`
	Performance  []PerformanceMark `json:"performance"`
}

// Goal is a named savings target with derived progress.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Progress      decimal.Decimal `json:"progress"` // 0..100
	TargetDate    time.Time       `json:"target_date"`
	Category      string          `json:"category"`
	Priority      GoalPriority    `json:"priority"`
	Description   string          `json:"description,omitempty"`
	Completed     bool            `json:"completed"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Budget is a per-category spending limit with a running spent counter.
type Budget struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is one entry in the unified append-only log. Amount is always
// recorded as a positive magnitude; Type carries the sign.
type Transaction struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	RelatedGoal string          `json:"related_goal,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: income positive, expense negative, investment zero (a mark-to-market
// update is not a cash movement).
func (t Transaction) SignedAmount() decimal.Decimal {
	switch t.Type {
	case TransactionTypeIncome:
		return t.Amount
	case TransactionTypeExpense:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// LedgerRecord is the per-user financial ledger: running balance, typed
// sub-ledgers, goals, budgets, and the unified transaction log. One record
// exists per user and is persisted as a single document.
type LedgerRecord struct {
	UserID       string          `json:"user_id"`
	Currency     string          `json:"currency"`
	MainDream    string          `json:"main_dream,omitempty"`
	TotalBalance decimal.Decimal `json:"total_balance"`

	MonthlyIncome   []IncomeEntry  `json:"monthly_income"`
	MonthlyExpenses []ExpenseEntry `json:"monthly_expenses"`
	Savings         []SavingEntry  `json:"savings"`
	Investments     Investments    `json:"investments"`
	Goals           []Goal         `json:"goals"`
	Budgets         []Budget       `json:"budgets"`
	Transactions    []Transaction  `json:"transactions"`

	// Version increments on every persisted write and backs the optimistic
	// concurrency check in the ledger store.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultCurrency is used when a ledger is created without an explicit
// currency. The system does no conversion; one currency per user.
const DefaultCurrency = "INR"

// NewLedgerRecord creates an empty ledger for a user: all sub-ledgers empty,
// balance zero.
func NewLedgerRecord(userID string) *LedgerRecord {
	now := time.Now().UTC()
	return &LedgerRecord{
		UserID:          userID,
		Currency:        DefaultCurrency,
		TotalBalance:    decimal.Zero,
		MonthlyIncome:   []IncomeEntry{},
		MonthlyExpenses: []ExpenseEntry{},
		Savings:         []SavingEntry{},
		Investments:     Investments{CurrentValue: decimal.Zero, Performance: []PerformanceMark{}},
		Goals:           []Goal{},
		Budgets:         []Budget{},
		Transactions:    []Transaction{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// LastIncome returns the most recently recorded income amount, or zero if no
// income has been recorded.
func (l *LedgerRecord) LastIncome() decimal.Decimal {
	if len(l.MonthlyIncome) == 0 {
		return decimal.Zero
	}
	return l.MonthlyIncome[len(l.MonthlyIncome)-1].Amount
}

// RecomputeBalance returns the signed sum over the unified transaction log:
// income positive, expense negative, investment marks excluded.
func (l *LedgerRecord) RecomputeBalance() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.Transactions {
		total = total.Add(tx.SignedAmount())
	}
	return total
}

// GoalByID returns a pointer to the goal with the given id, or nil.
func (l *LedgerRecord) GoalByID(goalID string) *Goal {
	for i := range l.Goals {
		if l.Goals[i].ID == goalID {
			return &l.Goals[i]
		}
	}
	return nil
}

// BudgetByID returns a pointer to the budget with the given id, or nil.
func (l *LedgerRecord) BudgetByID(budgetID string) *Budget {
	for i := range l.Budgets {
		if l.Budgets[i].ID == budgetID {
			return &l.Budgets[i]
		}
	}
	return nil
}

// BudgetByCategory returns a pointer to the budget whose category matches
// (case-insensitive), or nil.
func (l *LedgerRecord) BudgetByCategory(category string) *Budget {
	for i := range l.Budgets {
		if strings.EqualFold(l.Budgets[i].Category, category) {
			return &l.Budgets[i]
		}
	}
	return nil
}

var oneHundred = decimal.NewFromInt(100)

// GoalProgress computes clamp(round(current/target*100), 0, 100), or zero
// when target is not positive.
func GoalProgress(current, target decimal.Decimal) decimal.Decimal {
	if target.Sign() <= 0 {
		return decimal.Zero
	}
	p := current.Div(target).Mul(oneHundred).Round(0)
	if p.Sign() < 0 {
		return decimal.Zero
	}
	if p.GreaterThan(oneHundred) {
		return oneHundred
	}
	return p
}
