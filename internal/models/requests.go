package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionInput is the payload for recording a generic transaction. Type
// must be income or expense; investment entries only enter the log through
// investment marks.
type TransactionInput struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	RelatedGoal string          `json:"relatedGoal"`
	Description string          `json:"description"`
}

// TransactionPatch updates a transaction log entry in place. Nil fields are
// left unchanged.
type TransactionPatch struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *TransactionType `json:"type"`
	Category    *string          `json:"category"`
	RelatedGoal *string          `json:"relatedGoal"`
	Description *string          `json:"description"`
}

// GoalInput is the payload for creating a goal.
type GoalInput struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetDate   *time.Time      `json:"targetDate"`
	Category     string          `json:"category"`
	Priority     GoalPriority    `json:"priority"`
	Description  string          `json:"description"`
}

// GoalPatch updates a goal. Nil fields are left unchanged; a CurrentAmount or
// TargetAmount change triggers a progress recompute.
type GoalPatch struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	CurrentAmount *decimal.Decimal `json:"currentAmount"`
	TargetDate    *time.Time       `json:"targetDate"`
	Category      *string          `json:"category"`
	Priority      *GoalPriority    `json:"priority"`
	Description   *string          `json:"description"`
}
