package models

import "github.com/shopspring/decimal"

// CategoryAmount is one row of the expense category breakdown. Rows keep the
// insertion order of each category's first occurrence.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthlyFlow joins income, expenses, and derived savings for one calendar
// month.
type MonthlyFlow struct {
	Month    string          `json:"month"` // e.g. "Jan 2026"
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"` // income - expenses
}

// IncomeSource is one income reason with its share of total income.
type IncomeSource struct {
	Source     string          `json:"source"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// FinancialHealth carries the ratio metrics derived from the ledger. All
// values are percentages; zero-income ledgers yield zero rates rather than
// errors.
type FinancialHealth struct {
	SavingsRate     decimal.Decimal `json:"savings_rate"`
	ExpenseToIncome decimal.Decimal `json:"expense_to_income"`
	MonthlyGrowth   decimal.Decimal `json:"monthly_growth"` // latest investment mark growth
}

// AdvisoryFacts is the deterministic input to advisory message templating.
// Computing facts and rendering text are kept separate so tests can assert on
// facts without parsing prose.
type AdvisoryFacts struct {
	TopCategory           *CategoryAmount `json:"top_category,omitempty"`
	SavingsRate           decimal.Decimal `json:"savings_rate"`
	LatestInvestmentValue decimal.Decimal `json:"latest_investment_value"`
	MainDream             string          `json:"main_dream"`
	Currency              string          `json:"currency"`
}

// AnalyticsSummary bundles every derived view for the dashboard read path.
type AnalyticsSummary struct {
	CategoryBreakdown []CategoryAmount `json:"category_breakdown"`
	MonthlyComparison []MonthlyFlow    `json:"monthly_comparison"`
	IncomeSources     []IncomeSource   `json:"income_sources"`
	FinancialHealth   FinancialHealth  `json:"financial_health"`
	Advisory          []string         `json:"advisory"`
}
