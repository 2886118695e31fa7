// Package analytics derives dashboard metrics from a ledger snapshot. All
// derivation is pure: the only I/O lives in Service.Summary, which loads the
// ledger and hands it to these functions. Empty sub-ledgers are the identity
// case everywhere; no function divides by zero.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// CategoryBreakdown groups expenses by category, summing amounts. Rows keep
// the insertion order of each category's first occurrence.
func CategoryBreakdown(l *models.LedgerRecord) []models.CategoryAmount {
	totals := make(map[string]int)
	out := []models.CategoryAmount{}
	for _, e := range l.MonthlyExpenses {
		if i, ok := totals[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		totals[e.Category] = len(out)
		out = append(out, models.CategoryAmount{Category: e.Category, Amount: e.Amount})
	}
	return out
}

// monthKey truncates a timestamp to its calendar month.
func monthKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyComparison joins income and expense totals for every month that has
// recorded income, in chronological order. Savings for a month is income
// minus expenses.
func MonthlyComparison(l *models.LedgerRecord) []models.MonthlyFlow {
	income := make(map[time.Time]decimal.Decimal)
	months := []time.Time{}
	for _, e := range l.MonthlyIncome {
		k := monthKey(e.Date)
		if _, ok := income[k]; !ok {
			months = append(months, k)
		}
		income[k] = income[k].Add(e.Amount)
	}

	expenses := make(map[time.Time]decimal.Decimal)
	for _, e := range l.MonthlyExpenses {
		k := monthKey(e.Date)
		expenses[k] = expenses[k].Add(e.Amount)
	}

	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]models.MonthlyFlow, 0, len(months))
	for _, m := range months {
		in := income[m]
		ex := expenses[m]
		out = append(out, models.MonthlyFlow{
			Month:    m.Format("Jan 2006"),
			Income:   in,
			Expenses: ex,
			Savings:  in.Sub(ex),
		})
	}
	return out
}

// IncomeSources groups income by reason and computes each source's share of
// the total. Rows keep first-occurrence order.
func IncomeSources(l *models.LedgerRecord) []models.IncomeSource {
	index := make(map[string]int)
	out := []models.IncomeSource{}
	total := decimal.Zero
	for _, e := range l.MonthlyIncome {
		total = total.Add(e.Amount)
		if i, ok := index[e.Reason]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Reason] = len(out)
		out = append(out, models.IncomeSource{Source: e.Reason, Amount: e.Amount})
	}
	if total.Sign() > 0 {
		for i := range out {
			out[i].Percentage = out[i].Amount.Div(total).Mul(oneHundred).Round(2)
		}
	}
	return out
}

// FinancialHealth computes the ratio metrics. Zero total income yields zero
// rates. MonthlyGrowth is the growth of the latest investment mark.
func FinancialHealth(l *models.LedgerRecord) models.FinancialHealth {
	totalIncome := decimal.Zero
	for _, e := range l.MonthlyIncome {
		totalIncome = totalIncome.Add(e.Amount)
	}
	totalExpenses := decimal.Zero
	for _, e := range l.MonthlyExpenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	totalSavings := decimal.Zero
	for _, e := range l.Savings {
		totalSavings = totalSavings.Add(e.Amount)
	}

	health := models.FinancialHealth{
		SavingsRate:     decimal.Zero,
		ExpenseToIncome: decimal.Zero,
		MonthlyGrowth:   decimal.Zero,
	}
	if totalIncome.Sign() > 0 {
		health.SavingsRate = totalSavings.Div(totalIncome).Mul(oneHundred).Round(2)
		health.ExpenseToIncome = totalExpenses.Div(totalIncome).Mul(oneHundred).Round(2)
	}
	if n := len(l.Investments.Performance); n > 0 {
		health.MonthlyGrowth = l.Investments.Performance[n-1].Growth
	}
	return health
}
