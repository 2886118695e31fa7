package analytics

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// Advisory thresholds. Investment value in ledger currency; savings rate in
// percent.
var (
	investmentThreshold = decimal.NewFromInt(100000)
	savingsRateTarget   = decimal.NewFromInt(20)
)

// DefaultMainDream is the aspiration used when the ledger names none.
const DefaultMainDream = "Buy a Home"

// AdvisoryFacts extracts the deterministic inputs to advisory templating from
// a ledger snapshot.
func AdvisoryFacts(l *models.LedgerRecord) models.AdvisoryFacts {
	facts := models.AdvisoryFacts{
		SavingsRate:           FinancialHealth(l).SavingsRate,
		LatestInvestmentValue: l.Investments.CurrentValue,
		MainDream:             l.MainDream,
		Currency:              l.Currency,
	}
	if facts.MainDream == "" {
		facts.MainDream = DefaultMainDream
	}
	if facts.Currency == "" {
		facts.Currency = models.DefaultCurrency
	}

	breakdown := CategoryBreakdown(l)
	for i := range breakdown {
		if facts.TopCategory == nil || breakdown[i].Amount.GreaterThan(facts.TopCategory.Amount) {
			facts.TopCategory = &breakdown[i]
		}
	}
	return facts
}

// formatAmount renders a decimal amount in the ledger currency, e.g.
// "₹12,500.00". Unknown currency codes fall back to the plain number.
func formatAmount(amount decimal.Decimal, code string) string {
	currency := money.GetCurrency(code)
	if currency == nil {
		return amount.StringFixed(2)
	}
	scale := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(scale).Round(0).IntPart()
	return money.New(minor, code).Display()
}

// RenderAdvisory maps advisory facts to dashboard messages. Deterministic for
// a given fact set; one message per rule, closing with the dream tracker.
func RenderAdvisory(facts models.AdvisoryFacts) []string {
	messages := []string{}

	if facts.TopCategory != nil {
		messages = append(messages, fmt.Sprintf(
			"Highest Spending: you spent the most on %s (%s) this month. Try setting a budget or reducing discretionary spending in that area.",
			facts.TopCategory.Category, formatAmount(facts.TopCategory.Amount, facts.Currency)))
	}

	if facts.LatestInvestmentValue.GreaterThan(investmentThreshold) {
		messages = append(messages,
			"Investment Tip: your portfolio is performing well! Consider rebalancing your assets to lock in gains.")
	} else {
		messages = append(messages,
			"Start Investing: as you save more, consider starting with a small, diversified investment to grow your wealth over time.")
	}

	if facts.SavingsRate.GreaterThan(savingsRateTarget) {
		messages = append(messages, fmt.Sprintf(
			"Great job! Your savings rate is at %s%%, well above the recommended 20%%. You're on a great path to reaching your goals!",
			facts.SavingsRate.StringFixed(1)))
	} else {
		messages = append(messages,
			"Tip: increasing your savings rate to 20% or more could help you reach your goals faster. Look for ways to automate savings!")
	}

	messages = append(messages, fmt.Sprintf(
		"Dream Tracker: keep up the great work to achieve your dream: %s!", facts.MainDream))

	return messages
}
