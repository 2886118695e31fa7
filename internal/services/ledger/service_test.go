package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ujjwalpatil07/FinVoice/internal/common"
	"github.com/ujjwalpatil07/FinVoice/internal/interfaces"
	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// --- mock implementations ---

// memLedgerStore is a simple in-memory LedgerStore for tests. It mirrors the
// real store's conditional-write semantics, and conflictPuts lets a test
// inject version conflicts before a write succeeds.
type memLedgerStore struct {
	mu           sync.Mutex
	records      map[string]*models.LedgerRecord
	conflictPuts int
	putCalls     int
}

func newMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{records: make(map[string]*models.LedgerRecord)}
}

func cloneRecord(r *models.LedgerRecord) *models.LedgerRecord {
	data, _ := json.Marshal(r)
	var out models.LedgerRecord
	_ = json.Unmarshal(data, &out)
	return &out
}

func (m *memLedgerStore) Get(_ context.Context, userID string) (*models.LedgerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[userID]; ok {
		return cloneRecord(r), nil
	}
	return nil, models.NewNotFoundError("ledger", userID)
}

func (m *memLedgerStore) Create(_ context.Context, record *models.LedgerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.UserID]; ok {
		return models.NewValidationError("userId", "ledger already exists")
	}
	record.Version = 1
	m.records[record.UserID] = cloneRecord(record)
	return nil
}

func (m *memLedgerStore) Put(_ context.Context, record *models.LedgerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.conflictPuts > 0 {
		m.conflictPuts--
		return models.ErrVersionConflict
	}
	existing, ok := m.records[record.UserID]
	if !ok {
		return models.NewNotFoundError("ledger", record.UserID)
	}
	if existing.Version != record.Version {
		return models.ErrVersionConflict
	}
	record.Version++
	m.records[record.UserID] = cloneRecord(record)
	return nil
}

func (m *memLedgerStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, userID)
	return nil
}

func (m *memLedgerStore) ListUsers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]string, 0, len(m.records))
	for id := range m.records {
		users = append(users, id)
	}
	return users, nil
}

func (m *memLedgerStore) Close() error { return nil }

type mockStorageManager struct {
	ledgers *memLedgerStore
}

func newMockStorageManager() *mockStorageManager {
	return &mockStorageManager{ledgers: newMemLedgerStore()}
}

func (m *mockStorageManager) LedgerStore() interfaces.LedgerStore { return m.ledgers }
func (m *mockStorageManager) Close() error                        { return nil }

// --- helpers ---

func newTestService() (*Service, *mockStorageManager) {
	sm := newMockStorageManager()
	svc := NewService(sm, "INR", common.NewSilentLogger())
	return svc, sm
}

func mustCreate(t *testing.T, svc *Service, userID string) {
	t.Helper()
	if _, err := svc.CreateLedger(context.Background(), userID); err != nil {
		t.Fatalf("CreateLedger failed: %v", err)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// --- tests ---

func TestCreateLedger_Empty(t *testing.T) {
	svc, _ := newTestService()

	record, err := svc.CreateLedger(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CreateLedger failed: %v", err)
	}
	if !record.TotalBalance.IsZero() {
		t.Errorf("expected zero balance, got %s", record.TotalBalance)
	}
	if record.Currency != "INR" {
		t.Errorf("expected currency INR, got %s", record.Currency)
	}
	if len(record.Transactions) != 0 || len(record.MonthlyIncome) != 0 {
		t.Error("expected empty sub-ledgers")
	}
}

func TestCreateLedger_MissingUser(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateLedger(context.Background(), ""); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordIncome(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")

	record, err := svc.RecordIncome(ctx, "user-1", dec("125000"), "Salary")
	if err != nil {
		t.Fatalf("RecordIncome failed: %v", err)
	}
	if !record.TotalBalance.Equal(dec("125000")) {
		t.Errorf("expected balance 125000, got %s", record.TotalBalance)
	}
	if len(record.MonthlyIncome) != 1 || !record.MonthlyIncome[0].Amount.Equal(dec("125000")) {
		t.Fatalf("expected one income entry of 125000")
	}
	if len(record.Transactions) != 1 {
		t.Fatalf("expected one mirrored transaction, got %d", len(record.Transactions))
	}
	tx := record.Transactions[0]
	if tx.Title != "Salary" || tx.Type != models.TransactionTypeIncome || tx.Category != "Income" {
		t.Errorf("unexpected mirrored transaction: %+v", tx)
	}
	if tx.ID == "" {
		t.Error("expected generated transaction id")
	}
}

func TestRecordIncome_DefaultReason(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")

	record, err := svc.RecordIncome(context.Background(), "user-1", dec("100"), "")
	if err != nil {
		t.Fatalf("RecordIncome failed: %v", err)
	}
	if record.MonthlyIncome[0].Reason != "Income" {
		t.Errorf("expected default reason 'Income', got %q", record.MonthlyIncome[0].Reason)
	}
}

func TestRecordIncome_InvalidAmount(t *testing.T) {
	svc, sm := newTestService()
	mustCreate(t, svc, "user-1")

	for _, amount := range []string{"0", "-5"} {
		if _, err := svc.RecordIncome(context.Background(), "user-1", dec(amount), "x"); !models.IsValidation(err) {
			t.Errorf("amount %s: expected validation error, got %v", amount, err)
		}
	}
	record, _ := sm.ledgers.Get(context.Background(), "user-1")
	if len(record.Transactions) != 0 {
		t.Error("rejected income must not be persisted")
	}
}

func TestRecordExpense(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("125000"), "Salary")

	record, err := svc.RecordExpense(ctx, "user-1", "Groceries", dec("12500"), "Food")
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if !record.TotalBalance.Equal(dec("112500")) {
		t.Errorf("expected balance 112500, got %s", record.TotalBalance)
	}
	if len(record.MonthlyExpenses) != 1 {
		t.Fatalf("expected one expense entry")
	}
	tx := record.Transactions[len(record.Transactions)-1]
	if tx.Type != models.TransactionTypeExpense || tx.Category != "Food" {
		t.Errorf("unexpected mirrored transaction: %+v", tx)
	}
}

func TestRecordExpense_DefaultCategory(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")

	record, err := svc.RecordExpense(context.Background(), "user-1", "Misc", dec("10"), "")
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if record.MonthlyExpenses[0].Category != "Other" {
		t.Errorf("expected default category 'Other', got %q", record.MonthlyExpenses[0].Category)
	}
}

func TestRecordExpense_MissingTitle(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")
	if _, err := svc.RecordExpense(context.Background(), "user-1", "", dec("10"), "Food"); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordExpense_AdvancesBudget(t *testing.T) {
	svc, sm := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")

	// Seed a budget for the category directly in the store.
	record, _ := sm.ledgers.Get(ctx, "user-1")
	record.Budgets = append(record.Budgets, models.Budget{ID: "b-1", Category: "Food", Limit: dec("5000"), Spent: decimal.Zero})
	if err := sm.ledgers.Put(ctx, record); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	updated, err := svc.RecordExpense(ctx, "user-1", "Lunch", dec("300"), "food")
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}
	if !updated.Budgets[0].Spent.Equal(dec("300")) {
		t.Errorf("expected budget spent 300 (case-insensitive match), got %s", updated.Budgets[0].Spent)
	}
}

func TestRecordSaving_Rate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("25000"), "Salary")

	record, err := svc.RecordSaving(ctx, "user-1", dec("10000"))
	if err != nil {
		t.Fatalf("RecordSaving failed: %v", err)
	}
	if len(record.Savings) != 1 {
		t.Fatalf("expected one saving entry")
	}
	if !record.Savings[0].Rate.Equal(dec("40")) {
		t.Errorf("expected saving rate 40, got %s", record.Savings[0].Rate)
	}
	if !record.TotalBalance.Equal(dec("15000")) {
		t.Errorf("expected balance 15000, got %s", record.TotalBalance)
	}
	tx := record.Transactions[len(record.Transactions)-1]
	if tx.Title != "Saving Deposit" || tx.Type != models.TransactionTypeExpense || tx.Category != "Savings" {
		t.Errorf("unexpected mirrored transaction: %+v", tx)
	}
}

func TestRecordSaving_NoIncomeRateZero(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")

	record, err := svc.RecordSaving(context.Background(), "user-1", dec("500"))
	if err != nil {
		t.Fatalf("RecordSaving failed: %v", err)
	}
	if !record.Savings[0].Rate.IsZero() {
		t.Errorf("expected zero rate without prior income, got %s", record.Savings[0].Rate)
	}
}

func TestRecordInvestmentMark_Growth(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("50000"), "Salary")

	first, err := svc.RecordInvestmentMark(ctx, "user-1", dec("100000"))
	if err != nil {
		t.Fatalf("RecordInvestmentMark failed: %v", err)
	}
	if !first.Investments.Performance[0].Growth.IsZero() {
		t.Errorf("expected zero growth on first mark, got %s", first.Investments.Performance[0].Growth)
	}

	second, err := svc.RecordInvestmentMark(ctx, "user-1", dec("110000"))
	if err != nil {
		t.Fatalf("RecordInvestmentMark failed: %v", err)
	}
	if !second.Investments.CurrentValue.Equal(dec("110000")) {
		t.Errorf("expected current value 110000, got %s", second.Investments.CurrentValue)
	}
	if !second.Investments.Performance[1].Growth.Equal(dec("10")) {
		t.Errorf("expected growth 10, got %s", second.Investments.Performance[1].Growth)
	}
	// Marks are not cash movements.
	if !second.TotalBalance.Equal(dec("50000")) {
		t.Errorf("expected balance untouched at 50000, got %s", second.TotalBalance)
	}
	tx := second.Transactions[len(second.Transactions)-1]
	if tx.Title != "Investment Update" || tx.Type != models.TransactionTypeInvestment {
		t.Errorf("unexpected mirrored transaction: %+v", tx)
	}
}

func TestRecordTransaction(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")

	record, err := svc.RecordTransaction(ctx, "user-1", models.TransactionInput{
		Title:  "Freelance",
		Amount: dec("2000"),
		Type:   models.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}
	if !record.TotalBalance.Equal(dec("2000")) {
		t.Errorf("expected balance 2000, got %s", record.TotalBalance)
	}
	if record.Transactions[0].Category != "Other" {
		t.Errorf("expected default category 'Other', got %q", record.Transactions[0].Category)
	}
	// Generic transactions do not touch the typed sub-ledgers.
	if len(record.MonthlyIncome) != 0 {
		t.Error("expected income sub-ledger untouched")
	}
}

func TestRecordTransaction_InvalidType(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")

	_, err := svc.RecordTransaction(context.Background(), "user-1", models.TransactionInput{
		Title:  "Mark",
		Amount: dec("10"),
		Type:   models.TransactionTypeInvestment,
	})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error for investment type on generic path, got %v", err)
	}
}

func TestUpdateTransaction_RederivesBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("1000"), "Salary")
	record, _ := svc.RecordExpense(ctx, "user-1", "Dinner", dec("200"), "Food")

	txID := record.Transactions[1].ID
	newAmount := dec("350")
	updated, err := svc.UpdateTransaction(ctx, "user-1", txID, models.TransactionPatch{Amount: &newAmount})
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if !updated.TotalBalance.Equal(dec("650")) {
		t.Errorf("expected rederived balance 650, got %s", updated.TotalBalance)
	}
	if !updated.Transactions[1].Amount.Equal(dec("350")) {
		t.Errorf("expected amount 350, got %s", updated.Transactions[1].Amount)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _ := newTestService()
	mustCreate(t, svc, "user-1")

	_, err := svc.UpdateTransaction(context.Background(), "user-1", "missing", models.TransactionPatch{})
	if !models.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteTransaction_ByID(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("1000"), "Salary")
	record, _ := svc.RecordExpense(ctx, "user-1", "Dinner", dec("200"), "Food")

	updated, err := svc.DeleteTransaction(ctx, "user-1", record.Transactions[1].ID)
	if err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if len(updated.Transactions) != 1 {
		t.Fatalf("expected 1 remaining transaction, got %d", len(updated.Transactions))
	}
	if !updated.TotalBalance.Equal(dec("1000")) {
		t.Errorf("expected rederived balance 1000, got %s", updated.TotalBalance)
	}
}

func TestDeleteTransaction_ByIndex(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("1000"), "Salary")
	svc.RecordExpense(ctx, "user-1", "Dinner", dec("200"), "Food")

	updated, err := svc.DeleteTransaction(ctx, "user-1", "0")
	if err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if updated.Transactions[0].Title != "Dinner" {
		t.Errorf("expected first entry removed, remaining %q", updated.Transactions[0].Title)
	}
	if !updated.TotalBalance.Equal(dec("-200")) {
		t.Errorf("expected rederived balance -200, got %s", updated.TotalBalance)
	}
}

func TestReapplyLastIncome(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")
	svc.RecordIncome(ctx, "user-1", dec("5000"), "Salary")

	record, err := svc.ReapplyLastIncome(ctx, "user-1")
	if err != nil {
		t.Fatalf("ReapplyLastIncome failed: %v", err)
	}
	if !record.TotalBalance.Equal(dec("10000")) {
		t.Errorf("expected balance 10000, got %s", record.TotalBalance)
	}
	if len(record.Transactions) != 1 {
		t.Error("reapply must not append to the transaction log")
	}
}

func TestUpdate_RetriesOnVersionConflict(t *testing.T) {
	svc, sm := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")

	sm.ledgers.conflictPuts = 2
	record, err := svc.RecordIncome(ctx, "user-1", dec("100"), "Salary")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if !record.TotalBalance.Equal(dec("100")) {
		t.Errorf("expected balance 100 after retries, got %s", record.TotalBalance)
	}
	if sm.ledgers.putCalls != 3 {
		t.Errorf("expected 3 put attempts, got %d", sm.ledgers.putCalls)
	}
}

func TestUpdate_GivesUpAfterRetries(t *testing.T) {
	svc, sm := newTestService()
	mustCreate(t, svc, "user-1")

	sm.ledgers.conflictPuts = 10
	_, err := svc.RecordIncome(context.Background(), "user-1", dec("100"), "Salary")
	if !models.IsPersistence(err) {
		t.Fatalf("expected persistence error after exhausted retries, got %v", err)
	}
}

func TestBalanceMatchesRecompute(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	mustCreate(t, svc, "user-1")

	svc.RecordIncome(ctx, "user-1", dec("125000"), "Salary")
	svc.RecordExpense(ctx, "user-1", "Rent", dec("30000"), "Housing")
	svc.RecordSaving(ctx, "user-1", dec("10000"))
	svc.RecordInvestmentMark(ctx, "user-1", dec("50000"))
	record, err := svc.RecordTransaction(ctx, "user-1", models.TransactionInput{
		Title: "Refund", Amount: dec("1200"), Type: models.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("RecordTransaction failed: %v", err)
	}

	if !record.TotalBalance.Equal(record.RecomputeBalance()) {
		t.Errorf("balance %s does not match recomputed %s", record.TotalBalance, record.RecomputeBalance())
	}
	if !record.TotalBalance.Equal(dec("86200")) {
		t.Errorf("expected balance 86200, got %s", record.TotalBalance)
	}
}
