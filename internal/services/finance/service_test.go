package finance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/models"
	"github.com/zenithfin/zenith/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := storage.NewFileDataStore(common.NewSilentLogger(), t.TempDir(), 0)
	require.NoError(t, store.Initialize())
	return NewService(store, common.NewSilentLogger())
}

func TestTransactionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	added, err := svc.AddTransaction(ctx, "u1", models.Transaction{
		Type:     models.TransactionExpense,
		Category: "Groceries",
		Amount:   2500,
		Date:     "2026-08-15",
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	added.Amount = 2600
	require.NoError(t, svc.UpdateTransaction(ctx, "u1", *added))

	list, err := svc.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2600.0, list[0].Amount)

	require.NoError(t, svc.DeleteTransaction(ctx, "u1", added.ID))
	list, err = svc.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddTransactionValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, "u1", models.Transaction{Type: "transfer", Category: "X", Amount: 1})
	assert.Error(t, err)

	_, err = svc.AddTransaction(ctx, "u1", models.Transaction{Type: models.TransactionExpense, Category: "X", Amount: 0})
	assert.Error(t, err)

	_, err = svc.AddTransaction(ctx, "u1", models.Transaction{Type: models.TransactionExpense, Category: "", Amount: 10})
	assert.Error(t, err)
}

func TestBudgetDuplicateCategoryRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddBudget(ctx, "u1", models.Budget{Category: "Food", Amount: 5000})
	require.NoError(t, err)

	_, err = svc.AddBudget(ctx, "u1", models.Budget{Category: "food", Amount: 3000})
	assert.Error(t, err, "category match is case-insensitive")
}

func TestUpdateMissingEntityFails(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.UpdateTransaction(ctx, "u1", models.Transaction{ID: "nope"}))
	assert.Error(t, svc.UpdateBudget(ctx, "u1", models.Budget{ID: "nope"}))
	assert.Error(t, svc.UpdateDebt(ctx, "u1", models.Debt{ID: "nope"}))
	assert.Error(t, svc.UpdateGoal(ctx, "u1", models.Goal{ID: "nope"}))
}

func TestMonthlySummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, tx := range []models.Transaction{
		{Type: models.TransactionIncome, Category: "Salary", Amount: 80000, Date: "2026-08-01"},
		{Type: models.TransactionExpense, Category: "Rent", Amount: 25000, Date: "2026-08-02"},
		{Type: models.TransactionExpense, Category: "Groceries", Amount: 6000, Date: "2026-08-10"},
		{Type: models.TransactionExpense, Category: "Groceries", Amount: 2000, Date: "2026-08-20"},
		{Type: models.TransactionExpense, Category: "Rent", Amount: 25000, Date: "2026-07-02"}, // other month
	} {
		_, err := svc.AddTransaction(ctx, "u1", tx)
		require.NoError(t, err)
	}

	_, err := svc.AddBudget(ctx, "u1", models.Budget{Category: "Groceries", Amount: 10000})
	require.NoError(t, err)
	_, err = svc.AddDebt(ctx, "u1", models.Debt{Name: "Car Loan", TotalAmount: 400000, AmountPaid: 100000})
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, "u1", models.Goal{Name: "Emergency Fund", TargetAmount: 200000, SavedAmount: 50000})
	require.NoError(t, err)

	summary, err := svc.MonthlySummary(ctx, "u1", "2026-08")
	require.NoError(t, err)

	assert.Equal(t, 80000.0, summary.Income)
	assert.Equal(t, 33000.0, summary.Expenses)
	assert.Equal(t, 47000.0, summary.Net)
	assert.Equal(t, 8000.0, summary.ByCategory["Groceries"])

	require.Len(t, summary.Budgets, 1)
	assert.Equal(t, 80.0, summary.Budgets[0].Pct)

	require.Len(t, summary.Debts, 1)
	assert.Equal(t, 300000.0, summary.Debts[0].Remaining)
	assert.Equal(t, 25.0, summary.Debts[0].PaidPct)

	require.Len(t, summary.Goals, 1)
	assert.Equal(t, 25.0, summary.Goals[0].SavedPct)
}

func TestMonthlySummaryInvalidMonth(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.MonthlySummary(context.Background(), "u1", "August 2026")
	assert.Error(t, err)
}
