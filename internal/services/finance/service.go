// Package finance manages the cashflow side of the tracker: transactions,
// budgets, debts, and savings goals, plus the monthly rollup report.
package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

// Service implements the finance service over the data store. All mutations
// go through a read-modify-write of the user's data blob.
type Service struct {
	store  interfaces.DataStore
	logger *common.Logger
}

// NewService creates a finance service
func NewService(store interfaces.DataStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// ---- transactions ----

// AddTransaction validates and records a transaction.
func (s *Service) AddTransaction(ctx context.Context, userID string, t models.Transaction) (*models.Transaction, error) {
	if t.Type != models.TransactionIncome && t.Type != models.TransactionExpense {
		return nil, fmt.Errorf("invalid transaction type: %q", t.Type)
	}
	if t.Amount <= 0 {
		return nil, fmt.Errorf("transaction amount must be positive")
	}
	if strings.TrimSpace(t.Category) == "" {
		return nil, fmt.Errorf("transaction category is required")
	}
	if t.Date == "" {
		t.Date = time.Now().Format(time.RFC3339)
	}

	t.ID = uuid.NewString()
	err := s.update(ctx, userID, func(data *models.AppData) error {
		data.Transactions = append(data.Transactions, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTransaction replaces an existing transaction by ID.
func (s *Service) UpdateTransaction(ctx context.Context, userID string, t models.Transaction) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Transactions {
			if data.Transactions[i].ID == t.ID {
				data.Transactions[i] = t
				return nil
			}
		}
		return fmt.Errorf("transaction not found: %s", t.ID)
	})
}

// DeleteTransaction removes a transaction by ID.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Transactions {
			if data.Transactions[i].ID == id {
				data.Transactions = append(data.Transactions[:i], data.Transactions[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("transaction not found: %s", id)
	})
}

// ListTransactions returns all transactions.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Transactions, nil
}

// ---- budgets ----

// AddBudget records a category spending limit. One budget per category; a
// duplicate category is rejected rather than silently doubled.
func (s *Service) AddBudget(ctx context.Context, userID string, b models.Budget) (*models.Budget, error) {
	if strings.TrimSpace(b.Category) == "" {
		return nil, fmt.Errorf("budget category is required")
	}
	if b.Amount <= 0 {
		return nil, fmt.Errorf("budget amount must be positive")
	}

	b.ID = uuid.NewString()
	err := s.update(ctx, userID, func(data *models.AppData) error {
		for _, existing := range data.Budgets {
			if strings.EqualFold(existing.Category, b.Category) {
				return fmt.Errorf("budget already exists for category %q", b.Category)
			}
		}
		data.Budgets = append(data.Budgets, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBudget replaces an existing budget by ID.
func (s *Service) UpdateBudget(ctx context.Context, userID string, b models.Budget) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Budgets {
			if data.Budgets[i].ID == b.ID {
				data.Budgets[i] = b
				return nil
			}
		}
		return fmt.Errorf("budget not found: %s", b.ID)
	})
}

// DeleteBudget removes a budget by ID.
func (s *Service) DeleteBudget(ctx context.Context, userID, id string) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Budgets {
			if data.Budgets[i].ID == id {
				data.Budgets = append(data.Budgets[:i], data.Budgets[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("budget not found: %s", id)
	})
}

// ListBudgets returns all budgets.
func (s *Service) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Budgets, nil
}

// ---- debts ----

// AddDebt records a liability.
func (s *Service) AddDebt(ctx context.Context, userID string, d models.Debt) (*models.Debt, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("debt name is required")
	}
	if d.TotalAmount <= 0 {
		return nil, fmt.Errorf("debt total amount must be positive")
	}

	d.ID = uuid.NewString()
	err := s.update(ctx, userID, func(data *models.AppData) error {
		data.Debts = append(data.Debts, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDebt replaces an existing debt by ID.
func (s *Service) UpdateDebt(ctx context.Context, userID string, d models.Debt) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Debts {
			if data.Debts[i].ID == d.ID {
				data.Debts[i] = d
				return nil
			}
		}
		return fmt.Errorf("debt not found: %s", d.ID)
	})
}

// DeleteDebt removes a debt by ID.
func (s *Service) DeleteDebt(ctx context.Context, userID, id string) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Debts {
			if data.Debts[i].ID == id {
				data.Debts = append(data.Debts[:i], data.Debts[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("debt not found: %s", id)
	})
}

// ListDebts returns all debts.
func (s *Service) ListDebts(ctx context.Context, userID string) ([]models.Debt, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Debts, nil
}

// ---- goals ----

// AddGoal records a savings target.
func (s *Service) AddGoal(ctx context.Context, userID string, g models.Goal) (*models.Goal, error) {
	if strings.TrimSpace(g.Name) == "" {
		return nil, fmt.Errorf("goal name is required")
	}
	if g.TargetAmount <= 0 {
		return nil, fmt.Errorf("goal target amount must be positive")
	}

	g.ID = uuid.NewString()
	err := s.update(ctx, userID, func(data *models.AppData) error {
		data.Goals = append(data.Goals, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGoal replaces an existing goal by ID.
func (s *Service) UpdateGoal(ctx context.Context, userID string, g models.Goal) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Goals {
			if data.Goals[i].ID == g.ID {
				data.Goals[i] = g
				return nil
			}
		}
		return fmt.Errorf("goal not found: %s", g.ID)
	})
}

// DeleteGoal removes a goal by ID.
func (s *Service) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.update(ctx, userID, func(data *models.AppData) error {
		for i := range data.Goals {
			if data.Goals[i].ID == id {
				data.Goals = append(data.Goals[:i], data.Goals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("goal not found: %s", id)
	})
}

// ListGoals returns all goals.
func (s *Service) ListGoals(ctx context.Context, userID string) ([]models.Goal, error) {
	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}
	return data.Goals, nil
}

// ---- monthly summary ----

// MonthlySummary rolls up a month's cashflow against budgets, debts, and
// goals. month is "YYYY-MM"; an empty month means the current month.
func (s *Service) MonthlySummary(ctx context.Context, userID, month string) (*interfaces.MonthlySummary, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}

	data, err := s.loadData(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &interfaces.MonthlySummary{
		Month:      month,
		ByCategory: map[string]float64{},
	}

	for _, t := range data.Transactions {
		if !strings.HasPrefix(t.Date, month) {
			continue
		}
		switch t.Type {
		case models.TransactionIncome:
			summary.Income += t.Amount
		case models.TransactionExpense:
			summary.Expenses += t.Amount
			summary.ByCategory[t.Category] += t.Amount
		}
	}
	summary.Net = summary.Income - summary.Expenses

	for _, b := range data.Budgets {
		spent := summary.ByCategory[b.Category]
		status := interfaces.BudgetStatus{
			Category: b.Category,
			Limit:    b.Amount,
			Spent:    spent,
		}
		if b.Amount > 0 {
			status.Pct = spent / b.Amount * 100
		}
		summary.Budgets = append(summary.Budgets, status)
	}

	for _, d := range data.Debts {
		status := interfaces.DebtStatus{
			Name:      d.Name,
			Remaining: d.TotalAmount - d.AmountPaid,
		}
		if d.TotalAmount > 0 {
			status.PaidPct = d.AmountPaid / d.TotalAmount * 100
		}
		summary.Debts = append(summary.Debts, status)
	}

	for _, g := range data.Goals {
		status := interfaces.GoalStatus{Name: g.Name}
		if g.TargetAmount > 0 {
			status.SavedPct = g.SavedAmount / g.TargetAmount * 100
		}
		summary.Goals = append(summary.Goals, status)
	}

	return summary, nil
}

func (s *Service) loadData(ctx context.Context, userID string) (*models.AppData, error) {
	data, err := s.store.LoadData(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user data: %w", err)
	}
	if data == nil {
		data = models.NewAppData()
	}
	return data, nil
}

// update applies a mutation to the user's data and persists it, serialized
// by the store against every other writer of the blob.
func (s *Service) update(ctx context.Context, userID string, mutate func(*models.AppData) error) error {
	return s.store.Update(ctx, userID, mutate)
}

var _ interfaces.FinanceService = (*Service)(nil)
