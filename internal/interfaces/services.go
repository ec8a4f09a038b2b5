// Package interfaces defines service contracts for Zenith
package interfaces

import (
	"context"

	"github.com/zenithfin/zenith/internal/models"
)

// SyncService orchestrates broker-holdings synchronization.
type SyncService interface {
	// SyncAll syncs every connected broker for the user, isolating
	// per-broker failures into the report. It returns an error only when
	// the run cannot start at all (no connected brokers, storage failure).
	SyncAll(ctx context.Context, userID string) (*models.SyncReport, error)

	// Connect validates and stores broker credentials, authenticates, and
	// caches the resulting tokens. Fails with *models.CredentialError
	// before any I/O when a field is empty.
	Connect(ctx context.Context, userID string, brokerID models.BrokerID, clientID, clientSecret string) error

	// Disconnect clears the broker's credentials and cached tokens.
	Disconnect(ctx context.Context, userID string, brokerID models.BrokerID) error
}

// PortfolioService manages investment holdings and valuations.
type PortfolioService interface {
	ListHoldings(ctx context.Context, userID string) ([]models.Holding, error)
	AddHolding(ctx context.Context, userID string, h models.Holding) (*models.Holding, error)
	DeleteHolding(ctx context.Context, userID, holdingID string) error
	Summary(ctx context.Context, userID string) (*PortfolioSummary, error)
	AllocationChart(ctx context.Context, userID string) ([]byte, error)
}

// PortfolioSummary is the aggregate valuation of the portfolio.
type PortfolioSummary struct {
	Invested     float64                     `json:"invested"`
	CurrentValue float64                     `json:"currentValue"`
	GainLoss     float64                     `json:"gainLoss"`
	GainLossPct  float64                     `json:"gainLossPct"`
	Holdings     int                         `json:"holdings"`
	ByBroker     map[string]BrokerAllocation `json:"byBroker"`
}

// BrokerAllocation is the per-source slice of the portfolio. Manual entries
// are grouped under the "manual" key.
type BrokerAllocation struct {
	Holdings     int     `json:"holdings"`
	CurrentValue float64 `json:"currentValue"`
}

// FinanceService manages transactions, budgets, debts, and goals.
type FinanceService interface {
	AddTransaction(ctx context.Context, userID string, t models.Transaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, t models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	AddBudget(ctx context.Context, userID string, b models.Budget) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID string, b models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)

	AddDebt(ctx context.Context, userID string, d models.Debt) (*models.Debt, error)
	UpdateDebt(ctx context.Context, userID string, d models.Debt) error
	DeleteDebt(ctx context.Context, userID, id string) error
	ListDebts(ctx context.Context, userID string) ([]models.Debt, error)

	AddGoal(ctx context.Context, userID string, g models.Goal) (*models.Goal, error)
	UpdateGoal(ctx context.Context, userID string, g models.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) error
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)

	MonthlySummary(ctx context.Context, userID, month string) (*MonthlySummary, error)
}

// MonthlySummary aggregates a month's cashflow against budgets, debts, and goals.
type MonthlySummary struct {
	Month      string             `json:"month"` // YYYY-MM
	Income     float64            `json:"income"`
	Expenses   float64            `json:"expenses"`
	Net        float64            `json:"net"`
	ByCategory map[string]float64 `json:"byCategory"`
	Budgets    []BudgetStatus     `json:"budgets"`
	Debts      []DebtStatus       `json:"debts"`
	Goals      []GoalStatus       `json:"goals"`
}

// BudgetStatus is a budget's utilization for the summarized month.
type BudgetStatus struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
	Spent    float64 `json:"spent"`
	Pct      float64 `json:"pct"`
}

// DebtStatus is a debt's repayment progress.
type DebtStatus struct {
	Name      string  `json:"name"`
	Remaining float64 `json:"remaining"`
	PaidPct   float64 `json:"paidPct"`
}

// GoalStatus is a savings goal's progress.
type GoalStatus struct {
	Name     string  `json:"name"`
	SavedPct float64 `json:"savedPct"`
}

// AssistantService answers finance questions with the user's data as context.
type AssistantService interface {
	Chat(ctx context.Context, userID, message string) (string, error)
	History(ctx context.Context, userID string) ([]models.ChatMessage, error)
}
