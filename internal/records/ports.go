package records

import (
	"context"

	"myfinance/internal/core"
)

// Ports for the persistent record store. Every call is scoped by an account
// key; implementations return core.ErrNotFound for unknown IDs.
type (
	ExpenseStore interface {
		ListExpenses(ctx context.Context, account core.AccountKey) ([]core.Expense, error)
		// CreateExpense stores e and returns the assigned ID.
		CreateExpense(ctx context.Context, account core.AccountKey, e core.Expense) (int64, error)
		UpdateExpense(ctx context.Context, account core.AccountKey, id int64, e core.Expense) error
		DeleteExpense(ctx context.Context, account core.AccountKey, id int64) error
	}

	InvestmentStore interface {
		ListInvestments(ctx context.Context, account core.AccountKey) ([]core.Investment, error)
		CreateInvestment(ctx context.Context, account core.AccountKey, i core.Investment) (int64, error)
		UpdateInvestment(ctx context.Context, account core.AccountKey, id int64, i core.Investment) error
		DeleteInvestment(ctx context.Context, account core.AccountKey, id int64) error
	}

	// VocabularyStore persists the per-account category lists.
	VocabularyStore interface {
		// GetCategoryList reports found=false when the list was never stored.
		GetCategoryList(ctx context.Context, account core.AccountKey, key string) (items []string, found bool, err error)
		PutCategoryList(ctx context.Context, account core.AccountKey, key string, items []string) error
	}

	Store interface {
		ExpenseStore
		InvestmentStore
		VocabularyStore
	}
)
