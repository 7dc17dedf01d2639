package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"myfinance/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expenseFromRow(row ExpenseRow) (core.Expense, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: bad date %q: %w", row.ID, row.Date, err)
	}
	return core.Expense{
		ID:          row.ID,
		Date:        d,
		Amount:      row.Amount,
		Remark:      row.Remark,
		BankType:    row.BankType,
		CardType:    row.CardType,
		ExpenseType: row.ExpenseType,
	}, nil
}

func expenseToRow(account core.AccountKey, e core.Expense) ExpenseRow {
	return ExpenseRow{
		ID:          e.ID,
		AccountKey:  account.String(),
		Date:        e.Date.String(),
		Amount:      e.Amount,
		Remark:      e.Remark,
		BankType:    e.BankType,
		CardType:    e.CardType,
		ExpenseType: e.ExpenseType,
	}
}

func investmentFromRow(row InvestmentRow) (core.Investment, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Investment{}, fmt.Errorf("investment %d: bad date %q: %w", row.ID, row.Date, err)
	}
	return core.Investment{
		ID:               row.ID,
		Date:             d,
		Mode:             row.InvestmentMode,
		Type:             row.InvestmentType,
		CurrentValue:     row.CurrentValue,
		InvestmentAmount: row.InvestmentAmount,
		ReturnValue:      row.ReturnValue,
	}, nil
}

func investmentToRow(account core.AccountKey, i core.Investment) InvestmentRow {
	return InvestmentRow{
		ID:               i.ID,
		AccountKey:       account.String(),
		Date:             i.Date.String(),
		InvestmentMode:   i.Mode,
		InvestmentType:   i.Type,
		CurrentValue:     i.CurrentValue,
		InvestmentAmount: i.InvestmentAmount,
		ReturnValue:      i.ReturnValue,
	}
}

// ListExpenses returns the account's expenses in insertion order.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, account core.AccountKey) ([]core.Expense, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListExpenses(ctx, account.String())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := expenseFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, account core.AccountKey, e core.Expense) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateExpense(ctx, expenseToRow(account, e))
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"amount", e.Amount,
		"expense_type", e.ExpenseType)

	return id, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, account core.AccountKey, id int64, e core.Expense) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	row := expenseToRow(account, e)
	row.ID = id
	n, err := r.queries.UpdateExpense(ctx, row)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	n, err := r.queries.DeleteExpense(ctx, id, account.String())
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) ListInvestments(ctx context.Context, account core.AccountKey) ([]core.Investment, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListInvestments(ctx, account.String())
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	out := make([]core.Investment, 0, len(rows))
	for _, row := range rows {
		i, err := investmentFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, account core.AccountKey, i core.Investment) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}
	if err := i.Validate(); err != nil {
		return 0, err
	}
	id, err := r.queries.CreateInvestment(ctx, investmentToRow(account, i))
	if err != nil {
		return 0, fmt.Errorf("create investment: %w", err)
	}

	slog.InfoContext(ctx, "Investment saved to SQLite",
		"id", id,
		"date", i.Date.String(),
		"mode", i.Mode,
		"type", i.Type)

	return id, nil
}

func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, account core.AccountKey, id int64, i core.Investment) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := i.Validate(); err != nil {
		return err
	}
	row := investmentToRow(account, i)
	row.ID = id
	n, err := r.queries.UpdateInvestment(ctx, row)
	if err != nil {
		return fmt.Errorf("update investment %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	n, err := r.queries.DeleteInvestment(ctx, id, account.String())
	if err != nil {
		return fmt.Errorf("delete investment %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Investment deleted from SQLite", "id", id)
	return nil
}

// GetCategoryList returns found=false when the list was never stored for
// the account.
func (r *SQLiteRepository) GetCategoryList(ctx context.Context, account core.AccountKey, key string) ([]string, bool, error) {
	if err := account.Validate(); err != nil {
		return nil, false, err
	}
	if !core.ValidVocabularyKey(key) {
		return nil, false, core.ErrInvalidVocabularyKey
	}
	raw, err := r.queries.GetOptionList(ctx, account.String(), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get category list %s: %w", key, err)
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, fmt.Errorf("decode category list %s: %w", key, err)
	}
	return items, true, nil
}

func (r *SQLiteRepository) PutCategoryList(ctx context.Context, account core.AccountKey, key string, items []string) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if !core.ValidVocabularyKey(key) {
		return core.ErrInvalidVocabularyKey
	}
	raw, err := json.Marshal(core.DedupeLabels(items))
	if err != nil {
		return fmt.Errorf("encode category list %s: %w", key, err)
	}
	if err := r.queries.UpsertOptionList(ctx, account.String(), key, string(raw)); err != nil {
		return fmt.Errorf("put category list %s: %w", key, err)
	}
	return nil
}

// ListAccounts returns every account key that owns at least one record.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.AccountKey, error) {
	keys, err := r.queries.ListAccountKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]core.AccountKey, len(keys))
	for i, k := range keys {
		out[i] = core.AccountKey(k)
	}
	return out, nil
}
