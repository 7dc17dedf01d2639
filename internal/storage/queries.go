package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ExpenseRow mirrors the expenses table.
type ExpenseRow struct {
	ID          int64
	AccountKey  string
	Date        string
	Amount      float64
	Remark      string
	BankType    string
	CardType    string
	ExpenseType string
}

type InvestmentRow struct {
	ID               int64
	AccountKey       string
	Date             string
	InvestmentMode   string
	InvestmentType   string
	CurrentValue     float64
	InvestmentAmount float64
	ReturnValue      float64
}

const listExpenses = `-- name: ListExpenses :many
SELECT id, account_key, date, amount, remark, bank_type, card_type, expense_type
FROM expenses
WHERE account_key = ?
ORDER BY id ASC
`

func (q *Queries) ListExpenses(ctx context.Context, accountKey string) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses, accountKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRow
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(
			&i.ID,
			&i.AccountKey,
			&i.Date,
			&i.Amount,
			&i.Remark,
			&i.BankType,
			&i.CardType,
			&i.ExpenseType,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createExpense = `-- name: CreateExpense :one
INSERT INTO expenses (account_key, date, amount, remark, bank_type, card_type, expense_type)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

func (q *Queries) CreateExpense(ctx context.Context, arg ExpenseRow) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExpense,
		arg.AccountKey,
		arg.Date,
		arg.Amount,
		arg.Remark,
		arg.BankType,
		arg.CardType,
		arg.ExpenseType,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateExpense = `-- name: UpdateExpense :execrows
UPDATE expenses
SET date = ?, amount = ?, remark = ?, bank_type = ?, card_type = ?, expense_type = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND account_key = ?
`

func (q *Queries) UpdateExpense(ctx context.Context, arg ExpenseRow) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateExpense,
		arg.Date,
		arg.Amount,
		arg.Remark,
		arg.BankType,
		arg.CardType,
		arg.ExpenseType,
		arg.ID,
		arg.AccountKey,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpense = `-- name: DeleteExpense :execrows
DELETE FROM expenses WHERE id = ? AND account_key = ?
`

func (q *Queries) DeleteExpense(ctx context.Context, id int64, accountKey string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpense, id, accountKey)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listInvestments = `-- name: ListInvestments :many
SELECT id, account_key, date, investment_mode, investment_type, current_value, investment_amount, return_value
FROM investments
WHERE account_key = ?
ORDER BY id ASC
`

func (q *Queries) ListInvestments(ctx context.Context, accountKey string) ([]InvestmentRow, error) {
	rows, err := q.db.QueryContext(ctx, listInvestments, accountKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InvestmentRow
	for rows.Next() {
		var i InvestmentRow
		if err := rows.Scan(
			&i.ID,
			&i.AccountKey,
			&i.Date,
			&i.InvestmentMode,
			&i.InvestmentType,
			&i.CurrentValue,
			&i.InvestmentAmount,
			&i.ReturnValue,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createInvestment = `-- name: CreateInvestment :one
INSERT INTO investments (account_key, date, investment_mode, investment_type, current_value, investment_amount, return_value)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

func (q *Queries) CreateInvestment(ctx context.Context, arg InvestmentRow) (int64, error) {
	row := q.db.QueryRowContext(ctx, createInvestment,
		arg.AccountKey,
		arg.Date,
		arg.InvestmentMode,
		arg.InvestmentType,
		arg.CurrentValue,
		arg.InvestmentAmount,
		arg.ReturnValue,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const updateInvestment = `-- name: UpdateInvestment :execrows
UPDATE investments
SET date = ?, investment_mode = ?, investment_type = ?, current_value = ?, investment_amount = ?,
    return_value = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND account_key = ?
`

func (q *Queries) UpdateInvestment(ctx context.Context, arg InvestmentRow) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateInvestment,
		arg.Date,
		arg.InvestmentMode,
		arg.InvestmentType,
		arg.CurrentValue,
		arg.InvestmentAmount,
		arg.ReturnValue,
		arg.ID,
		arg.AccountKey,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteInvestment = `-- name: DeleteInvestment :execrows
DELETE FROM investments WHERE id = ? AND account_key = ?
`

func (q *Queries) DeleteInvestment(ctx context.Context, id int64, accountKey string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteInvestment, id, accountKey)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getOptionList = `-- name: GetOptionList :one
SELECT items FROM option_lists WHERE account_key = ? AND list_key = ?
`

func (q *Queries) GetOptionList(ctx context.Context, accountKey, listKey string) (string, error) {
	row := q.db.QueryRowContext(ctx, getOptionList, accountKey, listKey)
	var items string
	err := row.Scan(&items)
	return items, err
}

const upsertOptionList = `-- name: UpsertOptionList :exec
INSERT INTO option_lists (account_key, list_key, items)
VALUES (?, ?, ?)
ON CONFLICT (account_key, list_key) DO UPDATE SET items = excluded.items, updated_at = CURRENT_TIMESTAMP
`

func (q *Queries) UpsertOptionList(ctx context.Context, accountKey, listKey, items string) error {
	_, err := q.db.ExecContext(ctx, upsertOptionList, accountKey, listKey, items)
	return err
}

const listAccountKeys = `-- name: ListAccountKeys :many
SELECT account_key FROM expenses
UNION
SELECT account_key FROM investments
ORDER BY account_key
`

func (q *Queries) ListAccountKeys(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listAccountKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		items = append(items, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
