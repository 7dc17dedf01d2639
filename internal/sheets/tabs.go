// Package sheets turns account snapshots into spreadsheet tabs.
//
// The tab layout is independent of the spreadsheet backend; the google
// subpackage writes tabs through the Sheets API.
package sheets

import (
	"context"
	"fmt"

	"myfinance/internal/core"
	"myfinance/internal/services"
)

// Tab is one sheet rewritten in full on every export.
type Tab struct {
	Name   string
	Values [][]any
}

// Writer replaces the contents of the given tabs, creating missing ones.
type Writer interface {
	WriteTabs(ctx context.Context, tabs []Tab) error
}

var (
	expenseHeader    = []any{"ID", "Date", "Amount", "Remark", "Bank Type", "Card Type", "Expense Type"}
	investmentHeader = []any{"ID", "Date", "Mode", "Type", "Current Value", "Investment Amount", "Return", "Used For Calculation"}
)

// accountLabel shortens an account key so tab names stay readable.
func accountLabel(account core.AccountKey) string {
	s := account.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// TabName returns "<prefix> <account> <kind>".
func TabName(prefix string, account core.AccountKey, kind string) string {
	return fmt.Sprintf("%s %s %s", prefix, accountLabel(account), kind)
}

// BuildTabs renders the Expenses, Investments and Summary tabs of snap.
func BuildTabs(prefix string, snap services.Snapshot) []Tab {
	expenses := make([][]any, 0, len(snap.Expenses)+1)
	expenses = append(expenses, expenseHeader)
	for _, e := range snap.Expenses {
		expenses = append(expenses, []any{
			e.ID, e.Date.String(), core.Round2(e.Amount), e.Remark, e.BankType, e.CardType, e.ExpenseType,
		})
	}

	investments := make([][]any, 0, len(snap.Investments)+1)
	investments = append(investments, investmentHeader)
	for _, t := range snap.Investments {
		investments = append(investments, []any{
			t.ID, t.Date.String(), t.Mode, t.Type,
			core.Round2(t.CurrentValue), core.Round2(t.InvestmentAmount), core.Round2(t.ReturnValue),
			t.UsedForCalculation,
		})
	}

	tot := snap.Totals
	summary := [][]any{
		{"Metric", "Value"},
		{"Cutoff", tot.Cutoff.String()},
		{"Total Expenses", core.Round2(tot.ExpenseTotal)},
		{"Total Investment", core.Round2(tot.InvestmentTotal)},
		{"Current Value", core.Round2(tot.CurrentValueTotal)},
		{"Total Return", core.Round2(tot.ReturnTotal)},
		{"Net Worth", core.Round2(tot.NetWorth)},
		{"ROI %", tot.ROIPercent},
	}

	return []Tab{
		{Name: TabName(prefix, snap.Account, "Expenses"), Values: expenses},
		{Name: TabName(prefix, snap.Account, "Investments"), Values: investments},
		{Name: TabName(prefix, snap.Account, "Summary"), Values: summary},
	}
}
