package core

import (
	"slices"
	"time"
)

// Filter is the predicate set applied to ledger lists. Zero values mean
// "no constraint" except Today, which defaults to the current UTC day.
type Filter struct {
	// ShowAll disables the implicit today-only scope and enables From/To.
	ShowAll bool
	From    Date
	To      Date
	Today   Date

	BankType       string
	CardType       string
	ExpenseType    string
	InvestmentMode string
	InvestmentType string
}

func (f Filter) today() Date {
	if f.Today.IsZero() {
		return Today(time.UTC)
	}
	return f.Today
}

// inScope applies the date part of the filter.
func (f Filter) inScope(d Date, today Date) bool {
	if !f.ShowAll {
		return d.Equal(today)
	}
	if !f.From.IsZero() && d.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && d.After(f.To) {
		return false
	}
	return true
}

func matches(want, got string) bool {
	return want == "" || want == got
}

// FilterExpenses returns the expenses passing every active predicate, newest
// first. The input slice is left untouched.
func FilterExpenses(records []Expense, f Filter) []Expense {
	today := f.today()
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if !f.inScope(e.Date, today) {
			continue
		}
		if !matches(f.BankType, e.BankType) || !matches(f.CardType, e.CardType) || !matches(f.ExpenseType, e.ExpenseType) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b Expense) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// FilterInvestments is the investment counterpart of FilterExpenses.
func FilterInvestments(records []Investment, f Filter) []Investment {
	today := f.today()
	out := make([]Investment, 0, len(records))
	for _, i := range records {
		if !f.inScope(i.Date, today) {
			continue
		}
		if !matches(f.InvestmentMode, i.Mode) || !matches(f.InvestmentType, i.Type) {
			continue
		}
		out = append(out, i)
	}
	slices.SortStableFunc(out, func(a, b Investment) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}
