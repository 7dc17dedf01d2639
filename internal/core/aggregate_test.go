package core

import (
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	cutoff := NewDate(2024, 3, 31)
	expenses := []Expense{
		{Date: NewDate(2024, 1, 5), Amount: 100},
		{Date: NewDate(2024, 3, 31), Amount: 50},
		{Date: NewDate(2024, 4, 1), Amount: 1000},
		{Date: NewDate(2024, 2, 1), Amount: -20},
	}
	investments := []Investment{
		inv(1, NewDate(2024, 1, 1), "SIP", "MF", 900, 1000),
		inv(2, NewDate(2024, 3, 1), "SIP", "MF", 1300, 1000),
		inv(3, NewDate(2024, 2, 1), "Lump Sum", "Gold", 600, 500),
		inv(4, NewDate(2024, 5, 1), "Lump Sum", "Gold", 9999, 500),
	}

	got := Aggregate(expenses, investments, cutoff)

	if got.ExpenseTotal != 130 {
		t.Errorf("ExpenseTotal = %v, want 130", got.ExpenseTotal)
	}
	if got.InvestmentTotal != 1500 {
		t.Errorf("InvestmentTotal = %v, want 1500", got.InvestmentTotal)
	}
	if got.CurrentValueTotal != 1900 {
		t.Errorf("CurrentValueTotal = %v, want 1900", got.CurrentValueTotal)
	}
	if got.ReturnTotal != 400 {
		t.Errorf("ReturnTotal = %v, want 400", got.ReturnTotal)
	}
	if got.NetWorth != 1770 {
		t.Errorf("NetWorth = %v, want 1770", got.NetWorth)
	}
	if got.ROIPercent != 26.67 {
		t.Errorf("ROIPercent = %v, want 26.67", got.ROIPercent)
	}
	if len(got.Selected) != 2 || !got.Cutoff.Equal(cutoff) {
		t.Errorf("unexpected selection %+v", got.Selected)
	}
}

func TestAggregate_ZeroInvestmentGivesZeroROI(t *testing.T) {
	cutoff := NewDate(2024, 1, 31)
	cases := [][]Investment{
		nil,
		{inv(1, NewDate(2024, 1, 1), "SIP", "MF", 50, 0)},
		{inv(1, NewDate(2024, 1, 1), "SIP", "MF", 10, -5)},
	}
	for i, investments := range cases {
		got := Aggregate(nil, investments, cutoff)
		if got.ROIPercent != 0 || math.IsNaN(got.ROIPercent) || math.IsInf(got.ROIPercent, 0) {
			t.Fatalf("case %d: ROIPercent = %v, want 0", i, got.ROIPercent)
		}
	}
}

func TestAggregate_NetWorthCanBeNegative(t *testing.T) {
	got := Aggregate([]Expense{{Date: NewDate(2024, 1, 1), Amount: 75}}, nil, NewDate(2024, 1, 1))
	if got.NetWorth != -75 {
		t.Fatalf("NetWorth = %v, want -75", got.NetWorth)
	}
	if len(got.Selected) != 0 {
		t.Fatalf("unexpected selection %+v", got.Selected)
	}
}

func TestExpensesUpTo(t *testing.T) {
	in := []Expense{
		{ID: 1, Date: NewDate(2024, 1, 2)},
		{ID: 2, Date: NewDate(2024, 1, 1)},
		{ID: 3, Date: NewDate(2024, 1, 3)},
	}
	got := ExpensesUpTo(in, NewDate(2024, 1, 2))
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected %+v", got)
	}
}
