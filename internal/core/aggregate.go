package core

// ExpensesUpTo returns the expenses dated on or before cutoff, in input order.
func ExpensesUpTo(expenses []Expense, cutoff Date) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Aggregate computes the account totals as of cutoff.
//
// Expenses count when dated on or before cutoff. Investment sums run over
// SelectLatestInvestments only. ROIPercent is 0 when nothing is invested.
func Aggregate(expenses []Expense, investments []Investment, cutoff Date) Totals {
	t := Totals{Cutoff: cutoff}
	for _, e := range ExpensesUpTo(expenses, cutoff) {
		t.ExpenseTotal += e.Amount
	}

	t.Selected = SelectLatestInvestments(investments, cutoff)
	for _, i := range t.Selected {
		t.InvestmentTotal += i.InvestmentAmount
		t.CurrentValueTotal += i.CurrentValue
		t.ReturnTotal += i.ReturnValue
	}

	t.NetWorth = t.CurrentValueTotal - t.ExpenseTotal
	if t.InvestmentTotal > 0 {
		t.ROIPercent = Round2(t.ReturnTotal / t.InvestmentTotal * 100)
	}
	return t
}
