package core

import "fmt"

// Breakdown dimensions and measures accepted by the chart endpoints.
const (
	ByBankType    = "bank_type"
	ByCardType    = "card_type"
	ByExpenseType = "expense_type"
	ByMode        = "mode"
	ByType        = "type"

	MeasureCurrentValue     = "current_value"
	MeasureInvestmentAmount = "investment_amount"
)

const unknownLabel = "Unknown"

type accumulator struct {
	order []string
	sums  map[string]float64
}

func newAccumulator() *accumulator {
	return &accumulator{sums: make(map[string]float64)}
}

func (a *accumulator) add(name string, v float64) {
	if name == "" {
		name = unknownLabel
	}
	if _, ok := a.sums[name]; !ok {
		a.order = append(a.order, name)
	}
	a.sums[name] += v
}

func (a *accumulator) result() []CategoryAmount {
	out := make([]CategoryAmount, len(a.order))
	for i, name := range a.order {
		out[i] = CategoryAmount{Name: name, Amount: a.sums[name]}
	}
	return out
}

// BreakdownExpenses sums expense amounts per label of the given dimension,
// in order of first appearance.
func BreakdownExpenses(expenses []Expense, dimension string) ([]CategoryAmount, error) {
	var label func(Expense) string
	switch dimension {
	case ByBankType:
		label = func(e Expense) string { return e.BankType }
	case ByCardType:
		label = func(e Expense) string { return e.CardType }
	case ByExpenseType:
		label = func(e Expense) string { return e.ExpenseType }
	default:
		return nil, fmt.Errorf("%w: expense %q", ErrUnsupportedDimension, dimension)
	}
	acc := newAccumulator()
	for _, e := range expenses {
		acc.add(label(e), e.Amount)
	}
	return acc.result(), nil
}

// BreakdownInvestments sums the chosen measure per mode or type.
func BreakdownInvestments(investments []Investment, dimension, measure string) ([]CategoryAmount, error) {
	var label func(Investment) string
	switch dimension {
	case ByMode:
		label = func(i Investment) string { return i.Mode }
	case ByType:
		label = func(i Investment) string { return i.Type }
	default:
		return nil, fmt.Errorf("%w: investment %q", ErrUnsupportedDimension, dimension)
	}
	var value func(Investment) float64
	switch measure {
	case MeasureCurrentValue, "":
		value = func(i Investment) float64 { return i.CurrentValue }
	case MeasureInvestmentAmount:
		value = func(i Investment) float64 { return i.InvestmentAmount }
	default:
		return nil, fmt.Errorf("%w: measure %q", ErrUnsupportedDimension, measure)
	}
	acc := newAccumulator()
	for _, i := range investments {
		acc.add(label(i), value(i))
	}
	return acc.result(), nil
}
