package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// Totals is the aggregated view of an account as of a cutoff date.
type Totals struct {
	Cutoff            Date
	ExpenseTotal      float64
	InvestmentTotal   float64
	CurrentValueTotal float64
	ReturnTotal       float64
	NetWorth          float64
	ROIPercent        float64
	// Selected holds the latest valuation per (mode, type) that fed the sums.
	Selected []Investment
}
