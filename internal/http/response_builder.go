// Package http serves the ledger as a JSON API.
//
// This file holds the response builder, the wire shapes of ledger records
// and the mapping from error sentinels to status codes.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"myfinance/internal/core"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	data       any
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{statusCode: http.StatusOK, headers: make(map[string]string)}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the value encoded as the body. A nil value sends no body.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.data == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.data)
}

type errorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Data(errorBody{Error: message})
}

// statusFor maps an error to a status code and a client-safe message.
// Store failures are reported generically.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrMissingAccountKey):
		return http.StatusUnauthorized, "missing " + HeaderAccountKey + " header"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidVocabularyKey),
		errors.Is(err, core.ErrUnsupportedDimension):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}

type expenseJSON struct {
	ID          int64     `json:"id"`
	Date        core.Date `json:"date"`
	Amount      float64   `json:"amount"`
	Remark      string    `json:"remark"`
	BankType    string    `json:"bank_type"`
	CardType    string    `json:"card_type"`
	ExpenseType string    `json:"expense_type"`
	Negative    bool      `json:"negative"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:          e.ID,
		Date:        e.Date,
		Amount:      e.Amount,
		Remark:      e.Remark,
		BankType:    e.BankType,
		CardType:    e.CardType,
		ExpenseType: e.ExpenseType,
		Negative:    e.IsNegative(),
	}
}

func toExpenseList(list []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(list))
	for i, e := range list {
		out[i] = toExpenseJSON(e)
	}
	return out
}

type investmentJSON struct {
	ID                 int64     `json:"id"`
	Date               core.Date `json:"date"`
	Mode               string    `json:"mode"`
	Type               string    `json:"type"`
	CurrentValue       float64   `json:"current_value"`
	InvestmentAmount   float64   `json:"investment_amount"`
	ReturnValue        float64   `json:"return_value"`
	UsedForCalculation *bool     `json:"used_for_calculation,omitempty"`
}

func toInvestmentJSON(i core.Investment) investmentJSON {
	return investmentJSON{
		ID:               i.ID,
		Date:             i.Date,
		Mode:             i.Mode,
		Type:             i.Type,
		CurrentValue:     i.CurrentValue,
		InvestmentAmount: i.InvestmentAmount,
		ReturnValue:      i.ReturnValue,
	}
}

func toTaggedList(list []core.TaggedInvestment) []investmentJSON {
	out := make([]investmentJSON, len(list))
	for i, t := range list {
		j := toInvestmentJSON(t.Investment)
		used := t.UsedForCalculation
		j.UsedForCalculation = &used
		out[i] = j
	}
	return out
}

type totalsJSON struct {
	Cutoff            core.Date        `json:"cutoff"`
	ExpenseTotal      float64          `json:"total_expenses"`
	InvestmentTotal   float64          `json:"total_investment"`
	CurrentValueTotal float64          `json:"current_value"`
	ReturnTotal       float64          `json:"total_return"`
	NetWorth          float64          `json:"net_worth"`
	ROIPercent        float64          `json:"roi_percent"`
	Selected          []investmentJSON `json:"selected_investments"`
}

func toTotalsJSON(t core.Totals) totalsJSON {
	selected := make([]investmentJSON, len(t.Selected))
	for i, inv := range t.Selected {
		selected[i] = toInvestmentJSON(inv)
	}
	return totalsJSON{
		Cutoff:            t.Cutoff,
		ExpenseTotal:      core.Round2(t.ExpenseTotal),
		InvestmentTotal:   core.Round2(t.InvestmentTotal),
		CurrentValueTotal: core.Round2(t.CurrentValueTotal),
		ReturnTotal:       core.Round2(t.ReturnTotal),
		NetWorth:          core.Round2(t.NetWorth),
		ROIPercent:        t.ROIPercent,
		Selected:          selected,
	}
}

type breakdownJSON struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func toBreakdownJSON(list []core.CategoryAmount) []breakdownJSON {
	out := make([]breakdownJSON, len(list))
	for i, c := range list {
		out[i] = breakdownJSON{Name: c.Name, Amount: core.Round2(c.Amount)}
	}
	return out
}
