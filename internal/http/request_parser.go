// Package http serves the ledger as a JSON API.
//
// This file turns query strings and JSON bodies into core values. Amounts
// are accepted as JSON numbers or strings and always go through
// core.ParseAmount, so malformed input never reaches the service.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"myfinance/internal/core"
)

// HeaderAccountKey names the request header that selects the account.
const HeaderAccountKey = "X-Account-Key"

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func accountFrom(r *http.Request) core.AccountKey {
	return core.AccountKey(strings.TrimSpace(r.Header.Get(HeaderAccountKey)))
}

// Amount is a money value that decodes from `12.5`, `"12.5"` or `"12,5"`.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return core.ErrInvalidAmount
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return core.ErrInvalidAmount
		}
		s = unq
	}
	v, err := core.ParseAmount(s)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

func requireAmount(a *Amount) (float64, error) {
	if a == nil {
		return 0, core.ErrInvalidAmount
	}
	return float64(*a), nil
}

type expenseRequest struct {
	Date        core.Date `json:"date"`
	Amount      *Amount   `json:"amount"`
	Remark      string    `json:"remark"`
	BankType    string    `json:"bank_type"`
	CardType    string    `json:"card_type"`
	ExpenseType string    `json:"expense_type"`
}

func (req expenseRequest) toExpense() (core.Expense, error) {
	amount, err := requireAmount(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Date:        req.Date,
		Amount:      amount,
		Remark:      sanitizeInput(req.Remark),
		BankType:    sanitizeInput(req.BankType),
		CardType:    sanitizeInput(req.CardType),
		ExpenseType: sanitizeInput(req.ExpenseType),
	}, nil
}

type investmentRequest struct {
	Date             core.Date `json:"date"`
	Mode             string    `json:"mode"`
	Type             string    `json:"type"`
	CurrentValue     *Amount   `json:"current_value"`
	InvestmentAmount *Amount   `json:"investment_amount"`
}

// toInvestment ignores any client-supplied return; it is always derived.
func (req investmentRequest) toInvestment() (core.Investment, error) {
	current, err := requireAmount(req.CurrentValue)
	if err != nil {
		return core.Investment{}, err
	}
	invested, err := requireAmount(req.InvestmentAmount)
	if err != nil {
		return core.Investment{}, err
	}
	return core.Investment{
		Date:             req.Date,
		Mode:             sanitizeInput(req.Mode),
		Type:             sanitizeInput(req.Type),
		CurrentValue:     current,
		InvestmentAmount: invested,
	}, nil
}

type labelRequest struct {
	Label string `json:"label"`
}

type listRequest struct {
	Items []string `json:"items"`
}

// decodeJSON reads one JSON object from the body. Amount and date errors
// keep their core sentinel so they map to 422; anything else is a 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) || errors.Is(err, core.ErrInvalidDate) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}

func parseOptionalDate(q url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseFlag(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// ParseFilter reads the list filters from a query string. Malformed dates
// count as absent bounds. A from or to bound implies all=1, since ranges only
// apply outside the today-only scope.
func ParseFilter(q url.Values) core.Filter {
	f := core.Filter{
		ShowAll:        parseFlag(q.Get("all")),
		BankType:       sanitizeInput(q.Get("bank_type")),
		CardType:       sanitizeInput(q.Get("card_type")),
		ExpenseType:    sanitizeInput(q.Get("expense_type")),
		InvestmentMode: sanitizeInput(q.Get("mode")),
		InvestmentType: sanitizeInput(q.Get("type")),
	}
	f.From, _ = parseOptionalDate(q, "from")
	f.To, _ = parseOptionalDate(q, "to")
	f.Today, _ = parseOptionalDate(q, "today")
	if !f.From.IsZero() || !f.To.IsZero() {
		f.ShowAll = true
	}
	return f
}

// sanitizeInput trims and drops control characters except tab and newlines.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
