package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the textual form of a ledger date.
const DateLayout = "2006-01-02"

type (
	// AccountKey scopes every record to one user's data partition.
	AccountKey string

	// Date is a calendar day. The time part is always UTC midnight.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          int64 // 0 until persisted
		Date        Date
		Amount      float64
		Remark      string
		BankType    string
		CardType    string
		ExpenseType string
	}

	// Investment is a point-in-time valuation of a holding, not a buy/sell event.
	Investment struct {
		ID               int64 // 0 until persisted
		Date             Date
		Mode             string
		Type             string
		CurrentValue     float64
		InvestmentAmount float64
		ReturnValue      float64
	}
)

var (
	ErrMissingAccountKey    = errors.New("account key is missing")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrEmptyCategory        = errors.New("empty category")
	ErrInvalidVocabularyKey = errors.New("invalid vocabulary key")
	ErrNotFound             = errors.New("record not found")
	ErrUnsupportedDimension = errors.New("unsupported breakdown dimension")
)

// NewAccountKey returns a fresh random account key.
func NewAccountKey() AccountKey {
	return AccountKey(uuid.NewString())
}

// Validate reports ErrMissingAccountKey for blank keys.
func (k AccountKey) Validate() error {
	if strings.TrimSpace(string(k)) == "" {
		return ErrMissingAccountKey
	}
	return nil
}

func (k AccountKey) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar day in loc (UTC when nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Equal compares calendar days.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON shadows the promoted time.Time encoder so dates stay YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return ErrInvalidDate
	}
	return d.UnmarshalText([]byte(s))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsNegative flags refunds and corrections for display. They are not rejected.
func (e Expense) IsNegative() bool {
	return e.Amount < 0
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !finite(e.Amount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.BankType) == "" || strings.TrimSpace(e.CardType) == "" || strings.TrimSpace(e.ExpenseType) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Recompute derives ReturnValue from the current pair. Every create and
// update path calls it; a stored return value is never authoritative.
func (i *Investment) Recompute() {
	i.ReturnValue = i.CurrentValue - i.InvestmentAmount
}

func (i Investment) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if !finite(i.CurrentValue) || !finite(i.InvestmentAmount) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(i.Mode) == "" || strings.TrimSpace(i.Type) == "" {
		return ErrEmptyCategory
	}
	return nil
}
