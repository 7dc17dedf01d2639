package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Equal(NewDate(2024, 2, 29)) || d.String() != "2024-02-29" {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "2024/02/29", "29-02-2024", "2023-02-29"} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Fatalf("%q expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{NewDate(2024, 1, 5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"d":"2024-01-05"}` {
		t.Fatalf("unexpected json %s", b)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2023-12-31"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.D.Equal(NewDate(2023, 12, 31)) {
		t.Fatalf("unexpected date %v", out.D)
	}
	if err := json.Unmarshal([]byte(`{"d":"31/12/2023"}`), &out); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}

func TestDateOfDropsTime(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d := DateOf(time.Date(2024, 3, 1, 23, 59, 0, 0, loc))
	if !d.Equal(NewDate(2024, 3, 1)) {
		t.Fatalf("expected 2024-03-01, got %v", d)
	}
}

func TestAccountKey(t *testing.T) {
	if err := AccountKey("  ").Validate(); err != ErrMissingAccountKey {
		t.Fatalf("expected ErrMissingAccountKey, got %v", err)
	}
	k := NewAccountKey()
	if err := k.Validate(); err != nil {
		t.Fatalf("generated key invalid: %v", err)
	}
	if k == NewAccountKey() {
		t.Fatalf("expected distinct keys")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2025, 1, 1),
		Amount:      -12.5,
		BankType:    "Checking",
		CardType:    "Debit",
		ExpenseType: "Food",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !good.IsNegative() {
		t.Fatalf("expected negative flag")
	}

	bads := []Expense{
		{Amount: 1, BankType: "b", CardType: "c", ExpenseType: "e"},
		{Date: NewDate(2025, 1, 1), Amount: math.NaN(), BankType: "b", CardType: "c", ExpenseType: "e"},
		{Date: NewDate(2025, 1, 1), Amount: math.Inf(1), BankType: "b", CardType: "c", ExpenseType: "e"},
		{Date: NewDate(2025, 1, 1), Amount: 1, BankType: "", CardType: "c", ExpenseType: "e"},
		{Date: NewDate(2025, 1, 1), Amount: 1, BankType: "b", CardType: " ", ExpenseType: "e"},
		{Date: NewDate(2025, 1, 1), Amount: 1, BankType: "b", CardType: "c", ExpenseType: ""},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestInvestmentRecompute(t *testing.T) {
	cases := []struct {
		current, amount, want float64
	}{
		{120, 90, 30},
		{80, 100, -20},
		{-10, 5, -15},
		{0, 0, 0},
		{-5, -7, 2},
	}
	for _, tc := range cases {
		inv := Investment{CurrentValue: tc.current, InvestmentAmount: tc.amount, ReturnValue: 999}
		inv.Recompute()
		if inv.ReturnValue != tc.want {
			t.Fatalf("current=%v amount=%v: return=%v want %v", tc.current, tc.amount, inv.ReturnValue, tc.want)
		}
	}
}

func TestInvestmentValidate(t *testing.T) {
	good := Investment{Date: NewDate(2024, 1, 1), Mode: "SIP", Type: "MF", CurrentValue: 1, InvestmentAmount: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.CurrentValue = math.NaN()
	if err := bad.Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	bad = good
	bad.Mode = ""
	if err := bad.Validate(); err != ErrEmptyCategory {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
}
