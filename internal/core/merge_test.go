package core

import "testing"

func TestMergeOrInsertExpense_Merges(t *testing.T) {
	day := NewDate(2024, 1, 1)
	existing := []Expense{
		{ID: 7, Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 10, Remark: "tea"},
	}
	candidate := Expense{Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 5}

	out, res := MergeOrInsertExpense(existing, candidate)

	if !res.Merged {
		t.Fatalf("expected merge")
	}
	if len(out) != 1 {
		t.Fatalf("record count changed: %d", len(out))
	}
	got := out[0]
	if got.ID != 7 || got.Amount != 15 || got.Remark != "tea, 5.00" {
		t.Fatalf("unexpected merged record %+v", got)
	}
	if res.Expense != got || res.Index != 0 {
		t.Fatalf("result does not point at merged record: %+v", res)
	}
	if existing[0].Amount != 10 || existing[0].Remark != "tea" {
		t.Fatalf("input mutated: %+v", existing[0])
	}
}

func TestMergeOrInsertExpense_RemarkRoundsBinaryValue(t *testing.T) {
	day := NewDate(2024, 1, 1)
	cases := map[float64]string{
		1.005: "tea, 1.00",
		2.675: "tea, 2.67",
		1.045: "tea, 1.04",
		0.125: "tea, 0.13",
	}
	for amount, want := range cases {
		existing := []Expense{{ID: 1, Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 1, Remark: "tea"}}
		_, res := MergeOrInsertExpense(existing, Expense{Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: amount})
		if res.Expense.Remark != want {
			t.Errorf("amount %v: remark %q, want %q", amount, res.Expense.Remark, want)
		}
	}
}

func TestMergeOrInsertExpense_EmptyRemarkStartsTrail(t *testing.T) {
	day := NewDate(2024, 1, 1)
	existing := []Expense{
		{ID: 1, Date: NewDate(2023, 12, 31), BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 1},
		{ID: 2, Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 2},
	}
	out, res := MergeOrInsertExpense(existing, Expense{Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: -0.5, Remark: "ignored"})
	if !res.Merged || res.Index != 1 {
		t.Fatalf("expected merge into index 1, got %+v", res)
	}
	if out[1].Remark != "-0.50" || out[1].Amount != 1.5 {
		t.Fatalf("unexpected merged record %+v", out[1])
	}
	if out[0] != existing[0] {
		t.Fatalf("unrelated record changed")
	}
}

func TestMergeOrInsertExpense_Inserts(t *testing.T) {
	day := NewDate(2024, 1, 1)
	existing := []Expense{
		{ID: 1, Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 10},
	}
	candidates := []Expense{
		{Date: NewDate(2024, 1, 2), BankType: "A", CardType: "X", ExpenseType: "Food", Amount: 3, Remark: "r"},
		{Date: day, BankType: "B", CardType: "X", ExpenseType: "Food", Amount: 3, Remark: "r"},
		{Date: day, BankType: "A", CardType: "Y", ExpenseType: "Food", Amount: 3, Remark: "r"},
		{Date: day, BankType: "A", CardType: "X", ExpenseType: "food", Amount: 3, Remark: "r"},
		{Date: day, BankType: "A ", CardType: "X", ExpenseType: "Food", Amount: 3, Remark: "r"},
	}
	for i, c := range candidates {
		out, res := MergeOrInsertExpense(existing, c)
		if res.Merged {
			t.Fatalf("case %d: unexpected merge", i)
		}
		if len(out) != len(existing)+1 {
			t.Fatalf("case %d: expected count %d, got %d", i, len(existing)+1, len(out))
		}
		if out[0] != c || res.Expense != c || res.Index != 0 {
			t.Fatalf("case %d: candidate not prepended unchanged: %+v", i, out[0])
		}
		if out[1] != existing[0] {
			t.Fatalf("case %d: existing record moved or changed", i)
		}
	}
}

func TestMergeOrInsertExpense_RemarkTrailAccumulates(t *testing.T) {
	day := NewDate(2024, 6, 1)
	list := []Expense{}
	for _, amt := range []float64{4, 2.5, 1.125} {
		list, _ = MergeOrInsertExpense(list, Expense{Date: day, BankType: "A", CardType: "X", ExpenseType: "Food", Amount: amt})
	}
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}
	if list[0].Remark != "2.50, 1.13" {
		t.Fatalf("unexpected remark trail %q", list[0].Remark)
	}
	if list[0].Amount != 7.625 {
		t.Fatalf("unexpected amount %v", list[0].Amount)
	}
}
