package core

// MergeResult describes what MergeOrInsertExpense did with a candidate.
type MergeResult struct {
	// Expense is the record to persist: the merged one (existing ID) or the candidate.
	Expense Expense
	Merged  bool
	// Index is the position of Expense in the returned collection.
	Index int
}

// sameSlot reports whether two expenses share (date, bank, card, expense type).
// Matching is exact; differently spelled labels never merge.
func sameSlot(a, b Expense) bool {
	return a.Date.Equal(b.Date) &&
		a.BankType == b.BankType &&
		a.CardType == b.CardType &&
		a.ExpenseType == b.ExpenseType
}

// MergeOrInsertExpense collapses candidate into the first existing expense in
// the same slot, or prepends it when none exists. It returns a new slice; the
// input is not modified. The merged remark keeps a trail of the added amounts.
func MergeOrInsertExpense(existing []Expense, candidate Expense) ([]Expense, MergeResult) {
	for idx, e := range existing {
		if !sameSlot(e, candidate) {
			continue
		}
		merged := e
		merged.Amount = e.Amount + candidate.Amount
		if e.Remark != "" {
			merged.Remark = e.Remark + ", " + FormatAmount(candidate.Amount)
		} else {
			merged.Remark = FormatAmount(candidate.Amount)
		}
		out := make([]Expense, len(existing))
		copy(out, existing)
		out[idx] = merged
		return out, MergeResult{Expense: merged, Merged: true, Index: idx}
	}

	out := make([]Expense, 0, len(existing)+1)
	out = append(out, candidate)
	out = append(out, existing...)
	return out, MergeResult{Expense: candidate, Merged: false, Index: 0}
}
