package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Vocabulary keys, one per categorical field.
const (
	VocabBankType       = "bankType"
	VocabCardType       = "cardType"
	VocabExpenseType    = "expenseType"
	VocabInvestmentMode = "investmentMode"
	VocabInvestmentType = "investmentType"
)

var defaultVocabularies = map[string][]string{
	VocabBankType:       {"Checking", "Savings", "Credit Union", "Digital Wallet"},
	VocabCardType:       {"Debit", "Credit", "Prepaid", "Virtual"},
	VocabExpenseType:    {"Food", "Transport", "Bills", "Entertainment", "Shopping", "Travel", "Health", "Other"},
	VocabInvestmentMode: {"SIP", "Lump Sum", "Systematic Transfer", "Dividend Reinvestment"},
	VocabInvestmentType: {"Mutual Fund", "Stocks", "Bonds", "ETF", "Fixed Deposit", "PPF", "Gold", "Real Estate", "Cryptocurrency"},
}

// VocabularyKeys lists the known keys in display order.
func VocabularyKeys() []string {
	return []string{VocabBankType, VocabCardType, VocabExpenseType, VocabInvestmentMode, VocabInvestmentType}
}

func ValidVocabularyKey(key string) bool {
	_, ok := defaultVocabularies[key]
	return ok
}

// DefaultVocabulary returns a copy of the seeded labels for key.
func DefaultVocabulary(key string) ([]string, bool) {
	d, ok := defaultVocabularies[key]
	if !ok {
		return nil, false
	}
	return append([]string(nil), d...), true
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsLabel reports whether list holds label, ignoring case.
func ContainsLabel(list []string, label string) bool {
	want := fold(strings.TrimSpace(label))
	for _, l := range list {
		if fold(l) == want {
			return true
		}
	}
	return false
}

// AddLabel appends label unless a case-insensitive match exists. The second
// result reports whether the list changed.
func AddLabel(list []string, label string) ([]string, bool) {
	label = strings.TrimSpace(label)
	if label == "" || ContainsLabel(list, label) {
		return list, false
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, label), true
}

// DedupeLabels trims labels, drops blanks and case-insensitive repeats,
// keeping the first spelling.
func DedupeLabels(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := fold(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}
