package core

import (
	"reflect"
	"testing"
)

func TestDefaultVocabulary(t *testing.T) {
	for _, k := range VocabularyKeys() {
		if !ValidVocabularyKey(k) {
			t.Fatalf("%s should be valid", k)
		}
		d, ok := DefaultVocabulary(k)
		if !ok || len(d) == 0 {
			t.Fatalf("%s: missing defaults", k)
		}
	}
	if ValidVocabularyKey("currency") {
		t.Fatalf("unexpected valid key")
	}

	d, _ := DefaultVocabulary(VocabCardType)
	d[0] = "changed"
	again, _ := DefaultVocabulary(VocabCardType)
	if again[0] != "Debit" {
		t.Fatalf("defaults leaked mutation: %v", again)
	}
}

func TestAddLabel(t *testing.T) {
	base := []string{"Food", "Bills"}

	out, changed := AddLabel(base, "  Travel ")
	if !changed || !reflect.DeepEqual(out, []string{"Food", "Bills", "Travel"}) {
		t.Fatalf("unexpected %v %v", out, changed)
	}
	if len(base) != 2 {
		t.Fatalf("input mutated")
	}

	for _, dup := range []string{"food", "BILLS", " Food", ""} {
		out, changed := AddLabel(base, dup)
		if changed || !reflect.DeepEqual(out, base) {
			t.Fatalf("%q: expected unchanged list, got %v", dup, out)
		}
	}
}

func TestDedupeLabels(t *testing.T) {
	got := DedupeLabels([]string{" Food", "food", "", "Bills ", "FOOD", "Straße", "STRASSE"})
	want := []string{"Food", "Bills", "Straße"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
