package core

// holdingKey identifies one holding: a fund or asset reached through a channel.
type holdingKey struct {
	mode string
	typ  string
}

// TaggedInvestment pairs a record with whether it feeds the totals.
type TaggedInvestment struct {
	Investment
	UsedForCalculation bool
}

// latestIndexes returns, in order of first key appearance, the input index of
// the latest record per (mode, type) dated on or before cutoff. On equal dates
// the record seen last wins.
func latestIndexes(records []Investment, cutoff Date) []int {
	pos := make(map[holdingKey]int)
	var picked []int
	for idx, r := range records {
		if r.Date.After(cutoff) {
			continue
		}
		k := holdingKey{mode: r.Mode, typ: r.Type}
		slot, seen := pos[k]
		if !seen {
			pos[k] = len(picked)
			picked = append(picked, idx)
			continue
		}
		if !r.Date.Before(records[picked[slot]].Date) {
			picked[slot] = idx
		}
	}
	return picked
}

// SelectLatestInvestments returns one record per (mode, type): the newest
// valuation on or before cutoff. Older snapshots of the same holding are
// history and are left out.
func SelectLatestInvestments(records []Investment, cutoff Date) []Investment {
	idx := latestIndexes(records, cutoff)
	out := make([]Investment, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}

// TagInvestments returns every record flagged with whether it is the latest
// valuation of its holding as of cutoff.
func TagInvestments(records []Investment, cutoff Date) []TaggedInvestment {
	used := make(map[int]bool)
	for _, j := range latestIndexes(records, cutoff) {
		used[j] = true
	}
	out := make([]TaggedInvestment, len(records))
	for i, r := range records {
		out[i] = TaggedInvestment{Investment: r, UsedForCalculation: used[i]}
	}
	return out
}
