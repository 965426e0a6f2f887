package ranking

import (
	"math"
	"sort"
)

// FallbackOrder selects the ordering used when no ranking is available.
type FallbackOrder string

const (
	// ByRecency orders evaluations by creation time, newest first.
	ByRecency FallbackOrder = "recency"
	// ByScore orders evaluations by total score, highest first.
	// Evaluations without a score sort after all scored ones.
	ByScore FallbackOrder = "score"
)

// DefaultTopCount is the number of entries shown in the annotated top panel.
const DefaultTopCount = 5

// ComputeDisplayOrder returns evaluations in display order. Ranked
// evaluations come first, ascending by rank; unranked evaluations follow in
// their original relative order. Ties are never re-derived from scores.
// An empty lookup falls back to the requested default ordering.
func ComputeDisplayOrder(evals []Summary, lookup map[string]Info, fallback FallbackOrder) []Summary {
	ordered := make([]Summary, len(evals))
	copy(ordered, evals)

	if len(lookup) == 0 {
		sortFallback(ordered, fallback)
		return ordered
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return effectiveRank(ordered[i], lookup) < effectiveRank(ordered[j], lookup)
	})
	return ordered
}

func effectiveRank(s Summary, lookup map[string]Info) int {
	if info, ok := lookup[s.ID]; ok {
		return info.Rank
	}
	return math.MaxInt
}

func sortFallback(evals []Summary, fallback FallbackOrder) {
	switch fallback {
	case ByScore:
		sort.SliceStable(evals, func(i, j int) bool {
			si, sj := evals[i].TotalScore, evals[j].TotalScore
			if si == nil {
				return false
			}
			if sj == nil {
				return true
			}
			return *si > *sj
		})
	default:
		sort.SliceStable(evals, func(i, j int) bool {
			return evals[i].CreatedAt.After(evals[j].CreatedAt)
		})
	}
}

// Ranked pairs an evaluation with its rank and reason for the top panel.
type Ranked struct {
	Summary Summary `json:"evaluation"`
	Rank    int     `json:"rank"`
	Reason  string  `json:"reason"`
}

// TopN returns the n lowest-ranked (most recommended) evaluations ascending
// by rank. n values below 1 use DefaultTopCount. Unranked evaluations never
// appear in the result.
func TopN(evals []Summary, lookup map[string]Info, n int) []Ranked {
	if n < 1 {
		n = DefaultTopCount
	}

	ranked := make([]Ranked, 0, len(evals))
	for _, e := range evals {
		if info, ok := lookup[e.ID]; ok {
			ranked = append(ranked, Ranked{Summary: e, Rank: info.Rank, Reason: info.Reason})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rank < ranked[j].Rank
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
