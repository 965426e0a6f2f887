// Package ranking merges LLM-produced candidate rankings with stored
// evaluation summaries into a stable display order.
//
// The ranking response is untrusted free-form JSON: every entry is validated
// field by field and invalid entries are discarded rather than failing the
// whole response.
package ranking

import (
	"encoding/json"
	"time"
)

// Summary is the read-only evaluation view the aggregator works with.
type Summary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	RoleTitle     string    `json:"role_title,omitempty"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Decision      string    `json:"decision,omitempty"`
	TotalScore    *float64  `json:"total_score,omitempty"`
}

// Entry is one validated (id, rank, reason) tuple from the ranking response.
type Entry struct {
	ID     string `json:"id"`
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// Info is the per-candidate lookup value derived from an Entry.
type Info struct {
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// ParseResponse parses a raw LLM ranking response of the shape
// {"rankings":[{"id":"...","rank":1,"reason":"..."}]} into validated entries.
// Any input that is not valid JSON, or whose rankings field is missing or not
// a list, yields zero entries. Entries with an empty id or a non-positive
// rank are discarded.
func ParseResponse(raw string) []Entry {
	var envelope struct {
		Rankings []json.RawMessage `json:"rankings"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(envelope.Rankings))
	for _, item := range envelope.Rankings {
		var fields map[string]any
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}

		id, _ := fields["id"].(string)
		if id == "" {
			continue
		}

		// JSON numbers decode as float64; models sometimes emit ranks
		// as floats ("rank": 1.0), which are accepted when integral.
		rankValue, ok := fields["rank"].(float64)
		if !ok || rankValue < 1 || rankValue != float64(int(rankValue)) {
			continue
		}

		reason, _ := fields["reason"].(string)

		entries = append(entries, Entry{
			ID:     id,
			Rank:   int(rankValue),
			Reason: reason,
		})
	}

	return entries
}

// BuildLookup converts entries into a per-evaluation lookup.
// When the same id appears more than once, the first occurrence wins.
func BuildLookup(entries []Entry) map[string]Info {
	lookup := make(map[string]Info, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if _, seen := lookup[e.ID]; seen {
			continue
		}
		lookup[e.ID] = Info{Rank: e.Rank, Reason: e.Reason}
	}
	return lookup
}
