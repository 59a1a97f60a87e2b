// File path: internal/match/match.go
package match

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/cohortworks/bindery/internal/common"
)

// DefaultThreshold is the similarity score (0-100) at or above which two
// display names are treated as the same person.
const DefaultThreshold = 80

// Pair couples a roster entry with the survey document it was matched to.
type Pair struct {
	RosterName string `json:"roster_name"`
	DocName    string `json:"doc_name"`
	DocSource  string `json:"doc_source"`
	Score      int    `json:"score"`
}

// Orphan is a document-derived name with no roster counterpart.
type Orphan struct {
	DocName   string `json:"doc_name"`
	DocSource string `json:"doc_source"`
}

// Result classifies every roster name and every document name into exactly
// one bucket: a matched pair, a roster entry missing its document, or a
// document missing its roster entry.
type Result struct {
	Pairs         []Pair   `json:"pairs"`
	MissingDoc    []string `json:"missing_doc"`
	MissingRoster []Orphan `json:"missing_roster"`
}

// Ratio scores the similarity of two strings on a 0-100 scale using the
// Levenshtein distance over the full strings. Identical strings score 100,
// fully disjoint ones 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	dmp := diffmatchpatch.New()
	dist := dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
	if dist >= longest {
		return 0
	}
	return (longest - dist) * 100 / longest
}

// IsNameMatch reports whether two names score at or above the threshold.
// A threshold of 0 or below falls back to DefaultThreshold.
func IsNameMatch(a, b string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return Ratio(a, b) >= threshold
}

type candidate struct {
	rosterIdx int
	source    string
	score     int
}

// Reconcile pairs roster names with document-derived names. docNames maps a
// document source identifier (typically the uploaded filename) to the name
// extracted from it.
//
// Unlike a per-name greedy scan, every pairwise score is computed up front and
// pairs are selected globally highest-score-first, ties broken by roster name
// then document source. Both sides of a selected pair leave the pool, so the
// two directions of the reconciliation can never disagree and the result is
// deterministic regardless of input order.
func Reconcile(rosterNames []string, docNames map[string]string, threshold int) Result {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	logger := common.Logger()

	roster := dedupe(rosterNames)
	sources := make([]string, 0, len(docNames))
	for source := range docNames {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var candidates []candidate
	for i, rosterName := range roster {
		for _, source := range sources {
			score := Ratio(rosterName, docNames[source])
			if score >= threshold {
				candidates = append(candidates, candidate{rosterIdx: i, source: source, score: score})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if roster[candidates[i].rosterIdx] != roster[candidates[j].rosterIdx] {
			return roster[candidates[i].rosterIdx] < roster[candidates[j].rosterIdx]
		}
		return candidates[i].source < candidates[j].source
	})

	var result Result
	usedRoster := make(map[int]bool, len(roster))
	usedSource := make(map[string]bool, len(sources))
	for _, c := range candidates {
		if usedRoster[c.rosterIdx] || usedSource[c.source] {
			continue
		}
		usedRoster[c.rosterIdx] = true
		usedSource[c.source] = true
		result.Pairs = append(result.Pairs, Pair{
			RosterName: roster[c.rosterIdx],
			DocName:    docNames[c.source],
			DocSource:  c.source,
			Score:      c.score,
		})
	}
	sort.Slice(result.Pairs, func(i, j int) bool {
		return result.Pairs[i].RosterName < result.Pairs[j].RosterName
	})

	for i, rosterName := range roster {
		if !usedRoster[i] {
			result.MissingDoc = append(result.MissingDoc, rosterName)
		}
	}
	sort.Strings(result.MissingDoc)
	for _, source := range sources {
		if !usedSource[source] {
			result.MissingRoster = append(result.MissingRoster, Orphan{DocName: docNames[source], DocSource: source})
		}
	}

	logger.Info(
		"match: reconciliation complete",
		"roster", len(roster),
		"documents", len(sources),
		"pairs", len(result.Pairs),
		"missing_doc", len(result.MissingDoc),
		"missing_roster", len(result.MissingRoster),
		"threshold", threshold,
	)
	return result
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}
