// File path: internal/report/parse.go
package report

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cohortworks/bindery/internal/common/telemetry"
)

// NameMarker is the report title banner; the participant name is the line
// immediately above its first occurrence.
const NameMarker = "VIA Character Strengths Profile"

// UnknownName is the sentinel assigned when no banner line is found. It is a
// soft failure: downstream reconciliation surfaces it to the operator instead
// of aborting the run.
const UnknownName = "Unknown"

// RankedTrait is one character strength with its reported rank. Ranks come
// from the document text, not from list position; they are not required to be
// contiguous or to start at 1.
type RankedTrait struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// Profile is the identity recovered from one survey report.
type Profile struct {
	Name   string        `json:"name"`
	Traits []RankedTrait `json:"traits"`
}

var (
	nameRe  = regexp.MustCompile(`(?m)^(.*)\r?\n` + regexp.QuoteMeta(NameMarker))
	traitRe = regexp.MustCompile(`(\d+)\.\s+(.+)`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Parse recovers the participant name and ranked traits from extracted report
// text. It never fails: a missing banner yields the UnknownName sentinel and
// malformed text yields an empty trait list.
func Parse(text string) Profile {
	profile := Profile{Name: UnknownName}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		name := strings.TrimSpace(spaceRe.ReplaceAllString(m[1], " "))
		if name != "" {
			profile.Name = name
		}
	}

	for _, m := range traitRe.FindAllStringSubmatch(text, -1) {
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		profile.Traits = append(profile.Traits, RankedTrait{
			Rank:  rank,
			Label: strings.TrimSpace(m[2]),
		})
	}

	telemetry.RecordProfileParsed()
	return profile
}

// TopTraits returns up to n traits ordered by ascending rank. The sort is
// stable, so the first occurrence of a duplicated rank keeps its position.
func (p Profile) TopTraits(n int) []RankedTrait {
	sorted := make([]RankedTrait, len(p.Traits))
	copy(sorted, p.Traits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
