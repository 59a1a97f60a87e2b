// File path: internal/strengths/context.go
package strengths

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/report"
)

// SlotCount is the number of rows in the sweet-spot template.
const SlotCount = 24

var titleCaser = cases.Title(language.English)

// Entry is one populated row of the sweet-spot table. Rows past the parsed
// trait list, or whose strength has no definition, carry empty strings.
type Entry struct {
	Strength string
	Definition
}

// TemplateContext builds the placeholder map consumed by the sweet-spot
// template: name plus strength{1..24}, underuse{1..24}, optimal{1..24} and
// overuse{1..24}. Traits are taken in ascending rank order; placeholders are
// 1-indexed.
func TemplateContext(name string, traits []report.RankedTrait) map[string]string {
	logger := common.Logger()
	ranked := report.Profile{Traits: traits}.TopTraits(SlotCount)

	context := make(map[string]string, SlotCount*4+1)
	context["name"] = name
	for i := 0; i < SlotCount; i++ {
		var entry Entry
		if i < len(ranked) {
			entry.Strength = titleCaser.String(ranked[i].Label)
			def, ok := Lookup(entry.Strength)
			if ok {
				entry.Definition = def
			} else {
				logger.Warn("strengths: no definition for strength", "strength", entry.Strength)
			}
		}
		idx := i + 1
		context[fmt.Sprintf("strength%d", idx)] = entry.Strength
		context[fmt.Sprintf("underuse%d", idx)] = entry.Underuse
		context[fmt.Sprintf("optimal%d", idx)] = entry.Optimal
		context[fmt.Sprintf("overuse%d", idx)] = entry.Overuse
	}
	return context
}

// Entries returns the 24 populated rows in template order, for renderers that
// draw the table directly instead of going through placeholder substitution.
func Entries(traits []report.RankedTrait) []Entry {
	logger := common.Logger()
	ranked := report.Profile{Traits: traits}.TopTraits(SlotCount)
	entries := make([]Entry, SlotCount)
	for i := 0; i < SlotCount && i < len(ranked); i++ {
		entries[i].Strength = titleCaser.String(ranked[i].Label)
		if def, ok := Lookup(entries[i].Strength); ok {
			entries[i].Definition = def
		} else {
			logger.Warn("strengths: no definition for strength", "strength", entries[i].Strength)
		}
	}
	return entries
}
