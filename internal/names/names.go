// File path: internal/names/names.go
package names

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cohortworks/bindery/internal/report"
)

// Generational and honorific suffixes dropped during splitting. Comparison is
// case-insensitive with or without a trailing period.
var suffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// Clean collapses runs of whitespace, applies Unicode NFC normalization and
// strips the report banner, which leaks into names extracted from scanned
// documents.
func Clean(display string) string {
	cleaned := strings.ReplaceAll(display, report.NameMarker, " ")
	cleaned = norm.NFC.String(cleaned)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Sanitize produces a filesystem-safe token for per-participant working
// files: whitespace becomes underscores and path separators are dropped.
func Sanitize(display string) string {
	cleaned := Clean(display)
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, cleaned)
	return strings.ReplaceAll(cleaned, " ", "_")
}

// Split decomposes a display name into (first, last) for tabular export.
//
// Comma-inverted forms ("Smith, Jon A.") treat the left side as the last
// name. Plain forms take the first token as the first name and fold every
// remaining token, middle names included, into the last name. Known suffixes
// are dropped from either side. A single-token name becomes (token, "") and
// an empty input ("", "").
func Split(display string) (first, last string) {
	cleaned := Clean(display)
	if cleaned == "" {
		return "", ""
	}

	if idx := strings.Index(cleaned, ","); idx >= 0 {
		lastTokens := dropTrailingSuffix(strings.Fields(cleaned[:idx]))
		firstTokens := dropTrailingSuffix(strings.Fields(cleaned[idx+1:]))
		if len(firstTokens) > 0 {
			first = firstTokens[0]
		}
		last = strings.Join(lastTokens, " ")
		return first, last
	}

	tokens := dropTrailingSuffix(strings.Fields(cleaned))
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], strings.Join(tokens[1:], " ")
	}
}

func dropTrailingSuffix(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	tail := strings.ToLower(strings.TrimSuffix(tokens[len(tokens)-1], "."))
	if suffixes[tail] {
		return tokens[:len(tokens)-1]
	}
	return tokens
}
