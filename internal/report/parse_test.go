// File path: internal/report/parse_test.go
package report

import "testing"

func TestParseRecoversNameAboveBanner(t *testing.T) {
	text := "Report generated 2024-01-05\nJane  Q.  Public\nVIA Character Strengths Profile\n"
	profile := Parse(text)
	if profile.Name != "Jane Q. Public" {
		t.Fatalf("expected collapsed name, got %q", profile.Name)
	}
}

func TestParseNameDefaultsToUnknown(t *testing.T) {
	for _, text := range []string{"", "no banner anywhere", "VIA Character Strengths Profile\n1. Humor"} {
		profile := Parse(text)
		if profile.Name != UnknownName {
			t.Fatalf("text %q: expected sentinel name, got %q", text, profile.Name)
		}
	}
}

func TestParseTraitsInDocumentOrder(t *testing.T) {
	profile := Parse("1. Curiosity\n2. Humor\n3. Zest\n")
	want := []RankedTrait{{1, "Curiosity"}, {2, "Humor"}, {3, "Zest"}}
	if len(profile.Traits) != len(want) {
		t.Fatalf("expected %d traits, got %d", len(want), len(profile.Traits))
	}
	for i, trait := range profile.Traits {
		if trait != want[i] {
			t.Fatalf("trait %d: expected %+v, got %+v", i, want[i], trait)
		}
	}
}

func TestParseKeepsGapsAndDuplicates(t *testing.T) {
	profile := Parse("3. Zest\n3. Humor\n7. Hope\n")
	if len(profile.Traits) != 3 {
		t.Fatalf("expected all matches kept, got %d", len(profile.Traits))
	}
	if profile.Traits[0].Rank != 3 || profile.Traits[2].Rank != 7 {
		t.Fatalf("ranks not preserved: %+v", profile.Traits)
	}
}

func TestTopTraitsSortsByRankStable(t *testing.T) {
	profile := Profile{Traits: []RankedTrait{
		{Rank: 5, Label: "Hope"},
		{Rank: 1, Label: "Curiosity"},
		{Rank: 5, Label: "Humor"},
		{Rank: 2, Label: "Zest"},
	}}
	top := profile.TopTraits(3)
	if len(top) != 3 {
		t.Fatalf("expected 3 traits, got %d", len(top))
	}
	if top[0].Label != "Curiosity" || top[1].Label != "Zest" {
		t.Fatalf("ascending rank order broken: %+v", top)
	}
	// First occurrence of a duplicated rank wins the earlier slot.
	if top[2].Label != "Hope" {
		t.Fatalf("stable sort expected Hope before Humor, got %+v", top)
	}
}

func TestTopTraitsHandlesShortLists(t *testing.T) {
	profile := Profile{Traits: []RankedTrait{{Rank: 1, Label: "Zest"}}}
	if got := profile.TopTraits(24); len(got) != 1 {
		t.Fatalf("expected 1 trait, got %d", len(got))
	}
	if got := (Profile{}).TopTraits(24); len(got) != 0 {
		t.Fatalf("expected empty slice for empty profile, got %d", len(got))
	}
}
