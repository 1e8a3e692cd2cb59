package search

import "testing"

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"plywd", "plywood", 2},
		{"same", "same", 0},
		{"ñandú", "nandu", 2},
	}

	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q)=%d want=%d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Plywood 3/4in  4x8 ": "plywood 3 4in 4x8",
		"NM-B Cable":            "nm b cable",
		"Rebar #4":              "rebar 4",
		"   ":                   "",
	}
	for in, want := range tests {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("Plywood 3/4in 4x8", "plywood 3/4IN 4x8"); got != 1 {
		t.Fatalf("exact after normalization=%v want=1", got)
	}
	if got := Similarity("", "plywood"); got != 0 {
		t.Fatalf("empty query=%v", got)
	}
	if got := Similarity("plywood", "Plywood 3/4in 4x8"); got >= 1 || got < 0.9 {
		t.Fatalf("token containment=%v want in [0.9,1)", got)
	}

	abbrev := Similarity("plywd", "plywood")
	if abbrev < 0.8 || abbrev >= 1 {
		t.Fatalf("abbreviation=%v want in [0.8,1)", abbrev)
	}

	typo := Similarity("concrte", "concrete")
	if typo < 0.8 {
		t.Fatalf("typo=%v want >= 0.8", typo)
	}

	if got := Similarity("nails", "plywood"); got >= DefaultMinScore {
		t.Fatalf("unrelated=%v want < %v", got, DefaultMinScore)
	}
}

func TestAbbreviation(t *testing.T) {
	tests := []struct {
		a, b string
		ok   bool
	}{
		{"plywd", "plywood", true},
		{"cncrt", "concrete", true},
		{"pxy", "plywood", false},
		{"pl", "plywood", false},
		{"lywd", "plywood", false},
		{"plywood", "plywood", false},
	}
	for _, tt := range tests {
		got := abbreviation(tt.a, tt.b) > 0
		if got != tt.ok {
			t.Errorf("abbreviation(%q, %q) matched=%v want=%v", tt.a, tt.b, got, tt.ok)
		}
	}
}
