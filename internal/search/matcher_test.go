package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"BuildSupply/internal/catalog"
)

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "concrete_bag", Name: "Concrete Mix 60lb", Unit: "bag", Price: decimal.RequireFromString("5.75"), Keywords: []string{"concrete", "cement"}},
		{ID: "lumber_2x4", Name: "Lumber 2x4x8 SPF", Unit: "piece", Price: decimal.RequireFromString("4.25"), Keywords: []string{"lumber", "stud"}},
		{ID: "plywood_sheet", Name: "Plywood 3/4in 4x8", Unit: "sheet", Price: decimal.RequireFromString("42.50"), Keywords: []string{"plywood", "sheet"}},
	}
}

func TestMatch_Scenario(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	got := m.MatchAll([]string{"concrete", "plywd", "nails"}, testProducts())
	if len(got) != 3 {
		t.Fatalf("len=%d want=3", len(got))
	}

	want := []struct {
		query   string
		matched bool
		id      string
	}{
		{"concrete", true, "concrete_bag"},
		{"plywd", true, "plywood_sheet"},
		{"nails", false, ""},
	}
	for i, w := range want {
		r := got[i]
		if r.Query != w.query || r.Matched != w.matched {
			t.Fatalf("result %d: query=%q matched=%v, want %q %v (score=%v)", i, r.Query, r.Matched, w.query, w.matched, r.Score)
		}
		if !w.matched {
			if r.Product != nil {
				t.Fatalf("result %d: unmatched result carries product %q", i, r.Product.ID)
			}
			continue
		}
		if r.Product == nil || r.Product.ID != w.id {
			t.Fatalf("result %d: product=%v want=%s", i, r.Product, w.id)
		}
	}
}

func TestMatch_ExactDisplayNameScoresOne(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	products := testProducts()

	for _, p := range products {
		r := m.Match(p.Name, products)
		if r.Score != 1 {
			t.Fatalf("%s: score=%v want=1", p.Name, r.Score)
		}
		if !r.Matched || r.Product == nil || r.Product.ID != p.ID {
			t.Fatalf("%s: matched=%v product=%v", p.Name, r.Matched, r.Product)
		}
	}
}

func TestMatch_BlankQuery(t *testing.T) {
	m := NewMatcher(DefaultConfig())

	for _, q := range []string{"", "   ", "\t\n"} {
		r := m.Match(q, testProducts())
		if r.Matched || r.Product != nil || r.Score != 0 {
			t.Fatalf("query %q: %+v", q, r)
		}
	}
}

func TestMatch_BelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScore = 0.95
	m := NewMatcher(cfg)

	r := m.Match("plywd", testProducts())
	if r.Matched || r.Product != nil {
		t.Fatalf("expected no match, got %+v", r)
	}
	if r.Score <= 0 || r.Score >= cfg.MinScore {
		t.Fatalf("score=%v", r.Score)
	}
}

func TestMatch_NaNMinScoreFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScore = math.NaN()
	m := NewMatcher(cfg)

	r := m.Match("zzzzqqq", testProducts())
	if r.Matched || r.Product != nil {
		t.Fatalf("expected no match, got %+v", r)
	}
}

func TestMatch_TieBreaksOnSmallestID(t *testing.T) {
	products := []catalog.Product{
		{ID: "z_hammer", Name: "Claw Hammer"},
		{ID: "b_hammer", Name: "Claw Hammer"},
		{ID: "m_hammer", Name: "Claw Hammer"},
	}
	m := NewMatcher(DefaultConfig())

	for i := 0; i < 10; i++ {
		r := m.Match("claw hammer", products)
		if r.Product == nil || r.Product.ID != "b_hammer" {
			t.Fatalf("product=%v want=b_hammer", r.Product)
		}
		if len(r.Suggestions) != 2 || r.Suggestions[0].ID != "m_hammer" || r.Suggestions[1].ID != "z_hammer" {
			t.Fatalf("suggestions=%v", r.Suggestions)
		}
	}
}

func TestMatch_Suggestions(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	products := catalog.DefaultProducts()

	r := m.Match("pipe", products)
	if !r.Matched || r.Product.ID != "copper_pipe_10ft" {
		t.Fatalf("product=%v", r.Product)
	}
	if len(r.Suggestions) == 0 || r.Suggestions[0].ID != "pvc_pipe_10ft" {
		t.Fatalf("suggestions=%v", r.Suggestions)
	}
	if len(r.Suggestions) > DefaultMaxSuggestions {
		t.Fatalf("too many suggestions: %d", len(r.Suggestions))
	}

	cfg := DefaultConfig()
	cfg.MaxSuggestions = 0
	if r := NewMatcher(cfg).Match("pipe", products); len(r.Suggestions) != 0 {
		t.Fatalf("suggestions disabled but got %v", r.Suggestions)
	}
}

func TestMatchAll_PreservesOrderAndDuplicates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 8
	m := NewMatcher(cfg)
	products := catalog.DefaultProducts()

	queries := make([]string, 0, 60)
	for i := 0; i < 20; i++ {
		queries = append(queries, "brick", fmt.Sprintf("q-%d", i), "brick")
	}

	got := m.MatchAll(queries, products)
	if len(got) != len(queries) {
		t.Fatalf("len=%d want=%d", len(got), len(queries))
	}
	for i, r := range got {
		if r.Query != queries[i] {
			t.Fatalf("result %d query=%q want=%q", i, r.Query, queries[i])
		}
		if r.Query == "brick" && (r.Product == nil || r.Product.ID != "brick_clay") {
			t.Fatalf("result %d: product=%v", i, r.Product)
		}
	}
}

func TestMatchAll_Empty(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	if got := m.MatchAll(nil, testProducts()); len(got) != 0 {
		t.Fatalf("len=%d", len(got))
	}
}
