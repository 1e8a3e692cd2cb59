// Package search ranks catalog products against free-text queries.
package search

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"BuildSupply/internal/catalog"
)

const (
	DefaultMinScore       = 0.4
	DefaultMaxSuggestions = 3
	DefaultWorkers        = 4
)

type Config struct {
	MinScore       float64
	MaxSuggestions int
	Workers        int
}

func DefaultConfig() Config {
	return Config{
		MinScore:       DefaultMinScore,
		MaxSuggestions: DefaultMaxSuggestions,
		Workers:        DefaultWorkers,
	}
}

// Result is the outcome for one query. Product is nil when Matched is false.
type Result struct {
	Query       string            `json:"query"`
	Matched     bool              `json:"matched"`
	Score       float64           `json:"score"`
	Product     *catalog.Product  `json:"product,omitempty"`
	Suggestions []catalog.Product `json:"suggestions,omitempty"`
}

type Matcher struct {
	cfg Config
}

func NewMatcher(cfg Config) *Matcher {
	if math.IsNaN(cfg.MinScore) {
		cfg.MinScore = DefaultConfig().MinScore
	}
	if cfg.MaxSuggestions < 0 {
		cfg.MaxSuggestions = 0
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Matcher{cfg: cfg}
}

type candidate struct {
	idx   int
	score float64
}

// Match returns the best product for query, or an unmatched result when the
// query is blank or nothing reaches the minimum score. Equal scores go to the
// smallest product id.
func (m *Matcher) Match(query string, products []catalog.Product) Result {
	res := Result{Query: query}
	if strings.TrimSpace(query) == "" {
		return res
	}

	cands := make([]candidate, 0, len(products))
	for i := range products {
		cands = append(cands, candidate{idx: i, score: productScore(query, &products[i])})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return products[cands[i].idx].ID < products[cands[j].idx].ID
	})

	if len(cands) == 0 {
		return res
	}
	res.Score = cands[0].score
	if res.Score < m.cfg.MinScore {
		return res
	}

	res.Matched = true
	res.Product = &products[cands[0].idx]

	for _, c := range cands[1:] {
		if len(res.Suggestions) >= m.cfg.MaxSuggestions || c.score < m.cfg.MinScore {
			break
		}
		res.Suggestions = append(res.Suggestions, products[c.idx])
	}
	return res
}

// MatchAll returns one result per query in input order. Queries are scored
// independently on up to Workers goroutines.
func (m *Matcher) MatchAll(queries []string, products []catalog.Product) []Result {
	out := make([]Result, len(queries))

	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for i, q := range queries {
		g.Go(func() error {
			out[i] = m.Match(q, products)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// productScore is the best similarity of query against the product name,
// each keyword, and all of them pooled together.
func productScore(query string, p *catalog.Product) float64 {
	best := Similarity(query, p.Name)
	for _, kw := range p.Keywords {
		if s := Similarity(query, kw); s > best {
			best = s
		}
	}
	if len(p.Keywords) > 0 {
		pooled := p.Name + " " + strings.Join(p.Keywords, " ")
		if s := Similarity(query, pooled); s > best {
			best = s
		}
	}
	return best
}
