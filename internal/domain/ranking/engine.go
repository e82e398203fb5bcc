// Package ranking orders player stats by a configurable tie-breaker chain and
// assigns competition-style display ranks.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/prode/internal/domain/stats"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used for name comparison when none is configured.
var DefaultLocale = language.Spanish

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLocale sets the locale used to compare names.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		if tag != language.Und {
			e.locale = tag
		}
	}
}

// Engine owns the players of one ranking run. It is not safe for concurrent
// use; build one per run.
type Engine struct {
	players  []*stats.Player
	criteria []Criterion
	locale   language.Tag
	collator *collate.Collator
}

// New creates an engine with one zeroed player per roster entry, in roster
// order. A nil criteria list selects DefaultCriteria; an empty one ranks by
// name only.
func New(roster []string, criteria []Criterion, opts ...Option) *Engine {
	if criteria == nil {
		criteria = DefaultCriteria()
	}
	e := &Engine{
		players:  make([]*stats.Player, len(roster)),
		criteria: slices.Clone(criteria),
		locale:   DefaultLocale,
	}
	for i, name := range roster {
		e.players[i] = stats.NewPlayer(name)
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	e.collator = collate.New(e.locale)
	return e
}

// Players returns the players in roster order.
func (e *Engine) Players() []*stats.Player { return e.players }

// Player returns the player at roster index i, or nil when out of range.
func (e *Engine) Player(i int) *stats.Player {
	if i < 0 || i >= len(e.players) {
		return nil
	}
	return e.players[i]
}

// Criteria returns the configured tie-breaker chain.
func (e *Engine) Criteria() []Criterion { return slices.Clone(e.criteria) }

// Sort returns the players in ranking order without reordering the roster.
// The first criterion that differs decides; full ties fall back to name.
func (e *Engine) Sort() []*stats.Player {
	sorted := slices.Clone(e.players)
	slices.SortStableFunc(sorted, e.compare)
	return sorted
}

// Positions assigns 1-based display ranks to sorted players. Adjacent players
// share a rank only when every configured criterion ties; the rank after a
// tied group equals the 1-based index (1, 1, 3).
func (e *Engine) Positions(sorted []*stats.Player) []int {
	ranks := make([]int, len(sorted))
	for i := range sorted {
		if i > 0 && e.tied(sorted[i-1], sorted[i]) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

func (e *Engine) compare(a, b *stats.Player) int {
	for _, c := range e.criteria {
		if r := e.compareBy(c, a, b); r != 0 {
			return r
		}
	}
	return e.compareNames(a.Name, b.Name)
}

func (e *Engine) tied(a, b *stats.Player) bool {
	for _, c := range e.criteria {
		if e.compareBy(c, a, b) != 0 {
			return false
		}
	}
	return true
}

func (e *Engine) compareBy(c Criterion, a, b *stats.Player) int {
	var r int
	if c.Metric == MetricName {
		r = e.compareNames(a.Name, b.Name)
	} else {
		r = cmp.Compare(value(c.Metric, a), value(c.Metric, b))
	}
	if c.Direction == Descending {
		return -r
	}
	return r
}

// compareNames uses the locale collation, then raw bytes so that distinct
// names never compare equal.
func (e *Engine) compareNames(a, b string) int {
	if r := e.collator.CompareString(a, b); r != 0 {
		return r
	}
	return cmp.Compare(a, b)
}

// value resolves a numeric metric. Unknown metrics are 0 for everyone.
func value(m Metric, p *stats.Player) int {
	switch m {
	case MetricPoints:
		return p.Points
	case MetricExactHits:
		return p.ExactHits
	case MetricPartialHits:
		return p.PartialHits
	case MetricIncorrects:
		return p.Incorrects
	case MetricGoalsErrorSum:
		return p.GoalsErrorSum
	case MetricPlayedMatches:
		return p.PlayedMatches
	default:
		return 0
	}
}
