package ranking

import (
	"strings"
)

// Metric identifies a PlayerStats field usable as a tie-breaker.
type Metric int

// Recognized metrics. MetricUnknown values are 0 for every player.
const (
	MetricUnknown Metric = iota
	MetricPoints
	MetricExactHits
	MetricPartialHits
	MetricIncorrects
	MetricGoalsErrorSum
	MetricPlayedMatches
	MetricName
)

var metricNames = map[Metric]string{
	MetricPoints:        "points",
	MetricExactHits:     "exactHits",
	MetricPartialHits:   "partialHits",
	MetricIncorrects:    "incorrects",
	MetricGoalsErrorSum: "goalsErrorSum",
	MetricPlayedMatches: "playedMatches",
	MetricName:          "name",
}

// metricSynonyms is the only place where alternative spellings are resolved.
// Keys are normalized with normalizeKey.
var metricSynonyms = map[string]Metric{
	"points":            MetricPoints,
	"point":             MetricPoints,
	"pts":               MetricPoints,
	"puntos":            MetricPoints,
	"puntaje":           MetricPoints,
	"exacthits":         MetricExactHits,
	"exact":             MetricExactHits,
	"at":                MetricExactHits,
	"aciertosexactos":   MetricExactHits,
	"exactos":           MetricExactHits,
	"partialhits":       MetricPartialHits,
	"partial":           MetricPartialHits,
	"ap":                MetricPartialHits,
	"aciertosparciales": MetricPartialHits,
	"parciales":         MetricPartialHits,
	"incorrects":        MetricIncorrects,
	"incorrect":         MetricIncorrects,
	"errores":           MetricIncorrects,
	"errados":           MetricIncorrects,
	"goalserrorsum":     MetricGoalsErrorSum,
	"goalserror":        MetricGoalsErrorSum,
	"errorgoles":        MetricGoalsErrorSum,
	"diferenciagoles":   MetricGoalsErrorSum,
	"playedmatches":     MetricPlayedMatches,
	"played":            MetricPlayedMatches,
	"pj":                MetricPlayedMatches,
	"jugados":           MetricPlayedMatches,
	"partidosjugados":   MetricPlayedMatches,
	"name":              MetricName,
	"nombre":            MetricName,
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMetric resolves a configured key. The second result is false for
// unrecognized keys.
func ParseMetric(key string) (Metric, bool) {
	m, ok := metricSynonyms[normalizeKey(key)]
	return m, ok
}

func normalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(key)) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Direction is the sort direction of a criterion.
type Direction int

// Directions.
const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseDirection resolves an order string. ok is false for unrecognized input.
func ParseDirection(order string) (Direction, bool) {
	switch normalizeKey(order) {
	case "asc", "ascending", "ascendente", "menor":
		return Ascending, true
	case "desc", "descending", "descendente", "mayor":
		return Descending, true
	}
	return Descending, false
}

// Criterion is one link of a tie-breaker chain.
type Criterion struct {
	Metric    Metric
	Direction Direction
	// Key is the key as configured; it names the criterion when Metric is unknown.
	Key string
}

// Known reports whether the criterion names a recognized metric.
func (c Criterion) Known() bool { return c.Metric != MetricUnknown }

// Name returns the canonical metric name, or the raw key for unknown metrics.
func (c Criterion) Name() string {
	if c.Known() {
		return c.Metric.String()
	}
	return c.Key
}

// ParseCriterion builds a criterion from configuration. Unknown orders fall
// back to ascending for name and descending for numeric metrics.
func ParseCriterion(key, order string) Criterion {
	m, _ := ParseMetric(key)
	d, ok := ParseDirection(order)
	if !ok {
		d = Descending
		if m == MetricName {
			d = Ascending
		}
	}
	return Criterion{Metric: m, Direction: d, Key: key}
}

// DefaultCriteria is points desc, exact hits desc, incorrects asc.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{Metric: MetricPoints, Direction: Descending, Key: "points"},
		{Metric: MetricExactHits, Direction: Descending, Key: "exactHits"},
		{Metric: MetricIncorrects, Direction: Ascending, Key: "incorrects"},
	}
}

// UnknownKeys returns the configured keys that did not resolve to a metric.
func UnknownKeys(criteria []Criterion) []string {
	var keys []string
	for _, c := range criteria {
		if !c.Known() {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
