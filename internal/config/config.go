// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Months are pure data; the ranking core never reads configuration directly.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/okian/prode/internal/domain/ranking"
	"github.com/okian/prode/internal/domain/standings"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RequestTimeout bounds how long one HTTP request may run.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// DataDir is where relative month data files are resolved.
	DataDir string `koanf:"data_dir"`

	// CurrentMonth is served when a request names no month.
	CurrentMonth string `koanf:"current_month"`

	// Locale is the BCP 47 tag used to order tied names.
	Locale string `koanf:"locale"`

	// CORSOrigins lists allowed browser origins for the API.
	CORSOrigins []string `koanf:"cors_origins"`

	// CacheBackend is one of memory, redis, none.
	CacheBackend string `koanf:"cache_backend"`

	// RedisURL is required when CacheBackend is redis.
	RedisURL string `koanf:"redis_url"`

	// CacheTTL bounds how long a computed leaderboard is reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RefreshWorkers recompute months in the background while serving.
	// Zero disables background refresh.
	RefreshWorkers int `koanf:"refresh_workers"`

	// RefreshInterval re-enqueues every month periodically. Zero refreshes
	// once at startup only.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// Months maps a month id to its roster, data file and ranking rules.
	Months map[string]Month `koanf:"months"`
}

// Month configures one competition period.
type Month struct {
	Label       string       `koanf:"label"`
	DataFile    string       `koanf:"data_file"`
	Roster      []string     `koanf:"roster"`
	TieBreakers []TieBreaker `koanf:"tie_breakers"`
	Prizes      []Prize      `koanf:"prizes"`
}

// TieBreaker is one configured link of the ranking chain.
type TieBreaker struct {
	Key   string `koanf:"key"`
	Order string `koanf:"order"`
}

// Prize binds a text to final display ranks.
type Prize struct {
	Text      string `koanf:"text"`
	Positions []int  `koanf:"positions"`
}

// New creates a Config with defaults. No months are configured by default.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		RequestTimeout: 15 * time.Second,
		DataDir:        "data",
		Locale:         "es",
		CORSOrigins:    []string{"*"},
		CacheBackend:   "memory",
		CacheTTL:       30 * time.Second,

		RefreshWorkers:  2,
		RefreshInterval: 5 * time.Minute,
	}
}

// LocaleTag parses Locale, falling back to Spanish when it is not a valid tag.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return ranking.DefaultLocale
	}
	return tag
}

// MonthIDs returns configured month ids in natural order, so "month2"
// comes before "month10".
func (c *Config) MonthIDs() []string {
	ids := make([]string, 0, len(c.Months))
	for id := range c.Months {
		ids = append(ids, id)
	}
	col := collate.New(language.Und, collate.Numeric)
	slices.SortFunc(ids, func(a, b string) int {
		if r := col.CompareString(a, b); r != 0 {
			return r
		}
		return strings.Compare(a, b)
	})
	return ids
}

// Criteria converts the configured chain. A month without tie breakers
// returns nil, which selects the default chain.
func (m Month) Criteria() []ranking.Criterion {
	if len(m.TieBreakers) == 0 {
		return nil
	}
	out := make([]ranking.Criterion, len(m.TieBreakers))
	for i, tb := range m.TieBreakers {
		out[i] = ranking.ParseCriterion(tb.Key, tb.Order)
	}
	return out
}

// PrizeList converts configured prizes to their domain form.
func (m Month) PrizeList() []standings.Prize {
	out := make([]standings.Prize, len(m.Prizes))
	for i, p := range m.Prizes {
		out[i] = standings.Prize{Text: p.Text, Positions: slices.Clone(p.Positions)}
	}
	return out
}
