// Package service provides the application service behind the HTTP API and
// the CLI: it resolves months, loads their data and runs the ranking.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/okian/prode/internal/adapters/cache"
	"github.com/okian/prode/internal/adapters/matchdays"
	"github.com/okian/prode/internal/config"
	"github.com/okian/prode/internal/domain/ranking"
	"github.com/okian/prode/internal/domain/scoring"
	"github.com/okian/prode/internal/domain/standings"
	"github.com/okian/prode/pkg/logger"
	"github.com/okian/prode/pkg/metrics"
	"golang.org/x/text/language"
)

// MonthSummary describes a configured month.
type MonthSummary struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Current     bool     `json:"current"`
	Players     int      `json:"players"`
	TieBreakers []string `json:"tieBreakers"`
}

// Leaderboard is the result of one ranking run.
type Leaderboard struct {
	Month       string               `json:"month"`
	Label       string               `json:"label"`
	RunID       string               `json:"runId"`
	GeneratedAt time.Time            `json:"generatedAt"`
	TieBreakers []string             `json:"tieBreakers"`
	Standings   []standings.Standing `json:"standings"`
}

// ScoredMonth lists a month's matchdays with every prediction classified.
type ScoredMonth struct {
	Month           string                     `json:"month"`
	Label           string                     `json:"label"`
	CurrentMatchday int                        `json:"currentMatchday"`
	Matchdays       []standings.ScoredMatchday `json:"matchdays"`
}

// Service serves leaderboards for the configured months. It holds no ranking
// state between calls; every Standings call is an isolated run.
type Service struct {
	logger       logger.Logger
	source       matchdays.Source
	cache        cache.Cache
	cacheTTL     time.Duration
	months       map[string]config.Month
	currentMonth string
	locale       language.Tag
	now          func() time.Time
	runID        func() string
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source: matchdays.NewFileSource("."),
		cache:  cache.Nop{},
		months: map[string]config.Month{},
		locale: ranking.DefaultLocale,
		now:    time.Now,
		runID:  uuid.NewString,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// Start reports the configuration and flags tie-breaker keys that will
// never decide anything.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info(ctx, "starting standings service",
		logger.Int("months", len(s.months)),
		logger.String("current_month", s.currentMonth),
		logger.String("locale", s.locale.String()),
		logger.Duration("cache_ttl", s.cacheTTL),
	)

	for _, id := range s.monthIDs() {
		unknown := ranking.UnknownKeys(s.months[id].Criteria())
		metrics.UpdateUnknownTieBreakers(id, len(unknown))
		if len(unknown) > 0 {
			s.logger.Warn(ctx, "unknown tie-breaker keys resolve to 0 for every player",
				logger.String("month", id),
				logger.Strings("keys", unknown),
			)
		}
	}
	return nil
}

// Months returns a summary of every configured month, sorted by id.
func (s *Service) Months(_ context.Context) []MonthSummary {
	ids := s.monthIDs()
	out := make([]MonthSummary, 0, len(ids))
	for _, id := range ids {
		m := s.months[id]
		out = append(out, MonthSummary{
			ID:          id,
			Label:       m.Label,
			Current:     id == s.currentMonth,
			Players:     len(m.Roster),
			TieBreakers: describe(m.Criteria()),
		})
	}
	return out
}

// Standings computes the leaderboard of a month. An empty id selects the
// current month.
func (s *Service) Standings(ctx context.Context, monthID string) (Leaderboard, error) {
	id, month, err := s.resolve(monthID)
	if err != nil {
		return Leaderboard{}, err
	}

	runID := s.runID()
	log := s.logger.With(logger.String("run_id", runID), logger.String("month", id))

	doc, err := s.load(ctx, id, month)
	if err != nil {
		log.Error(ctx, "loading matchdays failed", logger.Error(err))
		return Leaderboard{}, err
	}

	key := cache.Key("standings", id, doc.Checksum, s.fingerprint(month))
	var cached Leaderboard
	switch err := s.cache.Get(ctx, key, &cached); {
	case err == nil:
		metrics.RecordCacheHit()
		log.Debug(ctx, "standings served from cache", logger.String("cached_run_id", cached.RunID))
		return cached, nil
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.RecordCacheMiss()
	default:
		metrics.RecordCacheError()
		log.Warn(ctx, "cache lookup failed", logger.Error(err))
	}

	start := time.Now()
	criteria := month.Criteria()
	rows := standings.Accumulate(doc.Matchdays, month.Roster, criteria,
		standings.WithLocale(s.locale),
		standings.WithOutcomeHook(func(o scoring.Outcome) {
			metrics.RecordPredictionScored(o.String())
		}),
	)
	rows = standings.AwardPrizes(rows, month.PrizeList())
	elapsed := time.Since(start)

	metrics.RecordRankingRun(id, float64(elapsed.Microseconds())/1000)
	metrics.UpdatePlayersRanked(id, len(rows))
	log.Debug(ctx, "standings computed",
		logger.Int("players", len(rows)),
		logger.Int("matchdays", len(doc.Matchdays)),
		logger.Duration("elapsed", elapsed),
	)

	lb := Leaderboard{
		Month:       id,
		Label:       month.Label,
		RunID:       runID,
		GeneratedAt: s.now().UTC(),
		TieBreakers: describe(criteria),
		Standings:   rows,
	}
	if err := s.cache.Set(ctx, key, lb, s.cacheTTL); err != nil {
		metrics.RecordCacheError()
		log.Warn(ctx, "cache store failed", logger.Error(err))
	}
	return lb, nil
}

// Refresh recomputes a month so the next request finds it cached. It is
// cheap when neither the data nor the rules changed.
func (s *Service) Refresh(ctx context.Context, monthID string) error {
	_, err := s.Standings(ctx, monthID)
	return err
}

// MonthIDs returns configured month ids in sorted order.
func (s *Service) MonthIDs() []string {
	return s.monthIDs()
}

// Matchdays returns the month's matchdays with per-prediction outcomes.
func (s *Service) Matchdays(ctx context.Context, monthID string) (ScoredMonth, error) {
	id, month, err := s.resolve(monthID)
	if err != nil {
		return ScoredMonth{}, err
	}
	doc, err := s.load(ctx, id, month)
	if err != nil {
		s.logger.Error(ctx, "loading matchdays failed", logger.String("month", id), logger.Error(err))
		return ScoredMonth{}, err
	}
	return ScoredMonth{
		Month:           id,
		Label:           month.Label,
		CurrentMatchday: standings.CurrentIndex(doc.Matchdays),
		Matchdays:       standings.Breakdown(doc.Matchdays),
	}, nil
}

func (s *Service) resolve(monthID string) (string, config.Month, error) {
	id := strings.TrimSpace(monthID)
	if id == "" {
		id = s.currentMonth
	}
	m, ok := s.months[id]
	if !ok {
		return "", config.Month{}, fmt.Errorf("%w: %q", ErrMonthNotFound, id)
	}
	return id, m, nil
}

func (s *Service) load(ctx context.Context, id string, m config.Month) (matchdays.Document, error) {
	doc, err := s.source.Load(ctx, m.DataFile)
	if err != nil {
		metrics.RecordLoadError(id)
		return matchdays.Document{}, fmt.Errorf("%w: month %q: %w", ErrLoadMatchdays, id, err)
	}
	return doc, nil
}

// fingerprint identifies the configuration a month's leaderboard was built
// from, so cached results are not reused across configuration changes.
func (s *Service) fingerprint(m config.Month) string {
	h := xxhash.New()
	_, _ = h.WriteString(s.locale.String())
	_, _ = h.WriteString("\x00l" + m.Label)
	for _, name := range m.Roster {
		_, _ = h.WriteString("\x00r" + name)
	}
	for _, c := range describe(m.Criteria()) {
		_, _ = h.WriteString("\x00c" + c)
	}
	for _, p := range m.Prizes {
		_, _ = h.WriteString("\x00p" + p.Text)
		for _, pos := range p.Positions {
			_, _ = h.WriteString("," + strconv.Itoa(pos))
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func (s *Service) monthIDs() []string {
	cfg := config.Config{Months: s.months}
	return cfg.MonthIDs()
}

// describe renders a chain as "key order" pairs; nil is the default chain.
func describe(criteria []ranking.Criterion) []string {
	if criteria == nil {
		criteria = ranking.DefaultCriteria()
	}
	out := make([]string, len(criteria))
	for i, c := range criteria {
		out[i] = c.Name() + " " + c.Direction.String()
	}
	return out
}
