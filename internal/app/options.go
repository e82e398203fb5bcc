package service

import (
	"maps"
	"time"

	"github.com/okian/prode/internal/adapters/cache"
	"github.com/okian/prode/internal/adapters/matchdays"
	"github.com/okian/prode/internal/config"
	"github.com/okian/prode/pkg/logger"
	"golang.org/x/text/language"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where month data files are read from.
func WithSource(src matchdays.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithCache enables leaderboard caching for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
			s.cacheTTL = ttl
		}
	}
}

// WithMonths sets the configured months.
func WithMonths(months map[string]config.Month) Option {
	return func(s *Service) {
		s.months = maps.Clone(months)
	}
}

// WithCurrentMonth sets the month used when a request names none.
func WithCurrentMonth(id string) Option {
	return func(s *Service) {
		s.currentMonth = id
	}
}

// WithLocale sets the locale for name tie-breaks.
func WithLocale(tag language.Tag) Option {
	return func(s *Service) {
		if tag != language.Und {
			s.locale = tag
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDs overrides how ranking run ids are generated.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.runID = next
		}
	}
}
