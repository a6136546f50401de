package session

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/services/search"
)

const (
	DefaultDelay     = 300 * time.Millisecond
	defaultCacheSize = 64
	defaultCacheTTL  = time.Minute
)

type Option func(*Session)

// WithDelay sets the quiet period before a query change is searched.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithHistory seeds the history, most recent first.
func WithHistory(entries []string) Option {
	return func(s *Session) {
		s.seedHistory = entries
	}
}

func WithHistorySize(n int) Option {
	return func(s *Session) {
		s.historySize = n
	}
}

func WithEngine(engine *search.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithCacheSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithCacheTTL bounds how long a cached result list is reused. The recency
// bonus inside a cached list is as old as the entry.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.cacheTTL = d
		}
	}
}
