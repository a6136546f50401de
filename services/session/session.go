package session

import (
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/search"
)

// State is a point in time copy of a session. Results are shared with the
// session's cache and must be treated as read only.
type State struct {
	Query          string          `json:"query"`
	DebouncedQuery string          `json:"debouncedQuery"`
	Filters        search.Filters  `json:"filters"`
	Results        []search.Result `json:"results"`
	Suggestions    []string        `json:"suggestions"`
	History        []string        `json:"history"`
	Pending        bool            `json:"pending"`
	Revision       uint64          `json:"revision"`
	Evaluations    uint64          `json:"evaluations"`
}

// Session keeps the search state behind one search surface. Query changes are
// debounced; filter and note changes and clears apply at once.
type Session struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	delay       time.Duration
	engine      *search.Engine
	logger      logger.Logger
	cache       *expirable.LRU[string, []search.Result]
	cacheSize   int
	cacheTTL    time.Duration
	history     *History
	historySize int
	seedHistory []string

	notes          []notes.Note
	keywords       []string
	query          string
	debouncedQuery string
	filters        search.Filters
	results        []search.Result
	suggestions    []string
	revision       uint64
	evaluations    uint64

	// At most one debounce timer is pending. generation is bumped whenever
	// it is cancelled so a callback that already fired can tell it is stale.
	pending    clockwork.Timer
	generation uint64

	closed    bool
	listeners []func(State)
}

func New(opts ...Option) *Session {
	s := &Session{
		clock:     clockwork.NewRealClock(),
		delay:     DefaultDelay,
		engine:    search.NewEngine(),
		logger:    logger.NewWithWriter(io.Discard, "error"),
		cacheSize: defaultCacheSize,
		cacheTTL:  defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = NewHistory(s.historySize, s.seedHistory)
	s.seedHistory = nil
	s.cache = expirable.NewLRU[string, []search.Result](s.cacheSize, nil, s.cacheTTL)
	return s
}

// OnChange registers fn to receive the state after every change. fn runs
// outside the session lock, on the goroutine that made the change.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SetQuery records query and schedules a search once input has been quiet for
// the debounce delay. A blank query clears at once.
func (s *Session) SetQuery(query string) {
	if strings.TrimSpace(query) == "" {
		s.ClearQuery()
		return
	}
	s.mutate(func() bool {
		s.query = query
		s.suggestions = suggest(query, s.keywords, s.history.entries)
		s.schedule(query)
		return true
	})
}

func (s *Session) ClearQuery() {
	s.mutate(func() bool {
		s.cancelPending()
		s.query = ""
		s.debouncedQuery = ""
		s.suggestions = nil
		s.evaluate()
		return true
	})
}

func (s *Session) SetFilters(filters search.Filters) {
	s.mutate(func() bool {
		s.filters = cloneFilters(filters)
		s.evaluate()
		return true
	})
}

func (s *Session) ClearFilters() {
	s.mutate(func() bool {
		s.filters = search.Filters{}
		s.evaluate()
		return true
	})
}

// SetNotes replaces the collection searched. Cached results and keywords are
// recomputed.
func (s *Session) SetNotes(all []notes.Note) {
	snapshot := make([]notes.Note, len(all))
	for i, note := range all {
		snapshot[i] = note.Clone()
	}
	keywords := search.ExtractKeywords(snapshot)

	s.mutate(func() bool {
		s.notes = snapshot
		s.keywords = keywords
		s.cache.Purge()
		s.suggestions = suggest(s.query, s.keywords, s.history.entries)
		s.evaluate()
		return true
	})
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close cancels any pending search and detaches listeners. Later calls are
// ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancelPending()
	s.listeners = nil
	s.cache.Purge()
}

func (s *Session) mutate(fn func() bool) {
	s.mu.Lock()
	if s.closed || !fn() {
		s.mu.Unlock()
		return
	}
	s.revision++
	state := s.snapshotLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(state)
	}
}

func (s *Session) schedule(query string) {
	s.cancelPending()
	generation := s.generation
	s.pending = s.clock.AfterFunc(s.delay, func() {
		s.fire(generation, query)
	})
}

func (s *Session) cancelPending() {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) fire(generation uint64, query string) {
	s.mutate(func() bool {
		if generation != s.generation {
			return false
		}
		s.pending = nil
		s.debouncedQuery = query
		s.evaluate()
		return true
	})
}

// evaluate refreshes the results for the debounced query and records that
// query in history whenever it finds something.
func (s *Session) evaluate() {
	s.evaluations++
	key := s.debouncedQuery + "\x00" + s.filters.Fingerprint()
	if cached, ok := s.cache.Get(key); ok {
		s.results = cached
	} else {
		s.results = s.engine.Search(s.notes, s.debouncedQuery, s.filters)
		s.cache.Add(key, s.results)
	}

	if strings.TrimSpace(s.debouncedQuery) == "" || len(s.results) == 0 {
		return
	}
	if s.history.Add(s.debouncedQuery) {
		s.logger.Debug("search history updated", "query", s.debouncedQuery)
	}
}

func (s *Session) snapshotLocked() State {
	return State{
		Query:          s.query,
		DebouncedQuery: s.debouncedQuery,
		Filters:        cloneFilters(s.filters),
		Results:        slices.Clone(s.results),
		Suggestions:    slices.Clone(s.suggestions),
		History:        s.history.Entries(),
		Pending:        s.pending != nil,
		Revision:       s.revision,
		Evaluations:    s.evaluations,
	}
}

func cloneFilters(f search.Filters) search.Filters {
	c := f
	c.Categories = slices.Clone(f.Categories)
	c.Tags = slices.Clone(f.Tags)
	c.Colors = slices.Clone(f.Colors)
	c.Priorities = slices.Clone(f.Priorities)
	if f.DateRange != nil {
		r := *f.DateRange
		c.DateRange = &r
	}
	return c
}
