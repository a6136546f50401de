package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/meghashyamc/notesapp/services/search"
	"github.com/stretchr/testify/require"
)

const testDelay = 300 * time.Millisecond

var (
	fixedNow = time.UnixMilli(1_700_000_000_000)
	longAgo  = fixedNow.Add(-30 * 24 * time.Hour).UnixMilli()
)

var testNotes = []notes.Note{
	{ID: "grocery", Title: "Grocery List", Body: "buy milk and eggs", Tags: []string{"errand"}, UpdatedAt: longAgo},
	{ID: "tea", Title: "Milk tea recipe", Body: "milk tea with boba", IsPinned: true, UpdatedAt: longAgo + 1},
	{ID: "trip", Title: "Trip to Rome", Body: "book flights", Category: "travel", UpdatedAt: longAgo + 2},
}

type countingEngine struct {
	calls atomic.Int64
}

func (c *countingEngine) engine() *search.Engine {
	return &search.Engine{
		Now: func() time.Time {
			c.calls.Add(1)
			return fixedNow
		},
		Highlighter: search.DefaultHighlighter,
	}
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	counter := &countingEngine{}
	all := append([]Option{WithClock(clock), WithDelay(testDelay), WithEngine(counter.engine())}, opts...)
	s := New(all...)
	t.Cleanup(s.Close)
	s.SetNotes(testNotes)
	return s, clock
}

func waitSettled(t *testing.T, s *Session) State {
	t.Helper()
	require.Eventually(t, func() bool {
		return !s.Snapshot().Pending
	}, 2*time.Second, 5*time.Millisecond)
	return s.Snapshot()
}

func resultIDs(results []search.Result) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Note.ID
	}
	return ids
}

func TestDebounceEvaluatesOnceWithFinalQuery(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	before := s.Snapshot().Evaluations

	s.SetQuery("g")
	s.SetQuery("gro")
	clock.Advance(testDelay / 2)
	s.SetQuery("grocery")

	clock.Advance(testDelay - time.Millisecond)
	state := s.Snapshot()
	assert.True(state.Pending)
	assert.Equal("grocery", state.Query)
	assert.Equal("", state.DebouncedQuery)
	assert.Equal(before, state.Evaluations)

	clock.Advance(time.Millisecond)
	state = waitSettled(t, s)
	assert.Equal(before+1, state.Evaluations)
	assert.Equal("grocery", state.DebouncedQuery)
	// the pinned bonus keeps tea in the results with no word match
	assert.Equal([]string{"grocery", "tea"}, resultIDs(state.Results))

	clock.Advance(10 * testDelay)
	assert.Equal(before+1, s.Snapshot().Evaluations, "superseded timers never fire")
}

func TestClearQueryIsImmediate(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	s.SetQuery("grocery")
	clock.Advance(testDelay)
	waitSettled(t, s)

	s.SetQuery("trip")
	s.ClearQuery()

	state := s.Snapshot()
	assert.False(state.Pending)
	assert.Equal("", state.Query)
	assert.Equal("", state.DebouncedQuery)
	assert.Nil(state.Suggestions)
	assert.Equal([]string{"grocery", "tea", "trip"}, resultIDs(state.Results))
	for _, r := range state.Results {
		assert.Zero(r.Score)
	}

	evaluations := state.Evaluations
	clock.Advance(10 * testDelay)
	time.Sleep(20 * time.Millisecond)
	state = s.Snapshot()
	assert.Equal(evaluations, state.Evaluations, "a cleared query does not come back")
	assert.Equal("", state.DebouncedQuery)
}

func TestBlankQueryClears(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	s.SetQuery("trip")
	clock.Advance(testDelay)
	waitSettled(t, s)

	s.SetQuery("   ")
	state := s.Snapshot()
	assert.False(state.Pending)
	assert.Equal("", state.DebouncedQuery)
	assert.Len(state.Results, len(testNotes))
}

func TestFiltersApplyImmediately(t *testing.T) {
	assert := require.New(t)
	s, _ := newTestSession(t)

	before := s.Snapshot().Evaluations
	s.SetFilters(search.Filters{ShowPinnedOnly: true})
	state := s.Snapshot()
	assert.Equal(before+1, state.Evaluations)
	assert.Equal([]string{"tea"}, resultIDs(state.Results))
	assert.True(state.Filters.ShowPinnedOnly)

	s.ClearFilters()
	state = s.Snapshot()
	assert.False(search.HasActiveFilters(state.Filters))
	assert.Len(state.Results, len(testNotes))
}

func TestFilterChangeDuringDebounceKeepsTimer(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	s.SetQuery("milk")
	s.SetFilters(search.Filters{Categories: []string{"personal"}})
	assert.True(s.Snapshot().Pending)

	clock.Advance(testDelay)
	state := waitSettled(t, s)
	assert.Equal("milk", state.DebouncedQuery)
	assert.Equal([]string{"tea", "grocery"}, resultIDs(state.Results))
}

func TestSetNotesRefreshesResultsAndKeywords(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	s.SetQuery("boba")
	clock.Advance(testDelay)
	state := waitSettled(t, s)
	assert.Equal([]string{"tea"}, resultIDs(state.Results))

	updated := append([]notes.Note{{ID: "shop", Title: "Boba shop", UpdatedAt: longAgo}}, testNotes...)
	s.SetNotes(updated)
	state = s.Snapshot()
	assert.Equal([]string{"shop", "tea"}, resultIDs(state.Results))

	s.SetQuery("bob")
	assert.Contains(s.Snapshot().Suggestions, "boba")
}

func TestResultCache(t *testing.T) {
	assert := require.New(t)
	clock := clockwork.NewFakeClock()
	counter := &countingEngine{}
	s := New(WithClock(clock), WithDelay(testDelay), WithEngine(counter.engine()))
	t.Cleanup(s.Close)
	s.SetNotes(testNotes)

	s.SetQuery("milk")
	clock.Advance(testDelay)
	waitSettled(t, s)
	assert.Equal(int64(1), counter.calls.Load())

	s.SetFilters(search.Filters{ShowPinnedOnly: true})
	assert.Equal(int64(2), counter.calls.Load())

	s.ClearFilters()
	assert.Equal(int64(2), counter.calls.Load(), "same query and filters are served from cache")
	assert.Len(s.Snapshot().Results, 2)

	s.SetNotes(testNotes)
	assert.Equal(int64(3), counter.calls.Load(), "new notes drop the cache")
}

func TestHistory(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	// Without flags no note scores on bonuses alone.
	plain := make([]notes.Note, len(testNotes))
	for i, n := range testNotes {
		plain[i] = n.Clone()
		plain[i].IsPinned = false
	}
	s.SetNotes(plain)

	run := func(q string) State {
		s.SetQuery(q)
		clock.Advance(testDelay)
		return waitSettled(t, s)
	}

	run("milk")
	run("zzz-nothing")
	run("trip")
	state := run("milk")

	assert.Equal([]string{"milk", "trip"}, state.History, "only queries with results, most recent first, no duplicates")
}

func TestHistoryRecordsQueryOnceFiltersAllowResults(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	plain := make([]notes.Note, len(testNotes))
	for i, n := range testNotes {
		plain[i] = n.Clone()
		plain[i].IsPinned = false
	}
	s.SetNotes(plain)
	s.SetFilters(search.Filters{Categories: []string{"travel"}})

	s.SetQuery("milk")
	clock.Advance(testDelay)
	state := waitSettled(t, s)
	assert.Empty(state.Results)
	assert.Empty(state.History)

	s.ClearFilters()
	state = s.Snapshot()
	assert.Equal([]string{"tea", "grocery"}, resultIDs(state.Results))
	assert.Equal([]string{"milk"}, state.History)
}

func TestHistoryIsCapped(t *testing.T) {
	assert := require.New(t)

	h := NewHistory(MaxHistory, nil)
	for i := range 15 {
		assert.True(h.Add(fmt.Sprintf("query %d", i)))
	}
	entries := h.Entries()
	assert.Len(entries, MaxHistory)
	assert.Equal("query 14", entries[0])
	assert.Equal("query 5", entries[9])

	assert.False(h.Add("query 14"))
	assert.True(h.Add("query 10"))
	assert.Equal("query 10", h.Entries()[0])
	assert.Len(h.Entries(), MaxHistory)
	assert.False(h.Add("  "))
}

func TestHistorySeed(t *testing.T) {
	h := NewHistory(3, []string{"a", "b", "a", "c", "d"})
	require.Equal(t, []string{"a", "b", "c"}, h.Entries())
}

func TestSuggestions(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t, WithHistory([]string{"milk tea", "rome", "milky way"}))

	s.SetQuery("MILK")
	state := s.Snapshot()
	assert.True(state.Pending, "suggestions do not wait for the debounce")
	assert.Equal([]string{"milk", "milk tea", "milky way"}, state.Suggestions)

	s.SetQuery("")
	assert.Nil(s.Snapshot().Suggestions)

	clock.Advance(testDelay)
}

func TestSuggestLimits(t *testing.T) {
	assert := require.New(t)

	keywords := []string{"tea1", "tea2", "tea3", "tea4", "tea5", "tea6", "other"}
	history := []string{"tea1", "tea party", "tea time", "tea room", "green tea"}
	assert.Equal(
		[]string{"tea1", "tea2", "tea3", "tea4", "tea5", "tea party", "tea time"},
		suggest("tea", keywords, history),
	)
	assert.Nil(suggest("  ", keywords, history))
	assert.Equal([]string{"café"}, suggest("CAFE", []string{"café"}, nil))
}

func TestOnChangeAndClose(t *testing.T) {
	assert := require.New(t)
	s, clock := newTestSession(t)

	var mu sync.Mutex
	var revisions []uint64
	s.OnChange(func(state State) {
		mu.Lock()
		defer mu.Unlock()
		revisions = append(revisions, state.Revision)
	})

	s.SetQuery("trip")
	clock.Advance(testDelay)
	waitSettled(t, s)

	assert.Eventually(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(revisions) == 2
	}, 2*time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Less(revisions[0], revisions[1])
	mu.Unlock()

	s.SetQuery("milk")
	s.Close()
	clock.Advance(testDelay)
	time.Sleep(20 * time.Millisecond)

	state := s.Snapshot()
	assert.False(state.Pending)
	assert.Equal("trip", state.DebouncedQuery)

	s.SetQuery("rome")
	assert.Equal("milk", s.Snapshot().Query, "a closed session ignores input")
	mu.Lock()
	assert.Len(revisions, 3)
	mu.Unlock()
}

func TestSnapshotIsIndependent(t *testing.T) {
	assert := require.New(t)
	s, _ := newTestSession(t)

	s.SetFilters(search.Filters{Tags: []string{"errand"}})
	state := s.Snapshot()
	state.Filters.Tags[0] = "changed"
	state.Results[0].Score = 99

	again := s.Snapshot()
	assert.Equal("errand", again.Filters.Tags[0])
	assert.Zero(again.Results[0].Score)
}
