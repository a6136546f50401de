package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
	"github.com/stretchr/testify/require"
)

type memoryHistory struct {
	mu      sync.Mutex
	entries map[string][]string
	saves   int
	failing bool
}

func (m *memoryHistory) LoadHistory(owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("store unavailable")
	}
	return m.entries[owner], nil
}

func (m *memoryHistory) SaveHistory(owner string, history []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[owner] = history
	m.saves++
	return nil
}

func (m *memoryHistory) get(owner string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[owner]
}

type staticSource []notes.Note

func (s staticSource) Snapshot() []notes.Note { return s }

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *clockwork.FakeClock, *memoryHistory) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	history := &memoryHistory{entries: map[string][]string{"alice": {"rome"}}}
	m := NewManager(ManagerConfig{
		Logger:         logger.NewWithWriter(os.Stderr, "error"),
		Source:         staticSource(testNotes),
		HistoryStore:   history,
		IdleTTL:        ttl,
		Clock:          clock,
		SessionOptions: []Option{WithDelay(testDelay), WithEngine((&countingEngine{}).engine())},
	})
	t.Cleanup(m.CloseAll)
	return m, clock, history
}

func TestManagerCreateSeedsSession(t *testing.T) {
	assert := require.New(t)
	m, _, _ := newTestManager(t, 0)

	id, s, err := m.Create("alice")
	assert.NoError(err)
	assert.NotEmpty(id)

	state := s.Snapshot()
	assert.Equal([]string{"rome"}, state.History)
	assert.Len(state.Results, len(testNotes))

	got, err := m.Get(id, "alice")
	assert.NoError(err)
	assert.Same(s, got)

	_, err = m.Get(id, "bob")
	assert.ErrorIs(err, ErrSessionNotFound, "sessions are private to their owner")
	_, err = m.Get("missing", "alice")
	assert.ErrorIs(err, ErrSessionNotFound)
}

func TestManagerPersistsHistory(t *testing.T) {
	assert := require.New(t)
	m, clock, history := newTestManager(t, 0)

	id, s, err := m.Create("alice")
	assert.NoError(err)

	s.SetQuery("milk")
	clock.Advance(testDelay)

	assert.Eventually(func() bool {
		h := history.get("alice")
		return len(h) == 2 && h[0] == "milk"
	}, 2*time.Second, 5*time.Millisecond)

	assert.NoError(m.Close(id, "alice"))
	assert.ErrorIs(m.Close(id, "alice"), ErrSessionNotFound)
	assert.Equal([]string{"milk", "rome"}, history.get("alice"))
}

func TestManagerCreateFailsWhenHistoryUnavailable(t *testing.T) {
	m, _, history := newTestManager(t, 0)
	history.failing = true

	_, _, err := m.Create("alice")
	require.Error(t, err)
	require.Zero(t, m.Len())
}

func TestManagerNotesChanged(t *testing.T) {
	assert := require.New(t)
	m, _, _ := newTestManager(t, 0)

	_, first, err := m.Create("alice")
	assert.NoError(err)
	_, second, err := m.Create("bob")
	assert.NoError(err)

	m.NotesChanged(testNotes[:1])
	assert.Len(first.Snapshot().Results, 1)
	assert.Len(second.Snapshot().Results, 1)
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	assert := require.New(t)
	m, clock, _ := newTestManager(t, time.Minute)

	idleID, _, err := m.Create("alice")
	assert.NoError(err)
	clock.Advance(40 * time.Second)

	activeID, _, err := m.Create("alice")
	assert.NoError(err)
	clock.Advance(30 * time.Second)

	_, err = m.Get(activeID, "alice")
	assert.NoError(err)
	_, err = m.Get(idleID, "alice")
	assert.ErrorIs(err, ErrSessionNotFound)
	assert.Equal(1, m.Len())
}

func TestManagerRunEvictsAndClosesAll(t *testing.T) {
	assert := require.New(t)
	m, clock, _ := newTestManager(t, time.Minute)

	_, _, err := m.Create("alice")
	assert.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.NoError(clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)
	assert.Eventually(func() bool { return m.Len() == 0 }, 2*time.Second, 5*time.Millisecond)

	_, _, err = m.Create("bob")
	assert.NoError(err)
	cancel()
	<-done
	assert.Zero(m.Len())
}
