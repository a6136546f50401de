package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

var ErrSessionNotFound = errors.New("session not found")

// HistoryStore persists search history per owner.
type HistoryStore interface {
	LoadHistory(owner string) ([]string, error)
	SaveHistory(owner string, history []string) error
}

// NoteSource provides the notes new sessions start from.
type NoteSource interface {
	Snapshot() []notes.Note
}

type ManagerConfig struct {
	Logger       logger.Logger
	Source       NoteSource
	HistoryStore HistoryStore
	// IdleTTL closes sessions that have not been used for this long. Zero
	// disables eviction.
	IdleTTL        time.Duration
	Clock          clockwork.Clock
	SessionOptions []Option
}

// Manager owns the sessions opened through the API.
type Manager struct {
	mu       sync.Mutex
	logger   logger.Logger
	source   NoteSource
	store    HistoryStore
	ttl      time.Duration
	clock    clockwork.Clock
	options  []Option
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	owner    string
	lastSeen time.Time

	savedMu sync.Mutex
	saved   []string
}

func NewManager(cfg ManagerConfig) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		logger:   cfg.Logger,
		source:   cfg.Source,
		store:    cfg.HistoryStore,
		ttl:      cfg.IdleTTL,
		clock:    clock,
		options:  cfg.SessionOptions,
		sessions: make(map[string]*entry),
	}
}

// Create opens a session for owner, seeded with the owner's saved history and
// the current notes.
func (m *Manager) Create(owner string) (string, *Session, error) {
	m.EvictIdle()

	history, err := m.store.LoadHistory(owner)
	if err != nil {
		m.logger.Error("could not load search history", "owner", owner, "err", err.Error())
		return "", nil, fmt.Errorf("could not load search history: %w", err)
	}

	opts := []Option{WithClock(m.clock), WithLogger(m.logger)}
	opts = append(opts, m.options...)
	opts = append(opts, WithHistory(history))
	s := New(opts...)

	e := &entry{
		session:  s,
		owner:    owner,
		lastSeen: m.clock.Now(),
		saved:    slices.Clone(history),
	}
	s.SetNotes(m.source.Snapshot())
	s.OnChange(func(state State) {
		m.persistHistory(e, state.History)
	})

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	m.logger.Info("search session created", "session_id", id, "owner", owner)
	return id, s, nil
}

// Get returns the session with id if owner opened it.
func (m *Manager) Get(id string, owner string) (*Session, error) {
	m.EvictIdle()

	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = m.clock.Now()
	return e.session, nil
}

func (m *Manager) Close(id string, owner string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok || e.owner != owner {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	m.closeEntry(e)
	m.logger.Info("search session closed", "session_id", id, "owner", owner)
	return nil
}

// NotesChanged pushes a new note snapshot to every open session.
func (m *Manager) NotesChanged(all []notes.Note) {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		open = append(open, e.session)
	}
	m.mu.Unlock()

	for _, s := range open {
		s.SetNotes(all)
	}
}

// EvictIdle closes sessions idle for longer than the TTL and returns how many
// it closed.
func (m *Manager) EvictIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.clock.Now()

	m.mu.Lock()
	var idle []*entry
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			idle = append(idle, e)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range idle {
		m.closeEntry(e)
	}
	if len(idle) > 0 {
		m.logger.Info("evicted idle search sessions", "count", len(idle))
	}
	return len(idle)
}

// Run evicts idle sessions periodically until ctx is done, then closes the
// rest.
func (m *Manager) Run(ctx context.Context) {
	defer m.CloseAll()
	if m.ttl <= 0 {
		<-ctx.Done()
		return
	}

	ticker := m.clock.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			m.EvictIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*entry, 0, len(m.sessions))
	for id, e := range m.sessions {
		all = append(all, e)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, e := range all {
		m.closeEntry(e)
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) closeEntry(e *entry) {
	m.persistHistory(e, e.session.Snapshot().History)
	e.session.Close()
}

func (m *Manager) persistHistory(e *entry, history []string) {
	e.savedMu.Lock()
	defer e.savedMu.Unlock()
	if slices.Equal(e.saved, history) {
		return
	}
	if err := m.store.SaveHistory(e.owner, history); err != nil {
		m.logger.Error("could not save search history", "owner", e.owner, "err", err.Error())
		return
	}
	e.saved = slices.Clone(history)
}
