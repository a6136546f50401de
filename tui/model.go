package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meghashyamc/notesapp/services/journal"
	"github.com/meghashyamc/notesapp/services/search"
	"github.com/meghashyamc/notesapp/services/session"
)

const (
	defaultVisibleResults = 10
	linesPerResult        = 2
	chromeLines           = 6
)

// Session is the part of a search session the browser drives.
type Session interface {
	SetQuery(query string)
	ClearQuery()
	SetFilters(filters search.Filters)
	Snapshot() session.State
}

// NoteStore records which note the user picked.
type NoteStore interface {
	Dispatch(cmd journal.Command) error
}

// stateMsg carries a session snapshot into the update loop.
type stateMsg session.State

type Model struct {
	session  Session
	store    NoteStore
	input    textinput.Model
	keys     keyMap
	state    session.State
	cursor   int
	selected string
	status   string
	width    int
	height   int
}

func NewModel(s Session, store NoteStore) *Model {
	input := textinput.New()
	input.Placeholder = "Search notes"
	input.Prompt = "> "
	input.CharLimit = 1000
	input.Focus()

	return &Model{
		session: s,
		store:   store,
		input:   input,
		keys:    newKeyMap(),
		state:   s.Snapshot(),
	}
}

func (m *Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case stateMsg:
		m.applyState(session.State(msg))
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.clear):
			m.input.SetValue("")
			m.session.ClearQuery()
			m.applyState(m.session.Snapshot())
			return m, nil
		case key.Matches(msg, m.keys.favorites):
			filters := m.state.Filters
			filters.ShowFavoritesOnly = !filters.ShowFavoritesOnly
			m.session.SetFilters(filters)
			m.applyState(m.session.Snapshot())
			return m, nil
		case key.Matches(msg, m.keys.pinned):
			filters := m.state.Filters
			filters.ShowPinnedOnly = !filters.ShowPinnedOnly
			m.session.SetFilters(filters)
			m.applyState(m.session.Snapshot())
			return m, nil
		case key.Matches(msg, m.keys.up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.down):
			if m.cursor < len(m.state.Results)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.open):
			return m.handleOpen()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.session.SetQuery(value)
		m.applyState(m.session.Snapshot())
	}
	return m, cmd
}

// applyState keeps the newest snapshot. Snapshots can arrive out of order
// because listeners forward them from other goroutines.
func (m *Model) applyState(state session.State) {
	if state.Revision < m.state.Revision {
		return
	}
	m.state = state
	if m.cursor >= len(state.Results) {
		m.cursor = max(len(state.Results)-1, 0)
	}
}

func (m *Model) handleOpen() (tea.Model, tea.Cmd) {
	if len(m.state.Results) == 0 {
		return m, nil
	}
	note := m.state.Results[m.cursor].Note
	if err := m.store.Dispatch(journal.SetActiveNote{ID: note.ID}); err != nil {
		m.status = fmt.Sprintf("select failed: %v", err)
		return m, nil
	}
	m.selected = note.ID
	m.status = fmt.Sprintf("selected %s", note.Title)
	return m, nil
}

// Selected is the id of the note last picked with enter.
func (m *Model) Selected() string {
	return m.selected
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(m.state.Suggestions) > 0 {
		suggestions := make([]string, len(m.state.Suggestions))
		for i, suggestion := range m.state.Suggestions {
			suggestions[i] = suggestionStyle.Render(suggestion)
		}
		b.WriteString(dimStyle.Render("try: ") + strings.Join(suggestions, dimStyle.Render(" · ")))
	}
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderResult(i))
	}

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status))
	}
	b.WriteString("\n" + m.helpLine())
	return b.String()
}

func (m *Model) statusLine() string {
	flags := []string{
		flag("favorites", m.state.Filters.ShowFavoritesOnly),
		flag("pinned", m.state.Filters.ShowPinnedOnly),
	}
	line := fmt.Sprintf("%s  %d notes", strings.Join(flags, " "), len(m.state.Results))
	if m.state.Pending {
		line += dimStyle.Render("  searching...")
	}
	return line
}

func flag(name string, on bool) string {
	if on {
		return activeFlagStyle.Render("[" + name + "]")
	}
	return dimStyle.Render("[" + name + "]")
}

func (m *Model) visibleRange() (int, int) {
	visible := defaultVisibleResults
	if m.height > 0 {
		visible = max((m.height-chromeLines)/linesPerResult, 1)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	return start, min(start+visible, len(m.state.Results))
}

func (m *Model) renderResult(i int) string {
	result := m.state.Results[i]
	title := result.Highlights.Title
	if title == "" {
		title = titleStyle.Render(result.Note.Title)
	}

	pointer := "  "
	if i == m.cursor {
		pointer = selectedStyle.Render("▸ ")
	}

	meta := result.Note.CategoryOrDefault()
	if len(result.Note.Tags) > 0 {
		meta += " · " + strings.Join(result.Note.Tags, ", ")
	}

	detail := result.Highlights.Body
	if detail == "" {
		detail = result.Note.Preview(80)
	}

	return fmt.Sprintf("%s%s  %s\n    %s\n", pointer, title, dimStyle.Render(meta), detail)
}

func (m *Model) helpLine() string {
	bindings := m.keys.help()
	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		parts[i] = binding.Help().Key + " " + binding.Help().Desc
	}
	return dimStyle.Render(strings.Join(parts, " • "))
}
