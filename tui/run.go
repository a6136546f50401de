package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meghashyamc/notesapp/services/search"
	"github.com/meghashyamc/notesapp/services/session"
)

// NewEngine returns a search engine whose highlights render in the terminal.
func NewEngine() *search.Engine {
	engine := search.NewEngine()
	engine.Highlighter = search.Highlighter{Mark: Highlight}
	return engine
}

// Run browses s until the user quits or ctx is done and returns the id of
// the note picked last, if any. Debounced results reach the program through
// the session's change listener.
func Run(ctx context.Context, s *session.Session, store NoteStore, opts ...tea.ProgramOption) (string, error) {
	model := NewModel(s, store)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	// Send blocks until the update loop receives, and listeners may run on
	// that loop's goroutine.
	s.OnChange(func(state session.State) {
		go program.Send(stateMsg(state))
	})

	if _, err := program.Run(); err != nil {
		return model.Selected(), err
	}
	return model.Selected(), nil
}
