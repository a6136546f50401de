package auth

import "sync"

type Status string

const (
	StatusChecking         Status = "checking"
	StatusAuthenticated    Status = "authenticated"
	StatusNotAuthenticated Status = "not-authenticated"
)

// AnonymousOwner owns data created without a signed in user.
const AnonymousOwner = "anonymous"

type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type State struct {
	Status       Status `json:"status"`
	User         User   `json:"user"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Command is a transition of the auth state.
type Command interface {
	apply(state *State)
}

// CheckingCredentials marks a sign in attempt as underway.
type CheckingCredentials struct{}

func (CheckingCredentials) apply(state *State) {
	state.Status = StatusChecking
	state.ErrorMessage = ""
}

type Login struct {
	User User
}

func (c Login) apply(state *State) {
	if c.User.UID == "" {
		Logout{ErrorMessage: "missing user id"}.apply(state)
		return
	}
	state.Status = StatusAuthenticated
	state.User = c.User
	state.ErrorMessage = ""
}

type Logout struct {
	ErrorMessage string
}

func (c Logout) apply(state *State) {
	state.Status = StatusNotAuthenticated
	state.User = User{}
	state.ErrorMessage = c.ErrorMessage
}

// Store mirrors the identity provider's view of the current user.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Status: StatusChecking}}
}

func (s *Store) Dispatch(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd.apply(&s.state)
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Owner is the uid of the signed in user, or AnonymousOwner.
func (s *Store) Owner() string {
	state := s.State()
	if state.Status != StatusAuthenticated {
		return AnonymousOwner
	}
	return state.User.UID
}
