package session

import (
	"strings"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"ezmaadmin/pkg/domain"
)

// State is an immutable snapshot of the session.
type State struct {
	Token           string
	User            domain.Admin
	HasUser         bool
	IsAuthenticated bool
}

// Store holds the current authentication token and profile. It is the single
// source of truth consulted by the request layer and command guards.
// Authenticated means exactly: token is non-empty.
type Store struct {
	mu        sync.RWMutex
	token     string
	user      domain.Admin
	hasUser   bool
	listeners []func(State)
}

// New returns an anonymous session store.
func New() *Store {
	return &Store{}
}

// SetToken stores the token. An empty or blank token leaves the store
// anonymous instead of producing an authenticated session without credentials.
func (s *Store) SetToken(token string) {
	token = strings.TrimSpace(token)
	s.mu.Lock()
	s.token = token
	state := s.stateLocked()
	listeners := s.listeners
	s.mu.Unlock()
	notify(listeners, state)
}

// SetUser stores profile data alongside the token.
func (s *Store) SetUser(user domain.Admin) {
	s.mu.Lock()
	s.user = user
	s.hasUser = true
	state := s.stateLocked()
	listeners := s.listeners
	s.mu.Unlock()
	notify(listeners, state)
}

// Logout clears token and user atomically. Calling it on an anonymous store
// has no effect.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.token == "" && !s.hasUser {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.user = domain.Admin{}
	s.hasUser = false
	state := s.stateLocked()
	listeners := s.listeners
	s.mu.Unlock()
	notify(listeners, state)
}

// Token returns the current token, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the stored profile and whether one is set.
func (s *Store) User() (domain.Admin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// State returns a snapshot of the current session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

// Subscribe registers fn to run synchronously after every mutation.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// ExpiresAt decodes the token's exp claim without verifying the signature.
// It is a display hint only; the zero time is returned when the token is not
// a JWT or carries no expiry.
func (s *Store) ExpiresAt() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (s *Store) stateLocked() State {
	return State{
		Token:           s.token,
		User:            s.user,
		HasUser:         s.hasUser,
		IsAuthenticated: s.token != "",
	}
}

func notify(listeners []func(State), state State) {
	for _, fn := range listeners {
		fn(state)
	}
}
