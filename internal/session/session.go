// Package session owns the client's session state: who the visitor is
// (authenticated user or anonymous guest), the bootstrap protocol that
// reconciles persisted identity with the server on startup, and the guard
// that gates protected views on the outcome.
package session

import (
	"log"
	"sync"

	"github.com/hpungsan/rankwatch/internal/keyword"
	"github.com/hpungsan/rankwatch/internal/store"
)

// Mode distinguishes the two disjoint data universes the backend serves.
type Mode string

const (
	ModeGuest Mode = "guest"
	ModeAuth  Mode = "auth"
)

// State is an immutable snapshot of the session.
// Invariant: Mode == ModeAuth implies Token != "".
// Hydrated is monotonic: once true it never reverts for the process lifetime.
type State struct {
	Mode     Mode
	Token    string
	User     *keyword.User
	GuestID  string
	Hydrated bool
}

// Session is the observable session state container. All mutators are total:
// they never fail, even when the persistence adapter does (the error is
// logged and the in-memory state still changes).
type Session struct {
	mu    sync.Mutex
	state State
	store store.Store

	nextSub int
	subs    map[int]func(State)
}

// New creates a Session backed by the given identity store.
// The store is only ever written through the Session's own mutators.
func New(st store.Store) *Session {
	return &Session{
		state: State{Mode: ModeGuest},
		store: st,
		subs:  make(map[int]func(State)),
	}
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, empty when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// GuestID returns the current guest identifier, empty when unknown.
func (s *Session) GuestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GuestID
}

// Subscribe registers fn to be called with the new state after every
// mutation. The returned function unsubscribes.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetToken updates the bearer token, writing through to the identity store
// before returning. An empty token removes the persisted key.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	if token != "" {
		if err := s.store.Set(store.KeyToken, token); err != nil {
			log.Printf("session: persist token: %v", err)
		}
	} else {
		if err := s.store.Remove(store.KeyToken); err != nil {
			log.Printf("session: remove token: %v", err)
		}
	}
	s.state.Token = token
	s.notifyLocked()
}

// SetUser updates the authenticated user.
func (s *Session) SetUser(user *keyword.User) {
	s.mu.Lock()
	s.state.User = user
	s.notifyLocked()
}

// SetGuestID updates the guest identifier, writing through to the identity
// store before returning. An empty id removes the persisted key.
func (s *Session) SetGuestID(id string) {
	s.mu.Lock()
	if id != "" {
		if err := s.store.Set(store.KeyGuestID, id); err != nil {
			log.Printf("session: persist guest id: %v", err)
		}
	} else {
		if err := s.store.Remove(store.KeyGuestID); err != nil {
			log.Printf("session: remove guest id: %v", err)
		}
	}
	s.state.GuestID = id
	s.notifyLocked()
}

// SetMode updates the session mode.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	s.state.Mode = mode
	s.notifyLocked()
}

// Logout atomically clears the token and user, resets mode to guest, and
// removes the persisted token. The guest id is preserved so a returning
// anonymous visitor keeps their quota history.
func (s *Session) Logout() {
	s.mu.Lock()
	if err := s.store.Remove(store.KeyToken); err != nil {
		log.Printf("session: remove token: %v", err)
	}
	s.state.Token = ""
	s.state.User = nil
	s.state.Mode = ModeGuest
	s.notifyLocked()
}

// setHydrated marks the session hydrated. Only the bootstrapper calls this,
// and only with a terminal state: hydrated never reverts to false.
func (s *Session) setHydrated() {
	s.mu.Lock()
	s.state.Hydrated = true
	s.notifyLocked()
}

// persistedToken reads the durable token without touching in-memory state.
func (s *Session) persistedToken() string {
	v, ok, err := s.store.Get(store.KeyToken)
	if err != nil {
		log.Printf("session: read token: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// persistedGuestID reads the durable guest id without touching in-memory state.
func (s *Session) persistedGuestID() string {
	v, ok, err := s.store.Get(store.KeyGuestID)
	if err != nil {
		log.Printf("session: read guest id: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// notifyLocked snapshots state and subscribers, releases the lock, and then
// invokes the subscribers. Callers must hold s.mu; it is released here.
func (s *Session) notifyLocked() {
	st := s.state
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
