// Package session holds the process-wide authentication state.
//
// Exactly one component, the session manager in services, mutates the
// state. Everything else (the request gateway, the UI windows) only
// reads snapshots or subscribes to transitions.
package session

import "sync"

// Reason tells listeners why the state changed.
type Reason string

const (
	// ReasonRestored fires when a persisted token was found at startup.
	ReasonRestored Reason = "restored"
	// ReasonRestoreEmpty fires when startup found no usable token.
	ReasonRestoreEmpty Reason = "restore_empty"
	// ReasonSignedIn fires after a successful login or registration.
	ReasonSignedIn Reason = "signed_in"
	// ReasonSignedOut fires after an explicit user logout.
	ReasonSignedOut Reason = "signed_out"
	// ReasonExpired fires when the backend rejected the session and the
	// client tore it down. UI should tell the user the session expired
	// rather than pretend they signed out.
	ReasonExpired Reason = "session_expired"
	// ReasonRefreshed fires when the access token was silently renewed.
	ReasonRefreshed Reason = "refreshed"
)

// Snapshot is an immutable view of the current session.
type Snapshot struct {
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Listener receives every state transition, after it was applied.
type Listener func(Snapshot, Reason)

// State is the single source of truth for "am I authenticated".
// It starts in the loading phase; the session manager ends that phase
// exactly once when startup restoration finishes.
//
// The epoch increments on every token change so that in-flight requests
// can detect that the session they were issued under is gone.
type State struct {
	mu        sync.Mutex
	token     string
	isLoading bool
	epoch     uint64
	listeners map[int]Listener
	nextID    int
}

// NewState returns a State in the initial loading phase.
func NewState() *State {
	return &State{
		isLoading: true,
		listeners: map[int]Listener{},
	}
}

// Get returns a snapshot of the current session.
func (s *State) Get() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current access token together with the epoch it
// belongs to. Callers performing I/O hold on to the epoch and hand it
// back when applying side effects, so effects of stale responses can be
// dropped.
func (s *State) Token() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.epoch
}

// Epoch returns the current session epoch.
func (s *State) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers a listener for future transitions and returns a
// function that removes it again.
func (s *State) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetAuthenticated publishes a new token, ends the loading phase and
// advances the epoch.
func (s *State) SetAuthenticated(token string, reason Reason) {
	s.mu.Lock()
	s.token = token
	s.isLoading = false
	s.epoch++
	snap, fns := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	notify(fns, snap, reason)
}

// SetUnauthenticated clears the token, ends the loading phase and
// advances the epoch.
func (s *State) SetUnauthenticated(reason Reason) {
	s.mu.Lock()
	s.token = ""
	s.isLoading = false
	s.epoch++
	snap, fns := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	notify(fns, snap, reason)
}

// CompareAndSet replaces the token only when the session epoch still
// matches the one the caller captured. It reports whether the change
// was applied. A stale caller (the session changed underneath it) must
// not overwrite the newer state.
func (s *State) CompareAndSet(epoch uint64, token string, reason Reason) bool {
	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	s.token = token
	s.isLoading = false
	s.epoch++
	snap, fns := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	notify(fns, snap, reason)
	return true
}

// CompareAndClear clears the token only when the epoch still matches.
// Used for forced logout triggered by an in-flight request: if another
// call already tore the session down (or a new session was established)
// the stale teardown is dropped.
func (s *State) CompareAndClear(epoch uint64, reason Reason) bool {
	return s.CompareAndSet(epoch, "", reason)
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		Token:           s.token,
		IsAuthenticated: s.token != "",
		IsLoading:       s.isLoading,
	}
}

func (s *State) listenersLocked() []Listener {
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}

// notify runs outside the lock so listeners may call Get or Subscribe.
func notify(fns []Listener, snap Snapshot, reason Reason) {
	for _, fn := range fns {
		fn(snap, reason)
	}
}
