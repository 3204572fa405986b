// Package state holds the session-scoped travel state: user profile,
// travel facts, and per-task annotations. Reads hand out deep copies;
// writes follow a propose/commit discipline where only the orchestrator
// commits and every other role merely proposes.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sanketp27/travel-concierge/internal/types"
)

// Persister saves and loads session state in an external store.
// A nil lookup result (no rows) is represented by a nil map.
type Persister interface {
	SaveState(ctx context.Context, sessionID types.ID, state map[string]any) error
	LoadState(ctx context.Context, sessionID types.ID) (map[string]any, error)
}

// Diff describes what a proposed update would do without applying it.
type Diff struct {
	ProposedUpdates map[string]any `json:"proposed_updates"`
	CurrentState    map[string]any `json:"current_state"`
	ProposedState   map[string]any `json:"proposed_state"`
}

// Store is the mutable session state record. Commit is the only
// mutating entry point; by convention only the orchestrator calls it.
type Store struct {
	mu        sync.RWMutex
	sessionID types.ID
	state     map[string]any
	persister Persister
	logger    *slog.Logger
}

// StoreOption is a functional option for configuring the Store.
type StoreOption func(*Store)

// WithLogger sets the logger for store operations.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore loads the session's state from the persister, falling back
// to the default template when the session has none yet.
func NewStore(ctx context.Context, sessionID types.ID, persister Persister, opts ...StoreOption) (*Store, error) {
	s := &Store{
		sessionID: sessionID,
		persister: persister,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if persister != nil {
		loaded, err := persister.LoadState(ctx, sessionID)
		if err != nil {
			return nil, types.WrapError(types.SESSION_PERSIST_FAILED, "loading session state", err)
		}
		if loaded != nil {
			s.state = loaded
			return s, nil
		}
	}

	s.state = DefaultState()
	return s, nil
}

// Get returns a deep copy of the current state. Callers can never
// mutate the store through the returned value.
func (s *Store) Get() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopyMap(s.state)
}

// ProposeDiff computes what committing updates would produce, without
// committing. Safe for any role to call.
func (s *Store) ProposeDiff(updates map[string]any) Diff {
	current := s.Get()
	proposed := deepCopyMap(current)
	DeepMerge(proposed, deepCopyMap(updates))

	return Diff{
		ProposedUpdates: updates,
		CurrentState:    current,
		ProposedState:   proposed,
	}
}

// Commit merges updates into the state in place and persists the
// result. This is the single mutating entry point.
func (s *Store) Commit(ctx context.Context, updates map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy the updates so later caller mutations cannot alias into state.
	DeepMerge(s.state, deepCopyMap(updates))

	if s.persister == nil {
		s.logger.Warn("no persister configured, session state will not survive the process",
			"session_id", s.sessionID)
		return nil
	}

	if err := s.persister.SaveState(ctx, s.sessionID, s.state); err != nil {
		return types.WrapError(types.SESSION_PERSIST_FAILED, "saving session state", err)
	}
	return nil
}

// SessionID returns the session this store is scoped to.
func (s *Store) SessionID() types.ID {
	return s.sessionID
}

// DefaultState returns the initial state template for a new session.
func DefaultState() map[string]any {
	return map[string]any{
		"user_profile": map[string]any{
			"passport_nationality": "",
			"seat_preference":      "",
			"food_preference":      "",
			"allergies":            []any{},
			"likes":                []any{},
			"dislikes":             []any{},
			"price_sensitivity":    []any{},
			"home": map[string]any{
				"event_type":        "home",
				"address":           "",
				"local_prefer_mode": "",
			},
		},
		"tasks": []any{},
		"travel_info": map[string]any{
			"origin":      "",
			"destination": "",
			"start_date":  "",
			"end_date":    "",
			"itinerary":   map[string]any{},
			"outbound": map[string]any{
				"flight_selection": "",
				"seat_number":      "",
			},
			"return": map[string]any{
				"flight_selection": "",
				"seat_number":      "",
			},
			"hotel": map[string]any{
				"hotel_selection": "",
				"room_selection":  "",
			},
			"poi":                  []any{},
			"itinerary_datetime":   "",
			"itinerary_start_date": "",
			"itinerary_end_date":   "",
		},
	}
}
