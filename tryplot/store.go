package tryplot

import (
	"time"

	"github.com/google/uuid"
)

// Store is the insertion-ordered collection of tries for one session. It is
// not safe for concurrent use; callers serialise access.
type Store struct {
	events []TryEvent
	newID  func() string
	now    func() time.Time
}

type StoreOption func(*Store)

// WithIDGenerator overrides uuid-based id generation.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new try at p. The zone is classified here and never again;
// quarter and phase start at their first values.
func (s *Store) Add(p Point, t TryType, team Team) (TryEvent, error) {
	if !t.Valid() {
		return TryEvent{}, ErrUnknownTryType
	}
	if !team.Valid() {
		return TryEvent{}, ErrUnknownTeam
	}

	ev := TryEvent{
		ID:        s.newID(),
		X:         p.X,
		Y:         p.Y,
		Type:      t,
		Team:      team,
		Zone:      ClassifyZone(p.Y),
		Quarter:   1,
		Phase:     phases[0],
		CreatedAt: s.now(),
	}
	if s.indexOf(ev.ID) >= 0 {
		return TryEvent{}, ErrDuplicateID
	}
	s.events = append(s.events, ev)
	return ev, nil
}

// Update changes the quarter and phase of an existing try. Nothing else about
// a try is editable.
func (s *Store) Update(id string, quarter int, phase Phase) (TryEvent, error) {
	if !ValidQuarter(quarter) {
		return TryEvent{}, ErrInvalidQuarter
	}
	if !phase.Valid() {
		return TryEvent{}, ErrUnknownPhase
	}
	i := s.indexOf(id)
	if i < 0 {
		return TryEvent{}, ErrTryNotFound
	}
	s.events[i].Quarter = quarter
	s.events[i].Phase = phase
	return s.events[i], nil
}

// Remove deletes the try with the given id and reports whether one existed.
func (s *Store) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	return true
}

// Clear removes every try and returns how many were removed.
func (s *Store) Clear() int {
	n := len(s.events)
	s.events = nil
	return n
}

func (s *Store) Get(id string) (TryEvent, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return TryEvent{}, false
	}
	return s.events[i], true
}

// All returns a copy of the tries in insertion order.
func (s *Store) All() []TryEvent {
	out := make([]TryEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Store) Len() int {
	return len(s.events)
}

// Restore replaces the contents of the store with events, typically loaded
// from an archive. Either every event is accepted or the store is unchanged.
func (s *Store) Restore(events []TryEvent) error {
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		if err := validateEvent(ev); err != nil {
			return err
		}
		if _, dup := seen[ev.ID]; dup {
			return ErrDuplicateID
		}
		seen[ev.ID] = struct{}{}
	}
	s.events = make([]TryEvent, len(events))
	copy(s.events, events)
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func validateEvent(ev TryEvent) error {
	switch {
	case ev.ID == "":
		return ErrMissingID
	case !ev.Type.Valid():
		return ErrUnknownTryType
	case !ev.Team.Valid():
		return ErrUnknownTeam
	case !ev.Zone.Valid():
		return ErrUnknownZone
	case ev.Zone != ClassifyZone(ev.Y):
		return ErrZoneMismatch
	case !ValidQuarter(ev.Quarter):
		return ErrInvalidQuarter
	case !ev.Phase.Valid():
		return ErrUnknownPhase
	}
	return nil
}
