package ticketform

import (
	"context"
	"sync"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/gateway"
)

// Session owns one form instance. At most one profile fetch matters at a time:
// every manifest selection bumps the generation, cancels the previous fetch's
// context and tags its own result, so a late response for an earlier
// selection is dropped instead of applied.
type Session struct {
	Refs     gateway.ReferenceData
	Clock    clock.Clock
	Resolver domain.FareResolver

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
}

func NewSession(refs gateway.ReferenceData, clk clock.Clock) *Session {
	return &Session{Refs: refs, Clock: clk, state: New()}
}

// State returns a snapshot of the current form.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update applies a synchronous transition such as SetSeats.
func (s *Session) Update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// SelectManifest loads the manifest and its route's fare profiles in the
// background. The returned channel closes once this selection's fetch is
// finished, whether its result was applied or discarded.
func (s *Session) SelectManifest(ctx context.Context, manifestID int64) <-chan struct{} {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if manifestID == 0 {
		s.state = ClearManifest(s.state, gen)
	} else {
		s.state = Pending(s.state, manifestID, gen)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	if manifestID == 0 {
		cancel()
		close(done)
		return done
	}

	go func() {
		defer close(done)
		defer cancel()
		s.load(fetchCtx, gen, manifestID)
	}()
	return done
}

func (s *Session) load(ctx context.Context, gen uint64, manifestID int64) {
	m, err := s.Refs.Manifest(ctx, manifestID)
	if err != nil {
		s.apply(gen, func(st State) State { return ProfilesFailed(st, gen, err) })
		return
	}
	if !s.apply(gen, func(st State) State { return SelectManifest(st, m, gen) }) {
		return
	}

	profiles, err := s.Refs.FareProfilesByRoute(ctx, m.RouteID)
	if err != nil {
		s.apply(gen, func(st State) State { return ProfilesFailed(st, gen, err) })
		return
	}
	now := s.now()
	s.apply(gen, func(st State) State { return ProfilesLoaded(st, gen, profiles, now, s.Resolver) })
}

// Dispatch applies ev to the session. A manifest selection waits for its own
// fetch and then returns whatever selection is current, which is a later one
// when another selection overtook it.
func (s *Session) Dispatch(ctx context.Context, ev Event) (State, error) {
	if ev.Type == EventSelectManifest {
		select {
		case <-s.SelectManifest(ctx, ev.ManifestID):
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
		return s.State(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := applyField(s.state, ev)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// apply runs fn only if gen is still the current selection.
func (s *Session) apply(gen uint64, fn func(State) State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.state = fn(s.state)
	return true
}

func (s *Session) now() time.Time {
	if s.Clock == nil {
		return clock.NewSystem(nil).Now()
	}
	return s.Clock.Now()
}
