package ticketform

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions holds the server-side forms of the ticket screen by id. A form
// unused for longer than TTL is dropped on the next Open.
type Sessions struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	forms map[string]*sessionEntry
}

type sessionEntry struct {
	session *Session
	used    time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{TTL: ttl, forms: map[string]*sessionEntry{}}
}

func (r *Sessions) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Open registers s and returns its id.
func (r *Sessions) Open(s *Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forms == nil {
		r.forms = map[string]*sessionEntry{}
	}
	now := r.now()
	r.sweep(now)
	id := uuid.NewString()
	r.forms[id] = &sessionEntry{session: s, used: now}
	return id
}

// Get returns the session and marks it used. Expired sessions are not returned.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.forms, id)
		return nil, false
	}
	e.used = now
	return e.session, true
}

// Close forgets the session. It reports whether it existed.
func (r *Sessions) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.forms[id]
	delete(r.forms, id)
	return ok
}

// Len counts the live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

func (r *Sessions) expired(e *sessionEntry, now time.Time) bool {
	return r.TTL > 0 && now.Sub(e.used) > r.TTL
}

// sweep must be called with mu held.
func (r *Sessions) sweep(now time.Time) {
	for id, e := range r.forms {
		if r.expired(e, now) {
			delete(r.forms, id)
		}
	}
}
