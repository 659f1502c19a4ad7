package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// State is the coordinator state of one search session.
type State string

const (
	// StateEmpty means no root selection has been made; the displayed set
	// is empty.
	StateEmpty State = "empty"
	// StateLoaded means the root superset was fetched and no facet has been
	// edited yet.
	StateLoaded State = "loaded"
	// StateFiltered means one or more facet edits narrowed the displayed set.
	StateFiltered State = "filtered"
)

// Snapshot is the read-only observable pair the presentation layer renders,
// plus the session identity and state.
type Snapshot struct {
	ID        string
	State     State
	Query     facet.Query
	Displayed []gall.Gall
}

// Session holds one search session's query and displayed set. Both are
// replaced wholesale on every transition, never mutated in place. The mutex
// serializes transitions and is held across the root fetch, so facet edits
// queue behind an in-flight fetch and never observe stale state.
type Session struct {
	id string

	mu        sync.Mutex
	state     State
	query     facet.Query
	displayed []gall.Gall

	lastUsed atomic.Int64 // unix nano, read lock-free by the janitor
}

func newSession(id string) *Session {
	s := &Session{
		id:        id,
		state:     StateEmpty,
		query:     facet.EmptyQuery(),
		displayed: []gall.Gall{},
	}
	s.touch()
	return s
}

// applyRoot installs a freshly fetched superset: displayed set replaced
// wholesale, all facet state reset. Caller holds the session mutex.
func (s *Session) applyRoot(superset []gall.Gall) {
	s.query = facet.EmptyQuery()
	s.displayed = superset
	s.state = StateLoaded
}

// applyEdit merges one facet edit into the query and re-evaluates the
// predicate over the current displayed set, not the original superset.
// Narrowing already applied by earlier passes is not undone; only a new root
// query restores excluded records. Caller holds the session mutex.
func (s *Session) applyEdit(field facet.Name, values []string) {
	s.query = s.query.With(field, values)
	s.displayed = facet.Filter(s.displayed, s.query)
	s.state = StateFiltered
}

// snapshot captures the observable pair. Displayed sets are replaced, never
// mutated, so sharing the slice with readers is safe.
func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		State:     s.state,
		Query:     s.query,
		Displayed: s.displayed,
	}
}

func (s *Session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}
