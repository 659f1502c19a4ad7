// Package session coordinates faceted search sessions: one root fetch per
// session, then in-memory facet narrowing without further round trips.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
)

// DefaultTTL is how long an idle session is kept before the janitor drops it.
const DefaultTTL = 30 * time.Minute

// Service owns all live search sessions.
type Service struct {
	repo   Repository
	logger *zap.Logger
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	active  prometheus.Gauge
	passes  prometheus.Counter
	fetches *prometheus.CounterVec

	janitorOnce sync.Once
	done        chan struct{}
}

// New creates a session service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		logger:   logger,
		ttl:      DefaultTTL,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
}

// WithTTL overrides the idle session lifetime.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// WithMetrics wires prometheus instruments for active sessions, filter
// passes, and root fetches. Any of them may be nil.
func (s *Service) WithMetrics(
	active prometheus.Gauge, passes prometheus.Counter, fetches *prometheus.CounterVec,
) *Service {
	s.active = active
	s.passes = passes
	s.fetches = fetches
	return s
}

// Start creates a new session and submits its first root query.
func (s *Service) Start(ctx context.Context, sel selector.Selector) (Snapshot, error) {
	superset, err := s.fetch(ctx, sel)
	if err != nil {
		return Snapshot{}, err
	}

	sess := newSession(uuid.NewString())
	sess.applyRoot(superset)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	if s.active != nil {
		s.active.Inc()
	}
	s.startJanitor()

	s.logger.Info("search session started",
		zap.String("session_id", sess.id),
		zap.Stringer("root", sel),
		zap.Int("superset_size", len(superset)),
	)
	return sess.snapshot(), nil
}

// SubmitRoot resubmits a root query on an existing session. On success the
// displayed set is replaced by the new superset and all facet state is
// discarded; on fetch failure the session is left untouched.
func (s *Service) SubmitRoot(ctx context.Context, id string, sel selector.Selector) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	superset, err := s.fetch(ctx, sel)
	if err != nil {
		// Prior displayed set and query stay intact; retry is resubmitting.
		return Snapshot{}, err
	}

	sess.applyRoot(superset)
	sess.touch()
	return sess.snapshot(), nil
}

// EditFacet merges one facet edit into the session query and narrows the
// current displayed set. Facet edits have no error path of their own: any
// value is accepted, and unknown values simply match nothing.
func (s *Service) EditFacet(_ context.Context, id string, field facet.Name, values []string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state == StateEmpty {
		return Snapshot{}, domain.ErrNoRootQuery
	}

	sess.applyEdit(field, values)
	sess.touch()
	if s.passes != nil {
		s.passes.Inc()
	}
	return sess.snapshot(), nil
}

// Get returns the observable pair of a session.
func (s *Service) Get(_ context.Context, id string) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()
	return sess.snapshot(), nil
}

// End discards a session.
func (s *Service) End(_ context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.active != nil {
		s.active.Dec()
	}
	return nil
}

// Close stops the janitor.
func (s *Service) Close() {
	close(s.done)
}

func (s *Service) lookup(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// fetch performs the single data-access call for a root selector.
func (s *Service) fetch(ctx context.Context, sel selector.Selector) ([]gall.Gall, error) {
	if sel.IsZero() {
		return nil, domain.ErrInvalidRootSelector
	}

	var (
		galls []gall.Gall
		err   error
		kind  string
	)
	if host, ok := sel.Host(); ok {
		kind = "host"
		galls, err = s.repo.FetchByHost(ctx, host)
	} else {
		kind = "genus"
		genus, _ := sel.Genus()
		galls, err = s.repo.FetchByGenus(ctx, genus)
	}

	if err != nil {
		s.countFetch(kind, "error")
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRootLookup, sel, err)
	}
	s.countFetch(kind, "ok")
	return galls, nil
}

func (s *Service) countFetch(kind, status string) {
	if s.fetches != nil {
		s.fetches.WithLabelValues(kind, status).Inc()
	}
}

func (s *Service) startJanitor() {
	s.janitorOnce.Do(func() {
		go s.janitor()
	})
}

func (s *Service) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.expire(now)
		}
	}
}

func (s *Service) expire(now time.Time) {
	s.mu.Lock()
	var dropped int
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			dropped++
		}
	}
	s.mu.Unlock()

	if dropped > 0 {
		if s.active != nil {
			s.active.Sub(float64(dropped))
		}
		s.logger.Debug("expired idle search sessions", zap.Int("count", dropped))
	}
}
