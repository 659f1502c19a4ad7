package cecidarium

import (
	"context"
	"fmt"
	"time"

	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
	sessionuc "github.com/cecidology/cecidarium/internal/usecase/session"
)

// SearchService runs faceted search sessions: one root fetch per session,
// then in-memory narrowing via facet edits.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// StartByHost opens a session rooted on a host plant name.
func (s *SearchService) StartByHost(ctx context.Context, host string) (SessionView, error) {
	sel, err := selector.ByHost(host)
	if err != nil {
		return SessionView{}, fmt.Errorf("start session: %w", err)
	}
	return s.start(ctx, sel)
}

// StartByGenus opens a session rooted on a genus name.
func (s *SearchService) StartByGenus(ctx context.Context, genus string) (SessionView, error) {
	sel, err := selector.ByGenus(genus)
	if err != nil {
		return SessionView{}, fmt.Errorf("start session: %w", err)
	}
	return s.start(ctx, sel)
}

func (s *SearchService) start(ctx context.Context, sel selector.Selector) (view SessionView, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.start", start, err) }()

	snap, err := s.svc.Start(ctx, sel)
	if err != nil {
		return SessionView{}, fmt.Errorf("start session: %w", err)
	}
	return toView(snap), nil
}

// SubmitRoot replaces the session's root query: the displayed set is
// refetched wholesale and all facet selections are cleared.
func (s *SearchService) SubmitRoot(ctx context.Context, id, host, genus string) (view SessionView, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.root", start, err) }()

	sel, err := selector.New(host, genus)
	if err != nil {
		return SessionView{}, fmt.Errorf("submit root: %w", err)
	}
	snap, err := s.svc.SubmitRoot(ctx, id, sel)
	if err != nil {
		return SessionView{}, fmt.Errorf("submit root: %w", err)
	}
	return toView(snap), nil
}

// EditFacet sets one facet's selection and narrows the displayed set.
// An empty values list clears the facet; records already excluded by
// earlier edits are not restored.
func (s *SearchService) EditFacet(ctx context.Context, id, field string, values []string) (view SessionView, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.edit", start, err) }()

	snap, err := s.svc.EditFacet(ctx, id, facet.Name(field), values)
	if err != nil {
		return SessionView{}, fmt.Errorf("edit facet: %w", err)
	}
	return toView(snap), nil
}

// Get returns the current view of a session.
func (s *SearchService) Get(ctx context.Context, id string) (view SessionView, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.get", start, err) }()

	snap, err := s.svc.Get(ctx, id)
	if err != nil {
		return SessionView{}, fmt.Errorf("get session: %w", err)
	}
	return toView(snap), nil
}

// End discards a session.
func (s *SearchService) End(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.end", start, err) }()

	if err = s.svc.End(ctx, id); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func toView(snap sessionuc.Snapshot) SessionView {
	query := make(map[string][]string)
	for _, field := range snap.Query.Fields() {
		query[string(field)] = snap.Query.Get(field)
	}

	galls := make([]Gall, len(snap.Displayed))
	for i := range snap.Displayed {
		galls[i] = fromDomain(&snap.Displayed[i])
	}

	return SessionView{
		ID:    snap.ID,
		State: string(snap.State),
		Query: query,
		Galls: galls,
	}
}
