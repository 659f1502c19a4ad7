package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
)

// --- Mocks ---

type mockRepo struct {
	byHostFn  func(ctx context.Context, name string) ([]gall.Gall, error)
	byGenusFn func(ctx context.Context, name string) ([]gall.Gall, error)
}

func (m *mockRepo) FetchByHost(ctx context.Context, name string) ([]gall.Gall, error) {
	if m.byHostFn != nil {
		return m.byHostFn(ctx, name)
	}
	return nil, nil
}

func (m *mockRepo) FetchByGenus(ctx context.Context, name string) ([]gall.Gall, error) {
	if m.byGenusFn != nil {
		return m.byGenusFn(ctx, name)
	}
	return nil, nil
}

func strPtr(s string) *string { return &s }

func testGall(t *testing.T, id int64, color string, locations []string) gall.Gall {
	t.Helper()
	attrs := gall.Attributes{Locations: locations}
	if color != "" {
		attrs.Color = strPtr(color)
	}
	g, err := gall.New(id, "Test gall", "Testus", nil, attrs, "")
	if err != nil {
		t.Fatalf("gall.New: %v", err)
	}
	return g
}

// superset returns the three-record scenario: green/stem, brown/leaf, green/leaf.
func superset(t *testing.T) []gall.Gall {
	t.Helper()
	return []gall.Gall{
		testGall(t, 1, "green", []string{"stem"}),
		testGall(t, 2, "brown", []string{"leaf"}),
		testGall(t, 3, "green", []string{"leaf"}),
	}
}

func hostSel(t *testing.T, name string) selector.Selector {
	t.Helper()
	sel, err := selector.ByHost(name)
	if err != nil {
		t.Fatalf("selector.ByHost: %v", err)
	}
	return sel
}

func newService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc := New(repo, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc
}

func displayedIDs(snap Snapshot) []int64 {
	out := make([]int64, len(snap.Displayed))
	for i := range snap.Displayed {
		out[i] = snap.Displayed[i].ID()
	}
	return out
}

func wantIDs(t *testing.T, snap Snapshot, want ...int64) {
	t.Helper()
	got := displayedIDs(snap)
	if len(got) != len(want) {
		t.Fatalf("displayed ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("displayed ids = %v, want %v", got, want)
		}
	}
}

// --- Tests ---

func TestStart_Loaded(t *testing.T) {
	repo := &mockRepo{byHostFn: func(_ context.Context, name string) ([]gall.Gall, error) {
		if name != "Quercus rubra" {
			t.Errorf("fetched host %q", name)
		}
		return superset(t), nil
	}}
	svc := newService(t, repo)

	snap, err := svc.Start(context.Background(), hostSel(t, "Quercus rubra"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.ID == "" {
		t.Error("expected a session ID")
	}
	if snap.State != StateLoaded {
		t.Errorf("state = %q, want loaded", snap.State)
	}
	if !snap.Query.IsEmpty() {
		t.Error("fresh session query should be all-don't-care")
	}
	wantIDs(t, snap, 1, 2, 3)
}

func TestStart_ByGenus(t *testing.T) {
	repo := &mockRepo{byGenusFn: func(_ context.Context, name string) ([]gall.Gall, error) {
		if name != "Amphibolips" {
			t.Errorf("fetched genus %q", name)
		}
		return superset(t)[:1], nil
	}}
	svc := newService(t, repo)

	sel, err := selector.ByGenus("Amphibolips")
	if err != nil {
		t.Fatalf("selector.ByGenus: %v", err)
	}
	snap, err := svc.Start(context.Background(), sel)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	wantIDs(t, snap, 1)
}

func TestStart_FetchError(t *testing.T) {
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		return nil, errors.New("connection refused")
	}}
	svc := newService(t, repo)

	_, err := svc.Start(context.Background(), hostSel(t, "Quercus rubra"))
	if !errors.Is(err, domain.ErrRootLookup) {
		t.Fatalf("error = %v, want ErrRootLookup", err)
	}

	svc.mu.RLock()
	n := len(svc.sessions)
	svc.mu.RUnlock()
	if n != 0 {
		t.Errorf("failed start left %d sessions behind", n)
	}
}

func TestStart_ZeroSelector(t *testing.T) {
	svc := newService(t, &mockRepo{})
	_, err := svc.Start(context.Background(), selector.Selector{})
	if !errors.Is(err, domain.ErrInvalidRootSelector) {
		t.Errorf("error = %v, want ErrInvalidRootSelector", err)
	}
}

func TestEditFacet_NarrowsScenario(t *testing.T) {
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, err := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// color=green over {1,2,3} -> {1,3}
	snap, err = svc.EditFacet(ctx, snap.ID, facet.Color, []string{"green"})
	if err != nil {
		t.Fatalf("EditFacet color: %v", err)
	}
	if snap.State != StateFiltered {
		t.Errorf("state = %q, want filtered", snap.State)
	}
	wantIDs(t, snap, 1, 3)

	// locations=[leaf] over {1,3} -> {3}
	snap, err = svc.EditFacet(ctx, snap.ID, facet.Locations, []string{"leaf"})
	if err != nil {
		t.Fatalf("EditFacet locations: %v", err)
	}
	wantIDs(t, snap, 3)

	// Clearing color evaluates against {3}: record 1 does not come back.
	snap, err = svc.EditFacet(ctx, snap.ID, facet.Color, nil)
	if err != nil {
		t.Fatalf("EditFacet clear: %v", err)
	}
	wantIDs(t, snap, 3)
	if !snap.Query.DontCare(facet.Color) {
		t.Error("cleared facet should be don't-care in the query")
	}
}

func TestEditFacet_MonotonicNarrowing(t *testing.T) {
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, _ := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	before := len(snap.Displayed)

	steps := []struct {
		field  facet.Name
		values []string
	}{
		{facet.Color, []string{"green"}},
		{facet.Locations, []string{"leaf"}},
		{facet.Color, nil},
		{facet.Locations, nil},
	}
	for _, step := range steps {
		next, err := svc.EditFacet(ctx, snap.ID, step.field, step.values)
		if err != nil {
			t.Fatalf("EditFacet(%s): %v", step.field, err)
		}
		if len(next.Displayed) > before {
			t.Fatalf("edit %s grew the displayed set: %d -> %d",
				step.field, before, len(next.Displayed))
		}
		before = len(next.Displayed)
		snap = next
	}
}

func TestEditFacet_UnknownValueEmptiesSet(t *testing.T) {
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, _ := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	snap, err := svc.EditFacet(ctx, snap.ID, facet.Color, []string{"chartreuse"})
	if err != nil {
		t.Fatalf("EditFacet: %v", err)
	}
	wantIDs(t, snap)
}

func TestEditFacet_UnknownSession(t *testing.T) {
	svc := newService(t, &mockRepo{})
	_, err := svc.EditFacet(context.Background(), "nope", facet.Color, []string{"green"})
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitRoot_ResetsFilterState(t *testing.T) {
	calls := 0
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		calls++
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, _ := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	snap, _ = svc.EditFacet(ctx, snap.ID, facet.Color, []string{"green"})
	snap, _ = svc.EditFacet(ctx, snap.ID, facet.Locations, []string{"leaf"})
	wantIDs(t, snap, 3)

	snap, err := svc.SubmitRoot(ctx, snap.ID, hostSel(t, "Quercus rubra"))
	if err != nil {
		t.Fatalf("SubmitRoot: %v", err)
	}
	if snap.State != StateLoaded {
		t.Errorf("state = %q, want loaded", snap.State)
	}
	if !snap.Query.IsEmpty() {
		t.Error("root resubmission should reset the query")
	}
	wantIDs(t, snap, 1, 2, 3)
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (facet edits never refetch)", calls)
	}
}

func TestSubmitRoot_FailureLeavesStateUntouched(t *testing.T) {
	failing := false
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		if failing {
			return nil, errors.New("timeout")
		}
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, _ := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	snap, _ = svc.EditFacet(ctx, snap.ID, facet.Color, []string{"green"})

	failing = true
	_, err := svc.SubmitRoot(ctx, snap.ID, hostSel(t, "Quercus alba"))
	if !errors.Is(err, domain.ErrRootLookup) {
		t.Fatalf("error = %v, want ErrRootLookup", err)
	}

	// Prior displayed set and query survive the failed fetch.
	cur, err := svc.Get(ctx, snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	wantIDs(t, cur, 1, 3)
	if cur.Query.DontCare(facet.Color) {
		t.Error("query lost the color constraint after a failed root fetch")
	}
}

func TestEditFacet_OnEmptySession(t *testing.T) {
	svc := newService(t, &mockRepo{})

	// Hand-build an Empty-state session: Start always loads, so reach in.
	sess := newSession("s1")
	svc.mu.Lock()
	svc.sessions[sess.id] = sess
	svc.mu.Unlock()

	_, err := svc.EditFacet(context.Background(), "s1", facet.Color, []string{"green"})
	if !errors.Is(err, domain.ErrNoRootQuery) {
		t.Errorf("error = %v, want ErrNoRootQuery", err)
	}
}

func TestEnd(t *testing.T) {
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		return superset(t), nil
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, _ := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	if err := svc.End(ctx, snap.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := svc.Get(ctx, snap.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get after End = %v, want ErrSessionNotFound", err)
	}
	if err := svc.End(ctx, snap.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second End = %v, want ErrSessionNotFound", err)
	}
}

func TestEditQueuesBehindInFlightRootFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	repo := &mockRepo{byHostFn: func(context.Context, string) ([]gall.Gall, error) {
		if first {
			first = false
			return superset(t)[:2], nil // ids 1, 2
		}
		close(entered)
		<-release
		return superset(t), nil // ids 1, 2, 3
	}}
	svc := newService(t, repo)
	ctx := context.Background()

	snap, err := svc.Start(ctx, hostSel(t, "Quercus rubra"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	rootDone := make(chan struct{})
	go func() {
		defer close(rootDone)
		if _, err := svc.SubmitRoot(ctx, snap.ID, hostSel(t, "Quercus alba")); err != nil {
			t.Errorf("SubmitRoot: %v", err)
		}
	}()
	<-entered

	editDone := make(chan Snapshot, 1)
	go func() {
		got, err := svc.EditFacet(ctx, snap.ID, facet.Locations, []string{"leaf"})
		if err != nil {
			t.Errorf("EditFacet: %v", err)
		}
		editDone <- got
	}()

	// The edit must not complete while the root fetch is pending.
	select {
	case <-editDone:
		t.Fatal("facet edit observed a displayed set belonging to an unresolved root query")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-rootDone
	got := <-editDone

	// The queued edit applied to the new superset: leaf galls are 2 and 3.
	wantIDs(t, got, 2, 3)
}
