package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// --- Mocks ---

type mockRepo struct {
	upsertFn  func(ctx context.Context, g *gall.Gall) (bool, error)
	getFn     func(ctx context.Context, id int64) (gall.Gall, error)
	deleteFn  func(ctx context.Context, id int64) error
	optionsFn func(ctx context.Context, name facet.Name) ([]string, error)
}

func (m *mockRepo) Upsert(ctx context.Context, g *gall.Gall) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, g)
	}
	return true, nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (gall.Gall, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return gall.Gall{}, domain.ErrGallNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) FacetOptions(ctx context.Context, name facet.Name) ([]string, error) {
	if m.optionsFn != nil {
		return m.optionsFn(ctx, name)
	}
	return nil, nil
}

// --- Tests ---

func TestUpsert_Valid(t *testing.T) {
	var stored *gall.Gall
	repo := &mockRepo{upsertFn: func(_ context.Context, g *gall.Gall) (bool, error) {
		stored = g
		return true, nil
	}}
	svc := New(repo)

	g, created, err := svc.Upsert(context.Background(), 3, "Oak apple", "Amphibolips",
		[]string{"Quercus rubra"}, gall.Attributes{}, "")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("expected created")
	}
	if g.ID() != 3 || stored == nil || stored.ID() != 3 {
		t.Error("record not passed through to the repository")
	}
}

func TestUpsert_InvalidRecord(t *testing.T) {
	svc := New(&mockRepo{})
	_, _, err := svc.Upsert(context.Background(), 0, "", "", nil, gall.Attributes{}, "")
	if !errors.Is(err, domain.ErrInvalidRecord) {
		t.Errorf("error = %v, want ErrInvalidRecord", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrGallNotFound) {
		t.Errorf("error = %v, want ErrGallNotFound", err)
	}
}

func TestDelete_PropagatesError(t *testing.T) {
	repo := &mockRepo{deleteFn: func(context.Context, int64) error {
		return domain.ErrGallNotFound
	}}
	svc := New(repo)
	if err := svc.Delete(context.Background(), 9); !errors.Is(err, domain.ErrGallNotFound) {
		t.Errorf("error = %v, want ErrGallNotFound", err)
	}
}

func TestFacets(t *testing.T) {
	repo := &mockRepo{optionsFn: func(_ context.Context, name facet.Name) ([]string, error) {
		if name == facet.Color {
			return []string{"brown", "green"}, nil
		}
		return nil, nil
	}}
	svc := New(repo)

	facets, err := svc.Facets(context.Background())
	if err != nil {
		t.Fatalf("Facets: %v", err)
	}
	if len(facets) != len(facet.Registry()) {
		t.Fatalf("got %d facets, want %d", len(facets), len(facet.Registry()))
	}
	for _, f := range facets {
		if f.Name == facet.Color {
			if len(f.Values) != 2 {
				t.Errorf("color options = %v", f.Values)
			}
			if f.Cardinality != facet.Single {
				t.Errorf("color cardinality = %q", f.Cardinality)
			}
		}
	}
}

func TestFacets_OptionSourceError(t *testing.T) {
	repo := &mockRepo{optionsFn: func(context.Context, facet.Name) ([]string, error) {
		return nil, errors.New("connection refused")
	}}
	svc := New(repo)
	if _, err := svc.Facets(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
