package cecidarium

import (
	"context"

	"github.com/cecidology/cecidarium/internal/domain/facet"
	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
	cataloguc "github.com/cecidology/cecidarium/internal/usecase/catalog"
	sessionuc "github.com/cecidology/cecidarium/internal/usecase/session"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	startFn  func(ctx context.Context, sel selector.Selector) (sessionuc.Snapshot, error)
	submitFn func(ctx context.Context, id string, sel selector.Selector) (sessionuc.Snapshot, error)
	editFn   func(ctx context.Context, id string, field facet.Name, values []string) (sessionuc.Snapshot, error)
	getFn    func(ctx context.Context, id string) (sessionuc.Snapshot, error)
	endFn    func(ctx context.Context, id string) error
}

func (m *mockSearchUC) Start(ctx context.Context, sel selector.Selector) (sessionuc.Snapshot, error) {
	return m.startFn(ctx, sel)
}

func (m *mockSearchUC) SubmitRoot(ctx context.Context, id string, sel selector.Selector) (sessionuc.Snapshot, error) {
	return m.submitFn(ctx, id, sel)
}

func (m *mockSearchUC) EditFacet(
	ctx context.Context, id string, field facet.Name, values []string,
) (sessionuc.Snapshot, error) {
	return m.editFn(ctx, id, field, values)
}

func (m *mockSearchUC) Get(ctx context.Context, id string) (sessionuc.Snapshot, error) {
	return m.getFn(ctx, id)
}

func (m *mockSearchUC) End(ctx context.Context, id string) error {
	return m.endFn(ctx, id)
}

func (m *mockSearchUC) Close() {}

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	upsertFn func(ctx context.Context, id int64, name, genus string, hosts []string,
		attrs domgall.Attributes, description string) (domgall.Gall, bool, error)
	getFn    func(ctx context.Context, id int64) (domgall.Gall, error)
	deleteFn func(ctx context.Context, id int64) error
	facetsFn func(ctx context.Context) ([]cataloguc.FacetOptions, error)
}

func (m *mockCatalogUC) Upsert(
	ctx context.Context, id int64, name, genus string, hosts []string,
	attrs domgall.Attributes, description string,
) (domgall.Gall, bool, error) {
	return m.upsertFn(ctx, id, name, genus, hosts, attrs, description)
}

func (m *mockCatalogUC) Get(ctx context.Context, id int64) (domgall.Gall, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogUC) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockCatalogUC) Facets(ctx context.Context) ([]cataloguc.FacetOptions, error) {
	return m.facetsFn(ctx)
}
