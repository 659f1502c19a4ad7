// Package catalog manages gall records and the facet option enumerations
// that populate the search controls.
package catalog

import (
	"context"
	"fmt"

	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// FacetOptions is one facet's declaration plus its curated value set.
type FacetOptions struct {
	Name        facet.Name
	Label       string
	Cardinality facet.Cardinality
	Values      []string
}

// Service handles catalog writes and facet option reads.
type Service struct {
	repo Repository
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upsert validates and stores a gall record. Returns true if created.
func (s *Service) Upsert(
	ctx context.Context, id int64, name, genus string, hosts []string,
	attrs gall.Attributes, description string,
) (gall.Gall, bool, error) {
	g, err := gall.New(id, name, genus, hosts, attrs, description)
	if err != nil {
		return gall.Gall{}, false, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	created, err := s.repo.Upsert(ctx, &g)
	if err != nil {
		return gall.Gall{}, false, fmt.Errorf("upsert gall %d: %w", id, err)
	}
	return g, created, nil
}

// Get returns one gall record.
func (s *Service) Get(ctx context.Context, id int64) (gall.Gall, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return gall.Gall{}, fmt.Errorf("get gall %d: %w", id, err)
	}
	return g, nil
}

// Delete removes one gall record.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete gall %d: %w", id, err)
	}
	return nil
}

// Facets returns every registry facet with its option values, in registry
// order. The options are read once at page-load time by the UI.
func (s *Service) Facets(ctx context.Context) ([]FacetOptions, error) {
	defs := facet.Registry()
	out := make([]FacetOptions, 0, len(defs))
	for _, def := range defs {
		values, err := s.repo.FacetOptions(ctx, def.Name())
		if err != nil {
			return nil, fmt.Errorf("facet options %q: %w", def.Name(), err)
		}
		out = append(out, FacetOptions{
			Name:        def.Name(),
			Label:       def.Label(),
			Cardinality: def.Cardinality(),
			Values:      values,
		})
	}
	return out, nil
}
