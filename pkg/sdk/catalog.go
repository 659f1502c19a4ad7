package cecidarium

import (
	"context"
	"fmt"
	"time"

	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
)

// CatalogService manages gall records and facet option enumerations.
type CatalogService struct {
	svc catalogUseCase
	obs *observer
}

// Upsert validates and stores a record. Returns true if it was created.
func (s *CatalogService) Upsert(ctx context.Context, g Gall) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.upsert", start, err) }()

	_, created, err = s.svc.Upsert(ctx, g.ID, g.Name, g.Genus, g.Hosts, toAttributes(g), g.Description)
	if err != nil {
		return false, fmt.Errorf("upsert: %w", err)
	}
	return created, nil
}

// Get returns one gall record by ID.
func (s *CatalogService) Get(ctx context.Context, id int64) (g Gall, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.get", start, err) }()

	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return Gall{}, fmt.Errorf("get: %w", err)
	}
	return fromDomain(&rec), nil
}

// Delete removes one gall record by ID.
func (s *CatalogService) Delete(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Facets returns every facet declaration with its curated option values.
func (s *CatalogService) Facets(ctx context.Context) (out []FacetInfo, err error) {
	start := time.Now()
	defer func() { s.obs.observe("catalog.facets", start, err) }()

	facets, err := s.svc.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("facets: %w", err)
	}

	out = make([]FacetInfo, len(facets))
	for i, f := range facets {
		out[i] = FacetInfo{
			Name:        string(f.Name),
			Label:       f.Label,
			Cardinality: string(f.Cardinality),
			Values:      f.Values,
		}
	}
	return out, nil
}

func toAttributes(g Gall) domgall.Attributes {
	attrs := domgall.Attributes{
		Alignment: g.Alignment,
		Cells:     g.Cells,
		Color:     g.Color,
		Shape:     g.Shape,
		Walls:     g.Walls,
		Locations: g.Locations,
		Textures:  g.Textures,
	}
	if g.Detachable != nil {
		code := domgall.Detachability(*g.Detachable)
		attrs.Detachable = &code
	}
	return attrs
}

func fromDomain(rec *domgall.Gall) Gall {
	attrs := rec.Attributes()
	g := Gall{
		ID:          rec.ID(),
		Name:        rec.Name(),
		Genus:       rec.Genus(),
		Hosts:       rec.Hosts(),
		Description: rec.Description(),
		Alignment:   attrs.Alignment,
		Cells:       attrs.Cells,
		Color:       attrs.Color,
		Shape:       attrs.Shape,
		Walls:       attrs.Walls,
		Locations:   attrs.Locations,
		Textures:    attrs.Textures,
	}
	if attrs.Detachable != nil {
		code := int(*attrs.Detachable)
		g.Detachable = &code
	}
	return g
}
