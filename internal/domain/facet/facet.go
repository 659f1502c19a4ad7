// Package facet declares the filterable dimensions of a gall record and the
// predicate that narrows a candidate set against a facet query.
package facet

import "github.com/cecidology/cecidarium/internal/domain/gall"

// Name identifies one filterable dimension.
type Name string

// Facet names, one per filterable attribute of a record.
const (
	Alignment  Name = "alignment"
	Cells      Name = "cells"
	Color      Name = "color"
	Shape      Name = "shape"
	Walls      Name = "walls"
	Detachable Name = "detachable"
	Locations  Name = "locations"
	Textures   Name = "textures"
)

// Cardinality is the record-side shape of a facet's value.
type Cardinality string

const (
	// Single facets hold exactly one nullable scalar per record.
	Single Cardinality = "single"
	// Multi facets hold zero or more tags per record.
	Multi Cardinality = "multi"
)

// Definition declares one facet: display label, cardinality, and the pure
// extractor from a record. Extractors return zero or one element for Single
// facets and the full tag list for Multi facets.
type Definition struct {
	name        Name
	label       string
	cardinality Cardinality
	extract     func(g *gall.Gall) []string
}

// Name returns the facet identifier.
func (d Definition) Name() Name { return d.name }

// Label returns the display label.
func (d Definition) Label() string { return d.label }

// Cardinality returns the facet's cardinality mode.
func (d Definition) Cardinality() Cardinality { return d.cardinality }

// Values extracts the record-side values for this facet.
func (d Definition) Values(g *gall.Gall) []string { return d.extract(g) }

// registry is the fixed facet table. Adding a facet means adding one entry
// here plus its option source; nothing else changes.
var registry = []Definition{
	{name: Alignment, label: "Alignment", cardinality: Single, extract: singleExtractor((*gall.Gall).Alignment)},
	{name: Cells, label: "Cells", cardinality: Single, extract: singleExtractor((*gall.Gall).Cells)},
	{name: Color, label: "Color", cardinality: Single, extract: singleExtractor((*gall.Gall).Color)},
	{name: Shape, label: "Shape", cardinality: Single, extract: singleExtractor((*gall.Gall).Shape)},
	{name: Walls, label: "Walls", cardinality: Single, extract: singleExtractor((*gall.Gall).Walls)},
	{name: Detachable, label: "Detachable", cardinality: Single, extract: singleExtractor((*gall.Gall).DetachableLabel)},
	{name: Locations, label: "Location", cardinality: Multi, extract: (*gall.Gall).Locations},
	{name: Textures, label: "Texture", cardinality: Multi, extract: (*gall.Gall).Textures},
}

// Registry returns the fixed facet table.
func Registry() []Definition { return registry }

// Lookup returns the definition for a facet name.
func Lookup(name Name) (Definition, bool) {
	for _, d := range registry {
		if d.name == name {
			return d, true
		}
	}
	return Definition{}, false
}

func singleExtractor(get func(*gall.Gall) (string, bool)) func(*gall.Gall) []string {
	return func(g *gall.Gall) []string {
		v, ok := get(g)
		if !ok {
			return nil
		}
		return []string{v}
	}
}
