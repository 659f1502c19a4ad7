package gall

import (
	"fmt"
	"strings"
)

// Detachability is the three-state coded attribute stored on a record.
type Detachability int

const (
	// Integral galls cannot be removed from the host without tearing tissue.
	Integral Detachability = 0
	// Detachable galls separate cleanly from the host.
	Detachable Detachability = 1
	// Both covers species observed in either form.
	Both Detachability = 2
)

// Label maps the coded value to the domain label used in queries.
func (d Detachability) Label() string {
	switch d {
	case Detachable:
		return "yes"
	case Integral:
		return "no"
	default:
		return "unsure"
	}
}

// Attributes holds the filterable morphology of a gall. Single-valued
// attributes are nullable; multi-valued attributes are ordered tag lists.
type Attributes struct {
	Alignment  *string
	Cells      *string
	Color      *string
	Shape      *string
	Walls      *string
	Detachable *Detachability
	Locations  []string
	Textures   []string
}

// Gall is one taxonomic record under search (immutable value object).
type Gall struct {
	id          int64
	name        string
	genus       string
	hosts       []string
	description string
	attrs       Attributes
}

// New validates and creates a Gall.
// ID must be positive; name and genus are required; hosts may be empty for
// records whose host associations are not yet curated.
func New(id int64, name, genus string, hosts []string, attrs Attributes, description string) (Gall, error) {
	if id <= 0 {
		return Gall{}, fmt.Errorf("gall ID must be positive, got %d", id)
	}
	if strings.TrimSpace(name) == "" {
		return Gall{}, fmt.Errorf("gall name is required")
	}
	if strings.TrimSpace(genus) == "" {
		return Gall{}, fmt.Errorf("genus is required")
	}
	for _, h := range hosts {
		if strings.TrimSpace(h) == "" {
			return Gall{}, fmt.Errorf("empty host name on gall %d", id)
		}
	}
	return Gall{
		id:          id,
		name:        name,
		genus:       genus,
		hosts:       cloneStrings(hosts),
		description: description,
		attrs:       cloneAttributes(attrs),
	}, nil
}

// Reconstruct creates a Gall without validation (storage hydration).
func Reconstruct(id int64, name, genus string, hosts []string, attrs Attributes, description string) Gall {
	return Gall{id: id, name: name, genus: genus, hosts: hosts, description: description, attrs: attrs}
}

// ID returns the stable record identifier.
func (g *Gall) ID() int64 { return g.id }

// Name returns the taxon name.
func (g *Gall) Name() string { return g.name }

// Genus returns the genus the record belongs to.
func (g *Gall) Genus() string { return g.genus }

// Hosts returns the host plant names the record is associated with.
func (g *Gall) Hosts() []string { return g.hosts }

// Description returns the free-text description (display only).
func (g *Gall) Description() string { return g.description }

// Alignment returns the alignment attribute if present.
func (g *Gall) Alignment() (string, bool) { return deref(g.attrs.Alignment) }

// Cells returns the cell-type attribute if present.
func (g *Gall) Cells() (string, bool) { return deref(g.attrs.Cells) }

// Color returns the color attribute if present.
func (g *Gall) Color() (string, bool) { return deref(g.attrs.Color) }

// Shape returns the shape attribute if present.
func (g *Gall) Shape() (string, bool) { return deref(g.attrs.Shape) }

// Walls returns the wall-type attribute if present.
func (g *Gall) Walls() (string, bool) { return deref(g.attrs.Walls) }

// DetachableLabel returns the detachability label (yes/no/unsure) if the
// coded value is present.
func (g *Gall) DetachableLabel() (string, bool) {
	if g.attrs.Detachable == nil {
		return "", false
	}
	return g.attrs.Detachable.Label(), true
}

// Locations returns the location tags (may be empty).
func (g *Gall) Locations() []string { return g.attrs.Locations }

// Textures returns the texture tags (may be empty).
func (g *Gall) Textures() []string { return g.attrs.Textures }

// Attributes returns a copy of the full attribute set.
func (g *Gall) Attributes() Attributes { return cloneAttributes(g.attrs) }

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func cloneAttributes(a Attributes) Attributes {
	return Attributes{
		Alignment:  cloneStringPtr(a.Alignment),
		Cells:      cloneStringPtr(a.Cells),
		Color:      cloneStringPtr(a.Color),
		Shape:      cloneStringPtr(a.Shape),
		Walls:      cloneStringPtr(a.Walls),
		Detachable: cloneDetachPtr(a.Detachable),
		Locations:  cloneStrings(a.Locations),
		Textures:   cloneStrings(a.Textures),
	}
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneDetachPtr(d *Detachability) *Detachability {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
