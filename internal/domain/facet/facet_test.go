package facet

import (
	"testing"

	"github.com/cecidology/cecidarium/internal/domain/gall"
)

func strPtr(s string) *string { return &s }

func detachPtr(d gall.Detachability) *gall.Detachability { return &d }

func TestRegistry_Fixed(t *testing.T) {
	defs := Registry()
	if len(defs) != 8 {
		t.Fatalf("registry has %d facets, want 8", len(defs))
	}

	want := map[Name]Cardinality{
		Alignment:  Single,
		Cells:      Single,
		Color:      Single,
		Shape:      Single,
		Walls:      Single,
		Detachable: Single,
		Locations:  Multi,
		Textures:   Multi,
	}
	for _, d := range defs {
		card, ok := want[d.Name()]
		if !ok {
			t.Errorf("unexpected facet %q", d.Name())
			continue
		}
		if d.Cardinality() != card {
			t.Errorf("facet %q cardinality = %q, want %q", d.Name(), d.Cardinality(), card)
		}
		if d.Label() == "" {
			t.Errorf("facet %q has no label", d.Name())
		}
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup(Color); !ok {
		t.Error("Lookup(Color) not found")
	}
	if _, ok := Lookup("flavor"); ok {
		t.Error("Lookup of unknown facet should fail")
	}
}

func TestDefinition_Values(t *testing.T) {
	g := gall.Reconstruct(1, "x", "y", nil, gall.Attributes{
		Color:      strPtr("green"),
		Detachable: detachPtr(gall.Integral),
		Locations:  []string{"stem", "petiole"},
	}, "")

	color, _ := Lookup(Color)
	if got := color.Values(&g); len(got) != 1 || got[0] != "green" {
		t.Errorf("color values = %v", got)
	}

	shape, _ := Lookup(Shape)
	if got := shape.Values(&g); len(got) != 0 {
		t.Errorf("absent shape values = %v, want empty", got)
	}

	detach, _ := Lookup(Detachable)
	if got := detach.Values(&g); len(got) != 1 || got[0] != "no" {
		t.Errorf("detachable values = %v, want [no]", got)
	}

	locs, _ := Lookup(Locations)
	if got := locs.Values(&g); len(got) != 2 || got[0] != "stem" {
		t.Errorf("location values = %v", got)
	}
}
