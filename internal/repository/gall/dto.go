package gall

import (
	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
)

// gallDoc is the JSON storage shape of a gall record.
type gallDoc struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Genus       string   `json:"genus"`
	Hosts       []string `json:"hosts,omitempty"`
	Description string   `json:"description,omitempty"`
	Alignment   *string  `json:"alignment,omitempty"`
	Cells       *string  `json:"cells,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Shape       *string  `json:"shape,omitempty"`
	Walls       *string  `json:"walls,omitempty"`
	Detachable  *int     `json:"detachable,omitempty"`
	Locations   []string `json:"locations,omitempty"`
	Textures    []string `json:"textures,omitempty"`
}

func buildDoc(g *domgall.Gall) gallDoc {
	attrs := g.Attributes()
	doc := gallDoc{
		ID:          g.ID(),
		Name:        g.Name(),
		Genus:       g.Genus(),
		Hosts:       g.Hosts(),
		Description: g.Description(),
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
		doc.Detachable = &code
	}
	return doc
}

func (d gallDoc) toDomain() domgall.Gall {
	attrs := domgall.Attributes{
		Alignment: d.Alignment,
		Cells:     d.Cells,
		Color:     d.Color,
		Shape:     d.Shape,
		Walls:     d.Walls,
		Locations: d.Locations,
		Textures:  d.Textures,
	}
	if d.Detachable != nil {
		code := domgall.Detachability(*d.Detachable)
		attrs.Detachable = &code
	}
	return domgall.Reconstruct(d.ID, d.Name, d.Genus, d.Hosts, attrs, d.Description)
}
