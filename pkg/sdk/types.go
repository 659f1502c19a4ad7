package cecidarium

// Detachability codes as stored on records.
const (
	DetachIntegral   = 0
	DetachDetachable = 1
	DetachBoth       = 2
)

// Gall is the public record shape. Nil pointer attributes mean the value is
// unknown for that record. Detachable carries the stored code, not the label.
type Gall struct {
	ID          int64
	Name        string
	Genus       string
	Hosts       []string
	Description string
	Alignment   *string
	Cells       *string
	Color       *string
	Shape       *string
	Walls       *string
	Detachable  *int
	Locations   []string
	Textures    []string
}

// SessionView is a read-only view of a search session.
type SessionView struct {
	ID    string
	State string
	Query map[string][]string
	Galls []Gall
}

// FacetInfo is one facet declaration with its curated option values.
type FacetInfo struct {
	Name        string
	Label       string
	Cardinality string
	Values      []string
}
