package chi

// Wire types for the hand-written JSON API.

// ErrorCode enumerates machine-readable error codes.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeSessionNotFound  ErrorCode = "session_not_found"
	CodeGallNotFound     ErrorCode = "gall_not_found"
	CodeNoRootQuery      ErrorCode = "no_root_query"
	CodeRootLookupFailed ErrorCode = "root_lookup_failed"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RootRequest selects the root query: exactly one of host or genus.
type RootRequest struct {
	Host  string `json:"host,omitempty"`
	Genus string `json:"genus,omitempty"`
}

// FacetEditRequest is one facet edit. An empty values list clears the facet.
type FacetEditRequest struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// GallResponse is the display shape of a gall record. Detachable carries the
// domain label (yes/no/unsure), not the stored code.
type GallResponse struct {
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
	Detachable  *string  `json:"detachable,omitempty"`
	Locations   []string `json:"locations,omitempty"`
	Textures    []string `json:"textures,omitempty"`
}

// SessionResponse is the observable pair of a search session.
type SessionResponse struct {
	SessionID string              `json:"session_id"`
	State     string              `json:"state"`
	Query     map[string][]string `json:"query"`
	Galls     []GallResponse      `json:"galls"`
	Total     int                 `json:"total"`
}

// FacetResponse is one facet declaration with its option values.
type FacetResponse struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Cardinality string   `json:"cardinality"`
	Values      []string `json:"values"`
}

// FacetListResponse lists every facet for populating selection controls.
type FacetListResponse struct {
	Facets []FacetResponse `json:"facets"`
}

// UpsertGallRequest is the admin write shape. Detachable carries the stored
// code: 0 integral, 1 detachable, 2 both.
type UpsertGallRequest struct {
	Name        string   `json:"name"`
	Genus       string   `json:"genus"`
	Hosts       []string `json:"hosts"`
	Description string   `json:"description"`
	Alignment   *string  `json:"alignment"`
	Cells       *string  `json:"cells"`
	Color       *string  `json:"color"`
	Shape       *string  `json:"shape"`
	Walls       *string  `json:"walls"`
	Detachable  *int     `json:"detachable"`
	Locations   []string `json:"locations"`
	Textures    []string `json:"textures"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
