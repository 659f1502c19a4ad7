package facet

import "sort"

// Query maps facet names to selected values (immutable value object).
// A missing key, an empty slice, or values that are all empty strings mean
// "don't care" for that facet: such a facet never filters anything out.
// Single-cardinality facets driven by a multi-select use the first selection.
type Query struct {
	values map[Name][]string
}

// EmptyQuery returns the all-don't-care query.
func EmptyQuery() Query { return Query{} }

// With returns a copy of the query with the given facet's selection replaced.
// A second edit to the same facet replaces, never accumulates, its prior
// value; setting an empty selection clears the facet back to don't-care.
func (q Query) With(field Name, values []string) Query {
	next := make(map[Name][]string, len(q.values)+1)
	for k, v := range q.values {
		next[k] = v
	}
	c := make([]string, len(values))
	copy(c, values)
	next[field] = c
	return Query{values: next}
}

// Get returns the selected values for a facet. Missing facets yield nil,
// which behaves as don't-care.
func (q Query) Get(field Name) []string {
	return q.values[field]
}

// DontCare reports whether the facet imposes no constraint.
func (q Query) DontCare(field Name) bool {
	return len(effective(q.Get(field))) == 0
}

// IsEmpty reports whether every facet is don't-care.
func (q Query) IsEmpty() bool {
	for field := range q.values {
		if !q.DontCare(field) {
			return false
		}
	}
	return true
}

// Fields returns the facet names with a stored selection, sorted for
// deterministic rendering.
func (q Query) Fields() []Name {
	fields := make([]Name, 0, len(q.values))
	for k := range q.values {
		fields = append(fields, k)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// effective drops empty strings; an empty result means don't-care.
func effective(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
