package domain

import "errors"

var (
	// ErrGallNotFound signals a missing gall record.
	ErrGallNotFound = errors.New("gall not found")
	// ErrSessionNotFound signals a missing or expired search session.
	ErrSessionNotFound = errors.New("search session not found")
	// ErrInvalidRootSelector signals a root selector with both or neither of
	// host and genus populated.
	ErrInvalidRootSelector = errors.New("invalid root selector")
	// ErrNoRootQuery signals a facet edit on a session that has no root
	// candidate set yet.
	ErrNoRootQuery = errors.New("no root query submitted")
	// ErrRootLookup signals a failed root candidate fetch. The session's
	// query and displayed set are left untouched.
	ErrRootLookup = errors.New("root lookup failed")
	// ErrInvalidRecord signals a gall record that fails domain validation.
	ErrInvalidRecord = errors.New("invalid gall record")
)
