// Package selector models the root query choice: a host plant name or a
// genus name, exactly one of which must be populated.
package selector

import (
	"fmt"

	"github.com/cecidology/cecidarium/internal/domain"
)

type kind int

const (
	kindHost kind = iota + 1
	kindGenus
)

// Selector is a tagged choice between a host lookup and a genus lookup.
// The zero value is invalid; use ByHost, ByGenus, or New.
type Selector struct {
	kind kind
	name string
}

// ByHost creates a host-name selector.
func ByHost(name string) (Selector, error) {
	if name == "" {
		return Selector{}, fmt.Errorf("%w: host name is empty", domain.ErrInvalidRootSelector)
	}
	return Selector{kind: kindHost, name: name}, nil
}

// ByGenus creates a genus-name selector.
func ByGenus(name string) (Selector, error) {
	if name == "" {
		return Selector{}, fmt.Errorf("%w: genus name is empty", domain.ErrInvalidRootSelector)
	}
	return Selector{kind: kindGenus, name: name}, nil
}

// New builds a selector from two optional form inputs. Supplying both or
// neither is rejected before any fetch is attempted.
func New(host, genus string) (Selector, error) {
	switch {
	case host != "" && genus != "":
		return Selector{}, fmt.Errorf("%w: host and genus are mutually exclusive", domain.ErrInvalidRootSelector)
	case host != "":
		return ByHost(host)
	case genus != "":
		return ByGenus(genus)
	default:
		return Selector{}, fmt.Errorf("%w: either host or genus is required", domain.ErrInvalidRootSelector)
	}
}

// Host returns the host name and whether this is a host selector.
func (s Selector) Host() (string, bool) {
	return s.name, s.kind == kindHost
}

// Genus returns the genus name and whether this is a genus selector.
func (s Selector) Genus() (string, bool) {
	return s.name, s.kind == kindGenus
}

// IsZero reports whether the selector is unpopulated.
func (s Selector) IsZero() bool { return s.kind == 0 }

func (s Selector) String() string {
	switch s.kind {
	case kindHost:
		return "host:" + s.name
	case kindGenus:
		return "genus:" + s.name
	default:
		return "invalid"
	}
}
