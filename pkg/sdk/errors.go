package cecidarium

import "github.com/cecidology/cecidarium/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrGallNotFound        = domain.ErrGallNotFound
	ErrSessionNotFound     = domain.ErrSessionNotFound
	ErrInvalidRootSelector = domain.ErrInvalidRootSelector
	ErrNoRootQuery         = domain.ErrNoRootQuery
	ErrRootLookup          = domain.ErrRootLookup
	ErrInvalidRecord       = domain.ErrInvalidRecord
)
