package catalog

import (
	"context"

	"github.com/cecidology/cecidarium/internal/domain/facet"
	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// Repository defines the storage contract for the gall catalog.
type Repository interface {
	Upsert(ctx context.Context, g *gall.Gall) (bool, error)
	Get(ctx context.Context, id int64) (gall.Gall, error)
	Delete(ctx context.Context, id int64) error
	FacetOptions(ctx context.Context, name facet.Name) ([]string, error)
}
