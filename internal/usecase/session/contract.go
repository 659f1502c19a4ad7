package session

import (
	"context"

	"github.com/cecidology/cecidarium/internal/domain/gall"
)

// Repository is the root lookup capability: one fetch per root query.
type Repository interface {
	FetchByHost(ctx context.Context, name string) ([]gall.Gall, error)
	FetchByGenus(ctx context.Context, name string) ([]gall.Gall, error)
}
