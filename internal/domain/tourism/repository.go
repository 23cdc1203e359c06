package tourism

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// CategoryRepository defines persistence for tourism categories
type CategoryRepository interface {
	shared.TenantStore[Category]
}

// LocationRepository defines persistence for tourism locations
type LocationRepository interface {
	shared.TenantStore[Location]
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Location, error)
	SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// ReviewRepository defines persistence for reviews
type ReviewRepository interface {
	shared.TenantStore[Review]
	// RatingStats returns the approved review count and average rating per location
	RatingStats(ctx context.Context, tenantID uuid.UUID, locationIDs []uuid.UUID) (map[uuid.UUID]RatingStat, error)
}

// EventRepository defines persistence for events
type EventRepository interface {
	shared.TenantStore[Event]
}

// PackageRepository defines persistence for packages
type PackageRepository interface {
	shared.TenantStore[Package]
}

// RatingStat is the approved-review aggregate of a location
type RatingStat struct {
	Count   int64
	Average float64
}
