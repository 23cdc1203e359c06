package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/tourism"
	"gorm.io/gorm"
)

// GormTourismCategoryRepository implements tourism.CategoryRepository using GORM
type GormTourismCategoryRepository struct {
	gormTenantStore[tourism.Category]
}

// NewGormTourismCategoryRepository creates a new GormTourismCategoryRepository
func NewGormTourismCategoryRepository(db *gorm.DB) *GormTourismCategoryRepository {
	return &GormTourismCategoryRepository{newTenantStore[tourism.Category](db, listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// GormTourismLocationRepository implements tourism.LocationRepository using GORM
type GormTourismLocationRepository struct {
	gormTenantStore[tourism.Location]
}

// NewGormTourismLocationRepository creates a new GormTourismLocationRepository
func NewGormTourismLocationRepository(db *gorm.DB) *GormTourismLocationRepository {
	return &GormTourismLocationRepository{newTenantStore[tourism.Location](db, listSpec{
		searchColumns: []string{"title", "short_description", "address"},
		sortFields:    sortFields("title", "entry_fee", "status"),
		filterColumns: columns("category_id", "location_type", "status", "featured", "is_active"),
	})}
}

// FindBySlug finds a location by its slug
func (r *GormTourismLocationRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*tourism.Location, error) {
	var l tourism.Location
	if err := r.scoped(ctx, tenantID).Where("slug = ?", slug).First(&l).Error; err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

// SlugExists checks whether another location uses slug
func (r *GormTourismLocationRepository) SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "slug = ? AND id <> ?", slug, excludeID)
}

// CountPublished counts active published locations
func (r *GormTourismLocationRepository) CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("status = ? AND is_active = ?", tourism.StatusPublished, true).
		Count(&n).Error
	return n, err
}

// GormReviewRepository implements tourism.ReviewRepository using GORM
type GormReviewRepository struct {
	gormTenantStore[tourism.Review]
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{newTenantStore[tourism.Review](db, listSpec{
		searchColumns: []string{"reviewer_name", "title", "comment"},
		sortFields:    sortFields("rating", "visit_date"),
		filterColumns: columns("location_id", "rating", "is_approved", "is_flagged", "visit_type"),
	})}
}

type ratingRow struct {
	LocationID uuid.UUID
	Total      int64
	Average    float64
}

// RatingStats returns the approved review count and average rating per location
func (r *GormReviewRepository) RatingStats(ctx context.Context, tenantID uuid.UUID, locationIDs []uuid.UUID) (map[uuid.UUID]tourism.RatingStat, error) {
	out := make(map[uuid.UUID]tourism.RatingStat, len(locationIDs))
	if len(locationIDs) == 0 {
		return out, nil
	}
	var rows []ratingRow
	if err := r.scoped(ctx, tenantID).
		Select("location_id, COUNT(*) AS total, AVG(rating) AS average").
		Where("location_id IN ? AND is_approved = ?", locationIDs, true).
		Group("location_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.LocationID] = tourism.RatingStat{Count: row.Total, Average: row.Average}
	}
	return out, nil
}

// GormTourismEventRepository implements tourism.EventRepository using GORM
type GormTourismEventRepository struct {
	gormTenantStore[tourism.Event]
}

// NewGormTourismEventRepository creates a new GormTourismEventRepository
func NewGormTourismEventRepository(db *gorm.DB) *GormTourismEventRepository {
	return &GormTourismEventRepository{newTenantStore[tourism.Event](db, listSpec{
		searchColumns: []string{"title", "organizer"},
		sortFields:    sortFields("start_date", "end_date", "title"),
		filterColumns: columns("location_id", "event_type", "is_featured", "start_date", "end_date"),
		defaultOrder:  "start_date ASC",
	})}
}

// GormTourismPackageRepository implements tourism.PackageRepository using GORM
type GormTourismPackageRepository struct {
	gormTenantStore[tourism.Package]
}

// NewGormTourismPackageRepository creates a new GormTourismPackageRepository
func NewGormTourismPackageRepository(db *gorm.DB) *GormTourismPackageRepository {
	return &GormTourismPackageRepository{newTenantStore[tourism.Package](db, listSpec{
		searchColumns: []string{"title", "description"},
		sortFields:    sortFields("title", "price"),
		filterColumns: columns("location_id", "package_type", "is_active"),
	})}
}

var (
	_ tourism.CategoryRepository = (*GormTourismCategoryRepository)(nil)
	_ tourism.LocationRepository = (*GormTourismLocationRepository)(nil)
	_ tourism.ReviewRepository   = (*GormReviewRepository)(nil)
	_ tourism.EventRepository    = (*GormTourismEventRepository)(nil)
	_ tourism.PackageRepository  = (*GormTourismPackageRepository)(nil)
)
