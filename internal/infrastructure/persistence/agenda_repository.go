package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/agenda"
	"gorm.io/gorm"
)

// GormEventCategoryRepository implements agenda.CategoryRepository using GORM
type GormEventCategoryRepository struct {
	gormTenantStore[agenda.Category]
}

// NewGormEventCategoryRepository creates a new GormEventCategoryRepository
func NewGormEventCategoryRepository(db *gorm.DB) *GormEventCategoryRepository {
	return &GormEventCategoryRepository{newTenantStore[agenda.Category](db, listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByName checks whether another category uses name
func (r *GormEventCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "LOWER(name) = LOWER(?) AND id <> ?", name, excludeID)
}

// GormEventRepository implements agenda.EventRepository using GORM
type GormEventRepository struct {
	gormTenantStore[agenda.Event]
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{newTenantStore[agenda.Event](db, listSpec{
		searchColumns: []string{"title", "short_description", "location"},
		sortFields:    sortFields("title", "start_date", "priority", "status", "views_count"),
		filterColumns: columns("category_id", "status", "priority", "is_featured", "allow_registration", "is_free", "start_date"),
		defaultOrder:  "start_date ASC",
	})}
}

// FindForUpdate loads the event with a row lock held until the transaction ends
func (r *GormEventRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*agenda.Event, error) {
	var e agenda.Event
	if err := forUpdate(r.scoped(ctx, tenantID)).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// FindBySlug finds an event by its slug
func (r *GormEventRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*agenda.Event, error) {
	var e agenda.Event
	if err := r.scoped(ctx, tenantID).Where("slug = ?", slug).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

// SlugExists checks whether another event uses slug
func (r *GormEventRepository) SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "slug = ? AND id <> ?", slug, excludeID)
}

// CountByCategory counts the events of a category
func (r *GormEventRepository) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// CountByStatus counts events per status
func (r *GormEventRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[agenda.Status]int64, error) {
	var rows []groupCount
	if err := r.scoped(ctx, tenantID).
		Select("status AS label, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[agenda.Status]int64, len(rows))
	for _, g := range rows {
		out[agenda.Status(g.Label)] = g.Total
	}
	return out, nil
}

// IncrementViews bumps the view counter in place
func (r *GormEventRepository) IncrementViews(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.scoped(ctx, tenantID).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// GormParticipantRepository implements agenda.ParticipantRepository using GORM
type GormParticipantRepository struct {
	gormTenantStore[agenda.Participant]
}

// NewGormParticipantRepository creates a new GormParticipantRepository
func NewGormParticipantRepository(db *gorm.DB) *GormParticipantRepository {
	return &GormParticipantRepository{newTenantStore[agenda.Participant](db, listSpec{
		searchColumns: []string{"phone", "email", "notes"},
		sortFields:    sortFields("status", "check_in_time"),
		filterColumns: columns("event_id", "penduduk_id", "status", "registration_source"),
		defaultOrder:  "created_at ASC",
	})}
}

// FindByEventAndResident finds the registration of a resident for an event
func (r *GormParticipantRepository) FindByEventAndResident(ctx context.Context, tenantID, eventID, pendudukID uuid.UUID) (*agenda.Participant, error) {
	var p agenda.Participant
	if err := r.scoped(ctx, tenantID).
		Where("event_id = ? AND penduduk_id = ?", eventID, pendudukID).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// CountByStatus counts registrations per status
func (r *GormParticipantRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, eventID *uuid.UUID) (map[agenda.ParticipantStatus]int64, error) {
	q := r.scoped(ctx, tenantID)
	if eventID != nil {
		q = q.Where("event_id = ?", *eventID)
	}
	var rows []groupCount
	if err := q.Select("status AS label, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[agenda.ParticipantStatus]int64, len(rows))
	for _, g := range rows {
		out[agenda.ParticipantStatus(g.Label)] = g.Total
	}
	return out, nil
}

var (
	_ agenda.CategoryRepository    = (*GormEventCategoryRepository)(nil)
	_ agenda.EventRepository       = (*GormEventRepository)(nil)
	_ agenda.ParticipantRepository = (*GormParticipantRepository)(nil)
)
