package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/organization"
	"gorm.io/gorm"
)

// GormOrganizationTypeRepository implements organization.TypeRepository using GORM
type GormOrganizationTypeRepository struct {
	gormTenantStore[organization.Type]
}

// NewGormOrganizationTypeRepository creates a new GormOrganizationTypeRepository
func NewGormOrganizationTypeRepository(db *gorm.DB) *GormOrganizationTypeRepository {
	return &GormOrganizationTypeRepository{newTenantStore[organization.Type](db, listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByName checks whether another type uses name
func (r *GormOrganizationTypeRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "LOWER(name) = LOWER(?) AND id <> ?", name, excludeID)
}

// GormOrganizationRepository implements organization.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	gormTenantStore[organization.Organization]
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{newTenantStore[organization.Organization](db, listSpec{
		searchColumns: []string{"name", "description", "address"},
		sortFields:    sortFields("name", "established_date"),
		filterColumns: columns("type_id", "is_active", "leader_id", "established_date"),
		defaultOrder:  "name ASC",
	})}
}

// CountByType counts the organizations of a type
func (r *GormOrganizationRepository) CountByType(ctx context.Context, tenantID, typeID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("type_id = ?", typeID).Count(&n).Error
	return n, err
}

// GormPeriodRepository implements organization.PeriodRepository using GORM
type GormPeriodRepository struct {
	gormTenantStore[organization.Period]
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{newTenantStore[organization.Period](db, listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name", "start_date", "end_date"),
		filterColumns: columns("organization_id", "is_active", "start_date"),
		defaultOrder:  "start_date DESC",
	})}
}

// FindActive returns the active period of an organization
func (r *GormPeriodRepository) FindActive(ctx context.Context, tenantID, organizationID uuid.UUID) (*organization.Period, error) {
	var p organization.Period
	err := r.scoped(ctx, tenantID).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// DeactivateOthers clears is_active on every other period of the organization.
// The version moves so stale copies of those rows cannot be saved back.
func (r *GormPeriodRepository) DeactivateOthers(ctx context.Context, tenantID, organizationID, keepID uuid.UUID) error {
	return r.scoped(ctx, tenantID).
		Where("organization_id = ? AND id <> ? AND is_active = ?", organizationID, keepID, true).
		Updates(map[string]any{
			"is_active":  false,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}).Error
}

// GormMemberRepository implements organization.MemberRepository using GORM
type GormMemberRepository struct {
	gormTenantStore[organization.Member]
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{newTenantStore[organization.Member](db, listSpec{
		searchColumns: []string{"member_number", "notes"},
		sortFields:    sortFields("join_date", "position", "status"),
		filterColumns: columns("organization_id", "penduduk_id", "period_id", "position", "status", "join_date"),
		defaultOrder:  "join_date ASC",
	})}
}

// ExistsPosition reports whether the resident already holds the position in the organization
func (r *GormMemberRepository) ExistsPosition(ctx context.Context, tenantID, organizationID, pendudukID uuid.UUID, position organization.Position, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "organization_id = ? AND penduduk_id = ? AND position = ? AND id <> ?",
		organizationID, pendudukID, position, excludeID)
}

// CountByPosition counts active members per position
func (r *GormMemberRepository) CountByPosition(ctx context.Context, tenantID, organizationID uuid.UUID) (map[organization.Position]int64, error) {
	var rows []groupCount
	err := r.scoped(ctx, tenantID).
		Where("organization_id = ? AND status = ?", organizationID, organization.MemberActive).
		Select("position AS label, COUNT(*) AS total").
		Group("position").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[organization.Position]int64, len(rows))
	for _, g := range rows {
		out[organization.Position(g.Label)] = g.Total
	}
	return out, nil
}

// GormActivityRepository implements organization.ActivityRepository using GORM
type GormActivityRepository struct {
	gormTenantStore[organization.Activity]
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{newTenantStore[organization.Activity](db, listSpec{
		searchColumns: []string{"title", "description", "location"},
		sortFields:    sortFields("title", "event_date", "activity_type"),
		filterColumns: columns("organization_id", "activity_type", "is_completed", "event_date"),
		defaultOrder:  "event_date DESC",
	})}
}

var (
	_ organization.TypeRepository         = (*GormOrganizationTypeRepository)(nil)
	_ organization.OrganizationRepository = (*GormOrganizationRepository)(nil)
	_ organization.PeriodRepository       = (*GormPeriodRepository)(nil)
	_ organization.MemberRepository       = (*GormMemberRepository)(nil)
	_ organization.ActivityRepository     = (*GormActivityRepository)(nil)
)
