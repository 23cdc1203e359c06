package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/reference"
	"gorm.io/gorm"
)

// GormDusunRepository implements reference.DusunRepository using GORM
type GormDusunRepository struct {
	gormTenantStore[reference.Dusun]
}

// NewGormDusunRepository creates a new GormDusunRepository
func NewGormDusunRepository(db *gorm.DB) *GormDusunRepository {
	return &GormDusunRepository{newTenantStore[reference.Dusun](db, listSpec{
		searchColumns: []string{"code", "name"},
		sortFields:    sortFields("code", "name", "population_count"),
		filterColumns: columns("is_active"),
		defaultOrder:  "code ASC",
	})}
}

// ExistsByCode checks whether another dusun already uses code
func (r *GormDusunRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "code = ? AND id <> ?", code, excludeID)
}

// GormLorongRepository implements reference.LorongRepository using GORM
type GormLorongRepository struct {
	gormTenantStore[reference.Lorong]
}

// NewGormLorongRepository creates a new GormLorongRepository
func NewGormLorongRepository(db *gorm.DB) *GormLorongRepository {
	return &GormLorongRepository{newTenantStore[reference.Lorong](db, listSpec{
		searchColumns: []string{"code", "name"},
		sortFields:    sortFields("code", "name", "house_count"),
		filterColumns: columns("dusun_id", "is_active"),
		defaultOrder:  "code ASC",
	})}
}

// ExistsByCode checks whether another lorong in the dusun already uses code
func (r *GormLorongRepository) ExistsByCode(ctx context.Context, tenantID, dusunID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "dusun_id = ? AND code = ? AND id <> ?", dusunID, code, excludeID)
}

// GormPendudukRepository implements reference.PendudukRepository using GORM
type GormPendudukRepository struct {
	gormTenantStore[reference.Penduduk]
}

// NewGormPendudukRepository creates a new GormPendudukRepository
func NewGormPendudukRepository(db *gorm.DB) *GormPendudukRepository {
	return &GormPendudukRepository{newTenantStore[reference.Penduduk](db, listSpec{
		searchColumns: []string{"nik", "name", "address"},
		sortFields:    sortFields("nik", "name", "birth_date"),
		filterColumns: columns("dusun_id", "lorong_id", "gender", "marital_status", "is_active", "birth_date"),
		defaultOrder:  "name ASC",
	})}
}

// FindByNIK finds a resident by NIK
func (r *GormPendudukRepository) FindByNIK(ctx context.Context, tenantID uuid.UUID, nik string) (*reference.Penduduk, error) {
	var p reference.Penduduk
	if err := r.scoped(ctx, tenantID).Where("nik = ?", nik).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ExistsByNIK checks whether another resident already has nik
func (r *GormPendudukRepository) ExistsByNIK(ctx context.Context, tenantID uuid.UUID, nik string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "nik = ? AND id <> ?", nik, excludeID)
}

// CountByDusun counts residents registered in a dusun, active or not
func (r *GormPendudukRepository) CountByDusun(ctx context.Context, tenantID, dusunID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("dusun_id = ?", dusunID).Count(&n).Error
	return n, err
}

type groupCount struct {
	Label string
	Total int64
}

// Stats summarizes active residents by gender, dusun and marital status
func (r *GormPendudukRepository) Stats(ctx context.Context, tenantID uuid.UUID) (*reference.PopulationStats, error) {
	stats := &reference.PopulationStats{
		ByGender:        map[string]int64{},
		ByDusun:         map[string]int64{},
		ByMaritalStatus: map[string]int64{},
	}
	if err := r.scoped(ctx, tenantID).Where("is_active = ?", true).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	if err := r.groupBy(ctx, tenantID, "gender", stats.ByGender); err != nil {
		return nil, err
	}
	if err := r.groupBy(ctx, tenantID, "marital_status", stats.ByMaritalStatus); err != nil {
		return nil, err
	}

	var byDusun []groupCount
	if err := r.db.WithContext(ctx).
		Table("penduduk p").
		Select("d.name AS label, COUNT(*) AS total").
		Joins("JOIN dusun d ON d.id = p.dusun_id").
		Where("p.tenant_id = ? AND p.is_active = ?", tenantID, true).
		Group("d.name").
		Scan(&byDusun).Error; err != nil {
		return nil, err
	}
	for _, g := range byDusun {
		stats.ByDusun[g.Label] = g.Total
	}
	return stats, nil
}

func (r *GormPendudukRepository) groupBy(ctx context.Context, tenantID uuid.UUID, column string, into map[string]int64) error {
	var rows []groupCount
	if err := r.scoped(ctx, tenantID).
		Select(column+" AS label, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group(column).
		Scan(&rows).Error; err != nil {
		return err
	}
	for _, g := range rows {
		into[g.Label] = g.Total
	}
	return nil
}

var (
	_ reference.DusunRepository    = (*GormDusunRepository)(nil)
	_ reference.LorongRepository   = (*GormLorongRepository)(nil)
	_ reference.PendudukRepository = (*GormPendudukRepository)(nil)
)
