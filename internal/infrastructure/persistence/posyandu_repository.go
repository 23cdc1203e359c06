package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/posyandu"
	"gorm.io/gorm"
)

// GormPosyanduLocationRepository implements posyandu.LocationRepository using GORM
type GormPosyanduLocationRepository struct {
	gormTenantStore[posyandu.Location]
}

// NewGormPosyanduLocationRepository creates a new GormPosyanduLocationRepository
func NewGormPosyanduLocationRepository(db *gorm.DB) *GormPosyanduLocationRepository {
	return &GormPosyanduLocationRepository{newTenantStore[posyandu.Location](db, listSpec{
		searchColumns: []string{"name", "address"},
		sortFields:    sortFields("name", "capacity"),
		filterColumns: columns("is_active", "coordinator_id"),
		defaultOrder:  "name ASC",
	})}
}

// GormScheduleRepository implements posyandu.ScheduleRepository using GORM
type GormScheduleRepository struct {
	gormTenantStore[posyandu.Schedule]
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{newTenantStore[posyandu.Schedule](db, listSpec{
		searchColumns: []string{"title", "description"},
		sortFields:    sortFields("schedule_date", "title", "activity_type"),
		filterColumns: columns("location_id", "activity_type", "is_completed", "schedule_date"),
		defaultOrder:  "schedule_date DESC",
	})}
}

// Upcoming lists open schedules from the given date, soonest first
func (r *GormScheduleRepository) Upcoming(ctx context.Context, tenantID uuid.UUID, from time.Time, limit int) ([]posyandu.Schedule, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []posyandu.Schedule
	err := r.scoped(ctx, tenantID).
		Where("is_completed = ? AND schedule_date >= ?", false, from).
		Order("schedule_date ASC, start_time ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GormHealthRecordRepository implements posyandu.HealthRecordRepository using GORM
type GormHealthRecordRepository struct {
	gormTenantStore[posyandu.HealthRecord]
}

// NewGormHealthRecordRepository creates a new GormHealthRecordRepository
func NewGormHealthRecordRepository(db *gorm.DB) *GormHealthRecordRepository {
	return &GormHealthRecordRepository{newTenantStore[posyandu.HealthRecord](db, listSpec{
		searchColumns: []string{"complaints", "diagnosis"},
		sortFields:    sortFields("visit_date", "patient_type"),
		filterColumns: columns("patient_id", "location_id", "patient_type", "visit_date"),
		defaultOrder:  "visit_date DESC",
	})}
}

// GormImmunizationRepository implements posyandu.ImmunizationRepository using GORM
type GormImmunizationRepository struct {
	gormTenantStore[posyandu.Immunization]
}

// NewGormImmunizationRepository creates a new GormImmunizationRepository
func NewGormImmunizationRepository(db *gorm.DB) *GormImmunizationRepository {
	return &GormImmunizationRepository{newTenantStore[posyandu.Immunization](db, listSpec{
		searchColumns: []string{"vaccine_name", "batch_number"},
		sortFields:    sortFields("immunization_date", "vaccine_type", "dose_number"),
		filterColumns: columns("patient_id", "location_id", "vaccine_type", "immunization_date"),
		defaultOrder:  "immunization_date DESC",
	})}
}

// GormNutritionRepository implements posyandu.NutritionRepository using GORM
type GormNutritionRepository struct {
	gormTenantStore[posyandu.NutritionData]
}

// NewGormNutritionRepository creates a new GormNutritionRepository
func NewGormNutritionRepository(db *gorm.DB) *GormNutritionRepository {
	return &GormNutritionRepository{newTenantStore[posyandu.NutritionData](db, listSpec{
		searchColumns: []string{"notes"},
		sortFields:    sortFields("measurement_date", "age_months", "nutrition_status"),
		filterColumns: columns("patient_id", "location_id", "nutrition_status", "measurement_date"),
		defaultOrder:  "measurement_date DESC",
	})}
}

// CountByStatus counts measurements per nutrition status at a location
func (r *GormNutritionRepository) CountByStatus(ctx context.Context, tenantID, locationID uuid.UUID) (map[posyandu.NutritionStatus]int64, error) {
	var rows []groupCount
	if err := r.scoped(ctx, tenantID).
		Select("nutrition_status AS label, COUNT(*) AS total").
		Where("location_id = ?", locationID).
		Group("nutrition_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[posyandu.NutritionStatus]int64, len(rows))
	for _, g := range rows {
		out[posyandu.NutritionStatus(g.Label)] = g.Total
	}
	return out, nil
}

var (
	_ posyandu.LocationRepository     = (*GormPosyanduLocationRepository)(nil)
	_ posyandu.ScheduleRepository     = (*GormScheduleRepository)(nil)
	_ posyandu.HealthRecordRepository = (*GormHealthRecordRepository)(nil)
	_ posyandu.ImmunizationRepository = (*GormImmunizationRepository)(nil)
	_ posyandu.NutritionRepository    = (*GormNutritionRepository)(nil)
)
