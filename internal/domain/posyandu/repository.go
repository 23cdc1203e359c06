package posyandu

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// LocationRepository defines persistence for posyandu locations
type LocationRepository interface {
	shared.TenantStore[Location]
}

// ScheduleRepository defines persistence for schedules
type ScheduleRepository interface {
	shared.TenantStore[Schedule]
	// Upcoming lists open schedules from the given date, soonest first
	Upcoming(ctx context.Context, tenantID uuid.UUID, from time.Time, limit int) ([]Schedule, error)
}

// HealthRecordRepository defines persistence for health records
type HealthRecordRepository interface {
	shared.TenantStore[HealthRecord]
}

// ImmunizationRepository defines persistence for immunizations
type ImmunizationRepository interface {
	shared.TenantStore[Immunization]
}

// NutritionRepository defines persistence for nutrition data
type NutritionRepository interface {
	shared.TenantStore[NutritionData]
	CountByStatus(ctx context.Context, tenantID, locationID uuid.UUID) (map[NutritionStatus]int64, error)
}

// LocationSummary aggregates the activity of one location
type LocationSummary struct {
	LocationID         uuid.UUID
	Schedules          int64
	CompletedSchedules int64
	HealthRecords      int64
	Immunizations      int64
	NutritionByStatus  map[NutritionStatus]int64
}
