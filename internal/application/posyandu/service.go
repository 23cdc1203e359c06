package posyandu

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/posyandu"
	"github.com/pulosarok/desa/internal/domain/reference"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errLocationNotFound = shared.NewDomainError("NOT_FOUND", "Posyandu location not found")
	errScheduleNotFound = shared.NewDomainError("NOT_FOUND", "Schedule not found")
	errPatientNotFound  = shared.NewDomainError("PATIENT_NOT_FOUND", "Patient is not a registered resident")
	errLocationInactive = shared.NewDomainError("LOCATION_INACTIVE", "Posyandu location is not active")
)

const defaultUpcomingLimit = 10

// Repositories groups the posyandu stores
type Repositories struct {
	Locations     posyandu.LocationRepository
	Schedules     posyandu.ScheduleRepository
	HealthRecords posyandu.HealthRecordRepository
	Immunizations posyandu.ImmunizationRepository
	Nutrition     posyandu.NutritionRepository
}

// Service manages posyandu locations, schedules and the per-visit health data.
// Health records, immunizations and nutrition data are registries whose
// patient must be a resident and whose location must exist.
type Service struct {
	repos     Repositories
	residents reference.PendudukRepository
	logger    *zap.Logger
	now       func() time.Time

	HealthRecords *registry.Registry[posyandu.HealthRecord, *posyandu.HealthRecord, HealthRecordRequest, HealthRecordResponse]
	Immunizations *registry.Registry[posyandu.Immunization, *posyandu.Immunization, ImmunizationRequest, ImmunizationResponse]
	Nutrition     *registry.Registry[posyandu.NutritionData, *posyandu.NutritionData, NutritionRequest, NutritionResponse]
}

// NewService creates a new posyandu Service
func NewService(repos Repositories, residents reference.PendudukRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{repos: repos, residents: residents, logger: logger, now: time.Now}

	s.HealthRecords = &registry.Registry[posyandu.HealthRecord, *posyandu.HealthRecord, HealthRecordRequest, HealthRecordResponse]{
		Store:    repos.HealthRecords,
		NotFound: shared.NewDomainError("NOT_FOUND", "Health record not found"),
		New: func(tenantID uuid.UUID) *posyandu.HealthRecord {
			return &posyandu.HealthRecord{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(h *posyandu.HealthRecord, r HealthRecordRequest) { r.applyTo(h) },
		Respond: ToHealthRecordResponse,
		Check: func(ctx context.Context, h *posyandu.HealthRecord) error {
			return s.checkVisit(ctx, h.TenantID, h.PatientID, h.LocationID)
		},
	}
	s.Immunizations = &registry.Registry[posyandu.Immunization, *posyandu.Immunization, ImmunizationRequest, ImmunizationResponse]{
		Store:    repos.Immunizations,
		NotFound: shared.NewDomainError("NOT_FOUND", "Immunization not found"),
		New: func(tenantID uuid.UUID) *posyandu.Immunization {
			return &posyandu.Immunization{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(i *posyandu.Immunization, r ImmunizationRequest) { r.applyTo(i) },
		Respond: ToImmunizationResponse,
		Check: func(ctx context.Context, i *posyandu.Immunization) error {
			return s.checkVisit(ctx, i.TenantID, i.PatientID, i.LocationID)
		},
	}
	s.Nutrition = &registry.Registry[posyandu.NutritionData, *posyandu.NutritionData, NutritionRequest, NutritionResponse]{
		Store:    repos.Nutrition,
		NotFound: shared.NewDomainError("NOT_FOUND", "Nutrition data not found"),
		New: func(tenantID uuid.UUID) *posyandu.NutritionData {
			return &posyandu.NutritionData{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(n *posyandu.NutritionData, r NutritionRequest) { r.applyTo(n) },
		Respond: ToNutritionResponse,
		Check: func(ctx context.Context, n *posyandu.NutritionData) error {
			return s.checkVisit(ctx, n.TenantID, n.PatientID, n.LocationID)
		},
	}
	return s
}

// checkVisit verifies the patient and location of a visit row
func (s *Service) checkVisit(ctx context.Context, tenantID, patientID, locationID uuid.UUID) error {
	if _, err := s.residents.FindByIDForTenant(ctx, tenantID, patientID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errPatientNotFound
		}
		return err
	}
	_, err := s.findLocation(ctx, tenantID, locationID)
	return err
}

// =============================================================================
// Locations
// =============================================================================

// CreateLocation adds a posyandu location
func (s *Service) CreateLocation(ctx context.Context, tenantID uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	l, err := posyandu.NewLocation(tenantID, req.Name, req.Address, req.Capacity)
	if err != nil {
		return nil, err
	}
	return s.saveLocation(ctx, l, req)
}

// UpdateLocation replaces a location
func (s *Service) UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	l, err := s.findLocation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := l.Update(req.Name, req.Address, req.Capacity); err != nil {
		return nil, err
	}
	return s.saveLocation(ctx, l, req)
}

func (s *Service) saveLocation(ctx context.Context, l *posyandu.Location, req LocationRequest) (*LocationResponse, error) {
	if req.CoordinatorID != nil {
		if _, err := s.residents.FindByIDForTenant(ctx, l.TenantID, *req.CoordinatorID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("COORDINATOR_NOT_FOUND", "Coordinator is not a registered resident")
			}
			return nil, err
		}
	}
	l.CoordinatorID = req.CoordinatorID
	l.ContactPhone = req.ContactPhone
	l.Facilities = req.Facilities
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := s.repos.Locations.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}

// GetLocation returns one location
func (s *Service) GetLocation(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	l, err := s.findLocation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}

// ListLocations returns one page of locations
func (s *Service) ListLocations(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LocationResponse, int64, error) {
	rows, err := s.repos.Locations.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Locations.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LocationResponse, len(rows))
	for i := range rows {
		out[i] = ToLocationResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteLocation removes a location without schedules
func (s *Service) DeleteLocation(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findLocation(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.repos.Schedules.CountForTenant(ctx, tenantID, byLocation(id))
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("HAS_SCHEDULES", "Location still has schedules")
	}
	return s.repos.Locations.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findLocation(ctx context.Context, tenantID, id uuid.UUID) (*posyandu.Location, error) {
	l, err := s.repos.Locations.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

// =============================================================================
// Schedules
// =============================================================================

// CreateSchedule plans a session at an active location
func (s *Service) CreateSchedule(ctx context.Context, tenantID uuid.UUID, req ScheduleRequest) (*ScheduleResponse, error) {
	l, err := s.findLocation(ctx, tenantID, req.LocationID)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, errLocationInactive
	}
	sch, err := posyandu.NewSchedule(tenantID, l.ID, req.input())
	if err != nil {
		return nil, err
	}
	return s.saveSchedule(ctx, sch)
}

// UpdateSchedule replaces a schedule that has not been held yet
func (s *Service) UpdateSchedule(ctx context.Context, tenantID, id uuid.UUID, req ScheduleRequest) (*ScheduleResponse, error) {
	sch, err := s.findSchedule(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sch.IsCompleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Completed schedules cannot be changed")
	}
	if req.LocationID != sch.LocationID {
		if _, err := s.findLocation(ctx, tenantID, req.LocationID); err != nil {
			return nil, err
		}
		sch.LocationID = req.LocationID
	}
	if err := sch.Update(req.input()); err != nil {
		return nil, err
	}
	return s.saveSchedule(ctx, sch)
}

// CompleteSchedule marks a session held
func (s *Service) CompleteSchedule(ctx context.Context, tenantID, id uuid.UUID, req CompleteScheduleRequest) (*ScheduleResponse, error) {
	sch, err := s.findSchedule(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := sch.Complete(req.ActualParticipants); err != nil {
		return nil, err
	}
	s.logger.Info("posyandu schedule completed",
		zap.String("schedule_id", sch.ID.String()),
		zap.Int("actual", sch.ActualParticipants),
		zap.Int("target", sch.TargetParticipants))
	return s.saveSchedule(ctx, sch)
}

func (s *Service) saveSchedule(ctx context.Context, sch *posyandu.Schedule) (*ScheduleResponse, error) {
	if err := s.repos.Schedules.Save(ctx, sch); err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(sch)
	return &resp, nil
}

// GetSchedule returns one schedule
func (s *Service) GetSchedule(ctx context.Context, tenantID, id uuid.UUID) (*ScheduleResponse, error) {
	sch, err := s.findSchedule(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(sch)
	return &resp, nil
}

// ListSchedules returns one page of schedules
func (s *Service) ListSchedules(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ScheduleResponse, int64, error) {
	rows, err := s.repos.Schedules.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Schedules.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return toSchedules(rows), total, nil
}

// Upcoming lists open schedules from today, soonest first
func (s *Service) Upcoming(ctx context.Context, tenantID uuid.UUID, limit int) ([]ScheduleResponse, error) {
	if limit <= 0 || limit > shared.MaxPageSize {
		limit = defaultUpcomingLimit
	}
	y, m, d := s.now().Date()
	rows, err := s.repos.Schedules.Upcoming(ctx, tenantID, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), limit)
	if err != nil {
		return nil, err
	}
	return toSchedules(rows), nil
}

// DeleteSchedule removes a schedule
func (s *Service) DeleteSchedule(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findSchedule(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repos.Schedules.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findSchedule(ctx context.Context, tenantID, id uuid.UUID) (*posyandu.Schedule, error) {
	sch, err := s.repos.Schedules.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errScheduleNotFound
		}
		return nil, err
	}
	return sch, nil
}

func toSchedules(rows []posyandu.Schedule) []ScheduleResponse {
	out := make([]ScheduleResponse, len(rows))
	for i := range rows {
		out[i] = ToScheduleResponse(&rows[i])
	}
	return out
}

// =============================================================================
// Summary
// =============================================================================

// LocationSummary aggregates the schedules and visit data of one location
func (s *Service) LocationSummary(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationSummaryResponse, error) {
	l, err := s.findLocation(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	sum := posyandu.LocationSummary{LocationID: l.ID}
	counts := []struct {
		dst   *int64
		count func(context.Context, uuid.UUID, shared.Filter) (int64, error)
		f     shared.Filter
	}{
		{&sum.Schedules, s.repos.Schedules.CountForTenant, byLocation(l.ID)},
		{&sum.CompletedSchedules, s.repos.Schedules.CountForTenant, shared.Filter{Filters: map[string]interface{}{"location_id": l.ID, "is_completed": true}}},
		{&sum.HealthRecords, s.repos.HealthRecords.CountForTenant, byLocation(l.ID)},
		{&sum.Immunizations, s.repos.Immunizations.CountForTenant, byLocation(l.ID)},
	}
	for _, c := range counts {
		if *c.dst, err = c.count(ctx, tenantID, c.f); err != nil {
			return nil, err
		}
	}
	if sum.NutritionByStatus, err = s.repos.Nutrition.CountByStatus(ctx, tenantID, l.ID); err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(sum.NutritionByStatus))
	for k, v := range sum.NutritionByStatus {
		byStatus[string(k)] = v
	}
	return &LocationSummaryResponse{
		LocationID:         sum.LocationID,
		Name:               l.Name,
		Schedules:          sum.Schedules,
		CompletedSchedules: sum.CompletedSchedules,
		HealthRecords:      sum.HealthRecords,
		Immunizations:      sum.Immunizations,
		NutritionByStatus:  byStatus,
	}, nil
}

func byLocation(id uuid.UUID) shared.Filter {
	return shared.Filter{Filters: map[string]interface{}{"location_id": id}}
}
