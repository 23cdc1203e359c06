package posyandu

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/posyandu"
	"github.com/shopspring/decimal"
)

// LocationRequest creates or replaces a posyandu location
type LocationRequest struct {
	Name          string     `json:"name" binding:"required,max=200"`
	Address       string     `json:"address" binding:"required"`
	CoordinatorID *uuid.UUID `json:"coordinator_id"`
	ContactPhone  string     `json:"contact_phone" binding:"max=20"`
	Capacity      int        `json:"capacity" binding:"min=0"`
	Facilities    string     `json:"facilities"`
	IsActive      *bool      `json:"is_active"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	CoordinatorID *uuid.UUID `json:"coordinator_id,omitempty"`
	ContactPhone  string     `json:"contact_phone"`
	Capacity      int        `json:"capacity"`
	Facilities    string     `json:"facilities"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToLocationResponse converts a location to its response
func ToLocationResponse(l *posyandu.Location) LocationResponse {
	return LocationResponse{
		ID:            l.ID,
		Name:          l.Name,
		Address:       l.Address,
		CoordinatorID: l.CoordinatorID,
		ContactPhone:  l.ContactPhone,
		Capacity:      l.Capacity,
		Facilities:    l.Facilities,
		IsActive:      l.IsActive,
		CreatedAt:     l.CreatedAt,
	}
}

// ScheduleRequest creates or replaces a schedule
type ScheduleRequest struct {
	LocationID         uuid.UUID `json:"location_id" binding:"required"`
	ActivityType       string    `json:"activity_type" binding:"required,oneof=pemeriksaan imunisasi penyuluhan penimbangan vitamin lainnya"`
	Title              string    `json:"title" binding:"required,max=200"`
	Description        string    `json:"description"`
	ScheduleDate       time.Time `json:"schedule_date" binding:"required"`
	StartTime          string    `json:"start_time" binding:"required,clock"`
	EndTime            string    `json:"end_time" binding:"required,clock"`
	TargetParticipants int       `json:"target_participants" binding:"min=0"`
}

func (r ScheduleRequest) input() posyandu.ScheduleInput {
	return posyandu.ScheduleInput{
		ActivityType:       posyandu.ActivityType(r.ActivityType),
		Title:              r.Title,
		Description:        r.Description,
		ScheduleDate:       r.ScheduleDate,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		TargetParticipants: r.TargetParticipants,
	}
}

// CompleteScheduleRequest records attendance
type CompleteScheduleRequest struct {
	ActualParticipants int `json:"actual_participants" binding:"min=0"`
}

// ScheduleResponse represents a schedule in API responses
type ScheduleResponse struct {
	ID                 uuid.UUID `json:"id"`
	LocationID         uuid.UUID `json:"location_id"`
	ActivityType       string    `json:"activity_type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ScheduleDate       time.Time `json:"schedule_date"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	TargetParticipants int       `json:"target_participants"`
	ActualParticipants int       `json:"actual_participants"`
	IsCompleted        bool      `json:"is_completed"`
}

// ToScheduleResponse converts a schedule to its response
func ToScheduleResponse(s *posyandu.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:                 s.ID,
		LocationID:         s.LocationID,
		ActivityType:       string(s.ActivityType),
		Title:              s.Title,
		Description:        s.Description,
		ScheduleDate:       s.ScheduleDate,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		TargetParticipants: s.TargetParticipants,
		ActualParticipants: s.ActualParticipants,
		IsCompleted:        s.IsCompleted,
	}
}

// HealthRecordRequest creates or replaces a health record
type HealthRecordRequest struct {
	PatientID     uuid.UUID        `json:"patient_id" binding:"required"`
	LocationID    uuid.UUID        `json:"location_id" binding:"required"`
	PatientType   string           `json:"patient_type" binding:"required,oneof=balita ibu_hamil ibu_menyusui lansia"`
	VisitDate     time.Time        `json:"visit_date" binding:"required"`
	Weight        *decimal.Decimal `json:"weight"`
	Height        *decimal.Decimal `json:"height"`
	BloodPressure string           `json:"blood_pressure" binding:"max=20"`
	Temperature   *decimal.Decimal `json:"temperature"`
	Complaints    string           `json:"complaints"`
	Diagnosis     string           `json:"diagnosis"`
	Treatment     string           `json:"treatment"`
	NextVisit     *time.Time       `json:"next_visit"`
}

func (r HealthRecordRequest) applyTo(h *posyandu.HealthRecord) {
	h.PatientID = r.PatientID
	h.LocationID = r.LocationID
	h.PatientType = posyandu.PatientType(r.PatientType)
	h.VisitDate = r.VisitDate
	h.Weight = r.Weight
	h.Height = r.Height
	h.BloodPressure = r.BloodPressure
	h.Temperature = r.Temperature
	h.Complaints = r.Complaints
	h.Diagnosis = r.Diagnosis
	h.Treatment = r.Treatment
	h.NextVisit = r.NextVisit
}

// HealthRecordResponse represents a health record in API responses
type HealthRecordResponse struct {
	ID uuid.UUID `json:"id"`
	HealthRecordRequest
	BMI       *decimal.Decimal `json:"bmi,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToHealthRecordResponse converts a record to its response
func ToHealthRecordResponse(h *posyandu.HealthRecord) HealthRecordResponse {
	return HealthRecordResponse{
		ID: h.ID,
		HealthRecordRequest: HealthRecordRequest{
			PatientID:     h.PatientID,
			LocationID:    h.LocationID,
			PatientType:   string(h.PatientType),
			VisitDate:     h.VisitDate,
			Weight:        h.Weight,
			Height:        h.Height,
			BloodPressure: h.BloodPressure,
			Temperature:   h.Temperature,
			Complaints:    h.Complaints,
			Diagnosis:     h.Diagnosis,
			Treatment:     h.Treatment,
			NextVisit:     h.NextVisit,
		},
		BMI:       h.BMI(),
		CreatedAt: h.CreatedAt,
	}
}

// ImmunizationRequest creates or replaces an immunization
type ImmunizationRequest struct {
	PatientID        uuid.UUID  `json:"patient_id" binding:"required"`
	LocationID       uuid.UUID  `json:"location_id" binding:"required"`
	VaccineType      string     `json:"vaccine_type" binding:"required,oneof=bcg hepatitis_b polio dpt campak mmr covid19 lainnya"`
	VaccineName      string     `json:"vaccine_name" binding:"required,max=100"`
	DoseNumber       int        `json:"dose_number" binding:"min=1"`
	ImmunizationDate time.Time  `json:"immunization_date" binding:"required"`
	BatchNumber      string     `json:"batch_number" binding:"max=50"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	NextDoseDate     *time.Time `json:"next_dose_date"`
	Notes            string     `json:"notes"`
}

func (r ImmunizationRequest) applyTo(i *posyandu.Immunization) {
	i.PatientID = r.PatientID
	i.LocationID = r.LocationID
	i.VaccineType = posyandu.VaccineType(r.VaccineType)
	i.VaccineName = r.VaccineName
	i.DoseNumber = r.DoseNumber
	i.ImmunizationDate = r.ImmunizationDate
	i.BatchNumber = r.BatchNumber
	i.ExpiryDate = r.ExpiryDate
	i.NextDoseDate = r.NextDoseDate
	i.Notes = r.Notes
}

// ImmunizationResponse represents an immunization in API responses
type ImmunizationResponse struct {
	ID uuid.UUID `json:"id"`
	ImmunizationRequest
	CreatedAt time.Time `json:"created_at"`
}

// ToImmunizationResponse converts an immunization to its response
func ToImmunizationResponse(i *posyandu.Immunization) ImmunizationResponse {
	return ImmunizationResponse{
		ID: i.ID,
		ImmunizationRequest: ImmunizationRequest{
			PatientID:        i.PatientID,
			LocationID:       i.LocationID,
			VaccineType:      string(i.VaccineType),
			VaccineName:      i.VaccineName,
			DoseNumber:       i.DoseNumber,
			ImmunizationDate: i.ImmunizationDate,
			BatchNumber:      i.BatchNumber,
			ExpiryDate:       i.ExpiryDate,
			NextDoseDate:     i.NextDoseDate,
			Notes:            i.Notes,
		},
		CreatedAt: i.CreatedAt,
	}
}

// NutritionRequest creates or replaces a growth measurement
type NutritionRequest struct {
	PatientID           uuid.UUID        `json:"patient_id" binding:"required"`
	LocationID          uuid.UUID        `json:"location_id" binding:"required"`
	MeasurementDate     time.Time        `json:"measurement_date" binding:"required"`
	AgeMonths           int              `json:"age_months" binding:"min=0"`
	Weight              decimal.Decimal  `json:"weight" binding:"required"`
	Height              decimal.Decimal  `json:"height" binding:"required"`
	HeadCircumference   *decimal.Decimal `json:"head_circumference"`
	ArmCircumference    *decimal.Decimal `json:"arm_circumference"`
	NutritionStatus     string           `json:"nutrition_status" binding:"omitempty,oneof=normal kurang buruk lebih stunting wasting"`
	VitaminAGiven       bool             `json:"vitamin_a_given"`
	IronSupplementGiven bool             `json:"iron_supplement_given"`
	Notes               string           `json:"notes"`
}

func (r NutritionRequest) applyTo(n *posyandu.NutritionData) {
	n.PatientID = r.PatientID
	n.LocationID = r.LocationID
	n.MeasurementDate = r.MeasurementDate
	n.AgeMonths = r.AgeMonths
	n.Weight = r.Weight
	n.Height = r.Height
	n.HeadCircumference = r.HeadCircumference
	n.ArmCircumference = r.ArmCircumference
	n.NutritionStatus = posyandu.NutritionStatus(r.NutritionStatus)
	n.VitaminAGiven = r.VitaminAGiven
	n.IronSupplementGiven = r.IronSupplementGiven
	n.Notes = r.Notes
}

// NutritionResponse represents a growth measurement in API responses
type NutritionResponse struct {
	ID uuid.UUID `json:"id"`
	NutritionRequest
	CreatedAt time.Time `json:"created_at"`
}

// ToNutritionResponse converts a measurement to its response
func ToNutritionResponse(n *posyandu.NutritionData) NutritionResponse {
	return NutritionResponse{
		ID: n.ID,
		NutritionRequest: NutritionRequest{
			PatientID:           n.PatientID,
			LocationID:          n.LocationID,
			MeasurementDate:     n.MeasurementDate,
			AgeMonths:           n.AgeMonths,
			Weight:              n.Weight,
			Height:              n.Height,
			HeadCircumference:   n.HeadCircumference,
			ArmCircumference:    n.ArmCircumference,
			NutritionStatus:     string(n.NutritionStatus),
			VitaminAGiven:       n.VitaminAGiven,
			IronSupplementGiven: n.IronSupplementGiven,
			Notes:               n.Notes,
		},
		CreatedAt: n.CreatedAt,
	}
}

// LocationSummaryResponse aggregates the activity of one location
type LocationSummaryResponse struct {
	LocationID         uuid.UUID        `json:"location_id"`
	Name               string           `json:"name"`
	Schedules          int64            `json:"schedules"`
	CompletedSchedules int64            `json:"completed_schedules"`
	HealthRecords      int64            `json:"health_records"`
	Immunizations      int64            `json:"immunizations"`
	NutritionByStatus  map[string]int64 `json:"nutrition_by_status"`
}
