package posyandu

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PatientType is the group a posyandu patient belongs to
type PatientType string

const (
	PatientToddler       PatientType = "balita"
	PatientPregnant      PatientType = "ibu_hamil"
	PatientBreastfeeding PatientType = "ibu_menyusui"
	PatientElderly       PatientType = "lansia"
)

// IsValid reports whether p is a known patient type
func (p PatientType) IsValid() bool {
	switch p {
	case PatientToddler, PatientPregnant, PatientBreastfeeding, PatientElderly:
		return true
	}
	return false
}

// HealthRecord is one visit's measurements for a resident
type HealthRecord struct {
	shared.TenantAggregateRoot
	PatientID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	LocationID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	PatientType   PatientType      `gorm:"type:varchar(20);not null"`
	VisitDate     time.Time        `gorm:"type:date;not null;index"`
	Weight        *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Height        *decimal.Decimal `gorm:"type:decimal(5,2)"`
	BloodPressure string           `gorm:"type:varchar(20)"`
	Temperature   *decimal.Decimal `gorm:"type:decimal(4,1)"`
	Complaints    string           `gorm:"type:text"`
	Diagnosis     string           `gorm:"type:text"`
	Treatment     string           `gorm:"type:text"`
	NextVisit     *time.Time       `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (HealthRecord) TableName() string {
	return "posyandu_health_records"
}

// Validate checks the record's invariants
func (h *HealthRecord) Validate() error {
	if h.PatientID == uuid.Nil || h.LocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Patient and location are required")
	}
	if !h.PatientType.IsValid() {
		return shared.NewDomainError("INVALID_PATIENT_TYPE", "Unknown patient type")
	}
	for _, v := range []*decimal.Decimal{h.Weight, h.Height, h.Temperature} {
		if v != nil && !v.IsPositive() {
			return shared.NewDomainError("INVALID_MEASUREMENT", "Measurements must be positive")
		}
	}
	if h.NextVisit != nil && h.NextVisit.Before(h.VisitDate) {
		return shared.NewDomainError("INVALID_DATE", "Next visit cannot be before the visit date")
	}
	return nil
}

// BMI returns weight(kg) / height(m)^2 rounded to one decimal, or nil when a measurement is missing
func (h *HealthRecord) BMI() *decimal.Decimal {
	if h.Weight == nil || h.Height == nil || !h.Height.IsPositive() {
		return nil
	}
	m := h.Height.Div(decimal.NewFromInt(100))
	bmi := h.Weight.Div(m.Mul(m)).Round(1)
	return &bmi
}

// VaccineType is the vaccine administered
type VaccineType string

const (
	VaccineBCG        VaccineType = "bcg"
	VaccineHepatitisB VaccineType = "hepatitis_b"
	VaccinePolio      VaccineType = "polio"
	VaccineDPT        VaccineType = "dpt"
	VaccineCampak     VaccineType = "campak"
	VaccineMMR        VaccineType = "mmr"
	VaccineCovid19    VaccineType = "covid19"
	VaccineOther      VaccineType = "lainnya"
)

// IsValid reports whether v is a known vaccine
func (v VaccineType) IsValid() bool {
	switch v {
	case VaccineBCG, VaccineHepatitisB, VaccinePolio, VaccineDPT, VaccineCampak, VaccineMMR, VaccineCovid19, VaccineOther:
		return true
	}
	return false
}

// Immunization is a vaccine dose given to a resident
type Immunization struct {
	shared.TenantAggregateRoot
	PatientID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	LocationID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	VaccineType      VaccineType `gorm:"type:varchar(20);not null"`
	VaccineName      string      `gorm:"type:varchar(100);not null"`
	DoseNumber       int         `gorm:"not null;default:1"`
	ImmunizationDate time.Time   `gorm:"type:date;not null"`
	BatchNumber      string      `gorm:"type:varchar(50)"`
	ExpiryDate       *time.Time  `gorm:"type:date"`
	NextDoseDate     *time.Time  `gorm:"type:date"`
	Notes            string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Immunization) TableName() string {
	return "posyandu_immunizations"
}

// Validate checks the immunization's invariants
func (i *Immunization) Validate() error {
	if i.PatientID == uuid.Nil || i.LocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Patient and location are required")
	}
	if !i.VaccineType.IsValid() {
		return shared.NewDomainError("INVALID_VACCINE_TYPE", "Unknown vaccine type")
	}
	if i.VaccineName == "" {
		return shared.NewDomainError("INVALID_VACCINE_NAME", "Vaccine name is required")
	}
	if i.DoseNumber < 1 {
		return shared.NewDomainError("INVALID_DOSE", "Dose number must be at least 1")
	}
	if i.ExpiryDate != nil && i.ExpiryDate.Before(i.ImmunizationDate) {
		return shared.NewDomainError("VACCINE_EXPIRED", "Vaccine expired before the immunization date")
	}
	if i.NextDoseDate != nil && !i.NextDoseDate.After(i.ImmunizationDate) {
		return shared.NewDomainError("INVALID_DATE", "Next dose must be after the immunization date")
	}
	return nil
}

// NutritionStatus is the assessed nutrition state of a toddler
type NutritionStatus string

const (
	NutritionNormal   NutritionStatus = "normal"
	NutritionLow      NutritionStatus = "kurang"
	NutritionSevere   NutritionStatus = "buruk"
	NutritionOver     NutritionStatus = "lebih"
	NutritionStunting NutritionStatus = "stunting"
	NutritionWasting  NutritionStatus = "wasting"
)

// IsValid reports whether n is a known nutrition status
func (n NutritionStatus) IsValid() bool {
	switch n {
	case NutritionNormal, NutritionLow, NutritionSevere, NutritionOver, NutritionStunting, NutritionWasting:
		return true
	}
	return false
}

// NutritionData is a growth measurement
type NutritionData struct {
	shared.TenantAggregateRoot
	PatientID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	LocationID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	MeasurementDate     time.Time        `gorm:"type:date;not null"`
	AgeMonths           int              `gorm:"not null"`
	Weight              decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Height              decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	HeadCircumference   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	ArmCircumference    *decimal.Decimal `gorm:"type:decimal(5,2)"`
	NutritionStatus     NutritionStatus  `gorm:"type:varchar(20);not null;default:'normal';index"`
	VitaminAGiven       bool             `gorm:"column:vitamin_a_given;not null;default:false"`
	IronSupplementGiven bool             `gorm:"not null;default:false"`
	Notes               string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (NutritionData) TableName() string {
	return "posyandu_nutrition_data"
}

// Validate checks the measurement's invariants
func (n *NutritionData) Validate() error {
	if n.PatientID == uuid.Nil || n.LocationID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Patient and location are required")
	}
	if n.AgeMonths < 0 {
		return shared.NewDomainError("INVALID_AGE", "Age in months cannot be negative")
	}
	if !n.Weight.IsPositive() || !n.Height.IsPositive() {
		return shared.NewDomainError("INVALID_MEASUREMENT", "Weight and height must be positive")
	}
	if n.NutritionStatus == "" {
		n.NutritionStatus = NutritionNormal
	}
	if !n.NutritionStatus.IsValid() {
		return shared.NewDomainError("INVALID_NUTRITION_STATUS", "Unknown nutrition status")
	}
	return nil
}
