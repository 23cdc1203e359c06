package beneficiary

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/beneficiary"
	"github.com/shopspring/decimal"
)

// CategoryRequest creates or replaces a beneficiary category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Criteria    string `json:"criteria"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Criteria    string    `json:"criteria"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(c *beneficiary.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Criteria:    c.Criteria,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// BeneficiaryRequest enrols or updates a beneficiary
type BeneficiaryRequest struct {
	PendudukID         uuid.UUID        `json:"penduduk_id" binding:"required"`
	CategoryID         uuid.UUID        `json:"category_id" binding:"required"`
	RegistrationDate   *time.Time       `json:"registration_date"`
	Status             string           `json:"status" binding:"omitempty,oneof=aktif tidak_aktif lulus meninggal pindah"`
	EconomicStatus     string           `json:"economic_status" binding:"required,oneof=miskin sangat_miskin rentan_miskin tidak_miskin"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income"`
	FamilyMembersCount int              `json:"family_members_count" binding:"required,min=1"`
	HouseCondition     string           `json:"house_condition" binding:"max=100"`
	SpecialNeeds       string           `json:"special_needs"`
	Notes              string           `json:"notes"`
}

// BeneficiaryResponse represents a beneficiary in API responses
type BeneficiaryResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PendudukID         uuid.UUID        `json:"penduduk_id"`
	CategoryID         uuid.UUID        `json:"category_id"`
	RegistrationDate   time.Time        `json:"registration_date"`
	Status             string           `json:"status"`
	EconomicStatus     string           `json:"economic_status"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income,omitempty"`
	FamilyMembersCount int              `json:"family_members_count"`
	HouseCondition     string           `json:"house_condition"`
	SpecialNeeds       string           `json:"special_needs"`
	VerificationDate   *time.Time       `json:"verification_date,omitempty"`
	Notes              string           `json:"notes"`
	CreatedAt          time.Time        `json:"created_at"`
}

// ToBeneficiaryResponse converts a beneficiary to its response
func ToBeneficiaryResponse(b *beneficiary.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{
		ID:                 b.ID,
		PendudukID:         b.PendudukID,
		CategoryID:         b.CategoryID,
		RegistrationDate:   b.RegistrationDate,
		Status:             string(b.Status),
		EconomicStatus:     string(b.EconomicStatus),
		MonthlyIncome:      b.MonthlyIncome,
		FamilyMembersCount: b.FamilyMembersCount,
		HouseCondition:     b.HouseCondition,
		SpecialNeeds:       b.SpecialNeeds,
		VerificationDate:   b.VerificationDate,
		Notes:              b.Notes,
		CreatedAt:          b.CreatedAt,
	}
}

// VerificationRequest records a field verification
type VerificationRequest struct {
	VerificationDate     *time.Time `json:"verification_date"`
	Status               string     `json:"status" binding:"required,oneof=pending verified rejected need_update"`
	Notes                string     `json:"notes"`
	DocumentsChecked     string     `json:"documents_checked"`
	FieldVisitConducted  bool       `json:"field_visit_conducted"`
	NextVerificationDate *time.Time `json:"next_verification_date"`
}

// VerificationResponse represents a verification in API responses
type VerificationResponse struct {
	ID                   uuid.UUID  `json:"id"`
	BeneficiaryID        uuid.UUID  `json:"beneficiary_id"`
	VerificationDate     time.Time  `json:"verification_date"`
	Status               string     `json:"status"`
	VerifierID           *uuid.UUID `json:"verifier_id,omitempty"`
	Notes                string     `json:"notes"`
	DocumentsChecked     string     `json:"documents_checked"`
	FieldVisitConducted  bool       `json:"field_visit_conducted"`
	NextVerificationDate *time.Time `json:"next_verification_date,omitempty"`
}

// ToVerificationResponse converts a verification to its response
func ToVerificationResponse(v *beneficiary.Verification) VerificationResponse {
	return VerificationResponse{
		ID:                   v.ID,
		BeneficiaryID:        v.BeneficiaryID,
		VerificationDate:     v.VerificationDate,
		Status:               string(v.Status),
		VerifierID:           v.VerifierID,
		Notes:                v.Notes,
		DocumentsChecked:     v.DocumentsChecked,
		FieldVisitConducted:  v.FieldVisitConducted,
		NextVerificationDate: v.NextVerificationDate,
	}
}

// ProgramRequest creates or replaces an aid program
type ProgramRequest struct {
	Name                string          `json:"name" binding:"required,max=200"`
	Description         string          `json:"description"`
	AidType             string          `json:"aid_type" binding:"required,oneof=uang sembako kesehatan pendidikan perumahan usaha lainnya"`
	Source              string          `json:"source" binding:"required,oneof=pusat provinsi kabupaten desa swasta lsm lainnya"`
	ValuePerBeneficiary decimal.Decimal `json:"value_per_beneficiary"`
	TotalBudget         decimal.Decimal `json:"total_budget"`
	TargetBeneficiaries int             `json:"target_beneficiaries" binding:"min=0"`
	StartDate           time.Time       `json:"start_date" binding:"required"`
	EndDate             time.Time       `json:"end_date" binding:"required"`
	Requirements        string          `json:"requirements"`
	IsActive            *bool           `json:"is_active"`
}

func (r ProgramRequest) input() beneficiary.ProgramInput {
	return beneficiary.ProgramInput{
		Name:                r.Name,
		Description:         r.Description,
		AidType:             beneficiary.AidType(r.AidType),
		Source:              beneficiary.FundingSource(r.Source),
		ValuePerBeneficiary: r.ValuePerBeneficiary,
		TotalBudget:         r.TotalBudget,
		TargetBeneficiaries: r.TargetBeneficiaries,
		StartDate:           r.StartDate,
		EndDate:             r.EndDate,
		Requirements:        r.Requirements,
	}
}

// ProgramResponse represents an aid program in API responses
type ProgramResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	AidType             string          `json:"aid_type"`
	Source              string          `json:"source"`
	ValuePerBeneficiary decimal.Decimal `json:"value_per_beneficiary"`
	TotalBudget         decimal.Decimal `json:"total_budget"`
	TargetBeneficiaries int             `json:"target_beneficiaries"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	Requirements        string          `json:"requirements"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ToProgramResponse converts a program to its response
func ToProgramResponse(p *beneficiary.Program) ProgramResponse {
	return ProgramResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		AidType:             string(p.AidType),
		Source:              string(p.Source),
		ValuePerBeneficiary: p.ValuePerBeneficiary,
		TotalBudget:         p.TotalBudget,
		TargetBeneficiaries: p.TargetBeneficiaries,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		Requirements:        p.Requirements,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt,
	}
}

// ProgramSummaryResponse reports budget consumption
type ProgramSummaryResponse struct {
	ProgramID           uuid.UUID       `json:"program_id"`
	TotalBudget         decimal.Decimal `json:"total_budget"`
	BudgetUsed          decimal.Decimal `json:"budget_used"`
	BudgetRemaining     decimal.Decimal `json:"budget_remaining"`
	DistributedCount    int64           `json:"distributed_count"`
	CommittedCount      int64           `json:"committed_count"`
	TargetBeneficiaries int             `json:"target_beneficiaries"`
}

// DistributionRequest creates a pending distribution
type DistributionRequest struct {
	ProgramID        uuid.UUID       `json:"aid_id" binding:"required"`
	BeneficiaryID    uuid.UUID       `json:"beneficiary_id" binding:"required"`
	DistributionDate *time.Time      `json:"distribution_date"`
	AmountReceived   decimal.Decimal `json:"amount_received" binding:"required"`
	Notes            string          `json:"notes"`
}

// DistributeRequest records the handover of an approved distribution
type DistributeRequest struct {
	ReceiptNumber string `json:"receipt_number" binding:"max=100"`
}

// RejectDistributionRequest rejects a pending distribution
type RejectDistributionRequest struct {
	Notes string `json:"notes"`
}

// DistributionResponse represents a distribution in API responses
type DistributionResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProgramID        uuid.UUID       `json:"aid_id"`
	BeneficiaryID    uuid.UUID       `json:"beneficiary_id"`
	DistributionDate time.Time       `json:"distribution_date"`
	AmountReceived   decimal.Decimal `json:"amount_received"`
	Status           string          `json:"status"`
	ReceiptNumber    string          `json:"receipt_number"`
	Notes            string          `json:"notes"`
	DistributedBy    *uuid.UUID      `json:"distributed_by,omitempty"`
}

// ToDistributionResponse converts a distribution to its response
func ToDistributionResponse(d *beneficiary.Distribution) DistributionResponse {
	return DistributionResponse{
		ID:               d.ID,
		ProgramID:        d.ProgramID,
		BeneficiaryID:    d.BeneficiaryID,
		DistributionDate: d.DistributionDate,
		AmountReceived:   d.AmountReceived,
		Status:           string(d.Status),
		ReceiptNumber:    d.ReceiptNumber,
		Notes:            d.Notes,
		DistributedBy:    d.DistributedBy,
	}
}
