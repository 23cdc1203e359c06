package beneficiary

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AidType is the form of assistance a program gives
type AidType string

const (
	AidCash      AidType = "uang"
	AidGroceries AidType = "sembako"
	AidHealth    AidType = "kesehatan"
	AidEducation AidType = "pendidikan"
	AidHousing   AidType = "perumahan"
	AidBusiness  AidType = "usaha"
	AidOther     AidType = "lainnya"
)

// IsValid reports whether t is a known aid type
func (t AidType) IsValid() bool {
	switch t {
	case AidCash, AidGroceries, AidHealth, AidEducation, AidHousing, AidBusiness, AidOther:
		return true
	}
	return false
}

// FundingSource is who finances a program
type FundingSource string

const (
	SourceCentral  FundingSource = "pusat"
	SourceProvince FundingSource = "provinsi"
	SourceRegency  FundingSource = "kabupaten"
	SourceVillage  FundingSource = "desa"
	SourcePrivate  FundingSource = "swasta"
	SourceNGO      FundingSource = "lsm"
	SourceOther    FundingSource = "lainnya"
)

// IsValid reports whether s is a known source
func (s FundingSource) IsValid() bool {
	switch s {
	case SourceCentral, SourceProvince, SourceRegency, SourceVillage, SourcePrivate, SourceNGO, SourceOther:
		return true
	}
	return false
}

// Program is a budgeted aid scheme
type Program struct {
	shared.TenantAggregateRoot
	Name                string          `gorm:"type:varchar(200);not null"`
	Description         string          `gorm:"type:text"`
	AidType             AidType         `gorm:"type:varchar(20);not null"`
	Source              FundingSource   `gorm:"type:varchar(20);not null"`
	ValuePerBeneficiary decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalBudget         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TargetBeneficiaries int             `gorm:"not null;default:0"`
	StartDate           time.Time       `gorm:"type:date;not null"`
	EndDate             time.Time       `gorm:"type:date;not null"`
	Requirements        string          `gorm:"type:text"`
	IsActive            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Program) TableName() string {
	return "aid_programs"
}

// ProgramInput carries the editable program fields
type ProgramInput struct {
	Name                string
	Description         string
	AidType             AidType
	Source              FundingSource
	ValuePerBeneficiary decimal.Decimal
	TotalBudget         decimal.Decimal
	TargetBeneficiaries int
	StartDate           time.Time
	EndDate             time.Time
	Requirements        string
}

// NewProgram creates an active aid program
func NewProgram(tenantID uuid.UUID, in ProgramInput) (*Program, error) {
	p := &Program{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
	if err := p.Update(in); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Program) Update(in ProgramInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || len(in.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Program name must be 1 to 200 characters")
	}
	if !in.AidType.IsValid() {
		return shared.NewDomainError("INVALID_AID_TYPE", "Unknown aid type")
	}
	if !in.Source.IsValid() {
		return shared.NewDomainError("INVALID_SOURCE", "Unknown funding source")
	}
	if in.ValuePerBeneficiary.IsNegative() || in.TotalBudget.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if in.TargetBeneficiaries < 0 {
		return shared.NewDomainError("INVALID_TARGET", "Target beneficiaries cannot be negative")
	}
	if in.EndDate.Before(in.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	p.Name = in.Name
	p.Description = in.Description
	p.AidType = in.AidType
	p.Source = in.Source
	p.ValuePerBeneficiary = in.ValuePerBeneficiary
	p.TotalBudget = in.TotalBudget
	p.TargetBeneficiaries = in.TargetBeneficiaries
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.Requirements = in.Requirements
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Usage is the committed share of a program: approved plus distributed
type Usage struct {
	Amount decimal.Decimal
	Count  int64
}

// CanCommit checks that committing one more distribution of amount stays within budget and target
func (p *Program) CanCommit(used Usage, amount decimal.Decimal) error {
	if !p.TotalBudget.IsZero() && used.Amount.Add(amount).GreaterThan(p.TotalBudget) {
		return shared.NewDomainError("BUDGET_EXCEEDED", "Distribution exceeds the program budget")
	}
	if p.TargetBeneficiaries > 0 && used.Count+1 > int64(p.TargetBeneficiaries) {
		return shared.NewDomainError("TARGET_EXCEEDED", "Distribution exceeds the target number of beneficiaries")
	}
	return nil
}

// DistributionStatus is the lifecycle of a single payout
type DistributionStatus string

const (
	DistributionPending     DistributionStatus = "pending"
	DistributionApproved    DistributionStatus = "approved"
	DistributionDistributed DistributionStatus = "distributed"
	DistributionRejected    DistributionStatus = "rejected"
)

// Distribution is aid handed to one beneficiary under a program
type Distribution struct {
	shared.TenantAggregateRoot
	ProgramID        uuid.UUID          `gorm:"column:aid_id;type:uuid;not null;index"`
	BeneficiaryID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	DistributionDate time.Time          `gorm:"type:date;not null"`
	AmountReceived   decimal.Decimal    `gorm:"type:decimal(15,2);not null"`
	Status           DistributionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ReceiptNumber    string             `gorm:"type:varchar(100)"`
	Notes            string             `gorm:"type:text"`
	DistributedBy    *uuid.UUID         `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Distribution) TableName() string {
	return "aid_distributions"
}

// NewDistribution creates a pending distribution
func NewDistribution(tenantID, programID, beneficiaryID uuid.UUID, amount decimal.Decimal, date time.Time) (*Distribution, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount received must be greater than zero")
	}
	return &Distribution{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProgramID:           programID,
		BeneficiaryID:       beneficiaryID,
		DistributionDate:    date,
		AmountReceived:      amount,
		Status:              DistributionPending,
	}, nil
}

// Approve moves a pending distribution to approved. Budget checks are done with Program.CanCommit.
func (d *Distribution) Approve() error {
	return d.move(DistributionPending, DistributionApproved)
}

// Reject moves a pending distribution to rejected
func (d *Distribution) Reject(note string) error {
	if err := d.move(DistributionPending, DistributionRejected); err != nil {
		return err
	}
	if note != "" {
		d.Notes = note
	}
	return nil
}

// MarkDistributed records the handover of an approved distribution
func (d *Distribution) MarkDistributed(by uuid.UUID, receipt string, at time.Time) error {
	if err := d.move(DistributionApproved, DistributionDistributed); err != nil {
		return err
	}
	d.DistributedBy = &by
	d.ReceiptNumber = receipt
	d.DistributionDate = at
	return nil
}

func (d *Distribution) move(from, to DistributionStatus) error {
	if d.Status != from {
		return shared.NewDomainError("INVALID_STATE", "Cannot move distribution from "+string(d.Status)+" to "+string(to))
	}
	d.Status = to
	d.Touch()
	d.IncrementVersion()
	return nil
}

// ProgramSummary reports budget consumption for a program
type ProgramSummary struct {
	ProgramID         uuid.UUID
	TotalBudget       decimal.Decimal
	BudgetUsed        decimal.Decimal
	BudgetRemaining   decimal.Decimal
	DistributedCount  int64
	CommittedCount    int64
	TargetBeneficiary int
}

// Summarize builds a ProgramSummary from committed usage and distributed count
func (p *Program) Summarize(committed Usage, distributed int64) ProgramSummary {
	remaining := p.TotalBudget.Sub(committed.Amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return ProgramSummary{
		ProgramID:         p.ID,
		TotalBudget:       p.TotalBudget,
		BudgetUsed:        committed.Amount,
		BudgetRemaining:   remaining,
		DistributedCount:  distributed,
		CommittedCount:    committed.Count,
		TargetBeneficiary: p.TargetBeneficiaries,
	}
}
