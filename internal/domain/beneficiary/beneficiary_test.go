package beneficiary

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBeneficiary(t *testing.T) {
	tenantID := uuid.New()

	b, err := NewBeneficiary(tenantID, uuid.New(), uuid.New(), EconomicVeryPoor, 4, time.Now())
	require.NoError(t, err)
	assert.True(t, b.IsActive())

	_, err = NewBeneficiary(tenantID, uuid.New(), uuid.New(), EconomicVeryPoor, 0, time.Now())
	assert.Error(t, err)

	_, err = NewBeneficiary(tenantID, uuid.New(), uuid.New(), EconomicStatus("kaya"), 1, time.Now())
	assert.Error(t, err)

	_, err = NewBeneficiary(tenantID, uuid.Nil, uuid.New(), EconomicPoor, 1, time.Now())
	assert.Error(t, err)

	neg := decimal.NewFromInt(-1)
	assert.Error(t, b.SetHousehold(EconomicPoor, 2, &neg))

	require.NoError(t, b.ChangeStatus(StatusMoved))
	assert.False(t, b.IsActive())
	assert.Error(t, b.ChangeStatus(Status("hilang")))
}

func TestNewVerification(t *testing.T) {
	b, err := NewBeneficiary(uuid.New(), uuid.New(), uuid.New(), EconomicPoor, 2, time.Now())
	require.NoError(t, err)
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err = NewVerification(b, VerificationNeedUpdate, at, nil)
	require.NoError(t, err)
	assert.Nil(t, b.VerificationDate)

	v, err := NewVerification(b, VerificationVerified, at, nil)
	require.NoError(t, err)
	require.NotNil(t, b.VerificationDate)
	assert.Equal(t, at, *b.VerificationDate)

	before := at.AddDate(0, 0, -1)
	assert.Error(t, v.ScheduleNext(&before))
	after := at.AddDate(0, 6, 0)
	assert.NoError(t, v.ScheduleNext(&after))
}

func newProgram(t *testing.T, budget int64, target int) *Program {
	t.Helper()
	p, err := NewProgram(uuid.New(), ProgramInput{
		Name:                "BLT Dana Desa",
		AidType:             AidCash,
		Source:              SourceVillage,
		ValuePerBeneficiary: decimal.NewFromInt(300000),
		TotalBudget:         decimal.NewFromInt(budget),
		TargetBeneficiaries: target,
		StartDate:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return p
}

func TestProgram_Validation(t *testing.T) {
	_, err := NewProgram(uuid.New(), ProgramInput{
		Name:      "x",
		AidType:   AidCash,
		Source:    SourceVillage,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Error(t, err)

	_, err = NewProgram(uuid.New(), ProgramInput{Name: "x", AidType: AidType("emas"), Source: SourceVillage})
	assert.Error(t, err)
}

func TestProgram_CanCommit(t *testing.T) {
	p := newProgram(t, 900000, 3)
	amount := decimal.NewFromInt(300000)

	assert.NoError(t, p.CanCommit(Usage{Amount: decimal.NewFromInt(600000), Count: 2}, amount))
	assert.Error(t, p.CanCommit(Usage{Amount: decimal.NewFromInt(600001), Count: 2}, amount))
	assert.Error(t, p.CanCommit(Usage{Amount: decimal.Zero, Count: 3}, decimal.NewFromInt(1)))

	unlimited := newProgram(t, 0, 0)
	assert.NoError(t, unlimited.CanCommit(Usage{Amount: decimal.NewFromInt(1e9), Count: 1000}, amount))
}

func TestProgram_Summarize(t *testing.T) {
	p := newProgram(t, 900000, 3)
	s := p.Summarize(Usage{Amount: decimal.NewFromInt(600000), Count: 2}, 1)
	assert.True(t, s.BudgetRemaining.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, int64(1), s.DistributedCount)
}

func TestDistribution_Lifecycle(t *testing.T) {
	_, err := NewDistribution(uuid.New(), uuid.New(), uuid.New(), decimal.Zero, time.Now())
	assert.Error(t, err)

	d, err := NewDistribution(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(300000), time.Now())
	require.NoError(t, err)
	assert.Error(t, d.MarkDistributed(uuid.New(), "R-1", time.Now()))

	require.NoError(t, d.Approve())
	assert.Error(t, d.Approve())
	assert.Error(t, d.Reject("x"))

	by := uuid.New()
	require.NoError(t, d.MarkDistributed(by, "R-1", time.Now()))
	assert.Equal(t, DistributionDistributed, d.Status)
	assert.Equal(t, &by, d.DistributedBy)

	r, err := NewDistribution(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(1), time.Now())
	require.NoError(t, err)
	require.NoError(t, r.Reject("tidak memenuhi syarat"))
	assert.Equal(t, "tidak memenuhi syarat", r.Notes)
}
