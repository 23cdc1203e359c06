package posyandu

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduleInput() ScheduleInput {
	return ScheduleInput{
		ActivityType:       ActivityWeighing,
		Title:              "Penimbangan Balita",
		ScheduleDate:       time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC),
		StartTime:          "08:00",
		EndTime:            "11:30",
		TargetParticipants: 40,
	}
}

func TestNewSchedule(t *testing.T) {
	s, err := NewSchedule(uuid.New(), uuid.New(), scheduleInput())
	require.NoError(t, err)
	assert.False(t, s.IsCompleted)

	t.Run("end must follow start", func(t *testing.T) {
		in := scheduleInput()
		in.EndTime = "08:00"
		_, err := NewSchedule(uuid.New(), uuid.New(), in)
		assert.Error(t, err)
	})

	t.Run("rejects malformed clock", func(t *testing.T) {
		in := scheduleInput()
		in.StartTime = "8:00"
		_, err := NewSchedule(uuid.New(), uuid.New(), in)
		assert.Error(t, err)

		in.StartTime = "24:00"
		_, err = NewSchedule(uuid.New(), uuid.New(), in)
		assert.Error(t, err)
	})

	t.Run("complete once", func(t *testing.T) {
		s, err := NewSchedule(uuid.New(), uuid.New(), scheduleInput())
		require.NoError(t, err)
		require.NoError(t, s.Complete(37))
		assert.Equal(t, 37, s.ActualParticipants)
		assert.Error(t, s.Complete(38))
	})
}

func TestHealthRecord_BMI(t *testing.T) {
	w := decimal.NewFromInt(60)
	h := decimal.NewFromInt(160)
	r := &HealthRecord{
		PatientID:   uuid.New(),
		LocationID:  uuid.New(),
		PatientType: PatientElderly,
		VisitDate:   time.Now(),
		Weight:      &w,
		Height:      &h,
	}
	require.NoError(t, r.Validate())
	bmi := r.BMI()
	require.NotNil(t, bmi)
	assert.Equal(t, "23.4", bmi.String())

	r.Height = nil
	assert.Nil(t, r.BMI())

	past := r.VisitDate.AddDate(0, 0, -1)
	r.NextVisit = &past
	assert.Error(t, r.Validate())
}

func TestImmunization_Validate(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	i := &Immunization{
		PatientID:        uuid.New(),
		LocationID:       uuid.New(),
		VaccineType:      VaccinePolio,
		VaccineName:      "OPV",
		DoseNumber:       1,
		ImmunizationDate: at,
	}
	require.NoError(t, i.Validate())

	expired := at.AddDate(0, 0, -1)
	i.ExpiryDate = &expired
	assert.Error(t, i.Validate())

	i.ExpiryDate = nil
	i.DoseNumber = 0
	assert.Error(t, i.Validate())
}

func TestNutritionData_Validate(t *testing.T) {
	n := &NutritionData{
		PatientID:  uuid.New(),
		LocationID: uuid.New(),
		AgeMonths:  18,
		Weight:     decimal.NewFromFloat(9.5),
		Height:     decimal.NewFromInt(78),
	}
	require.NoError(t, n.Validate())
	assert.Equal(t, NutritionNormal, n.NutritionStatus)

	n.NutritionStatus = NutritionStatus("gemuk")
	assert.Error(t, n.Validate())
}

func TestNewLocation(t *testing.T) {
	_, err := NewLocation(uuid.New(), "Posyandu Melati", "", 10)
	assert.Error(t, err)
	l, err := NewLocation(uuid.New(), "Posyandu Melati", "Dusun Mawar", 30)
	require.NoError(t, err)
	assert.True(t, l.IsActive)
}
