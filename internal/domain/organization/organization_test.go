package organization

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestOrganization_Validate(t *testing.T) {
	o := &Organization{Name: "  Karang Taruna Bina Bersama ", TypeID: uuid.New()}
	require.NoError(t, o.Validate())
	assert.Equal(t, "Karang Taruna Bina Bersama", o.Name)

	o.ContactEmail = "bukan email"
	assertCode(t, o.Validate(), "INVALID_EMAIL")

	o.ContactEmail = ""
	o.TypeID = uuid.Nil
	assertCode(t, o.Validate(), "INVALID_TYPE")
}

func TestPeriod_Validate(t *testing.T) {
	p := &Period{
		OrganizationID: uuid.New(),
		Name:           "2024-2027",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Validate())

	p.EndDate = p.StartDate
	assertCode(t, p.Validate(), "INVALID_DATE_RANGE")
}

func TestMember_Validate(t *testing.T) {
	join := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	base := func() *Member {
		return &Member{OrganizationID: uuid.New(), PendudukID: uuid.New(), Position: PositionSecretary, JoinDate: join}
	}

	t.Run("defaults to active", func(t *testing.T) {
		m := base()
		require.NoError(t, m.Validate())
		assert.Equal(t, MemberActive, m.Status)
	})

	t.Run("end date closes membership", func(t *testing.T) {
		m := base()
		end := join.AddDate(1, 0, 0)
		m.EndDate = &end
		require.NoError(t, m.Validate())
		assert.Equal(t, MemberLeft, m.Status)

		m.Status = MemberRetired
		require.NoError(t, m.Validate())
		assert.Equal(t, MemberRetired, m.Status)
	})

	t.Run("end before join", func(t *testing.T) {
		m := base()
		end := join.AddDate(0, 0, -1)
		m.EndDate = &end
		assertCode(t, m.Validate(), "INVALID_DATE_RANGE")
	})

	t.Run("unknown position", func(t *testing.T) {
		m := base()
		m.Position = "penasihat"
		assertCode(t, m.Validate(), "INVALID_POSITION")
	})
}

func TestActivity(t *testing.T) {
	budget := decimal.NewFromInt(1_500_000)
	a := &Activity{
		OrganizationID: uuid.New(),
		Title:          "Rapat Bulanan",
		ActivityType:   ActivityMeeting,
		EventDate:      time.Date(2024, 3, 5, 19, 30, 0, 0, time.UTC),
		Budget:         &budget,
	}
	require.NoError(t, a.Validate())

	require.NoError(t, a.Complete(23))
	assert.True(t, a.IsCompleted)
	assert.Equal(t, 23, a.ParticipantsCount)
	assertCode(t, a.Complete(30), "INVALID_STATE")

	negative := decimal.NewFromInt(-1)
	b := *a
	b.Budget = &negative
	assertCode(t, b.Validate(), "INVALID_AMOUNT")

	c := *a
	c.ActivityType = "arisan"
	assertCode(t, c.Validate(), "INVALID_ACTIVITY_TYPE")
}
