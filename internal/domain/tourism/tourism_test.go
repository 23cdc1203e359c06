package tourism

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Pantai Lhok Mata Ie":      "pantai-lhok-mata-ie",
		"  Air Terjun -- Suhom!! ": "air-terjun-suhom",
		"Café Kopi Gayo":           "cafe-kopi-gayo",
		"!!!":                      "lokasi",
		"Masjid Raya (1881)":       "masjid-raya-1881",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func locationInput() LocationInput {
	return LocationInput{
		Title:      "Pantai Lampuuk",
		CategoryID: uuid.New(),
		EntryFee:   decimal.NewFromInt(5000),
		Facilities: []string{"parkir", "mushola"},
	}
}

func TestLocation_Publish(t *testing.T) {
	l, err := NewLocation(uuid.New(), locationInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, l.Status)
	assert.Equal(t, TypeNatural, l.LocationType)
	assert.False(t, l.IsPublic())

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, l.Publish(first))
	assert.True(t, l.IsPublic())
	assert.Error(t, l.Publish(first))

	require.NoError(t, l.Archive())
	require.NoError(t, l.Publish(first.AddDate(0, 1, 0)))
	assert.Equal(t, first, *l.PublishedAt)
}

func TestLocation_Validation(t *testing.T) {
	in := locationInput()
	bad := decimal.NewFromInt(91)
	in.Latitude = &bad
	_, err := NewLocation(uuid.New(), in)
	assert.Error(t, err)

	in = locationInput()
	in.EntryFee = decimal.NewFromInt(-1)
	_, err = NewLocation(uuid.New(), in)
	assert.Error(t, err)

	in = locationInput()
	in.CategoryID = uuid.Nil
	_, err = NewLocation(uuid.New(), in)
	assert.Error(t, err)
}

func TestReview_Moderation(t *testing.T) {
	_, err := NewReview(uuid.New(), uuid.New(), "Rina", 6, "", "bagus", "")
	assert.Error(t, err)

	r, err := NewReview(uuid.New(), uuid.New(), "Rina", 5, "Indah", "Pantainya bersih", VisitFamily)
	require.NoError(t, err)
	assert.False(t, r.IsApproved)

	r.Approve()
	assert.True(t, r.IsApproved)

	assert.Error(t, r.Flag(""))
	require.NoError(t, r.Flag("spam"))
	assert.False(t, r.IsApproved)
	assert.True(t, r.IsFlagged)
}

func TestCategory_Color(t *testing.T) {
	c, err := NewCategory(uuid.New(), "Alam", "", "tree", "")
	require.NoError(t, err)
	assert.Equal(t, "#3B82F6", c.Color)

	_, err = NewCategory(uuid.New(), "Alam", "", "", "blue")
	assert.Error(t, err)
}

func TestEvent_Validate(t *testing.T) {
	start := time.Date(2024, 8, 17, 8, 0, 0, 0, time.UTC)
	e := &Event{Title: "Festival Kuliner", EventType: EventFestival, StartDate: start, EndDate: start.Add(-time.Hour)}
	assert.Error(t, e.Validate())
	e.EndDate = start.Add(8 * time.Hour)
	assert.NoError(t, e.Validate())
}

func TestPackage_Validate(t *testing.T) {
	p := &Package{Title: "Snorkeling", PackageType: PackageDayTrip, Price: decimal.NewFromInt(150000)}
	require.NoError(t, p.Validate())
	assert.Equal(t, "IDR", p.Currency)

	p.Price = decimal.NewFromInt(-1)
	assert.Error(t, p.Validate())
}
