package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/business"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/posyandu"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/domain/tourism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSQLiteDB(t *testing.T, tables ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(tables...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedNews(t *testing.T, repo *GormNewsRepository, tenantID uuid.UUID, title string, publishedAt *time.Time) *content.News {
	t.Helper()
	n, err := content.NewNews(tenantID, title, "Isi berita "+title, content.NewsOther)
	require.NoError(t, err)
	n.Slug = shared.Slugify(title, "berita")
	if publishedAt != nil {
		require.NoError(t, n.Publish(*publishedAt))
	}
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func TestTenantStore_List(t *testing.T) {
	db := setupSQLiteDB(t, &content.News{})
	repo := NewGormNewsRepository(db)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	seedNews(t, repo, tenantA, "Banjir di Dusun Satu", &jan)
	seedNews(t, repo, tenantA, "Gotong royong", &mar)
	seedNews(t, repo, tenantA, "Rapat banjir susulan", nil)
	seedNews(t, repo, tenantB, "Banjir tetangga", &mar)

	t.Run("search is case-insensitive and tenant scoped", func(t *testing.T) {
		f := shared.Filter{Page: 1, PageSize: 10, Search: "BANJIR"}
		rows, err := repo.FindAllForTenant(ctx, tenantA, f)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, tenantA, r.TenantID)
		}
	})

	t.Run("equality and range filters", func(t *testing.T) {
		f := shared.Filter{Filters: map[string]interface{}{
			"status":            content.NewsPublished,
			"published_at__gte": time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		}}
		n, err := repo.CountForTenant(ctx, tenantA, f)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("unknown filter keys are ignored", func(t *testing.T) {
		f := shared.Filter{Filters: map[string]interface{}{"content; DROP TABLE news": "x"}}
		n, err := repo.CountForTenant(ctx, tenantA, f)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)
	})

	t.Run("whitelisted order and pagination", func(t *testing.T) {
		f := shared.Filter{Page: 2, PageSize: 2, OrderBy: "title", OrderDir: "asc"}
		rows, err := repo.FindAllForTenant(ctx, tenantA, f)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Rapat banjir susulan", rows[0].Title)

		count, err := repo.CountForTenant(ctx, tenantA, f)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count, "count ignores paging")
	})

	t.Run("tags survive the round trip", func(t *testing.T) {
		n, err := content.NewNews(tenantA, "Bertag", "isi", content.NewsOther)
		require.NoError(t, err)
		require.NoError(t, n.Update("Bertag", "isi", "", content.NewsOther, []string{"desa", "air"}))
		n.Slug = "bertag"
		require.NoError(t, repo.Save(ctx, n))

		got, err := repo.FindBySlug(ctx, tenantA, "bertag")
		require.NoError(t, err)
		assert.Equal(t, []string{"desa", "air"}, got.Tags)
	})
}

func TestTenantStore_FindAndDelete(t *testing.T) {
	db := setupSQLiteDB(t, &content.News{})
	repo := NewGormNewsRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	n := seedNews(t, repo, tenantID, "Hapus saya", nil)

	_, err := repo.FindByIDForTenant(ctx, uuid.New(), n.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "other tenants cannot see the row")

	assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), n.ID), shared.ErrNotFound)
	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, n.ID))

	_, err = repo.FindByIDForTenant(ctx, tenantID, n.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestNewsRepository_SlugAndViews(t *testing.T) {
	db := setupSQLiteDB(t, &content.News{})
	repo := NewGormNewsRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	n := seedNews(t, repo, tenantID, "Pasar Desa", nil)

	taken, err := repo.SlugExists(ctx, tenantID, "pasar-desa", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugExists(ctx, tenantID, "pasar-desa", n.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the row itself is excluded")

	require.NoError(t, repo.IncrementViews(ctx, tenantID, n.ID))
	require.NoError(t, repo.IncrementViews(ctx, tenantID, n.ID))
	got, err := repo.FindByIDForTenant(ctx, tenantID, n.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewsCount)
	assert.Equal(t, n.Version, got.Version, "views do not bump the version")

	assert.ErrorIs(t, repo.IncrementViews(ctx, tenantID, uuid.New()), shared.ErrNotFound)
}

func TestReviewRepository_RatingStats(t *testing.T) {
	db := setupSQLiteDB(t, &tourism.Review{})
	repo := NewGormReviewRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	loc, other := uuid.New(), uuid.New()

	add := func(location uuid.UUID, rating int, approved bool) {
		r, err := tourism.NewReview(tenantID, location, "Budi", rating, "", "Bagus", "")
		require.NoError(t, err)
		if approved {
			r.Approve()
		}
		require.NoError(t, repo.Save(ctx, r))
	}
	add(loc, 5, true)
	add(loc, 4, true)
	add(loc, 1, false)
	add(other, 3, false)

	stats, err := repo.RatingStats(ctx, tenantID, []uuid.UUID{loc, other})
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats[loc].Count)
	assert.InDelta(t, 4.5, stats[loc].Average, 0.001)
	_, ok := stats[other]
	assert.False(t, ok, "locations without approved reviews are absent")

	empty, err := repo.RatingStats(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTourismLocationRepository_Published(t *testing.T) {
	db := setupSQLiteDB(t, &tourism.Location{})
	repo := NewGormTourismLocationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for i, title := range []string{"Air Terjun", "Pantai", "Goa"} {
		l, err := tourism.NewLocation(tenantID, tourism.LocationInput{
			Title:        title,
			CategoryID:   uuid.New(),
			LocationType: tourism.TypeNatural,
			Facilities:   []string{"parkir"},
		})
		require.NoError(t, err)
		l.Slug = shared.Slugify(title, "lokasi")
		if i < 2 {
			require.NoError(t, l.Publish(time.Now()))
		}
		require.NoError(t, repo.Save(ctx, l))
	}

	n, err := repo.CountPublished(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := repo.FindBySlug(ctx, tenantID, "pantai")
	require.NoError(t, err)
	assert.Equal(t, "Pantai", got.Title)
	assert.Equal(t, []string{"parkir"}, got.Facilities)

	_, err = repo.FindBySlug(ctx, uuid.New(), "pantai")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestKoperasiRepository_CountByStatus(t *testing.T) {
	db := setupSQLiteDB(t, &business.Koperasi{})
	repo := NewGormKoperasiRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	for i, status := range []business.Status{business.StatusActive, business.StatusActive, business.StatusPending} {
		k := &business.Koperasi{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			Nama:                "Koperasi " + string(rune('A'+i)),
			NomorBadanHukum:     "BH-" + string(rune('A'+i)),
			TanggalBerdiri:      time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:              status,
		}
		require.NoError(t, repo.Save(ctx, k))
	}

	counts, err := repo.CountByStatus(ctx, tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[business.StatusActive])
	assert.EqualValues(t, 1, counts[business.StatusPending])
	assert.Contains(t, counts, business.StatusInactive, "every status is reported")
	assert.Zero(t, counts[business.StatusInactive])

	exists, err := repo.ExistsByBadanHukum(ctx, tenantID, "BH-A", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestScheduleRepository_Upcoming(t *testing.T) {
	db := setupSQLiteDB(t, &posyandu.Schedule{})
	repo := NewGormScheduleRepository(db)
	ctx := context.Background()
	tenantID, locationID := uuid.New(), uuid.New()
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	add := func(days int, completed bool) {
		s, err := posyandu.NewSchedule(tenantID, locationID, posyandu.ScheduleInput{
			ActivityType: posyandu.ActivityCheckup,
			Title:        "Penimbangan",
			ScheduleDate: today.AddDate(0, 0, days),
			StartTime:    "08:00",
			EndTime:      "11:00",
		})
		require.NoError(t, err)
		s.IsCompleted = completed
		require.NoError(t, repo.Save(ctx, s))
	}
	add(-3, false)
	add(7, false)
	add(1, false)
	add(2, true)

	rows, err := repo.Upcoming(ctx, tenantID, today, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].ScheduleDate.Before(rows[1].ScheduleDate), "soonest first")
}
