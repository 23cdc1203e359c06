package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appagenda "github.com/pulosarok/desa/internal/application/agenda"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agendaWorld struct {
	db       *Database
	tenantID uuid.UUID
	svc      *appagenda.Service
	category uuid.UUID
}

func newAgendaWorld(t *testing.T) *agendaWorld {
	t.Helper()
	db := openTestDatabase(t)
	w := &agendaWorld{db: db, tenantID: uuid.New()}
	w.svc = appagenda.NewService(appagenda.Repositories{
		Categories:   NewGormEventCategoryRepository(db.DB),
		Events:       NewGormEventRepository(db.DB),
		Participants: NewGormParticipantRepository(db.DB),
	}, NewGormAgendaTransactionScope(db.DB), NewGormPendudukRepository(db.DB), nil)
	c, err := w.svc.Categories.Create(context.Background(), w.tenantID, appagenda.CategoryRequest{Name: "Olahraga"})
	require.NoError(t, err)
	w.category = c.ID
	return w
}

func (w *agendaWorld) publishedEvent(t *testing.T, title string, seats int) *appagenda.EventResponse {
	t.Helper()
	ctx := context.Background()
	e, err := w.svc.CreateEvent(ctx, w.tenantID, appagenda.EventRequest{
		Title:             title,
		CategoryID:        w.category,
		Description:       "Acara desa",
		StartDate:         time.Now().AddDate(0, 0, 14),
		Location:          "Lapangan Desa",
		MaxParticipants:   seats,
		AllowRegistration: true,
		IsFree:            true,
	})
	require.NoError(t, err)
	e, err = w.svc.PublishEvent(ctx, w.tenantID, e.ID)
	require.NoError(t, err)
	return e
}

func TestAgendaService_SQLite_RegistrationRespectsCapacity(t *testing.T) {
	w := newAgendaWorld(t)
	ctx := context.Background()
	e := w.publishedEvent(t, "Turnamen Voli", 1)
	budi := seedResident(t, w.db, w.tenantID, "3201010101010031", "Budi")
	siti := seedResident(t, w.db, w.tenantID, "3201010101010032", "Siti")

	reg, err := w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: budi.ID})
	require.NoError(t, err)
	assert.Equal(t, "pending", reg.Status)

	_, err = w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: siti.ID})
	assertDomainCode(t, err, "EVENT_FULL")

	_, err = w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: budi.ID})
	assertDomainCode(t, err, "ALREADY_REGISTERED")

	_, err = w.svc.CancelRegistration(ctx, w.tenantID, reg.ID)
	require.NoError(t, err)
	got, err := w.svc.GetEvent(ctx, w.tenantID, e.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CurrentParticipants)

	_, err = w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: siti.ID, RegistrationSource: "walk_in"})
	require.NoError(t, err)

	// the refused registration left no row behind
	n, err := NewGormParticipantRepository(w.db.DB).CountForTenant(ctx, w.tenantID, shared.Filter{}.With("event_id", e.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestAgendaService_SQLite_AttendanceAndStats(t *testing.T) {
	w := newAgendaWorld(t)
	ctx := context.Background()
	e := w.publishedEvent(t, "Senam Pagi", 0)
	budi := seedResident(t, w.db, w.tenantID, "3201010101010041", "Budi")
	siti := seedResident(t, w.db, w.tenantID, "3201010101010042", "Siti")

	a, err := w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: budi.ID})
	require.NoError(t, err)
	b, err := w.svc.Register(ctx, w.tenantID, e.ID, appagenda.RegisterRequest{PendudukID: siti.ID})
	require.NoError(t, err)

	_, err = w.svc.ConfirmParticipant(ctx, w.tenantID, a.ID)
	require.NoError(t, err)
	checked, err := w.svc.CheckIn(ctx, w.tenantID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, checked.CheckInTime)

	stats, err := w.svc.Stats(ctx, w.tenantID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalEvents)
	assert.EqualValues(t, 1, stats.EventsByStatus["published"])
	assert.EqualValues(t, 2, stats.TotalParticipants)
	assert.EqualValues(t, 1, stats.ConfirmedAttendees)
	assert.EqualValues(t, 1, stats.AttendedCount)

	assertDomainCode(t, w.svc.DeleteEvent(ctx, w.tenantID, e.ID), "HAS_PARTICIPANTS")
	assertDomainCode(t, w.svc.Categories.Delete(ctx, w.tenantID, w.category), "HAS_EVENTS")
}

func TestAgendaService_SQLite_PublicAgenda(t *testing.T) {
	w := newAgendaWorld(t)
	ctx := context.Background()
	e := w.publishedEvent(t, "Lomba Layang-layang", 0)
	dup := w.publishedEvent(t, "Lomba Layang Layang", 0)
	assert.Equal(t, "lomba-layang-layang-2", dup.Slug)

	draft, err := w.svc.CreateEvent(ctx, w.tenantID, appagenda.EventRequest{
		Title: "Rapat Panitia", CategoryID: w.category, Description: "Internal", StartDate: time.Now(), Location: "Balai Desa",
	})
	require.NoError(t, err)

	list, total, err := w.svc.ListPublished(ctx, w.tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	_, err = w.svc.GetPublishedBySlug(ctx, w.tenantID, draft.Slug)
	assertDomainCode(t, err, "NOT_FOUND")

	events := NewGormEventRepository(w.db.DB)
	stale, err := events.FindByIDForTenant(ctx, w.tenantID, e.ID)
	require.NoError(t, err)

	_, err = w.svc.GetPublishedBySlug(ctx, w.tenantID, e.Slug)
	require.NoError(t, err)
	seen, err := w.svc.GetPublishedBySlug(ctx, w.tenantID, e.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 2, seen.ViewsCount)

	// views do not move the version, and a save from an older copy keeps them
	stale.Description = "Diperbarui"
	require.NoError(t, events.Save(ctx, stale))
	stored, err := events.FindByIDForTenant(ctx, w.tenantID, e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.ViewsCount)
	assert.Equal(t, "Diperbarui", stored.Description)
}
