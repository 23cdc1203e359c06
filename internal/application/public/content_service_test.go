package public

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileRepository is a mock implementation of content.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*content.Profile, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, p *content.Profile) error {
	return m.Called(ctx, p).Error(0)
}

// memNews is an in-memory content.NewsRepository
type memNews struct {
	rows      map[uuid.UUID]*content.News
	viewsErr  error
	lastCount shared.Filter
}

func newMemNews() *memNews {
	return &memNews{rows: map[uuid.UUID]*content.News{}}
}

func (m *memNews) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*content.News, error) {
	n, ok := m.rows[id]
	if !ok || n.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNews) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.News, error) {
	var out []content.News
	for _, n := range m.rows {
		if n.TenantID != tenantID {
			continue
		}
		if st, ok := filter.Filters["status"]; ok && st != string(n.Status) {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (m *memNews) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	m.lastCount = filter
	rows, _ := m.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(rows)), nil
}

func (m *memNews) Save(_ context.Context, n *content.News) error {
	cp := *n
	m.rows[n.ID] = &cp
	return nil
}

func (m *memNews) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memNews) FindBySlug(_ context.Context, tenantID uuid.UUID, slug string) (*content.News, error) {
	for _, n := range m.rows {
		if n.TenantID == tenantID && n.Slug == slug {
			cp := *n
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memNews) SlugExists(_ context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	for _, n := range m.rows {
		if n.TenantID == tenantID && n.Slug == slug && n.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNews) IncrementViews(_ context.Context, _, id uuid.UUID) error {
	if m.viewsErr != nil {
		return m.viewsErr
	}
	m.rows[id].ViewsCount++
	return nil
}

func (m *memNews) CountByRubric(_ context.Context, tenantID, rubricID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range m.rows {
		if row.TenantID == tenantID && row.RubricID != nil && *row.RubricID == rubricID {
			n++
		}
	}
	return n, nil
}

func (m *memNews) SetCommentsCount(_ context.Context, _, id uuid.UUID, n int64) error {
	m.rows[id].CommentsCount = n
	return nil
}

// MockMessageRepository is a mock implementation of content.ContactMessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*content.ContactMessage, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ContactMessage), args.Error(1)
}

func (m *MockMessageRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.ContactMessage, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]content.ContactMessage), args.Error(1)
}

func (m *MockMessageRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) Save(ctx context.Context, msg *content.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMessageRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func setupContent() (*ContentService, *MockProfileRepository, *memNews, *MockMessageRepository) {
	profiles := new(MockProfileRepository)
	news := newMemNews()
	messages := new(MockMessageRepository)
	svc := NewContentService(profiles, news, newMemRubrics(), messages, "Desa Pulosarok", nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC) }
	return svc, profiles, news, messages
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("missing profile falls back to the village name", func(t *testing.T) {
		svc, profiles, _, _ := setupContent()
		profiles.On("FindByTenant", ctx, tenantID).Return(nil, shared.ErrNotFound)

		p, err := svc.GetProfile(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "Desa Pulosarok", p.Name)
		assert.NotNil(t, p.SocialLinks)
	})

	t.Run("upsert creates then updates", func(t *testing.T) {
		svc, profiles, _, _ := setupContent()
		profiles.On("FindByTenant", ctx, tenantID).Return(nil, shared.ErrNotFound).Once()
		profiles.On("Save", ctx, mock.AnythingOfType("*content.Profile")).Return(nil)

		created, err := svc.UpsertProfile(ctx, tenantID, ProfileRequest{Name: "Pulosarok", AreaSize: decimal.NewFromFloat(12.5)})
		require.NoError(t, err)
		assert.Equal(t, "Pulosarok", created.Name)

		existing := content.NewProfile(tenantID, "Pulosarok")
		profiles.On("FindByTenant", ctx, tenantID).Return(existing, nil).Once()
		updated, err := svc.UpsertProfile(ctx, tenantID, ProfileRequest{Name: "Pulo Sarok", Vision: "Maju"})
		require.NoError(t, err)
		assert.Equal(t, "Maju", updated.Vision)
		assert.Equal(t, 2, existing.Version)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, profiles, _, _ := setupContent()
		profiles.On("FindByTenant", ctx, tenantID).Return(nil, shared.ErrNotFound)

		_, err := svc.UpsertProfile(ctx, tenantID, ProfileRequest{Name: "Pulosarok", Email: "bukan-email"})
		assertCode(t, err, "INVALID_EMAIL")
		profiles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestNews_PublishAndRead(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, _, news, _ := setupContent()

	a, err := svc.CreateNews(ctx, tenantID, nil, NewsRequest{Title: "Gotong Royong", Content: "Warga membersihkan saluran air."})
	require.NoError(t, err)
	assert.Equal(t, "gotong-royong", a.Slug)
	assert.Equal(t, "lainnya", a.Category)
	assert.Equal(t, "Warga membersihkan saluran air.", a.Excerpt)

	b, err := svc.CreateNews(ctx, tenantID, nil, NewsRequest{Title: "Gotong royong!", Content: "Minggu kedua.", Category: "kegiatan"})
	require.NoError(t, err)
	assert.Equal(t, "gotong-royong-2", b.Slug)

	// drafts are not public
	_, err = svc.ReadPublishedNews(ctx, tenantID, a.Slug)
	assertCode(t, err, "NOT_FOUND")

	published, err := svc.PublishNews(ctx, tenantID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	_, err = svc.PublishNews(ctx, tenantID, a.ID)
	assertCode(t, err, "INVALID_STATE")

	list, total, err := svc.ListPublishedNews(ctx, tenantID, shared.Filter{OrderBy: "created_at"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Content)
	assert.Equal(t, "published_at", news.lastCount.OrderBy)

	read, err := svc.ReadPublishedNews(ctx, tenantID, a.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, read.ViewsCount)
	assert.NotEmpty(t, read.Content)

	news.viewsErr = errors.New("db down")
	read, err = svc.ReadPublishedNews(ctx, tenantID, a.Slug)
	require.NoError(t, err)
	assert.EqualValues(t, 1, read.ViewsCount)
}

func TestNews_UpdateReslugsOnTitleChange(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, _, _, _ := setupContent()

	n, err := svc.CreateNews(ctx, tenantID, nil, NewsRequest{Title: "Posyandu Balita", Content: "Jadwal baru."})
	require.NoError(t, err)

	same, err := svc.UpdateNews(ctx, tenantID, n.ID, NewsRequest{Title: "Posyandu Balita", Content: "Jadwal diperbarui.", Tags: []string{"kesehatan"}})
	require.NoError(t, err)
	assert.Equal(t, n.Slug, same.Slug)
	assert.Equal(t, []string{"kesehatan"}, same.Tags)

	renamed, err := svc.UpdateNews(ctx, tenantID, n.ID, NewsRequest{Title: "Posyandu Lansia", Content: "Jadwal baru."})
	require.NoError(t, err)
	assert.Equal(t, "posyandu-lansia", renamed.Slug)

	_, err = svc.UpdateNews(ctx, tenantID, n.ID, NewsRequest{Title: "x", Content: "y", Category: "gosip"})
	assertCode(t, err, "INVALID_CATEGORY")
}

func TestContactMessages(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("submit stores sender ip", func(t *testing.T) {
		svc, _, _, messages := setupContent()
		messages.On("Save", ctx, mock.MatchedBy(func(m *content.ContactMessage) bool {
			return m.SenderIP == "10.0.0.7" && !m.IsRead
		})).Return(nil)

		resp, err := svc.SubmitContact(ctx, tenantID, "10.0.0.7", ContactRequest{
			Name: "Rahmat", Email: "rahmat@example.com", Subject: "Jalan rusak", Message: "Jalan di lorong 3 berlubang.",
		})
		require.NoError(t, err)
		assert.False(t, resp.IsRead)
		messages.AssertExpectations(t)
	})

	t.Run("short message", func(t *testing.T) {
		svc, _, _, _ := setupContent()
		_, err := svc.SubmitContact(ctx, tenantID, "", ContactRequest{Name: "A", Email: "a@b.co", Subject: "s", Message: "pendek"})
		assertCode(t, err, "INVALID_MESSAGE")
	})

	t.Run("mark read", func(t *testing.T) {
		svc, _, _, messages := setupContent()
		m, err := content.NewContactMessage(tenantID, "Rahmat", "rahmat@example.com", "", "Info", "Mohon info jadwal posyandu.")
		require.NoError(t, err)
		messages.On("FindByIDForTenant", ctx, tenantID, m.ID).Return(m, nil)
		messages.On("Save", ctx, m).Return(nil)

		resp, err := svc.MarkMessageRead(ctx, tenantID, m.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsRead)
	})

	t.Run("delete unknown", func(t *testing.T) {
		svc, _, _, messages := setupContent()
		id := uuid.New()
		messages.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		assertCode(t, svc.DeleteMessage(ctx, tenantID, id), "NOT_FOUND")
	})
}
