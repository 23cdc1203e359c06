package public

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errNewsNotFound    = shared.NewDomainError("NOT_FOUND", "News not found")
	errMessageNotFound = shared.NewDomainError("NOT_FOUND", "Message not found")
)

// ContentService manages the village profile, news and contact messages
type ContentService struct {
	profiles content.ProfileRepository
	news     content.NewsRepository
	rubrics  content.RubricRepository
	messages content.ContactMessageRepository
	// defaultName seeds the profile of a village that has none yet
	defaultName string
	logger      *zap.Logger
	now         func() time.Time
}

// NewContentService creates a new ContentService
func NewContentService(profiles content.ProfileRepository, news content.NewsRepository, rubrics content.RubricRepository, messages content.ContactMessageRepository, defaultName string, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		profiles:    profiles,
		news:        news,
		rubrics:     rubrics,
		messages:    messages,
		defaultName: defaultName,
		logger:      logger,
		now:         time.Now,
	}
}

// =============================================================================
// Profile
// =============================================================================

// GetProfile returns the village profile, or an empty one named after the village
func (s *ContentService) GetProfile(ctx context.Context, tenantID uuid.UUID) (*ProfileResponse, error) {
	p, err := s.profiles.FindByTenant(ctx, tenantID)
	if errors.Is(err, shared.ErrNotFound) {
		p = content.NewProfile(tenantID, s.defaultName)
	} else if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// UpsertProfile creates or replaces the village profile
func (s *ContentService) UpsertProfile(ctx context.Context, tenantID uuid.UUID, req ProfileRequest) (*ProfileResponse, error) {
	p, err := s.profiles.FindByTenant(ctx, tenantID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		p = content.NewProfile(tenantID, req.Name)
	case err != nil:
		return nil, err
	default:
		p.Touch()
		p.IncrementVersion()
	}
	req.applyTo(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProfileResponse(p)
	return &resp, nil
}

// =============================================================================
// News
// =============================================================================

// CreateNews adds a draft article
func (s *ContentService) CreateNews(ctx context.Context, tenantID uuid.UUID, authorID *uuid.UUID, req NewsRequest) (*NewsResponse, error) {
	n, err := content.NewNews(tenantID, req.Title, req.Content, content.NewsCategory(req.Category))
	if err != nil {
		return nil, err
	}
	n.AuthorID = authorID
	return s.saveNews(ctx, n, req, true)
}

// UpdateNews replaces an article. The slug follows the title when it changes.
func (s *ContentService) UpdateNews(ctx context.Context, tenantID, id uuid.UUID, req NewsRequest) (*NewsResponse, error) {
	n, err := s.findNews(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.saveNews(ctx, n, req, n.Title != req.Title)
}

func (s *ContentService) saveNews(ctx context.Context, n *content.News, req NewsRequest, reslug bool) (*NewsResponse, error) {
	if err := n.Update(req.Title, req.Content, req.Excerpt, content.NewsCategory(req.Category), req.Tags); err != nil {
		return nil, err
	}
	n.IsFeatured = req.IsFeatured
	if req.RubricID != nil {
		if _, err := s.rubrics.FindByIDForTenant(ctx, n.TenantID, *req.RubricID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_RUBRIC", "Rubric not found")
			}
			return nil, err
		}
	}
	n.RubricID = req.RubricID
	if reslug {
		slug, err := shared.UniqueSlug(shared.Slugify(n.Title, "berita"), func(candidate string) (bool, error) {
			return s.news.SlugExists(ctx, n.TenantID, candidate, n.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		n.Slug = slug
	}
	if err := s.news.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNewsResponse(n)
	return &resp, nil
}

// PublishNews makes an article public
func (s *ContentService) PublishNews(ctx context.Context, tenantID, id uuid.UUID) (*NewsResponse, error) {
	return s.transitionNews(ctx, tenantID, id, func(n *content.News) error { return n.Publish(s.now()) })
}

// ArchiveNews hides an article
func (s *ContentService) ArchiveNews(ctx context.Context, tenantID, id uuid.UUID) (*NewsResponse, error) {
	return s.transitionNews(ctx, tenantID, id, func(n *content.News) error {
		n.Archive()
		return nil
	})
}

func (s *ContentService) transitionNews(ctx context.Context, tenantID, id uuid.UUID, apply func(*content.News) error) (*NewsResponse, error) {
	n, err := s.findNews(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(n); err != nil {
		return nil, err
	}
	if err := s.news.Save(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNewsResponse(n)
	return &resp, nil
}

// GetNews returns one article
func (s *ContentService) GetNews(ctx context.Context, tenantID, id uuid.UUID) (*NewsResponse, error) {
	n, err := s.findNews(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToNewsResponse(n)
	return &resp, nil
}

// ListNews returns one page of articles
func (s *ContentService) ListNews(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]NewsResponse, int64, error) {
	rows, err := s.news.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.news.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]NewsResponse, len(rows))
	for i := range rows {
		out[i] = ToNewsResponse(&rows[i])
	}
	return out, total, nil
}

// ListPublishedNews returns published articles without their bodies
func (s *ContentService) ListPublishedNews(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]NewsResponse, int64, error) {
	filters := make(map[string]interface{}, len(filter.Filters)+1)
	for k, v := range filter.Filters {
		filters[k] = v
	}
	filters["status"] = string(content.NewsPublished)
	filter.Filters = filters
	if filter.OrderBy == "" || filter.OrderBy == "created_at" {
		filter.OrderBy = "published_at"
	}

	out, total, err := s.ListNews(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Content = ""
	}
	return out, total, nil
}

// ReadPublishedNews returns a published article by slug and counts the view
func (s *ContentService) ReadPublishedNews(ctx context.Context, tenantID uuid.UUID, slug string) (*NewsResponse, error) {
	n, err := s.news.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errNewsNotFound
		}
		return nil, err
	}
	if n.Status != content.NewsPublished {
		return nil, errNewsNotFound
	}
	if err := s.news.IncrementViews(ctx, tenantID, n.ID); err != nil {
		// a lost view must not hide the article
		s.logger.Warn("failed to count news view", zap.String("news_id", n.ID.String()), zap.Error(err))
	} else {
		n.ViewsCount++
	}
	resp := ToNewsResponse(n)
	return &resp, nil
}

// DeleteNews removes an article
func (s *ContentService) DeleteNews(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findNews(ctx, tenantID, id); err != nil {
		return err
	}
	return s.news.DeleteForTenant(ctx, tenantID, id)
}

func (s *ContentService) findNews(ctx context.Context, tenantID, id uuid.UUID) (*content.News, error) {
	n, err := s.news.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errNewsNotFound
		}
		return nil, err
	}
	return n, nil
}

// =============================================================================
// Contact messages
// =============================================================================

// SubmitContact stores a public contact form message
func (s *ContentService) SubmitContact(ctx context.Context, tenantID uuid.UUID, senderIP string, req ContactRequest) (*ContactResponse, error) {
	m, err := content.NewContactMessage(tenantID, req.Name, req.Email, req.Phone, req.Subject, req.Message)
	if err != nil {
		return nil, err
	}
	m.SenderIP = senderIP
	if err := s.messages.Save(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info("contact message received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("message_id", m.ID.String()))
	resp := ToContactResponse(m)
	return &resp, nil
}

// ListMessages returns one page of contact messages
func (s *ContentService) ListMessages(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ContactResponse, int64, error) {
	rows, err := s.messages.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.messages.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ContactResponse, len(rows))
	for i := range rows {
		out[i] = ToContactResponse(&rows[i])
	}
	return out, total, nil
}

// MarkMessageRead flags a message as handled
func (s *ContentService) MarkMessageRead(ctx context.Context, tenantID, id uuid.UUID) (*ContactResponse, error) {
	m, err := s.findMessage(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	m.MarkRead()
	if err := s.messages.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToContactResponse(m)
	return &resp, nil
}

// DeleteMessage removes a message
func (s *ContentService) DeleteMessage(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findMessage(ctx, tenantID, id); err != nil {
		return err
	}
	return s.messages.DeleteForTenant(ctx, tenantID, id)
}

func (s *ContentService) findMessage(ctx context.Context, tenantID, id uuid.UUID) (*content.ContactMessage, error) {
	m, err := s.messages.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errMessageNotFound
		}
		return nil, err
	}
	return m, nil
}
