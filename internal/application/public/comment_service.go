package public

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/shared"
	"go.uber.org/zap"
)

var errCommentNotFound = shared.NewDomainError("NOT_FOUND", "Comment not found")

// RubricRegistry is the news rubric register. Rubrics still holding articles cannot be deleted.
type RubricRegistry struct {
	*registry.Registry[content.Rubric, *content.Rubric, RubricRequest, RubricResponse]
	news content.NewsRepository
}

// Delete removes a rubric no article is filed under
func (r *RubricRegistry) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := r.Find(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := r.news.CountByRubric(ctx, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to count news: %w", err)
	}
	if n > 0 {
		return shared.NewDomainError("HAS_NEWS", "Rubric still holds news")
	}
	return r.Store.DeleteForTenant(ctx, tenantID, id)
}

// CommentService manages news rubrics and reader comments
type CommentService struct {
	news     content.NewsRepository
	comments content.CommentRepository
	logger   *zap.Logger

	Rubrics *RubricRegistry
}

// NewCommentService creates a new CommentService
func NewCommentService(rubrics content.RubricRepository, news content.NewsRepository, comments content.CommentRepository, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		news:     news,
		comments: comments,
		logger:   logger,
		Rubrics: &RubricRegistry{
			Registry: &registry.Registry[content.Rubric, *content.Rubric, RubricRequest, RubricResponse]{
				Store:    rubrics,
				NotFound: shared.NewDomainError("NOT_FOUND", "Rubric not found"),
				New: func(tenantID uuid.UUID) *content.Rubric {
					return &content.Rubric{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
				},
				Apply:   func(rb *content.Rubric, r RubricRequest) { r.applyTo(rb) },
				Respond: ToRubricResponse,
				Unique: func(ctx context.Context, rb *content.Rubric) (bool, error) {
					return rubrics.ExistsByName(ctx, rb.TenantID, rb.Name, rb.ID)
				},
				Conflict: shared.NewDomainError("ALREADY_EXISTS", "Rubric already exists"),
			},
			news: news,
		},
	}
}

// SubmitComment records a reader comment on a published article. It stays
// hidden until a moderator approves it. A reply must point at an approved
// comment of the same article.
func (s *CommentService) SubmitComment(ctx context.Context, tenantID uuid.UUID, slug, senderIP, userAgent string, req CommentRequest) (*CommentResponse, error) {
	n, err := s.publishedNews(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		parent, err := s.comments.FindByIDForTenant(ctx, tenantID, *req.ParentID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if err != nil || parent.NewsID != n.ID || parent.Status != content.CommentApproved {
			return nil, shared.NewDomainError("INVALID_PARENT", "Parent comment not found")
		}
	}
	c, err := content.NewComment(tenantID, n.ID, req.ParentID, req.AuthorName, req.AuthorEmail, req.AuthorWebsite, req.Content)
	if err != nil {
		return nil, err
	}
	c.IPAddress = senderIP
	c.UserAgent = userAgent
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("news comment received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("news_id", n.ID.String()),
		zap.String("comment_id", c.ID.String()))
	resp := toPublicComment(c)
	return &resp, nil
}

// ListApprovedComments returns the approved comments of a published article
func (s *CommentService) ListApprovedComments(ctx context.Context, tenantID uuid.UUID, slug string, filter shared.Filter) ([]CommentResponse, int64, error) {
	n, err := s.publishedNews(ctx, tenantID, slug)
	if err != nil {
		return nil, 0, err
	}
	filters := make(map[string]interface{}, len(filter.Filters)+2)
	for k, v := range filter.Filters {
		filters[k] = v
	}
	filters["news_id"] = n.ID
	filters["status"] = string(content.CommentApproved)
	filter.Filters = filters
	rows, total, err := s.list(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CommentResponse, len(rows))
	for i := range rows {
		out[i] = toPublicComment(&rows[i])
	}
	return out, total, nil
}

// ListComments returns one page of comments for moderation
func (s *CommentService) ListComments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CommentResponse, int64, error) {
	rows, total, err := s.list(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CommentResponse, len(rows))
	for i := range rows {
		out[i] = ToCommentResponse(&rows[i])
	}
	return out, total, nil
}

func (s *CommentService) list(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]content.Comment, int64, error) {
	rows, err := s.comments.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.comments.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ModerateComment approves, rejects or marks a comment as spam and refreshes
// the article's approved comment count
func (s *CommentService) ModerateComment(ctx context.Context, tenantID, id uuid.UUID, req ModerateCommentRequest) (*CommentResponse, error) {
	c, err := s.findComment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Moderate(content.CommentStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, err
	}
	if err := s.recount(ctx, tenantID, c.NewsID); err != nil {
		return nil, err
	}
	s.logger.Info("news comment moderated",
		zap.String("comment_id", c.ID.String()),
		zap.String("status", string(c.Status)))
	resp := ToCommentResponse(c)
	return &resp, nil
}

// DeleteComment removes a comment
func (s *CommentService) DeleteComment(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.findComment(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.recount(ctx, tenantID, c.NewsID)
}

func (s *CommentService) recount(ctx context.Context, tenantID, newsID uuid.UUID) error {
	n, err := s.comments.CountApproved(ctx, tenantID, newsID)
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}
	if err := s.news.SetCommentsCount(ctx, tenantID, newsID, n); err != nil {
		return fmt.Errorf("failed to store comment count: %w", err)
	}
	return nil
}

func (s *CommentService) findComment(ctx context.Context, tenantID, id uuid.UUID) (*content.Comment, error) {
	c, err := s.comments.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CommentService) publishedNews(ctx context.Context, tenantID uuid.UUID, slug string) (*content.News, error) {
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
	return n, nil
}
