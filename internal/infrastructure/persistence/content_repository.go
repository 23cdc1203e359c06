package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/content"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormProfileRepository implements content.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByTenant returns the profile of the tenant
func (r *GormProfileRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*content.Profile, error) {
	var p content.Profile
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Save creates or updates the profile
func (r *GormProfileRepository) Save(ctx context.Context, p *content.Profile) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

// GormNewsRepository implements content.NewsRepository using GORM
type GormNewsRepository struct {
	gormTenantStore[content.News]
}

// NewGormNewsRepository creates a new GormNewsRepository
func NewGormNewsRepository(db *gorm.DB) *GormNewsRepository {
	return &GormNewsRepository{newTenantStore[content.News](db, listSpec{
		searchColumns: []string{"title", "excerpt", "content"},
		sortFields:    sortFields("title", "published_at", "views_count", "comments_count"),
		filterColumns: columns("category", "rubric_id", "status", "is_featured", "author_id", "published_at"),
	})}
}

// FindBySlug finds an article by slug
func (r *GormNewsRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*content.News, error) {
	var n content.News
	if err := r.scoped(ctx, tenantID).Where("slug = ?", slug).First(&n).Error; err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// SlugExists checks whether another article uses slug
func (r *GormNewsRepository) SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "slug = ? AND id <> ?", slug, excludeID)
}

// IncrementViews bumps the counter without touching the rest of the row
func (r *GormNewsRepository) IncrementViews(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&content.News{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByRubric counts the articles filed under a rubric
func (r *GormNewsRepository) CountByRubric(ctx context.Context, tenantID, rubricID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("rubric_id = ?", rubricID).Count(&n).Error
	return n, err
}

// SetCommentsCount stores the approved comment count without touching the rest of the row
func (r *GormNewsRepository) SetCommentsCount(ctx context.Context, tenantID, id uuid.UUID, n int64) error {
	return r.scoped(ctx, tenantID).Where("id = ?", id).UpdateColumn("comments_count", n).Error
}

// GormRubricRepository implements content.RubricRepository using GORM
type GormRubricRepository struct {
	gormTenantStore[content.Rubric]
}

// NewGormRubricRepository creates a new GormRubricRepository
func NewGormRubricRepository(db *gorm.DB) *GormRubricRepository {
	return &GormRubricRepository{newTenantStore[content.Rubric](db, listSpec{
		searchColumns: []string{"name", "description"},
		sortFields:    sortFields("name"),
		filterColumns: columns("is_active"),
		defaultOrder:  "name ASC",
	})}
}

// ExistsByName checks whether another rubric uses name
func (r *GormRubricRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	return r.exists(ctx, tenantID, "LOWER(name) = LOWER(?) AND id <> ?", name, excludeID)
}

// GormCommentRepository implements content.CommentRepository using GORM
type GormCommentRepository struct {
	gormTenantStore[content.Comment]
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{newTenantStore[content.Comment](db, listSpec{
		searchColumns: []string{"author_name", "author_email", "content"},
		sortFields:    sortFields("author_name", "status"),
		filterColumns: columns("news_id", "parent_id", "status"),
		defaultOrder:  "created_at ASC",
	})}
}

// CountApproved counts the approved comments of an article
func (r *GormCommentRepository) CountApproved(ctx context.Context, tenantID, newsID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).
		Where("news_id = ? AND status = ?", newsID, content.CommentApproved).
		Count(&n).Error
	return n, err
}

// GormContactMessageRepository implements content.ContactMessageRepository using GORM
type GormContactMessageRepository struct {
	gormTenantStore[content.ContactMessage]
}

// NewGormContactMessageRepository creates a new GormContactMessageRepository
func NewGormContactMessageRepository(db *gorm.DB) *GormContactMessageRepository {
	return &GormContactMessageRepository{newTenantStore[content.ContactMessage](db, listSpec{
		searchColumns: []string{"name", "email", "subject"},
		sortFields:    sortFields("name", "is_read"),
		filterColumns: columns("is_read"),
	})}
}

var (
	_ content.ProfileRepository        = (*GormProfileRepository)(nil)
	_ content.NewsRepository           = (*GormNewsRepository)(nil)
	_ content.ContactMessageRepository = (*GormContactMessageRepository)(nil)
	_ content.RubricRepository         = (*GormRubricRepository)(nil)
	_ content.CommentRepository        = (*GormCommentRepository)(nil)
)
