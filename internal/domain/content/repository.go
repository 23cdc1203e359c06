package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// ProfileRepository stores the village profile
type ProfileRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// NewsRepository defines persistence for news
type NewsRepository interface {
	shared.TenantStore[News]
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*News, error)
	SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	// IncrementViews bumps the counter without touching the rest of the row
	IncrementViews(ctx context.Context, tenantID, id uuid.UUID) error
	CountByRubric(ctx context.Context, tenantID, rubricID uuid.UUID) (int64, error)
	// SetCommentsCount stores the approved comment count without touching the rest of the row
	SetCommentsCount(ctx context.Context, tenantID, id uuid.UUID, n int64) error
}

// ContactMessageRepository defines persistence for contact messages
type ContactMessageRepository interface {
	shared.TenantStore[ContactMessage]
}

// RubricRepository defines persistence for news rubrics
type RubricRepository interface {
	shared.TenantStore[Rubric]
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// CommentRepository defines persistence for news comments
type CommentRepository interface {
	shared.TenantStore[Comment]
	// CountApproved counts the approved comments of an article
	CountApproved(ctx context.Context, tenantID, newsID uuid.UUID) (int64, error)
}
