package tourism

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/registry"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/domain/tourism"
	"go.uber.org/zap"
)

var (
	errCategoryNotFound = shared.NewDomainError("NOT_FOUND", "Tourism category not found")
	errLocationNotFound = shared.NewDomainError("NOT_FOUND", "Tourism location not found")
	errReviewNotFound   = shared.NewDomainError("NOT_FOUND", "Review not found")
)

// Repositories groups the tourism stores
type Repositories struct {
	Categories tourism.CategoryRepository
	Locations  tourism.LocationRepository
	Reviews    tourism.ReviewRepository
	Events     tourism.EventRepository
	Packages   tourism.PackageRepository
}

// Service manages destinations and their reviews, events and packages
type Service struct {
	repos  Repositories
	logger *zap.Logger
	now    func() time.Time

	Events   *registry.Registry[tourism.Event, *tourism.Event, EventRequest, EventResponse]
	Packages *registry.Registry[tourism.Package, *tourism.Package, PackageRequest, PackageResponse]
}

// NewService creates a new tourism Service
func NewService(repos Repositories, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{repos: repos, logger: logger, now: time.Now}

	s.Events = &registry.Registry[tourism.Event, *tourism.Event, EventRequest, EventResponse]{
		Store:    repos.Events,
		NotFound: shared.NewDomainError("NOT_FOUND", "Event not found"),
		New: func(tenantID uuid.UUID) *tourism.Event {
			return &tourism.Event{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
		},
		Apply:   func(e *tourism.Event, r EventRequest) { r.applyTo(e) },
		Respond: ToEventResponse,
		Check: func(ctx context.Context, e *tourism.Event) error {
			_, err := s.findLocation(ctx, e.TenantID, e.LocationID)
			return err
		},
	}
	s.Packages = &registry.Registry[tourism.Package, *tourism.Package, PackageRequest, PackageResponse]{
		Store:    repos.Packages,
		NotFound: shared.NewDomainError("NOT_FOUND", "Package not found"),
		New: func(tenantID uuid.UUID) *tourism.Package {
			return &tourism.Package{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
		},
		Apply:   func(p *tourism.Package, r PackageRequest) { r.applyTo(p) },
		Respond: ToPackageResponse,
		Check: func(ctx context.Context, p *tourism.Package) error {
			_, err := s.findLocation(ctx, p.TenantID, p.LocationID)
			return err
		},
	}
	return s
}

// =============================================================================
// Categories
// =============================================================================

// CreateCategory adds a category
func (s *Service) CreateCategory(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := tourism.NewCategory(tenantID, req.Name, req.Description, req.Icon, req.Color)
	if err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

// UpdateCategory replaces a category
func (s *Service) UpdateCategory(ctx context.Context, tenantID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, req.Description, req.Icon, req.Color); err != nil {
		return nil, err
	}
	return s.saveCategory(ctx, c, req)
}

func (s *Service) saveCategory(ctx context.Context, c *tourism.Category, req CategoryRequest) (*CategoryResponse, error) {
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.repos.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// ListCategories returns one page of categories
func (s *Service) ListCategories(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CategoryResponse, int64, error) {
	rows, err := s.repos.Categories.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Categories.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CategoryResponse, len(rows))
	for i := range rows {
		out[i] = ToCategoryResponse(&rows[i])
	}
	return out, total, nil
}

// DeleteCategory removes a category no location uses
func (s *Service) DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findCategory(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.repos.Locations.CountForTenant(ctx, tenantID, shared.Filter{Filters: map[string]interface{}{"category_id": id}})
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category still has locations")
	}
	return s.repos.Categories.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findCategory(ctx context.Context, tenantID, id uuid.UUID) (*tourism.Category, error) {
	c, err := s.repos.Categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

// =============================================================================
// Locations
// =============================================================================

// CreateLocation adds a draft destination with a slug derived from its title
func (s *Service) CreateLocation(ctx context.Context, tenantID uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	l, err := tourism.NewLocation(tenantID, req.input())
	if err != nil {
		return nil, err
	}
	return s.saveLocation(ctx, l, req, true)
}

// UpdateLocation replaces a destination. The slug follows the title when it changes.
func (s *Service) UpdateLocation(ctx context.Context, tenantID, id uuid.UUID, req LocationRequest) (*LocationResponse, error) {
	l, err := s.findLocation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	retitled := l.Title != req.Title
	if err := l.Update(req.input()); err != nil {
		return nil, err
	}
	return s.saveLocation(ctx, l, req, retitled)
}

func (s *Service) saveLocation(ctx context.Context, l *tourism.Location, req LocationRequest, reslug bool) (*LocationResponse, error) {
	if _, err := s.findCategory(ctx, l.TenantID, l.CategoryID); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if reslug {
		slug, err := shared.UniqueSlug(tourism.Slugify(l.Title), func(candidate string) (bool, error) {
			return s.repos.Locations.SlugExists(ctx, l.TenantID, candidate, l.ID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
		l.Slug = slug
	}
	if err := s.repos.Locations.Save(ctx, l); err != nil {
		return nil, err
	}
	return s.withRating(ctx, l)
}

// GetLocation returns one destination with its rating
func (s *Service) GetLocation(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	l, err := s.findLocation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.withRating(ctx, l)
}

// ListLocations returns one page of destinations with their ratings
func (s *Service) ListLocations(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LocationResponse, int64, error) {
	rows, err := s.repos.Locations.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Locations.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.withRatings(ctx, tenantID, rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// PublishLocation makes a destination public
func (s *Service) PublishLocation(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, tenantID, id, func(l *tourism.Location) error { return l.Publish(s.now()) })
}

// ArchiveLocation hides a destination
func (s *Service) ArchiveLocation(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	return s.transition(ctx, tenantID, id, (*tourism.Location).Archive)
}

func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*tourism.Location) error) (*LocationResponse, error) {
	l, err := s.findLocation(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(l); err != nil {
		return nil, err
	}
	if err := s.repos.Locations.Save(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("tourism location status changed",
		zap.String("location_id", l.ID.String()),
		zap.String("status", string(l.Status)))
	return s.withRating(ctx, l)
}

// DeleteLocation removes a destination
func (s *Service) DeleteLocation(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findLocation(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repos.Locations.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findLocation(ctx context.Context, tenantID, id uuid.UUID) (*tourism.Location, error) {
	l, err := s.repos.Locations.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) withRating(ctx context.Context, l *tourism.Location) (*LocationResponse, error) {
	out, err := s.withRatings(ctx, l.TenantID, []tourism.Location{*l})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) withRatings(ctx context.Context, tenantID uuid.UUID, rows []tourism.Location) ([]LocationResponse, error) {
	out := make([]LocationResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	stats, err := s.repos.Reviews.RatingStats(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	for i := range rows {
		out[i] = ToLocationResponse(&rows[i], stats[rows[i].ID])
	}
	return out, nil
}

// =============================================================================
// Public listing
// =============================================================================

// ListPublished returns published, active destinations
func (s *Service) ListPublished(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LocationResponse, int64, error) {
	filters := make(map[string]interface{}, len(filter.Filters)+2)
	for k, v := range filter.Filters {
		filters[k] = v
	}
	filters["status"] = string(tourism.StatusPublished)
	filters["is_active"] = true
	filter.Filters = filters
	return s.ListLocations(ctx, tenantID, filter)
}

// GetPublishedBySlug returns a public destination
func (s *Service) GetPublishedBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*LocationResponse, error) {
	l, err := s.publicLocation(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	return s.withRating(ctx, l)
}

// CountPublished counts destinations visible to the public
func (s *Service) CountPublished(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.repos.Locations.CountPublished(ctx, tenantID)
}

func (s *Service) publicLocation(ctx context.Context, tenantID uuid.UUID, slug string) (*tourism.Location, error) {
	l, err := s.repos.Locations.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errLocationNotFound
		}
		return nil, err
	}
	if !l.IsPublic() {
		return nil, errLocationNotFound
	}
	return l, nil
}

// =============================================================================
// Reviews
// =============================================================================

// SubmitReview records a visitor review of a public destination. It stays
// hidden until a moderator approves it.
func (s *Service) SubmitReview(ctx context.Context, tenantID uuid.UUID, slug string, req ReviewRequest) (*ReviewResponse, error) {
	l, err := s.publicLocation(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	r, err := tourism.NewReview(tenantID, l.ID, req.ReviewerName, req.Rating, req.Title, req.Comment, tourism.VisitType(req.VisitType))
	if err != nil {
		return nil, err
	}
	r.ReviewerEmail = req.ReviewerEmail
	r.VisitDate = req.VisitDate
	if err := s.repos.Reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

// ListPublicReviews returns the approved reviews of a public destination
func (s *Service) ListPublicReviews(ctx context.Context, tenantID uuid.UUID, slug string, filter shared.Filter) ([]ReviewResponse, int64, error) {
	l, err := s.publicLocation(ctx, tenantID, slug)
	if err != nil {
		return nil, 0, err
	}
	filter.Filters = map[string]interface{}{"location_id": l.ID, "is_approved": true}
	return s.ListReviews(ctx, tenantID, filter)
}

// ListReviews returns one page of reviews
func (s *Service) ListReviews(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReviewResponse, int64, error) {
	rows, err := s.repos.Reviews.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Reviews.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ReviewResponse, len(rows))
	for i := range rows {
		out[i] = ToReviewResponse(&rows[i])
	}
	return out, total, nil
}

// ApproveReview publishes a review
func (s *Service) ApproveReview(ctx context.Context, tenantID, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, tenantID, id, func(r *tourism.Review) error {
		r.Approve()
		return nil
	})
}

// FlagReview hides a review with a reason
func (s *Service) FlagReview(ctx context.Context, tenantID, id uuid.UUID, req FlagReviewRequest) (*ReviewResponse, error) {
	return s.moderate(ctx, tenantID, id, func(r *tourism.Review) error { return r.Flag(req.Reason) })
}

func (s *Service) moderate(ctx context.Context, tenantID, id uuid.UUID, apply func(*tourism.Review) error) (*ReviewResponse, error) {
	r, err := s.findReview(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(r); err != nil {
		return nil, err
	}
	if err := s.repos.Reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReviewResponse(r)
	return &resp, nil
}

// DeleteReview removes a review
func (s *Service) DeleteReview(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.findReview(ctx, tenantID, id); err != nil {
		return err
	}
	return s.repos.Reviews.DeleteForTenant(ctx, tenantID, id)
}

func (s *Service) findReview(ctx context.Context, tenantID, id uuid.UUID) (*tourism.Review, error) {
	r, err := s.repos.Reviews.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errReviewNotFound
		}
		return nil, err
	}
	return r, nil
}
