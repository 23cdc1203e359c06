package tourism

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/tourism"
	"github.com/shopspring/decimal"
)

// CategoryRequest creates or replaces a tourism category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=50"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(c *tourism.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsActive:    c.IsActive,
	}
}

// LocationRequest creates or replaces a destination
type LocationRequest struct {
	Title            string           `json:"title" binding:"required,max=200"`
	CategoryID       uuid.UUID        `json:"category_id" binding:"required"`
	LocationType     string           `json:"location_type" binding:"omitempty,oneof=natural cultural historical religious culinary adventure education other"`
	ShortDescription string           `json:"short_description" binding:"max=300"`
	FullDescription  string           `json:"full_description"`
	Address          string           `json:"address"`
	Latitude         *decimal.Decimal `json:"latitude"`
	Longitude        *decimal.Decimal `json:"longitude"`
	OpeningHours     string           `json:"opening_hours" binding:"max=200"`
	EntryFee         decimal.Decimal  `json:"entry_fee"`
	ContactPhone     string           `json:"contact_phone" binding:"max=20"`
	ContactEmail     string           `json:"contact_email" binding:"omitempty,email"`
	Facilities       []string         `json:"facilities"`
	Activities       []string         `json:"activities"`
	Featured         bool             `json:"featured"`
	IsActive         *bool            `json:"is_active"`
}

func (r LocationRequest) input() tourism.LocationInput {
	return tourism.LocationInput{
		Title:            r.Title,
		CategoryID:       r.CategoryID,
		LocationType:     tourism.LocationType(r.LocationType),
		ShortDescription: r.ShortDescription,
		FullDescription:  r.FullDescription,
		Address:          r.Address,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		OpeningHours:     r.OpeningHours,
		EntryFee:         r.EntryFee,
		ContactPhone:     r.ContactPhone,
		ContactEmail:     r.ContactEmail,
		Facilities:       r.Facilities,
		Activities:       r.Activities,
		Featured:         r.Featured,
	}
}

// LocationResponse represents a destination in API responses
type LocationResponse struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	CategoryID       uuid.UUID        `json:"category_id"`
	LocationType     string           `json:"location_type"`
	ShortDescription string           `json:"short_description"`
	FullDescription  string           `json:"full_description"`
	Address          string           `json:"address"`
	Latitude         *decimal.Decimal `json:"latitude,omitempty"`
	Longitude        *decimal.Decimal `json:"longitude,omitempty"`
	OpeningHours     string           `json:"opening_hours"`
	EntryFee         decimal.Decimal  `json:"entry_fee"`
	ContactPhone     string           `json:"contact_phone"`
	ContactEmail     string           `json:"contact_email"`
	Facilities       []string         `json:"facilities"`
	Activities       []string         `json:"activities"`
	Status           string           `json:"status"`
	Featured         bool             `json:"featured"`
	IsActive         bool             `json:"is_active"`
	PublishedAt      *time.Time       `json:"published_at,omitempty"`
	ReviewCount      int64            `json:"review_count"`
	AverageRating    float64          `json:"average_rating"`
	CreatedAt        time.Time        `json:"created_at"`
}

// ToLocationResponse converts a destination to its response. stat may be zero.
func ToLocationResponse(l *tourism.Location, stat tourism.RatingStat) LocationResponse {
	return LocationResponse{
		ID:               l.ID,
		Title:            l.Title,
		Slug:             l.Slug,
		CategoryID:       l.CategoryID,
		LocationType:     string(l.LocationType),
		ShortDescription: l.ShortDescription,
		FullDescription:  l.FullDescription,
		Address:          l.Address,
		Latitude:         l.Latitude,
		Longitude:        l.Longitude,
		OpeningHours:     l.OpeningHours,
		EntryFee:         l.EntryFee,
		ContactPhone:     l.ContactPhone,
		ContactEmail:     l.ContactEmail,
		Facilities:       nonNil(l.Facilities),
		Activities:       nonNil(l.Activities),
		Status:           string(l.Status),
		Featured:         l.Featured,
		IsActive:         l.IsActive,
		PublishedAt:      l.PublishedAt,
		ReviewCount:      stat.Count,
		AverageRating:    stat.Average,
		CreatedAt:        l.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ReviewRequest submits a review
type ReviewRequest struct {
	ReviewerName  string     `json:"reviewer_name" binding:"required,max=100"`
	ReviewerEmail string     `json:"reviewer_email" binding:"omitempty,email"`
	Rating        int        `json:"rating" binding:"required,min=1,max=5"`
	Title         string     `json:"title" binding:"max=200"`
	Comment       string     `json:"comment" binding:"required"`
	VisitDate     *time.Time `json:"visit_date"`
	VisitType     string     `json:"visit_type" binding:"omitempty,oneof=personal family group business"`
}

// FlagReviewRequest hides a review
type FlagReviewRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID            uuid.UUID  `json:"id"`
	LocationID    uuid.UUID  `json:"location_id"`
	ReviewerName  string     `json:"reviewer_name"`
	Rating        int        `json:"rating"`
	Title         string     `json:"title"`
	Comment       string     `json:"comment"`
	VisitDate     *time.Time `json:"visit_date,omitempty"`
	VisitType     string     `json:"visit_type"`
	IsApproved    bool       `json:"is_approved"`
	IsFlagged     bool       `json:"is_flagged"`
	FlaggedReason string     `json:"flagged_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToReviewResponse converts a review to its response
func ToReviewResponse(r *tourism.Review) ReviewResponse {
	return ReviewResponse{
		ID:            r.ID,
		LocationID:    r.LocationID,
		ReviewerName:  r.ReviewerName,
		Rating:        r.Rating,
		Title:         r.Title,
		Comment:       r.Comment,
		VisitDate:     r.VisitDate,
		VisitType:     string(r.VisitType),
		IsApproved:    r.IsApproved,
		IsFlagged:     r.IsFlagged,
		FlaggedReason: r.FlaggedReason,
		CreatedAt:     r.CreatedAt,
	}
}

// EventRequest creates or replaces an event
type EventRequest struct {
	LocationID           uuid.UUID  `json:"location_id" binding:"required"`
	Title                string     `json:"title" binding:"required,max=200"`
	EventType            string     `json:"event_type" binding:"required,oneof=festival exhibition workshop competition ceremony other"`
	Description          string     `json:"description"`
	StartDate            time.Time  `json:"start_date" binding:"required"`
	EndDate              time.Time  `json:"end_date" binding:"required"`
	Organizer            string     `json:"organizer" binding:"max=200"`
	ContactInfo          string     `json:"contact_info" binding:"max=200"`
	RegistrationRequired bool       `json:"registration_required"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	IsFeatured           bool       `json:"is_featured"`
}

func (r EventRequest) applyTo(e *tourism.Event) {
	e.LocationID = r.LocationID
	e.Title = r.Title
	e.EventType = tourism.EventType(r.EventType)
	e.Description = r.Description
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	e.Organizer = r.Organizer
	e.ContactInfo = r.ContactInfo
	e.RegistrationRequired = r.RegistrationRequired
	e.RegistrationDeadline = r.RegistrationDeadline
	e.IsFeatured = r.IsFeatured
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID uuid.UUID `json:"id"`
	EventRequest
	CreatedAt time.Time `json:"created_at"`
}

// ToEventResponse converts an event to its response
func ToEventResponse(e *tourism.Event) EventResponse {
	return EventResponse{
		ID: e.ID,
		EventRequest: EventRequest{
			LocationID:           e.LocationID,
			Title:                e.Title,
			EventType:            string(e.EventType),
			Description:          e.Description,
			StartDate:            e.StartDate,
			EndDate:              e.EndDate,
			Organizer:            e.Organizer,
			ContactInfo:          e.ContactInfo,
			RegistrationRequired: e.RegistrationRequired,
			RegistrationDeadline: e.RegistrationDeadline,
			IsFeatured:           e.IsFeatured,
		},
		CreatedAt: e.CreatedAt,
	}
}

// PackageRequest creates or replaces a tour package
type PackageRequest struct {
	LocationID  uuid.UUID       `json:"location_id" binding:"required"`
	Title       string          `json:"title" binding:"required,max=200"`
	PackageType string          `json:"package_type" binding:"required,oneof=day_trip weekend week_long custom"`
	Description string          `json:"description"`
	Duration    string          `json:"duration" binding:"max=100"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	Inclusions  []string        `json:"inclusions"`
	WhatsApp    string          `json:"whatsapp" binding:"max=20"`
	IsActive    *bool           `json:"is_active"`
}

func (r PackageRequest) applyTo(p *tourism.Package) {
	p.LocationID = r.LocationID
	p.Title = r.Title
	p.PackageType = tourism.PackageType(r.PackageType)
	p.Description = r.Description
	p.Duration = r.Duration
	p.Price = r.Price
	p.Currency = r.Currency
	p.Inclusions = r.Inclusions
	p.WhatsApp = r.WhatsApp
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

// PackageResponse represents a tour package in API responses
type PackageResponse struct {
	ID          uuid.UUID       `json:"id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Title       string          `json:"title"`
	PackageType string          `json:"package_type"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Inclusions  []string        `json:"inclusions"`
	WhatsApp    string          `json:"whatsapp"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToPackageResponse converts a package to its response
func ToPackageResponse(p *tourism.Package) PackageResponse {
	return PackageResponse{
		ID:          p.ID,
		LocationID:  p.LocationID,
		Title:       p.Title,
		PackageType: string(p.PackageType),
		Description: p.Description,
		Duration:    p.Duration,
		Price:       p.Price,
		Currency:    p.Currency,
		Inclusions:  nonNil(p.Inclusions),
		WhatsApp:    p.WhatsApp,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}
