package tourism

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category groups tourism locations
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(50)"`
	Color       string `gorm:"type:varchar(7);not null;default:'#3B82F6'"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "tourism_categories"
}

// NewCategory creates an active category
func NewCategory(tenantID uuid.UUID, name, description, icon, color string) (*Category, error) {
	c := &Category{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
	if err := c.Update(name, description, icon, color); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, description, icon, color string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1 to 100 characters")
	}
	if color == "" {
		color = "#3B82F6"
	}
	if !colorPattern.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #RRGGBB")
	}
	c.Name = name
	c.Description = description
	c.Icon = icon
	c.Color = strings.ToUpper(color)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// LocationType classifies a destination
type LocationType string

const (
	TypeNatural    LocationType = "natural"
	TypeCultural   LocationType = "cultural"
	TypeHistorical LocationType = "historical"
	TypeReligious  LocationType = "religious"
	TypeCulinary   LocationType = "culinary"
	TypeAdventure  LocationType = "adventure"
	TypeEducation  LocationType = "education"
	TypeOther      LocationType = "other"
)

// IsValid reports whether t is a known location type
func (t LocationType) IsValid() bool {
	switch t {
	case TypeNatural, TypeCultural, TypeHistorical, TypeReligious, TypeCulinary, TypeAdventure, TypeEducation, TypeOther:
		return true
	}
	return false
}

// PublishStatus is the visibility of a location
type PublishStatus string

const (
	StatusDraft     PublishStatus = "draft"
	StatusPublished PublishStatus = "published"
	StatusArchived  PublishStatus = "archived"
)

// Location is a tourism destination
type Location struct {
	shared.TenantAggregateRoot
	Title            string           `gorm:"type:varchar(200);not null"`
	Slug             string           `gorm:"type:varchar(100);not null;index"`
	CategoryID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	LocationType     LocationType     `gorm:"type:varchar(20);not null;default:'natural'"`
	ShortDescription string           `gorm:"type:varchar(300)"`
	FullDescription  string           `gorm:"type:text"`
	Address          string           `gorm:"type:text"`
	Latitude         *decimal.Decimal `gorm:"type:decimal(9,6)"`
	Longitude        *decimal.Decimal `gorm:"type:decimal(9,6)"`
	OpeningHours     string           `gorm:"type:varchar(200)"`
	EntryFee         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ContactPhone     string           `gorm:"type:varchar(20)"`
	ContactEmail     string           `gorm:"type:varchar(200)"`
	Facilities       []string         `gorm:"type:text;serializer:json"`
	Activities       []string         `gorm:"type:text;serializer:json"`
	Status           PublishStatus    `gorm:"type:varchar(20);not null;default:'draft';index"`
	Featured         bool             `gorm:"not null;default:false"`
	IsActive         bool             `gorm:"not null;default:true"`
	PublishedAt      *time.Time
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "tourism_locations"
}

// LocationInput carries the editable location fields
type LocationInput struct {
	Title            string
	CategoryID       uuid.UUID
	LocationType     LocationType
	ShortDescription string
	FullDescription  string
	Address          string
	Latitude         *decimal.Decimal
	Longitude        *decimal.Decimal
	OpeningHours     string
	EntryFee         decimal.Decimal
	ContactPhone     string
	ContactEmail     string
	Facilities       []string
	Activities       []string
	Featured         bool
}

// NewLocation creates a draft location. The slug is assigned by the caller after collision checks.
func NewLocation(tenantID uuid.UUID, in LocationInput) (*Location, error) {
	l := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StatusDraft,
		IsActive:            true,
	}
	if err := l.Update(in); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces the editable fields
func (l *Location) Update(in LocationInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	if in.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if in.LocationType == "" {
		in.LocationType = TypeNatural
	}
	if !in.LocationType.IsValid() {
		return shared.NewDomainError("INVALID_LOCATION_TYPE", "Unknown location type")
	}
	if in.EntryFee.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Entry fee cannot be negative")
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return err
	}
	l.Title = in.Title
	l.CategoryID = in.CategoryID
	l.LocationType = in.LocationType
	l.ShortDescription = in.ShortDescription
	l.FullDescription = in.FullDescription
	l.Address = in.Address
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.OpeningHours = in.OpeningHours
	l.EntryFee = in.EntryFee
	l.ContactPhone = in.ContactPhone
	l.ContactEmail = in.ContactEmail
	l.Facilities = in.Facilities
	l.Activities = in.Activities
	l.Featured = in.Featured
	l.Touch()
	l.IncrementVersion()
	return nil
}

func validateCoordinates(lat, lng *decimal.Decimal) error {
	if lat != nil && (lat.LessThan(decimal.NewFromInt(-90)) || lat.GreaterThan(decimal.NewFromInt(90))) {
		return shared.NewDomainError("INVALID_COORDINATES", "Latitude must be between -90 and 90")
	}
	if lng != nil && (lng.LessThan(decimal.NewFromInt(-180)) || lng.GreaterThan(decimal.NewFromInt(180))) {
		return shared.NewDomainError("INVALID_COORDINATES", "Longitude must be between -180 and 180")
	}
	return nil
}

// Publish makes the location public. published_at is stamped on the first publish only.
func (l *Location) Publish(at time.Time) error {
	if l.Status == StatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Location is already published")
	}
	l.Status = StatusPublished
	if l.PublishedAt == nil {
		l.PublishedAt = &at
	}
	l.Touch()
	l.IncrementVersion()
	return nil
}

// Archive hides the location from public listings
func (l *Location) Archive() error {
	if l.Status == StatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Location is already archived")
	}
	l.Status = StatusArchived
	l.Touch()
	l.IncrementVersion()
	return nil
}

// IsPublic reports whether the location appears in public listings
func (l *Location) IsPublic() bool {
	return l.Status == StatusPublished && l.IsActive
}

// VisitType is who a reviewer travelled with
type VisitType string

const (
	VisitPersonal VisitType = "personal"
	VisitFamily   VisitType = "family"
	VisitGroup    VisitType = "group"
	VisitBusiness VisitType = "business"
)

// Review is a visitor review of a location. Public submissions start unapproved.
type Review struct {
	shared.BaseEntity
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	LocationID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReviewerName  string     `gorm:"type:varchar(100);not null"`
	ReviewerEmail string     `gorm:"type:varchar(200)"`
	Rating        int        `gorm:"not null"`
	Title         string     `gorm:"type:varchar(200)"`
	Comment       string     `gorm:"type:text;not null"`
	VisitDate     *time.Time `gorm:"type:date"`
	VisitType     VisitType  `gorm:"type:varchar(20);not null;default:'personal'"`
	IsApproved    bool       `gorm:"not null;default:false;index"`
	IsFlagged     bool       `gorm:"not null;default:false"`
	FlaggedReason string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "tourism_reviews"
}

// NewReview creates an unapproved review
func NewReview(tenantID, locationID uuid.UUID, reviewer string, rating int, title, comment string, visitType VisitType) (*Review, error) {
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" || len(reviewer) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Reviewer name must be 1 to 100 characters")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment is required")
	}
	if visitType == "" {
		visitType = VisitPersonal
	}
	switch visitType {
	case VisitPersonal, VisitFamily, VisitGroup, VisitBusiness:
	default:
		return nil, shared.NewDomainError("INVALID_VISIT_TYPE", "Unknown visit type")
	}
	return &Review{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     tenantID,
		LocationID:   locationID,
		ReviewerName: reviewer,
		Rating:       rating,
		Title:        title,
		Comment:      comment,
		VisitType:    visitType,
	}, nil
}

// Approve publishes the review and clears any flag
func (r *Review) Approve() {
	r.IsApproved = true
	r.IsFlagged = false
	r.FlaggedReason = ""
	r.Touch()
}

// Flag hides the review pending moderation
func (r *Review) Flag(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "A flag reason is required")
	}
	r.IsFlagged = true
	r.IsApproved = false
	r.FlaggedReason = reason
	r.Touch()
	return nil
}

// EventType classifies tourism events
type EventType string

const (
	EventFestival    EventType = "festival"
	EventExhibition  EventType = "exhibition"
	EventWorkshop    EventType = "workshop"
	EventCompetition EventType = "competition"
	EventCeremony    EventType = "ceremony"
	EventOther       EventType = "other"
)

// Event is a dated happening at a location
type Event struct {
	shared.TenantAggregateRoot
	LocationID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Title                string    `gorm:"type:varchar(200);not null"`
	EventType            EventType `gorm:"type:varchar(20);not null"`
	Description          string    `gorm:"type:text"`
	StartDate            time.Time `gorm:"not null;index"`
	EndDate              time.Time `gorm:"not null"`
	Organizer            string    `gorm:"type:varchar(200)"`
	ContactInfo          string    `gorm:"type:varchar(200)"`
	RegistrationRequired bool      `gorm:"not null;default:false"`
	RegistrationDeadline *time.Time
	IsFeatured           bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "tourism_events"
}

// Validate checks the event's invariants
func (e *Event) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" || len(e.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	switch e.EventType {
	case EventFestival, EventExhibition, EventWorkshop, EventCompetition, EventCeremony, EventOther:
	default:
		return shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown event type")
	}
	if e.EndDate.Before(e.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	if e.RegistrationDeadline != nil && e.RegistrationDeadline.After(e.StartDate) {
		return shared.NewDomainError("INVALID_DATE", "Registration deadline must be before the event starts")
	}
	return nil
}

// PackageType is the length of a tour package
type PackageType string

const (
	PackageDayTrip  PackageType = "day_trip"
	PackageWeekend  PackageType = "weekend"
	PackageWeekLong PackageType = "week_long"
	PackageCustom   PackageType = "custom"
)

// Package is a priced tour offering
type Package struct {
	shared.TenantAggregateRoot
	LocationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	PackageType PackageType     `gorm:"type:varchar(20);not null"`
	Description string          `gorm:"type:text"`
	Duration    string          `gorm:"type:varchar(100)"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'IDR'"`
	Inclusions  []string        `gorm:"type:text;serializer:json"`
	WhatsApp    string          `gorm:"column:whatsapp;type:varchar(20)"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Package) TableName() string {
	return "tourism_packages"
}

// Validate checks the package's invariants
func (p *Package) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || len(p.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	switch p.PackageType {
	case PackageDayTrip, PackageWeekend, PackageWeekLong, PackageCustom:
	default:
		return shared.NewDomainError("INVALID_PACKAGE_TYPE", "Unknown package type")
	}
	if p.Price.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Price cannot be negative")
	}
	if p.Currency == "" {
		p.Currency = "IDR"
	}
	return nil
}
