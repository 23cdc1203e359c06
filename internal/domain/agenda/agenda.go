package agenda

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Category groups village events
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(50)"`
	Color       string `gorm:"type:varchar(20);not null;default:'blue'"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "event_categories"
}

// Validate checks the category's invariants
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" || len(c.Name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1 to 100 characters")
	}
	if c.Color == "" {
		c.Color = "blue"
	}
	return nil
}

// Status is the lifecycle state of an event
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Priority ranks events on the agenda
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Event is an agenda item residents can attend and, when allowed, register for
type Event struct {
	shared.TenantAggregateRoot
	Title                string           `gorm:"type:varchar(200);not null"`
	Slug                 string           `gorm:"type:varchar(100);not null;index"`
	CategoryID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	Description          string           `gorm:"type:text;not null"`
	ShortDescription     string           `gorm:"type:varchar(300)"`
	StartDate            time.Time        `gorm:"type:date;not null;index"`
	EndDate              *time.Time       `gorm:"type:date"`
	StartTime            string           `gorm:"type:varchar(5)"`
	EndTime              string           `gorm:"type:varchar(5)"`
	Location             string           `gorm:"type:varchar(200);not null"`
	Address              string           `gorm:"type:text"`
	Latitude             *decimal.Decimal `gorm:"type:decimal(9,6)"`
	Longitude            *decimal.Decimal `gorm:"type:decimal(9,6)"`
	MaxParticipants      int              `gorm:"not null;default:0"`
	CurrentParticipants  int              `gorm:"not null;default:0"`
	AllowRegistration    bool             `gorm:"not null;default:false"`
	RegistrationDeadline *time.Time
	IsFree               bool            `gorm:"not null;default:true"`
	Cost                 decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Requirements         string          `gorm:"type:text"`
	ContactPerson        string          `gorm:"type:varchar(100)"`
	ContactPhone         string          `gorm:"type:varchar(20)"`
	ContactEmail         string          `gorm:"type:varchar(200)"`
	Status               Status          `gorm:"type:varchar(20);not null;default:'draft';index"`
	Priority             Priority        `gorm:"type:varchar(10);not null;default:'normal'"`
	Tags                 []string        `gorm:"type:text;serializer:json"`
	IsFeatured           bool            `gorm:"not null;default:false"`
	ViewsCount           int64           `gorm:"<-:create;not null;default:0"`
	PublishedAt          *time.Time
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// EventInput carries the editable event fields
type EventInput struct {
	Title                string
	CategoryID           uuid.UUID
	Description          string
	ShortDescription     string
	StartDate            time.Time
	EndDate              *time.Time
	StartTime            string
	EndTime              string
	Location             string
	Address              string
	Latitude             *decimal.Decimal
	Longitude            *decimal.Decimal
	MaxParticipants      int
	AllowRegistration    bool
	RegistrationDeadline *time.Time
	IsFree               bool
	Cost                 decimal.Decimal
	Requirements         string
	ContactPerson        string
	ContactPhone         string
	ContactEmail         string
	Priority             Priority
	Tags                 []string
	IsFeatured           bool
}

// NewEvent creates a draft event. The slug is assigned by the caller after collision checks.
func NewEvent(tenantID uuid.UUID, in EventInput) (*Event, error) {
	e := &Event{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), Status: StatusDraft}
	if err := e.Update(in); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields. Capacity cannot drop below the seats already taken.
func (e *Event) Update(in EventInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	if in.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return shared.NewDomainError("INVALID_LOCATION", "Location is required")
	}
	if in.StartDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	for _, t := range []string{in.StartTime, in.EndTime} {
		if t != "" && !clockPattern.MatchString(t) {
			return shared.NewDomainError("INVALID_TIME", "Time must be HH:MM")
		}
	}
	if in.RegistrationDeadline != nil && in.RegistrationDeadline.After(endOfDay(in.StartDate)) {
		return shared.NewDomainError("INVALID_DATE", "Registration deadline must be before the event starts")
	}
	if in.MaxParticipants < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Maximum participants cannot be negative")
	}
	if in.MaxParticipants > 0 && in.MaxParticipants < e.CurrentParticipants {
		return shared.NewDomainError("INVALID_CAPACITY", "Maximum participants is below the current registrations")
	}
	if in.Cost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cost cannot be negative")
	}
	if in.IsFree {
		in.Cost = decimal.Zero
	}
	if in.ContactEmail != "" {
		if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	if !in.Priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority")
	}
	e.Title = in.Title
	e.CategoryID = in.CategoryID
	e.Description = in.Description
	e.ShortDescription = in.ShortDescription
	e.StartDate = in.StartDate
	e.EndDate = in.EndDate
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	e.Location = strings.TrimSpace(in.Location)
	e.Address = in.Address
	e.Latitude = in.Latitude
	e.Longitude = in.Longitude
	e.MaxParticipants = in.MaxParticipants
	e.AllowRegistration = in.AllowRegistration
	e.RegistrationDeadline = in.RegistrationDeadline
	e.IsFree = in.IsFree
	e.Cost = in.Cost
	e.Requirements = in.Requirements
	e.ContactPerson = in.ContactPerson
	e.ContactPhone = in.ContactPhone
	e.ContactEmail = in.ContactEmail
	e.Priority = in.Priority
	e.Tags = in.Tags
	e.IsFeatured = in.IsFeatured
	e.Touch()
	e.IncrementVersion()
	return nil
}

func endOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, 0, d.Location())
}

// IsFull reports whether a capped event has no seats left. Zero means unlimited.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && e.CurrentParticipants >= e.MaxParticipants
}

// AvailableSlots returns the free seats, or -1 for an unlimited event
func (e *Event) AvailableSlots() int {
	if e.MaxParticipants == 0 {
		return -1
	}
	if n := e.MaxParticipants - e.CurrentParticipants; n > 0 {
		return n
	}
	return 0
}

// CheckRegistration reports why a new registration would be refused at now
func (e *Event) CheckRegistration(now time.Time) error {
	if !e.AllowRegistration {
		return shared.NewDomainError("REGISTRATION_CLOSED", "Event does not accept registrations")
	}
	if e.Status != StatusPublished {
		return shared.NewDomainError("REGISTRATION_CLOSED", "Event is not open for registration")
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return shared.NewDomainError("REGISTRATION_CLOSED", "Registration deadline has passed")
	}
	if e.IsFull() {
		return shared.NewDomainError("EVENT_FULL", "Event has no seats left")
	}
	return nil
}

// TakeSeat records one registration
func (e *Event) TakeSeat(now time.Time) error {
	if err := e.CheckRegistration(now); err != nil {
		return err
	}
	e.CurrentParticipants++
	e.Touch()
	e.IncrementVersion()
	return nil
}

// ReleaseSeat gives back the seat of a cancelled registration
func (e *Event) ReleaseSeat() {
	if e.CurrentParticipants > 0 {
		e.CurrentParticipants--
	}
	e.Touch()
	e.IncrementVersion()
}

// Publish opens the event to the public. published_at is stamped on the first publish only.
func (e *Event) Publish(at time.Time) error {
	if e.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft events can be published")
	}
	e.Status = StatusPublished
	if e.PublishedAt == nil {
		e.PublishedAt = &at
	}
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Start marks a published event as running
func (e *Event) Start() error {
	if e.Status != StatusPublished {
		return shared.NewDomainError("INVALID_STATE", "Only published events can start")
	}
	return e.moveTo(StatusOngoing)
}

// Complete closes a published or running event
func (e *Event) Complete() error {
	if e.Status != StatusPublished && e.Status != StatusOngoing {
		return shared.NewDomainError("INVALID_STATE", "Only published or ongoing events can complete")
	}
	return e.moveTo(StatusCompleted)
}

// Cancel calls off an event that has not finished
func (e *Event) Cancel() error {
	if e.Status == StatusCompleted || e.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Event is already closed")
	}
	return e.moveTo(StatusCancelled)
}

func (e *Event) moveTo(s Status) error {
	e.Status = s
	e.Touch()
	e.IncrementVersion()
	return nil
}

// IsPublic reports whether the event appears on the public agenda
func (e *Event) IsPublic() bool {
	switch e.Status {
	case StatusPublished, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Source is the channel a registration came through
type Source string

const (
	SourceOnline  Source = "online"
	SourceOffline Source = "offline"
	SourcePhone   Source = "phone"
	SourceWalkIn  Source = "walk_in"
)

// IsValid reports whether s is a known source
func (s Source) IsValid() bool {
	switch s {
	case SourceOnline, SourceOffline, SourcePhone, SourceWalkIn:
		return true
	}
	return false
}

// ParticipantStatus is the attendance state of a registration
type ParticipantStatus string

const (
	ParticipantPending   ParticipantStatus = "pending"
	ParticipantConfirmed ParticipantStatus = "confirmed"
	ParticipantAttended  ParticipantStatus = "attended"
	ParticipantAbsent    ParticipantStatus = "absent"
	ParticipantCancelled ParticipantStatus = "cancelled"
)

// Participant is a resident registered for an event. A resident registers once per event.
type Participant struct {
	shared.TenantAggregateRoot
	EventID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	PendudukID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	RegistrationSource Source            `gorm:"type:varchar(10);not null;default:'online'"`
	Status             ParticipantStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
	Phone              string            `gorm:"type:varchar(20)"`
	Email              string            `gorm:"type:varchar(200)"`
	Notes              string            `gorm:"type:text"`
	CheckInTime        *time.Time
}

// TableName returns the table name for GORM
func (Participant) TableName() string {
	return "event_participants"
}

// NewParticipant creates a pending registration
func NewParticipant(tenantID, eventID, pendudukID uuid.UUID, source Source, phone, email, notes string) (*Participant, error) {
	if source == "" {
		source = SourceOnline
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown registration source")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	return &Participant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EventID:             eventID,
		PendudukID:          pendudukID,
		RegistrationSource:  source,
		Status:              ParticipantPending,
		Phone:               phone,
		Email:               email,
		Notes:               notes,
	}, nil
}

// HoldsSeat reports whether the registration counts against capacity
func (p *Participant) HoldsSeat() bool {
	return p.Status != ParticipantCancelled
}

// Reopen turns a cancelled registration back into a pending one
func (p *Participant) Reopen(source Source) error {
	if p.Status != ParticipantCancelled {
		return shared.NewDomainError("ALREADY_REGISTERED", "Resident is already registered for this event")
	}
	if source != "" && source.IsValid() {
		p.RegistrationSource = source
	}
	p.CheckInTime = nil
	return p.moveTo(ParticipantPending)
}

// Confirm accepts a pending registration
func (p *Participant) Confirm() error {
	if p.Status != ParticipantPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending registrations can be confirmed")
	}
	return p.moveTo(ParticipantConfirmed)
}

// CheckIn records attendance at the venue
func (p *Participant) CheckIn(at time.Time) error {
	if p.Status != ParticipantPending && p.Status != ParticipantConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Registration cannot be checked in")
	}
	p.CheckInTime = &at
	return p.moveTo(ParticipantAttended)
}

// MarkAbsent records a no-show
func (p *Participant) MarkAbsent() error {
	if p.Status != ParticipantPending && p.Status != ParticipantConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Registration cannot be marked absent")
	}
	return p.moveTo(ParticipantAbsent)
}

// Cancel withdraws a registration that has not been attended
func (p *Participant) Cancel() error {
	switch p.Status {
	case ParticipantAttended:
		return shared.NewDomainError("INVALID_STATE", "Attended registrations cannot be cancelled")
	case ParticipantCancelled:
		return shared.NewDomainError("INVALID_STATE", "Registration is already cancelled")
	}
	return p.moveTo(ParticipantCancelled)
}

func (p *Participant) moveTo(s ParticipantStatus) error {
	p.Status = s
	p.Touch()
	p.IncrementVersion()
	return nil
}
