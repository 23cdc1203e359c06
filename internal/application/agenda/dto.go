package agenda

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/agenda"
	"github.com/shopspring/decimal"
)

// CategoryRequest creates or replaces an event category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=50"`
	Color       string `json:"color" binding:"max=20"`
	IsActive    *bool  `json:"is_active"`
}

func (r CategoryRequest) applyTo(c *agenda.Category) {
	c.Name = r.Name
	c.Description = r.Description
	c.Icon = r.Icon
	c.Color = r.Color
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}

// CategoryResponse represents an event category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
}

// ToCategoryResponse converts a category to its response
func ToCategoryResponse(c *agenda.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		IsActive:    c.IsActive,
	}
}

// EventRequest creates or replaces an event
type EventRequest struct {
	Title                string           `json:"title" binding:"required,max=200"`
	CategoryID           uuid.UUID        `json:"category_id" binding:"required"`
	Description          string           `json:"description" binding:"required"`
	ShortDescription     string           `json:"short_description" binding:"max=300"`
	StartDate            time.Time        `json:"start_date" binding:"required"`
	EndDate              *time.Time       `json:"end_date"`
	StartTime            string           `json:"start_time"`
	EndTime              string           `json:"end_time"`
	Location             string           `json:"location" binding:"required,max=200"`
	Address              string           `json:"address"`
	Latitude             *decimal.Decimal `json:"latitude"`
	Longitude            *decimal.Decimal `json:"longitude"`
	MaxParticipants      int              `json:"max_participants" binding:"min=0"`
	AllowRegistration    bool             `json:"allow_registration"`
	RegistrationDeadline *time.Time       `json:"registration_deadline"`
	IsFree               bool             `json:"is_free"`
	Cost                 decimal.Decimal  `json:"cost"`
	Requirements         string           `json:"requirements"`
	ContactPerson        string           `json:"contact_person" binding:"max=100"`
	ContactPhone         string           `json:"contact_phone" binding:"max=20"`
	ContactEmail         string           `json:"contact_email" binding:"omitempty,email"`
	Priority             string           `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Tags                 []string         `json:"tags"`
	IsFeatured           bool             `json:"is_featured"`
}

func (r EventRequest) input() agenda.EventInput {
	return agenda.EventInput{
		Title:                r.Title,
		CategoryID:           r.CategoryID,
		Description:          r.Description,
		ShortDescription:     r.ShortDescription,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		StartTime:            r.StartTime,
		EndTime:              r.EndTime,
		Location:             r.Location,
		Address:              r.Address,
		Latitude:             r.Latitude,
		Longitude:            r.Longitude,
		MaxParticipants:      r.MaxParticipants,
		AllowRegistration:    r.AllowRegistration,
		RegistrationDeadline: r.RegistrationDeadline,
		IsFree:               r.IsFree,
		Cost:                 r.Cost,
		Requirements:         r.Requirements,
		ContactPerson:        r.ContactPerson,
		ContactPhone:         r.ContactPhone,
		ContactEmail:         r.ContactEmail,
		Priority:             agenda.Priority(r.Priority),
		Tags:                 r.Tags,
		IsFeatured:           r.IsFeatured,
	}
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID                   uuid.UUID        `json:"id"`
	Title                string           `json:"title"`
	Slug                 string           `json:"slug"`
	CategoryID           uuid.UUID        `json:"category_id"`
	Description          string           `json:"description"`
	ShortDescription     string           `json:"short_description"`
	StartDate            time.Time        `json:"start_date"`
	EndDate              *time.Time       `json:"end_date,omitempty"`
	StartTime            string           `json:"start_time"`
	EndTime              string           `json:"end_time"`
	Location             string           `json:"location"`
	Address              string           `json:"address"`
	Latitude             *decimal.Decimal `json:"latitude,omitempty"`
	Longitude            *decimal.Decimal `json:"longitude,omitempty"`
	MaxParticipants      int              `json:"max_participants"`
	CurrentParticipants  int              `json:"current_participants"`
	AvailableSlots       int              `json:"available_slots"`
	IsFull               bool             `json:"is_full"`
	AllowRegistration    bool             `json:"allow_registration"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty"`
	IsFree               bool             `json:"is_free"`
	Cost                 decimal.Decimal  `json:"cost"`
	Requirements         string           `json:"requirements"`
	ContactPerson        string           `json:"contact_person"`
	ContactPhone         string           `json:"contact_phone"`
	ContactEmail         string           `json:"contact_email"`
	Status               string           `json:"status"`
	Priority             string           `json:"priority"`
	Tags                 []string         `json:"tags"`
	IsFeatured           bool             `json:"is_featured"`
	ViewsCount           int64            `json:"views_count"`
	PublishedAt          *time.Time       `json:"published_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

// ToEventResponse converts an event to its response
func ToEventResponse(e *agenda.Event) EventResponse {
	return EventResponse{
		ID:                   e.ID,
		Title:                e.Title,
		Slug:                 e.Slug,
		CategoryID:           e.CategoryID,
		Description:          e.Description,
		ShortDescription:     e.ShortDescription,
		StartDate:            e.StartDate,
		EndDate:              e.EndDate,
		StartTime:            e.StartTime,
		EndTime:              e.EndTime,
		Location:             e.Location,
		Address:              e.Address,
		Latitude:             e.Latitude,
		Longitude:            e.Longitude,
		MaxParticipants:      e.MaxParticipants,
		CurrentParticipants:  e.CurrentParticipants,
		AvailableSlots:       e.AvailableSlots(),
		IsFull:               e.IsFull(),
		AllowRegistration:    e.AllowRegistration,
		RegistrationDeadline: e.RegistrationDeadline,
		IsFree:               e.IsFree,
		Cost:                 e.Cost,
		Requirements:         e.Requirements,
		ContactPerson:        e.ContactPerson,
		ContactPhone:         e.ContactPhone,
		ContactEmail:         e.ContactEmail,
		Status:               string(e.Status),
		Priority:             string(e.Priority),
		Tags:                 e.Tags,
		IsFeatured:           e.IsFeatured,
		ViewsCount:           e.ViewsCount,
		PublishedAt:          e.PublishedAt,
		CreatedAt:            e.CreatedAt,
	}
}

// RegisterRequest signs a resident up for an event
type RegisterRequest struct {
	PendudukID         uuid.UUID `json:"penduduk_id" binding:"required"`
	RegistrationSource string    `json:"registration_source" binding:"omitempty,oneof=online offline phone walk_in"`
	Phone              string    `json:"phone" binding:"max=20"`
	Email              string    `json:"email" binding:"omitempty,email"`
	Notes              string    `json:"notes"`
}

// ParticipantResponse represents a registration in API responses
type ParticipantResponse struct {
	ID                 uuid.UUID  `json:"id"`
	EventID            uuid.UUID  `json:"event_id"`
	PendudukID         uuid.UUID  `json:"penduduk_id"`
	RegistrationSource string     `json:"registration_source"`
	Status             string     `json:"status"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	Notes              string     `json:"notes"`
	CheckInTime        *time.Time `json:"check_in_time,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ToParticipantResponse converts a registration to its response
func ToParticipantResponse(p *agenda.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:                 p.ID,
		EventID:            p.EventID,
		PendudukID:         p.PendudukID,
		RegistrationSource: string(p.RegistrationSource),
		Status:             string(p.Status),
		Phone:              p.Phone,
		Email:              p.Email,
		Notes:              p.Notes,
		CheckInTime:        p.CheckInTime,
		CreatedAt:          p.CreatedAt,
	}
}

// StatsResponse summarizes the agenda
type StatsResponse struct {
	TotalEvents        int64            `json:"total_events"`
	EventsByStatus     map[string]int64 `json:"events_by_status"`
	TotalParticipants  int64            `json:"total_participants"`
	ConfirmedAttendees int64            `json:"confirmed_participants"`
	AttendedCount      int64            `json:"attended_participants"`
}
