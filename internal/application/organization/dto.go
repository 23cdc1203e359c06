package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/organization"
	"github.com/shopspring/decimal"
)

// Meta carries the identity and timestamps of a registry entry
type Meta struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func metaOf(id uuid.UUID, created, updated time.Time) Meta {
	return Meta{ID: id, CreatedAt: created, UpdatedAt: updated}
}

// TypeRequest creates or replaces an organization type
type TypeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (r TypeRequest) applyTo(t *organization.Type) {
	t.Name = r.Name
	t.Description = r.Description
	if r.IsActive != nil {
		t.IsActive = *r.IsActive
	}
}

// TypeResponse represents an organization type in API responses
type TypeResponse struct {
	Meta
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// ToTypeResponse converts a type to its response
func ToTypeResponse(t *organization.Type) TypeResponse {
	return TypeResponse{
		Meta:        metaOf(t.ID, t.CreatedAt, t.UpdatedAt),
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
	}
}

// OrganizationRequest creates or replaces an organization
type OrganizationRequest struct {
	Name            string     `json:"name" binding:"required,max=200"`
	TypeID          uuid.UUID  `json:"type_id" binding:"required"`
	Description     string     `json:"description"`
	EstablishedDate *time.Time `json:"established_date"`
	LeaderID        *uuid.UUID `json:"leader_id"`
	ContactPhone    string     `json:"contact_phone" binding:"max=20"`
	ContactEmail    string     `json:"contact_email" binding:"omitempty,email"`
	Address         string     `json:"address"`
	IsActive        *bool      `json:"is_active"`
}

func (r OrganizationRequest) applyTo(o *organization.Organization) {
	o.Name = r.Name
	o.TypeID = r.TypeID
	o.Description = r.Description
	o.EstablishedDate = r.EstablishedDate
	o.LeaderID = r.LeaderID
	o.ContactPhone = r.ContactPhone
	o.ContactEmail = r.ContactEmail
	o.Address = r.Address
	if r.IsActive != nil {
		o.IsActive = *r.IsActive
	}
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	Meta
	Name            string     `json:"name"`
	TypeID          uuid.UUID  `json:"type_id"`
	Description     string     `json:"description"`
	EstablishedDate *time.Time `json:"established_date,omitempty"`
	LeaderID        *uuid.UUID `json:"leader_id,omitempty"`
	ContactPhone    string     `json:"contact_phone"`
	ContactEmail    string     `json:"contact_email"`
	Address         string     `json:"address"`
	IsActive        bool       `json:"is_active"`
}

// ToOrganizationResponse converts an organization to its response
func ToOrganizationResponse(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		Meta:            metaOf(o.ID, o.CreatedAt, o.UpdatedAt),
		Name:            o.Name,
		TypeID:          o.TypeID,
		Description:     o.Description,
		EstablishedDate: o.EstablishedDate,
		LeaderID:        o.LeaderID,
		ContactPhone:    o.ContactPhone,
		ContactEmail:    o.ContactEmail,
		Address:         o.Address,
		IsActive:        o.IsActive,
	}
}

// PeriodRequest creates or replaces a board period. Activation has its own endpoint.
type PeriodRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Name           string    `json:"name" binding:"required,max=100"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	Description    string    `json:"description"`
}

func (r PeriodRequest) applyTo(p *organization.Period) {
	p.OrganizationID = r.OrganizationID
	p.Name = r.Name
	p.StartDate = r.StartDate
	p.EndDate = r.EndDate
	p.Description = r.Description
}

// PeriodResponse represents a board period in API responses
type PeriodResponse struct {
	Meta
	PeriodRequest
	IsActive bool `json:"is_active"`
}

// ToPeriodResponse converts a period to its response
func ToPeriodResponse(p *organization.Period) PeriodResponse {
	return PeriodResponse{
		Meta: metaOf(p.ID, p.CreatedAt, p.UpdatedAt),
		PeriodRequest: PeriodRequest{
			OrganizationID: p.OrganizationID,
			Name:           p.Name,
			StartDate:      p.StartDate,
			EndDate:        p.EndDate,
			Description:    p.Description,
		},
		IsActive: p.IsActive,
	}
}

// MemberRequest creates or replaces a membership
type MemberRequest struct {
	OrganizationID uuid.UUID  `json:"organization_id" binding:"required"`
	PendudukID     uuid.UUID  `json:"penduduk_id" binding:"required"`
	PeriodID       *uuid.UUID `json:"period_id"`
	Position       string     `json:"position" binding:"required,oneof=ketua wakil_ketua sekretaris bendahara anggota pengurus"`
	MemberNumber   string     `json:"member_number" binding:"max=50"`
	JoinDate       time.Time  `json:"join_date" binding:"required"`
	EndDate        *time.Time `json:"end_date"`
	Status         string     `json:"status" binding:"omitempty,oneof=aktif non_aktif keluar pensiun"`
	Notes          string     `json:"notes"`
}

func (r MemberRequest) applyTo(m *organization.Member) {
	m.OrganizationID = r.OrganizationID
	m.PendudukID = r.PendudukID
	m.PeriodID = r.PeriodID
	m.Position = organization.Position(r.Position)
	m.MemberNumber = r.MemberNumber
	m.JoinDate = r.JoinDate
	m.EndDate = r.EndDate
	m.Status = organization.MemberStatus(r.Status)
	m.Notes = r.Notes
}

// MemberResponse represents a membership in API responses
type MemberResponse struct {
	Meta
	MemberRequest
}

// ToMemberResponse converts a membership to its response
func ToMemberResponse(m *organization.Member) MemberResponse {
	return MemberResponse{
		Meta: metaOf(m.ID, m.CreatedAt, m.UpdatedAt),
		MemberRequest: MemberRequest{
			OrganizationID: m.OrganizationID,
			PendudukID:     m.PendudukID,
			PeriodID:       m.PeriodID,
			Position:       string(m.Position),
			MemberNumber:   m.MemberNumber,
			JoinDate:       m.JoinDate,
			EndDate:        m.EndDate,
			Status:         string(m.Status),
			Notes:          m.Notes,
		},
	}
}

// ActivityRequest creates or replaces an activity
type ActivityRequest struct {
	OrganizationID uuid.UUID        `json:"organization_id" binding:"required"`
	Title          string           `json:"title" binding:"required,max=200"`
	Description    string           `json:"description"`
	ActivityType   string           `json:"activity_type" binding:"required,oneof=rapat kegiatan pelatihan sosial lainnya"`
	EventDate      time.Time        `json:"event_date" binding:"required"`
	Location       string           `json:"location" binding:"max=200"`
	Budget         *decimal.Decimal `json:"budget"`
}

func (r ActivityRequest) applyTo(a *organization.Activity) {
	a.OrganizationID = r.OrganizationID
	a.Title = r.Title
	a.Description = r.Description
	a.ActivityType = organization.ActivityType(r.ActivityType)
	a.EventDate = r.EventDate
	a.Location = r.Location
	a.Budget = r.Budget
}

// ActivityResponse represents an activity in API responses
type ActivityResponse struct {
	Meta
	ActivityRequest
	ParticipantsCount int  `json:"participants_count"`
	IsCompleted       bool `json:"is_completed"`
}

// ToActivityResponse converts an activity to its response
func ToActivityResponse(a *organization.Activity) ActivityResponse {
	return ActivityResponse{
		Meta: metaOf(a.ID, a.CreatedAt, a.UpdatedAt),
		ActivityRequest: ActivityRequest{
			OrganizationID: a.OrganizationID,
			Title:          a.Title,
			Description:    a.Description,
			ActivityType:   string(a.ActivityType),
			EventDate:      a.EventDate,
			Location:       a.Location,
			Budget:         a.Budget,
		},
		ParticipantsCount: a.ParticipantsCount,
		IsCompleted:       a.IsCompleted,
	}
}

// CompleteActivityRequest records the turnout of an activity
type CompleteActivityRequest struct {
	ParticipantsCount int `json:"participants_count" binding:"min=0"`
}

// OverviewResponse summarizes one organization
type OverviewResponse struct {
	Organization        OrganizationResponse `json:"organization"`
	ActivePeriod        *PeriodResponse      `json:"active_period,omitempty"`
	ActiveMembers       int64                `json:"active_members"`
	MembersByPosition   map[string]int64     `json:"members_by_position"`
	CompletedActivities int64                `json:"completed_activities"`
	UpcomingActivities  int64                `json:"upcoming_activities"`
}
