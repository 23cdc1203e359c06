package organization

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Type classifies community organizations (karang taruna, PKK, kelompok tani)
type Type struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Type) TableName() string {
	return "organization_types"
}

// Validate checks the type's invariants
func (t *Type) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || len(t.Name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Type name must be 1 to 100 characters")
	}
	return nil
}

// Organization is a community body registered with the village
type Organization struct {
	shared.TenantAggregateRoot
	Name            string     `gorm:"type:varchar(200);not null"`
	TypeID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Description     string     `gorm:"type:text"`
	EstablishedDate *time.Time `gorm:"type:date"`
	LeaderID        *uuid.UUID `gorm:"type:uuid"`
	ContactPhone    string     `gorm:"type:varchar(20)"`
	ContactEmail    string     `gorm:"type:varchar(200)"`
	Address         string     `gorm:"type:text"`
	IsActive        bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// Validate checks the organization's invariants
func (o *Organization) Validate() error {
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" || len(o.Name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Organization name must be 1 to 200 characters")
	}
	if o.TypeID == uuid.Nil {
		return shared.NewDomainError("INVALID_TYPE", "Organization type is required")
	}
	if o.ContactEmail != "" {
		if _, err := mail.ParseAddress(o.ContactEmail); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	return nil
}

// Period is a board term of an organization. At most one period per
// organization is active.
type Period struct {
	shared.TenantAggregateRoot
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(100);not null"`
	StartDate      time.Time `gorm:"type:date;not null"`
	EndDate        time.Time `gorm:"type:date;not null"`
	Description    string    `gorm:"type:text"`
	IsActive       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Period) TableName() string {
	return "organization_periods"
}

// Validate checks the period's invariants
func (p *Period) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || len(p.Name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Period name must be 1 to 100 characters")
	}
	if p.OrganizationID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORGANIZATION", "Organization is required")
	}
	if !p.EndDate.After(p.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Period must end after it starts")
	}
	return nil
}

// Position is a member's role on the board
type Position string

const (
	PositionChair     Position = "ketua"
	PositionViceChair Position = "wakil_ketua"
	PositionSecretary Position = "sekretaris"
	PositionTreasurer Position = "bendahara"
	PositionMember    Position = "anggota"
	PositionBoard     Position = "pengurus"
)

// IsValid reports whether p is a known position
func (p Position) IsValid() bool {
	switch p {
	case PositionChair, PositionViceChair, PositionSecretary, PositionTreasurer, PositionMember, PositionBoard:
		return true
	}
	return false
}

// MemberStatus tracks whether a member still serves
type MemberStatus string

const (
	MemberActive   MemberStatus = "aktif"
	MemberInactive MemberStatus = "non_aktif"
	MemberLeft     MemberStatus = "keluar"
	MemberRetired  MemberStatus = "pensiun"
)

// Member is a resident holding a position in an organization
type Member struct {
	shared.TenantAggregateRoot
	OrganizationID uuid.UUID    `gorm:"type:uuid;not null;index"`
	PendudukID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	PeriodID       *uuid.UUID   `gorm:"type:uuid;index"`
	Position       Position     `gorm:"type:varchar(20);not null"`
	MemberNumber   string       `gorm:"type:varchar(50)"`
	JoinDate       time.Time    `gorm:"type:date;not null"`
	EndDate        *time.Time   `gorm:"type:date"`
	Status         MemberStatus `gorm:"type:varchar(20);not null;default:'aktif';index"`
	Notes          string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "organization_members"
}

// Validate checks the member's invariants. A member with an end date is no longer active.
func (m *Member) Validate() error {
	if m.OrganizationID == uuid.Nil || m.PendudukID == uuid.Nil {
		return shared.NewDomainError("INVALID_MEMBER", "Organization and resident are required")
	}
	if !m.Position.IsValid() {
		return shared.NewDomainError("INVALID_POSITION", "Unknown position")
	}
	if m.JoinDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Join date is required")
	}
	if m.EndDate != nil && m.EndDate.Before(m.JoinDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before join date")
	}
	if m.Status == "" {
		m.Status = MemberActive
	}
	switch m.Status {
	case MemberActive, MemberInactive, MemberLeft, MemberRetired:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown member status")
	}
	if m.EndDate != nil && m.Status == MemberActive {
		m.Status = MemberLeft
	}
	return nil
}

// ActivityType classifies organization activities
type ActivityType string

const (
	ActivityMeeting  ActivityType = "rapat"
	ActivityEvent    ActivityType = "kegiatan"
	ActivityTraining ActivityType = "pelatihan"
	ActivitySocial   ActivityType = "sosial"
	ActivityOther    ActivityType = "lainnya"
)

// Activity is a meeting or program run by an organization
type Activity struct {
	shared.TenantAggregateRoot
	OrganizationID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title             string           `gorm:"type:varchar(200);not null"`
	Description       string           `gorm:"type:text"`
	ActivityType      ActivityType     `gorm:"type:varchar(20);not null"`
	EventDate         time.Time        `gorm:"not null;index"`
	Location          string           `gorm:"type:varchar(200)"`
	ParticipantsCount int              `gorm:"not null;default:0"`
	Budget            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	IsCompleted       bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "organization_activities"
}

// Validate checks the activity's invariants
func (a *Activity) Validate() error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" || len(a.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	if a.OrganizationID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORGANIZATION", "Organization is required")
	}
	switch a.ActivityType {
	case ActivityMeeting, ActivityEvent, ActivityTraining, ActivitySocial, ActivityOther:
	default:
		return shared.NewDomainError("INVALID_ACTIVITY_TYPE", "Unknown activity type")
	}
	if a.EventDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Event date is required")
	}
	if a.ParticipantsCount < 0 {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "Participants cannot be negative")
	}
	if a.Budget != nil && a.Budget.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Budget cannot be negative")
	}
	return nil
}

// Complete records the turnout and closes the activity
func (a *Activity) Complete(participants int) error {
	if a.IsCompleted {
		return shared.NewDomainError("INVALID_STATE", "Activity is already completed")
	}
	if participants < 0 {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "Participants cannot be negative")
	}
	a.IsCompleted = true
	a.ParticipantsCount = participants
	a.Touch()
	a.IncrementVersion()
	return nil
}
