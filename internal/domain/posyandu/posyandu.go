package posyandu

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// Location is a posyandu post
type Location struct {
	shared.TenantAggregateRoot
	Name          string     `gorm:"type:varchar(200);not null"`
	Address       string     `gorm:"type:text;not null"`
	CoordinatorID *uuid.UUID `gorm:"type:uuid"`
	ContactPhone  string     `gorm:"type:varchar(20)"`
	Capacity      int        `gorm:"not null;default:0"`
	Facilities    string     `gorm:"type:text"`
	IsActive      bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "posyandu_locations"
}

// NewLocation creates an active posyandu location
func NewLocation(tenantID uuid.UUID, name, address string, capacity int) (*Location, error) {
	l := &Location{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), IsActive: true}
	if err := l.Update(name, address, capacity); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces the core fields
func (l *Location) Update(name, address string, capacity int) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Location name must be 1 to 200 characters")
	}
	if strings.TrimSpace(address) == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	if capacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}
	l.Name = name
	l.Address = address
	l.Capacity = capacity
	l.Touch()
	l.IncrementVersion()
	return nil
}

// ActivityType is the kind of posyandu session
type ActivityType string

const (
	ActivityCheckup      ActivityType = "pemeriksaan"
	ActivityImmunization ActivityType = "imunisasi"
	ActivityCounseling   ActivityType = "penyuluhan"
	ActivityWeighing     ActivityType = "penimbangan"
	ActivityVitamin      ActivityType = "vitamin"
	ActivityOther        ActivityType = "lainnya"
)

// IsValid reports whether a is a known activity type
func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityCheckup, ActivityImmunization, ActivityCounseling, ActivityWeighing, ActivityVitamin, ActivityOther:
		return true
	}
	return false
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Schedule is a planned session at a location
type Schedule struct {
	shared.TenantAggregateRoot
	LocationID         uuid.UUID    `gorm:"type:uuid;not null;index"`
	ActivityType       ActivityType `gorm:"type:varchar(20);not null"`
	Title              string       `gorm:"type:varchar(200);not null"`
	Description        string       `gorm:"type:text"`
	ScheduleDate       time.Time    `gorm:"type:date;not null;index"`
	StartTime          string       `gorm:"type:varchar(5);not null"`
	EndTime            string       `gorm:"type:varchar(5);not null"`
	TargetParticipants int          `gorm:"not null;default:0"`
	ActualParticipants int          `gorm:"not null;default:0"`
	IsCompleted        bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Schedule) TableName() string {
	return "posyandu_schedules"
}

// ScheduleInput carries the editable schedule fields
type ScheduleInput struct {
	ActivityType       ActivityType
	Title              string
	Description        string
	ScheduleDate       time.Time
	StartTime          string
	EndTime            string
	TargetParticipants int
}

// NewSchedule plans a session at a location
func NewSchedule(tenantID, locationID uuid.UUID, in ScheduleInput) (*Schedule, error) {
	s := &Schedule{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID), LocationID: locationID}
	if err := s.Update(in); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the planned fields. Times are HH:MM and the session must end after it starts.
func (s *Schedule) Update(in ScheduleInput) error {
	if !in.ActivityType.IsValid() {
		return shared.NewDomainError("INVALID_ACTIVITY_TYPE", "Unknown activity type")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1 to 200 characters")
	}
	if !clockPattern.MatchString(in.StartTime) || !clockPattern.MatchString(in.EndTime) {
		return shared.NewDomainError("INVALID_TIME", "Times must use HH:MM")
	}
	if in.StartTime >= in.EndTime {
		return shared.NewDomainError("INVALID_TIME_RANGE", "Start time must be before end time")
	}
	if in.TargetParticipants < 0 {
		return shared.NewDomainError("INVALID_TARGET", "Target participants cannot be negative")
	}
	s.ActivityType = in.ActivityType
	s.Title = in.Title
	s.Description = in.Description
	s.ScheduleDate = in.ScheduleDate
	s.StartTime = in.StartTime
	s.EndTime = in.EndTime
	s.TargetParticipants = in.TargetParticipants
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Complete marks the session held with its attendance
func (s *Schedule) Complete(actual int) error {
	if s.IsCompleted {
		return shared.NewDomainError("INVALID_STATE", "Schedule is already completed")
	}
	if actual < 0 {
		return shared.NewDomainError("INVALID_PARTICIPANTS", "Actual participants cannot be negative")
	}
	s.ActualParticipants = actual
	s.IsCompleted = true
	s.Touch()
	s.IncrementVersion()
	return nil
}
