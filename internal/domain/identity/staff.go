package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// StaffRole is the single role a village staff account holds
type StaffRole string

const (
	RoleAdmin      StaffRole = "admin"
	RoleOperator   StaffRole = "operator"
	RoleKepalaDesa StaffRole = "kepala_desa"
	RoleKader      StaffRole = "kader"
)

// IsValid reports whether the role is known
func (r StaffRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleKepalaDesa, RoleKader:
		return true
	}
	return false
}

// CanApproveLetters reports whether the role may approve, reject and sign letters
func (r StaffRole) CanApproveLetters() bool {
	return r == RoleAdmin || r == RoleKepalaDesa
}

// CanManageStaff reports whether the role may create staff accounts
func (r StaffRole) CanManageStaff() bool {
	return r == RoleAdmin
}

// StaffStatus represents the status of a staff account
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "active"
	StaffStatusLocked   StaffStatus = "locked"
	StaffStatusInactive StaffStatus = "inactive"
)

const (
	// MaxLoginAttempts is the number of consecutive failures before lockout
	MaxLoginAttempts = 5
	// LockDuration is how long a locked account stays locked
	LockDuration = 15 * time.Minute

	bcryptCost = 12
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]+$`)

// Staff is a village office account that can sign in to the back office
type Staff struct {
	shared.TenantAggregateRoot
	Username       string      `gorm:"type:varchar(50);not null"`
	DisplayName    string      `gorm:"type:varchar(200)"`
	Email          string      `gorm:"type:varchar(200)"`
	PasswordHash   string      `gorm:"type:varchar(255);not null"`
	Role           StaffRole   `gorm:"type:varchar(20);not null;default:'operator'"`
	Status         StaffStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int         `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (Staff) TableName() string {
	return "staff"
}

// NewStaff creates a new active staff account
func NewStaff(tenantID uuid.UUID, username, password string, role StaffRole) (*Staff, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of admin, operator, kepala_desa, kader")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	s := &Staff{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		PasswordHash:        hash,
		Role:                role,
		Status:              StaffStatusActive,
	}
	s.AddDomainEvent(NewStaffCreatedEvent(s))
	return s, nil
}

// SetProfile updates display name and email
func (s *Staff) SetProfile(displayName, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	s.DisplayName = strings.TrimSpace(displayName)
	s.Email = email
	s.Touch()
	s.IncrementVersion()
	return nil
}

// ChangePassword replaces the password after checking the current one
func (s *Staff) ChangePassword(oldPassword, newPassword string) error {
	if !s.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	s.Touch()
	s.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (s *Staff) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether the account is locked right now. An expired lock counts as unlocked.
func (s *Staff) IsLocked() bool {
	if s.Status != StaffStatusLocked {
		return false
	}
	return s.LockedUntil == nil || time.Now().Before(*s.LockedUntil)
}

// CanLogin returns true if the account may authenticate
func (s *Staff) CanLogin() bool {
	return s.Status != StaffStatusInactive && !s.IsLocked()
}

// RecordLoginSuccess clears the failure counter and any expired lock
func (s *Staff) RecordLoginSuccess(ip string) {
	now := time.Now()
	s.LastLoginAt = &now
	s.LastLoginIP = ip
	s.FailedAttempts = 0
	if s.Status == StaffStatusLocked {
		s.Status = StaffStatusActive
		s.LockedUntil = nil
	}
	s.Touch()
	s.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt and returns true when the account got locked
func (s *Staff) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	s.FailedAttempts++
	s.Touch()
	s.IncrementVersion()

	if s.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		s.Status = StaffStatusLocked
		s.LockedUntil = &until
		s.AddDomainEvent(NewStaffLockedEvent(s))
		return true
	}
	return false
}

// Deactivate disables the account
func (s *Staff) Deactivate() error {
	if s.Status == StaffStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Staff account is already inactive")
	}
	s.Status = StaffStatusInactive
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Activate re-enables an inactive account or lifts a lock early
func (s *Staff) Activate() error {
	if s.Status == StaffStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Staff account is already active")
	}
	s.Status = StaffStatusActive
	s.LockedUntil = nil
	s.FailedAttempts = 0
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetRole changes the role of the account
func (s *Staff) SetRole(role StaffRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be one of admin, operator, kepala_desa, kader")
	}
	s.Role = role
	s.Touch()
	s.IncrementVersion()
	return nil
}

// DisplayNameOrUsername returns display name if set, otherwise username
func (s *Staff) DisplayNameOrUsername() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be between 3 and 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain lowercase letters, numbers, underscores and dots")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
