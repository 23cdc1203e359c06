package agenda

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// CategoryRepository defines persistence for event categories
type CategoryRepository interface {
	shared.TenantStore[Category]
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
}

// EventRepository defines persistence for events
type EventRepository interface {
	shared.TenantStore[Event]
	// FindForUpdate loads an event and locks its row until the transaction ends
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Event, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Event, error)
	SlugExists(ctx context.Context, tenantID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)
	// IncrementViews bumps the public view counter without touching the version
	IncrementViews(ctx context.Context, tenantID, id uuid.UUID) error
}

// ParticipantRepository defines persistence for registrations
type ParticipantRepository interface {
	shared.TenantStore[Participant]
	FindByEventAndResident(ctx context.Context, tenantID, eventID, pendudukID uuid.UUID) (*Participant, error)
	// CountByStatus counts registrations per status. A nil eventID counts across all events.
	CountByStatus(ctx context.Context, tenantID uuid.UUID, eventID *uuid.UUID) (map[ParticipantStatus]int64, error)
}
