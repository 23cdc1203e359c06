package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type villageEvent struct {
	BaseDomainEvent
}

func TestTenantAggregateRoot_Events(t *testing.T) {
	tenantID := uuid.New()
	root := NewTenantAggregateRoot(tenantID)

	assert.Equal(t, 1, root.GetVersion())
	assert.True(t, root.BelongsTo(tenantID))
	assert.False(t, root.BelongsTo(uuid.New()))
	assert.Nil(t, root.GetCreatedBy())

	root.AddDomainEvent(&villageEvent{NewBaseDomainEvent("LetterCreated", "Letter", root.ID, tenantID)})
	root.AddDomainEvent(&villageEvent{NewBaseDomainEvent("LetterSigned", "Letter", root.ID, tenantID)})
	require.Len(t, root.GetDomainEvents(), 2)

	events := root.PullDomainEvents()
	require.Len(t, events, 2)
	assert.Empty(t, root.GetDomainEvents())
	assert.Empty(t, root.PullDomainEvents())

	ev := events[1]
	assert.Equal(t, "LetterSigned", ev.EventType())
	assert.Equal(t, "Letter", ev.AggregateType())
	assert.Equal(t, root.ID, ev.AggregateID())
	assert.Equal(t, tenantID, ev.TenantID())
	assert.NotEqual(t, events[0].EventID(), ev.EventID())
	assert.False(t, ev.OccurredAt().IsZero())
}

func TestNewTenantAggregateRootWithCreator(t *testing.T) {
	staffID := uuid.New()
	root := NewTenantAggregateRootWithCreator(uuid.New(), staffID)

	require.NotNil(t, root.GetCreatedBy())
	assert.Equal(t, staffID, *root.GetCreatedBy())

	root.IncrementVersion()
	assert.Equal(t, 2, root.GetVersion())

	before := root.UpdatedAt
	root.Touch()
	assert.False(t, root.UpdatedAt.Before(before))
}
