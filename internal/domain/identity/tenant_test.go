package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tenant, err := NewTenant(" pulo-sarok ", " Desa Pulo Sarok ")
	require.NoError(t, err)
	assert.Equal(t, "PULO-SAROK", tenant.Code)
	assert.Equal(t, "Desa Pulo Sarok", tenant.Name)
	assert.True(t, tenant.IsActive())
	assert.Equal(t, 1, tenant.Version)

	_, err = NewTenant("x", "Desa")
	assert.Error(t, err)
	_, err = NewTenant("bad code!", "Desa")
	assert.Error(t, err)
	_, err = NewTenant("DESA", "  ")
	assert.Error(t, err)
}

func TestTenant_StatusTransitions(t *testing.T) {
	tenant, err := NewTenant("DESA", "Desa")
	require.NoError(t, err)

	assert.Error(t, tenant.Activate())
	require.NoError(t, tenant.Deactivate())
	assert.False(t, tenant.IsActive())
	assert.Error(t, tenant.Deactivate())
	require.NoError(t, tenant.Activate())
	assert.True(t, tenant.IsActive())
	assert.Equal(t, 3, tenant.Version)
}

func TestTenant_SetDomain(t *testing.T) {
	tenant, err := NewTenant("DESA", "Desa")
	require.NoError(t, err)
	tenant.SetDomain(" Pulosarok.Desa.ID ")
	assert.Equal(t, "pulosarok.desa.id", tenant.Domain)
}
