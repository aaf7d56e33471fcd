package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tenantID := uuid.New()

	t.Run("Valid client", func(t *testing.T) {
		client, err := NewClient(tenantID, "Acme SRL")

		require.NoError(t, err)
		assert.Equal(t, "Acme SRL", client.Name)
		assert.Equal(t, tenantID, client.TenantID)
		assert.Equal(t, ClientStatusActive, client.Status)
		assert.Equal(t, 1, client.GetVersion())
	})

	t.Run("Name is trimmed", func(t *testing.T) {
		client, err := NewClient(tenantID, "  Acme SRL  ")

		require.NoError(t, err)
		assert.Equal(t, "Acme SRL", client.Name)
	})

	t.Run("Empty name rejected", func(t *testing.T) {
		client, err := NewClient(tenantID, "   ")

		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("Overlong name rejected", func(t *testing.T) {
		long := make([]byte, 201)
		for i := range long {
			long[i] = 'a'
		}
		client, err := NewClient(tenantID, string(long))

		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestClientSetContact(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme SRL")
	require.NoError(t, err)

	t.Run("Valid contact", func(t *testing.T) {
		err := client.SetContact("jane@acme.com", "+40 721 234 567")

		require.NoError(t, err)
		assert.Equal(t, "jane@acme.com", client.Email)
		assert.Equal(t, "+40 721 234 567", client.Phone)
	})

	t.Run("Invalid email rejected", func(t *testing.T) {
		err := client.SetContact("not-an-email", "")
		assert.Error(t, err)
	})

	t.Run("Invalid phone rejected", func(t *testing.T) {
		err := client.SetContact("", "call me maybe")
		assert.Error(t, err)
	})

	t.Run("Empty contact allowed", func(t *testing.T) {
		err := client.SetContact("", "")
		assert.NoError(t, err)
	})
}

func TestClientSetFiscalIdentity(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme SRL")
	require.NoError(t, err)

	err = client.SetFiscalIdentity("RO12345678", "J40/1234/2020")
	require.NoError(t, err)
	assert.Equal(t, "RO12345678", client.CUI)
	assert.Equal(t, "J40/1234/2020", client.RegCom)
}

func TestClientArchiveRestore(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme SRL")
	require.NoError(t, err)

	require.NoError(t, client.Archive())
	assert.False(t, client.IsActive())

	// Double archive is rejected
	assert.Error(t, client.Archive())

	require.NoError(t, client.Restore())
	assert.True(t, client.IsActive())
	assert.Error(t, client.Restore())
}

func TestClientIsCompany(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme SRL")
	require.NoError(t, err)

	assert.False(t, client.IsCompany())

	require.NoError(t, client.Update("Acme SRL", "Jane Doe"))
	assert.True(t, client.IsCompany())

	// Resolver may fall back to using the person name for both fields
	require.NoError(t, client.Update("John Smith", "John Smith"))
	assert.False(t, client.IsCompany())
}

func TestClientGetFullAddress(t *testing.T) {
	client, err := NewClient(uuid.New(), "Acme SRL")
	require.NoError(t, err)

	require.NoError(t, client.SetAddress("Str. Aviatorilor 10", "Bucuresti", "Sector 1", "Romania", "011852"))
	assert.Equal(t, "Str. Aviatorilor 10, Bucuresti, Sector 1, 011852, Romania", client.GetFullAddress())
}
