package seller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeller(t *testing.T) {
	t.Run("creates active seller with valid inputs", func(t *testing.T) {
		s, err := NewSeller("15551234567", "ab12cd34")
		require.NoError(t, err)
		require.NotNil(t, s)

		assert.Equal(t, "15551234567", s.ChannelID)
		assert.Equal(t, "ab12cd34", s.CatalogSlug)
		assert.True(t, s.Active)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, 1, s.GetVersion())
	})

	t.Run("normalizes leading plus", func(t *testing.T) {
		s, err := NewSeller("+15551234567", "ab12cd34")
		require.NoError(t, err)
		assert.Equal(t, "15551234567", s.ChannelID)
	})

	t.Run("publishes SellerRegistered event", func(t *testing.T) {
		s, err := NewSeller("15551234567", "ab12cd34")
		require.NoError(t, err)

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSellerRegistered, events[0].EventType())

		event, ok := events[0].(*SellerRegisteredEvent)
		require.True(t, ok)
		assert.Equal(t, s.ID, event.SellerID)
		assert.Equal(t, s.ChannelID, event.ChannelID)
		assert.Equal(t, s.CatalogSlug, event.CatalogSlug)
	})

	t.Run("fails with empty channel id", func(t *testing.T) {
		_, err := NewSeller("", "ab12cd34")
		require.Error(t, err)
	})

	t.Run("fails with non-digit channel id", func(t *testing.T) {
		_, err := NewSeller("555-123-4567", "ab12cd34")
		require.Error(t, err)
	})

	t.Run("fails with invalid slug", func(t *testing.T) {
		_, err := NewSeller("15551234567", "SHORT")
		require.Error(t, err)
	})
}

func TestSellerUpdateProfile(t *testing.T) {
	s, err := NewSeller("15551234567", "ab12cd34")
	require.NoError(t, err)
	s.ClearDomainEvents()

	require.NoError(t, s.UpdateProfile("Jo's Shop"))
	assert.Equal(t, "Jo's Shop", s.DisplayName)
	assert.Equal(t, 2, s.GetVersion())

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSellerProfileUpdated, events[0].EventType())
}

func TestSellerActivation(t *testing.T) {
	s, err := NewSeller("15551234567", "ab12cd34")
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.Active)

	// idempotent
	version := s.GetVersion()
	s.Deactivate()
	assert.Equal(t, version, s.GetVersion())

	s.Activate()
	assert.True(t, s.Active)
}
