package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	t.Run("creates record with references", func(t *testing.T) {
		sellerID := uuid.New()
		listingID := uuid.New()

		r, err := NewRecord(ActionProductConfirmed, Refs{SellerID: &sellerID, ListingID: &listingID}, `{"name":"Red Shoes"}`, Metadata{IPAddress: "203.0.113.9"})
		require.NoError(t, err)

		assert.Equal(t, ActionProductConfirmed, r.Kind)
		assert.Equal(t, &sellerID, r.SellerID)
		assert.Equal(t, &listingID, r.ListingID)
		assert.Nil(t, r.InterestID)
		assert.Equal(t, `{"name":"Red Shoes"}`, r.Payload)
		assert.Equal(t, "203.0.113.9", r.IPAddress)
		assert.False(t, r.CreatedAt.IsZero())
	})

	t.Run("allows record with no references", func(t *testing.T) {
		r, err := NewRecord(ActionError, Refs{}, "", Metadata{})
		require.NoError(t, err)
		assert.Nil(t, r.SellerID)
		assert.Nil(t, r.ListingID)
		assert.Equal(t, "{}", r.Payload)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewRecord(ActionKind("SOMETHING_ELSE"), Refs{}, "", Metadata{})
		require.Error(t, err)
	})
}

func TestActionKindIsValid(t *testing.T) {
	valid := []ActionKind{
		ActionAccountRegistered, ActionProductUploaded, ActionProductConfirmed,
		ActionProductCancelled, ActionProductRemoved, ActionProductRestored,
		ActionInterestSignaled, ActionCatalogViewed, ActionMessageSent,
		ActionMessageReceived, ActionError,
	}
	for _, k := range valid {
		assert.True(t, k.IsValid(), string(k))
	}
	assert.False(t, ActionKind("PRODUCT_ARCHIVED").IsValid())
}
