package prescription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefillAccounting(t *testing.T) {
	p := &Prescription{
		Status:         StatusActive,
		RefillsAllowed: 2,
		ExpiresAt:      time.Now().Add(30 * 24 * time.Hour),
	}

	require.True(t, p.IsRefillable())
	require.NoError(t, p.Refill())
	assert.Equal(t, 1, p.RefillsUsed)
	assert.Equal(t, StatusActive, p.Status)

	// Final refill flips status to dispensed.
	require.NoError(t, p.Refill())
	assert.Equal(t, 2, p.RefillsUsed)
	assert.Equal(t, StatusDispensed, p.Status)

	assert.ErrorIs(t, p.Refill(), ErrNotRefillable)
}

func TestCancel(t *testing.T) {
	p := &Prescription{
		Status:         StatusActive,
		RefillsAllowed: 1,
		ExpiresAt:      time.Now().Add(30 * 24 * time.Hour),
	}

	require.NoError(t, p.Cancel())
	assert.Equal(t, StatusCancelled, p.Status)

	// Cancelled prescriptions cannot be refilled or re-cancelled.
	assert.ErrorIs(t, p.Refill(), ErrNotRefillable)
	assert.ErrorIs(t, p.Cancel(), ErrNotCancellable)
}

func TestExpiredPrescriptionNotRefillable(t *testing.T) {
	p := &Prescription{
		Status:         StatusActive,
		RefillsAllowed: 3,
		ExpiresAt:      time.Now().Add(-time.Hour),
	}

	assert.True(t, p.IsExpired())
	assert.False(t, p.IsRefillable())
	assert.ErrorIs(t, p.Refill(), ErrNotRefillable)
}
