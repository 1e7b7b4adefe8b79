package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndsAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	a := &Appointment{ScheduledAt: start, DurationMins: 45}
	assert.Equal(t, start.Add(45*time.Minute), a.EndsAt())
}

func TestStatusIsActive(t *testing.T) {
	active := []Status{StatusScheduled, StatusConfirmed, StatusInProgress}
	inactive := []Status{StatusCompleted, StatusCancelled, StatusNoShow}

	for _, s := range active {
		assert.True(t, s.IsActive(), "%s should occupy the calendar", s)
	}
	for _, s := range inactive {
		assert.False(t, s.IsActive(), "%s should not occupy the calendar", s)
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusScheduled, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		a := &Appointment{Status: tc.from}
		assert.Equal(t, tc.want, a.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
}

func TestCancelRecordsTracking(t *testing.T) {
	by := uuid.New()
	a := &Appointment{Status: StatusScheduled}

	require.NoError(t, a.Cancel("patient request", by))
	assert.Equal(t, StatusCancelled, a.Status)
	assert.NotNil(t, a.CancelledAt)
	assert.Equal(t, "patient request", a.CancellationReason)
	require.NotNil(t, a.CancelledBy)
	assert.Equal(t, by, *a.CancelledBy)

	// Cancelled is terminal.
	assert.ErrorIs(t, a.Cancel("again", by), ErrInvalidStatusTransition)
}

func TestCompleteOnlyFromInProgress(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}
	assert.ErrorIs(t, a.Complete(), ErrInvalidStatusTransition)

	a.Status = StatusInProgress
	require.NoError(t, a.Complete())
	assert.Equal(t, StatusCompleted, a.Status)
	assert.NotNil(t, a.CompletedAt)
}
