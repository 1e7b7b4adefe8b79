package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource serves bookings from memory, applying the same window and
// exclusion filtering the real repository does.
type fakeSource struct {
	bookings []Booking
	err      error
}

func (f *fakeSource) FindActive(_ context.Context, _ uuid.UUID, from, to time.Time, excludeID *uuid.UUID) ([]Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Booking
	for _, b := range f.bookings {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		iv := b.Interval()
		if iv.Start.Before(to) && from.Before(iv.End) {
			out = append(out, b)
		}
	}
	return out, nil
}

var testDoctor = uuid.MustParse("7a9d2c70-1111-4a2b-9f00-000000000001")

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func newScheduler(src AppointmentSource) *Scheduler {
	return NewScheduler(src, DefaultBusinessHours, zap.NewNop())
}

func TestIntervalOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", Interval{at(9, 0), at(9, 30)}, Interval{at(11, 0), at(11, 30)}, false},
		{"touching endpoints", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 30), at(11, 0)}, false},
		{"partial overlap", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 15), at(10, 45)}, true},
		{"containment", Interval{at(10, 0), at(11, 0)}, Interval{at(10, 15), at(10, 30)}, true},
		{"identical", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 0), at(10, 30)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestHasConflict(t *testing.T) {
	existing := Booking{ID: uuid.New(), StartTime: at(10, 0), DurationMins: 30}

	cases := []struct {
		name     string
		bookings []Booking
		start    time.Time
		duration int
		exclude  *uuid.UUID
		want     bool
	}{
		{"empty calendar", nil, at(10, 0), 30, nil, false},
		{"back-to-back after", []Booking{existing}, at(10, 30), 30, nil, false},
		{"back-to-back before", []Booking{existing}, at(9, 30), 30, nil, false},
		{"strict overlap", []Booking{existing}, at(10, 15), 30, nil, true},
		{"candidate inside existing", []Booking{{ID: uuid.New(), StartTime: at(10, 0), DurationMins: 60}}, at(10, 15), 15, nil, true},
		{"candidate contains existing", []Booking{existing}, at(9, 45), 60, nil, true},
		{"exact same slot", []Booking{existing}, at(10, 0), 30, nil, true},
		{"self excluded on update", []Booking{existing}, at(10, 0), 30, &existing.ID, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newScheduler(&fakeSource{bookings: tc.bookings})
			got, err := s.HasConflict(context.Background(), testDoctor, tc.start, tc.duration, tc.exclude)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasConflictValidation(t *testing.T) {
	s := newScheduler(&fakeSource{})

	_, err := s.HasConflict(context.Background(), uuid.Nil, at(10, 0), 30, nil)
	assert.ErrorIs(t, err, ErrInvalidDoctorID)

	_, err = s.HasConflict(context.Background(), testDoctor, time.Time{}, 30, nil)
	assert.ErrorIs(t, err, ErrInvalidStartTime)

	_, err = s.HasConflict(context.Background(), testDoctor, at(10, 0), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = s.HasConflict(context.Background(), testDoctor, at(10, 0), -15, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestHasConflictPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("connection refused")
	s := newScheduler(&fakeSource{err: srcErr})

	// A store failure must never read as "no conflict".
	_, err := s.HasConflict(context.Background(), testDoctor, at(10, 0), 30, nil)
	assert.ErrorIs(t, err, srcErr)
}

func TestHasConflictIdempotentRead(t *testing.T) {
	s := newScheduler(&fakeSource{bookings: []Booking{
		{ID: uuid.New(), StartTime: at(11, 0), DurationMins: 30},
	}})

	first, err := s.HasConflict(context.Background(), testDoctor, at(11, 15), 30, nil)
	require.NoError(t, err)
	second, err := s.HasConflict(context.Background(), testDoctor, at(11, 15), 30, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	s := newScheduler(&fakeSource{})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)

	// 09:00 through 16:30 inclusive, stepping 30 minutes.
	require.Len(t, slots, 16)
	assert.Equal(t, at(9, 0), slots[0])
	assert.Equal(t, at(9, 30), slots[1])
	assert.Equal(t, at(16, 30), slots[15])
}

func TestAvailableSlotsExcludesBookedSlot(t *testing.T) {
	s := newScheduler(&fakeSource{bookings: []Booking{
		{ID: uuid.New(), StartTime: at(12, 0), DurationMins: 30},
	}})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)

	assert.NotContains(t, slots, at(12, 0))
	assert.Contains(t, slots, at(11, 30))
	assert.Contains(t, slots, at(12, 30))
	assert.Len(t, slots, 15)
}

func TestAvailableSlotsMisalignedBooking(t *testing.T) {
	// A 10:15-10:45 appointment blocks both the 10:00 and 10:30 slots.
	s := newScheduler(&fakeSource{bookings: []Booking{
		{ID: uuid.New(), StartTime: at(10, 15), DurationMins: 30},
	}})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)

	assert.NotContains(t, slots, at(10, 0))
	assert.NotContains(t, slots, at(10, 30))
	assert.Contains(t, slots, at(9, 30))
	assert.Contains(t, slots, at(11, 0))
}

func TestAvailableSlotsNoSlotPastClosing(t *testing.T) {
	s := newScheduler(&fakeSource{})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 45)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	closing := at(17, 0)
	for _, slot := range slots {
		assert.False(t, slot.Add(45*time.Minute).After(closing),
			"slot %s would run past closing", slot.Format("15:04"))
	}
	// Steps land on 09:00, 09:45, ..., 15:45; the next step 16:30 would end 17:15.
	assert.Equal(t, at(15, 45), slots[len(slots)-1])
}

func TestAvailableSlotsFullyBooked(t *testing.T) {
	var bookings []Booking
	for h := 9; h < 17; h++ {
		bookings = append(bookings, Booking{ID: uuid.New(), StartTime: at(h, 0), DurationMins: 60})
	}
	s := newScheduler(&fakeSource{bookings: bookings})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsOrderedAscending(t *testing.T) {
	s := newScheduler(&fakeSource{bookings: []Booking{
		{ID: uuid.New(), StartTime: at(10, 0), DurationMins: 30},
		{ID: uuid.New(), StartTime: at(14, 0), DurationMins: 60},
	}})

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Before(slots[i]), "slots must be ascending")
	}
}

func TestAvailableSlotsIgnoresTimeOfDayOnDate(t *testing.T) {
	s := newScheduler(&fakeSource{})

	morning, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)
	evening, err := s.AvailableSlots(context.Background(), testDoctor, at(19, 42), 30)
	require.NoError(t, err)

	assert.Equal(t, morning, evening)
}

func TestAvailableSlotsCustomWindow(t *testing.T) {
	// Half-day clinic: 08:30-12:00.
	hours := BusinessHours{StartHour: 8, StartMinute: 30, EndHour: 12}
	s := NewScheduler(&fakeSource{}, hours, zap.NewNop())

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	require.NoError(t, err)

	require.Len(t, slots, 7)
	assert.Equal(t, at(8, 30), slots[0])
	assert.Equal(t, at(11, 30), slots[6])
}

func TestAvailableSlotsDurationLongerThanWindow(t *testing.T) {
	hours := BusinessHours{StartHour: 9, EndHour: 10}
	s := NewScheduler(&fakeSource{}, hours, zap.NewNop())

	slots, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 90)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlotsValidation(t *testing.T) {
	s := newScheduler(&fakeSource{})

	_, err := s.AvailableSlots(context.Background(), uuid.Nil, at(0, 0), 30)
	assert.ErrorIs(t, err, ErrInvalidDoctorID)

	_, err = s.AvailableSlots(context.Background(), testDoctor, time.Time{}, 30)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestAvailableSlotsPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("connection refused")
	s := newScheduler(&fakeSource{err: srcErr})

	_, err := s.AvailableSlots(context.Background(), testDoctor, at(0, 0), 30)
	assert.ErrorIs(t, err, srcErr)
}
