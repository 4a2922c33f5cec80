package booking

import (
	"testing"
	"time"

	"bottega/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capacityService() *models.ServiceOffering {
	return &models.ServiceOffering{
		ID:                 1,
		DurationMinutes:    60,
		MaxCapacityPerSlot: 8,
	}
}

// millisAt returns the unix-millisecond timestamp of a fractional hour
// on the given day.
func millisAt(day time.Time, hour float64) int64 {
	return day.UnixMilli() + int64(hour*float64(time.Hour/time.Millisecond))
}

func TestAnnotateHoursCapacity(t *testing.T) {
	day := date(2026, 3, 9)
	svc := capacityService()

	t.Run("no slot record uses max capacity and reads open or low turnout", func(t *testing.T) {
		out := AnnotateHours(svc, day, []float64{10}, nil, nil, 2)
		require.Len(t, out, 1)
		assert.Equal(t, models.HourStatusLowTurnout, out[0].Status)
		assert.False(t, out[0].Blocked)
		assert.Equal(t, 8, out[0].Remaining)
	})

	t.Run("full slot blocks the hour", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 5}}
		out := AnnotateHours(svc, day, []float64{10}, slots, nil, 2)
		require.Len(t, out, 1)
		assert.Equal(t, models.HourStatusFull, out[0].Status)
		assert.True(t, out[0].Blocked)
		assert.Equal(t, 0, out[0].Remaining)
	})

	t.Run("overbooked slot clamps remaining to zero", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 7}}
		out := AnnotateHours(svc, day, []float64{10}, slots, nil, 2)
		assert.Equal(t, 0, out[0].Remaining)
		assert.Equal(t, models.HourStatusFull, out[0].Status)
	})

	t.Run("quorum reached reads open", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 2}}
		out := AnnotateHours(svc, day, []float64{10}, slots, nil, 2)
		assert.Equal(t, models.HourStatusOpen, out[0].Status)
		assert.Equal(t, 3, out[0].Remaining)
	})

	t.Run("second encoded slot timestamps still match", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10) / 1000, Capacity: 5, BookedCount: 5}}
		out := AnnotateHours(svc, day, []float64{10}, slots, nil, 2)
		assert.Equal(t, models.HourStatusFull, out[0].Status)
	})
}

func TestAnnotateHoursProviderBusy(t *testing.T) {
	day := date(2026, 3, 9)
	svc := capacityService()

	otherBooking := models.Booking{
		ServiceID: 2,
		SlotStart: millisAt(day, 10),
		SlotEnd:   millisAt(day, 11),
	}

	t.Run("overlapping booking on sibling service blocks", func(t *testing.T) {
		// Candidate 10:30-11:30 overlaps the 10:00-11:00 booking.
		svc90 := capacityService()
		svc90.DurationMinutes = 60
		out := AnnotateHours(svc90, day, []float64{10.5}, nil, []models.Booking{otherBooking}, 2)
		require.Len(t, out, 1)
		assert.Equal(t, models.HourStatusProviderBusy, out[0].Status)
		assert.True(t, out[0].Blocked)
	})

	t.Run("touching windows do not conflict", func(t *testing.T) {
		out := AnnotateHours(svc, day, []float64{11}, nil, []models.Booking{otherBooking}, 2)
		assert.NotEqual(t, models.HourStatusProviderBusy, out[0].Status)
		assert.False(t, out[0].Blocked)
	})

	t.Run("bookings on the viewed service are not conflicts", func(t *testing.T) {
		same := otherBooking
		same.ServiceID = svc.ID
		out := AnnotateHours(svc, day, []float64{10}, nil, []models.Booking{same}, 2)
		assert.NotEqual(t, models.HourStatusProviderBusy, out[0].Status)
	})

	t.Run("bookings without window bounds are skipped", func(t *testing.T) {
		unbounded := models.Booking{ServiceID: 2}
		out := AnnotateHours(svc, day, []float64{10}, nil, []models.Booking{unbounded}, 2)
		assert.False(t, out[0].Blocked)
	})
}

func TestAnnotateHoursPrecedence(t *testing.T) {
	day := date(2026, 3, 9)
	svc := capacityService()

	busy := []models.Booking{{ServiceID: 2, SlotStart: millisAt(day, 10), SlotEnd: millisAt(day, 11)}}

	t.Run("exclusive dominates everything", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 5, IsExclusive: true}}
		out := AnnotateHours(svc, day, []float64{10}, slots, busy, 2)
		assert.Equal(t, models.HourStatusExclusive, out[0].Status)
	})

	t.Run("provider busy dominates full", func(t *testing.T) {
		slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 5}}
		out := AnnotateHours(svc, day, []float64{10}, slots, busy, 2)
		assert.Equal(t, models.HourStatusProviderBusy, out[0].Status)
	})
}

func TestAnnotateHoursSuggested(t *testing.T) {
	day := date(2026, 3, 9)
	svc := capacityService()

	slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 9), Capacity: 5, BookedCount: 5}}
	out := AnnotateHours(svc, day, []float64{9, 10, 11}, slots, nil, 2)
	require.Len(t, out, 3)

	// First non-blocked hour carries the hint, and only that one.
	assert.False(t, out[0].Suggested)
	assert.True(t, out[1].Suggested)
	assert.False(t, out[2].Suggested)
}

func TestAnnotateHoursDeterministic(t *testing.T) {
	day := date(2026, 3, 9)
	svc := capacityService()
	slots := []models.Slot{{ServiceID: 1, StartTime: millisAt(day, 10), Capacity: 5, BookedCount: 3}}

	first := AnnotateHours(svc, day, []float64{9, 10}, slots, nil, 2)
	second := AnnotateHours(svc, day, []float64{9, 10}, slots, nil, 2)
	assert.Equal(t, first, second)
}
