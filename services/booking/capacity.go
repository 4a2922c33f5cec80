package booking

import (
	"time"

	"bottega/models"
)

// hourStartMillis returns the unix-millisecond timestamp of a
// (possibly fractional) hour on a date.
func hourStartMillis(date time.Time, hour float64) int64 {
	midnight := dayStart(date)
	return midnight.UnixMilli() + int64(hour*float64(time.Hour/time.Millisecond))
}

// slotForHour finds the slot record whose start matches the hour
// exactly, after normalising second-vs-millisecond encodings.
func slotForHour(slots []models.Slot, date time.Time, hour float64) *models.Slot {
	want := hourStartMillis(date, hour)
	for i := range slots {
		if models.NormalizeMillis(slots[i].StartTime) == want {
			return &slots[i]
		}
	}
	return nil
}

// clockHour converts a unix timestamp (either encoding) to a fractional
// hour of day in the given location.
func clockHour(ts int64, loc *time.Location) float64 {
	t := time.UnixMilli(models.NormalizeMillis(ts)).In(loc)
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

// isProviderBusy reports whether any booking on one of the provider's
// other services overlaps the candidate window [hour, end). Bookings
// against the viewed service are not conflicts: they are accounted for
// by slot capacity instead.
func isProviderBusy(bookings []models.Booking, viewedServiceID int, loc *time.Location, hour, end float64) bool {
	for _, b := range bookings {
		if b.ServiceID == viewedServiceID {
			continue
		}
		if b.SlotStart == 0 || b.SlotEnd == 0 {
			continue
		}
		bStart := clockHour(b.SlotStart, loc)
		bEnd := clockHour(b.SlotEnd, loc)
		// Open-interval overlap: touching windows do not conflict.
		if hour < bEnd && end > bStart {
			return true
		}
	}
	return false
}

// AnnotateHours attaches the capacity/conflict verdict to each
// candidate hour. Pure over its inputs: identical inputs yield
// identical output. Status precedence is fixed: exclusivity and
// provider conflicts dominate the displayed reason even when capacity
// would allow booking.
func AnnotateHours(
	service *models.ServiceOffering,
	date time.Time,
	hours []float64,
	slots []models.Slot,
	providerBookings []models.Booking,
	minQuorum int,
) []models.HourStatus {
	duration := service.DurationHours()
	out := make([]models.HourStatus, 0, len(hours))
	suggested := false

	for _, h := range hours {
		end := h + duration

		remaining := service.MaxCapacityPerSlot
		booked := 0
		exclusive := false
		if slot := slotForHour(slots, date, h); slot != nil {
			remaining = slot.Capacity - slot.BookedCount
			if remaining < 0 {
				remaining = 0
			}
			booked = slot.BookedCount
			exclusive = slot.IsExclusive
		}

		busy := isProviderBusy(providerBookings, service.ID, date.Location(), h, end)

		status := models.HourStatus{
			Hour:      h,
			EndHour:   end,
			Remaining: remaining,
			Blocked:   exclusive || busy || remaining <= 0,
		}
		switch {
		case exclusive:
			status.Status = models.HourStatusExclusive
		case busy:
			status.Status = models.HourStatusProviderBusy
		case remaining <= 0:
			status.Status = models.HourStatusFull
		case booked < minQuorum:
			status.Status = models.HourStatusLowTurnout
		default:
			status.Status = models.HourStatusOpen
		}

		if !status.Blocked && !suggested {
			status.Suggested = true
			suggested = true
		}
		out = append(out, status)
	}
	return out
}
