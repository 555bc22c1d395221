// Package availability decides whether a vehicle or a customer is free for
// a requested interval, given the reservations already on record.
package availability

import (
	"time"

	"fleetrent-backend/internal/domain"
)

// IsAvailable reports whether the vehicle can take a new reservation for
// interval. Vehicles in maintenance are never available. Any active
// reservation that overlaps interval makes the vehicle unavailable.
func IsAvailable(vehicle *domain.Vehicle, interval domain.Interval, reservations []domain.Reservation) bool {
	if vehicle == nil || vehicle.State == domain.VehicleStateMaintenance {
		return false
	}
	return len(Conflicts(interval, reservations, 0)) == 0
}

// HasCustomerOverlap reports whether any of the customer's active
// reservations overlaps interval.
func HasCustomerOverlap(interval domain.Interval, reservations []domain.Reservation) bool {
	return len(Conflicts(interval, reservations, 0)) > 0
}

// Conflicts returns the active reservations overlapping interval, skipping
// the reservation with excludeID (0 skips nothing).
func Conflicts(interval domain.Interval, reservations []domain.Reservation, excludeID int32) []domain.Reservation {
	var out []domain.Reservation
	for _, r := range reservations {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if r.IsActive() && r.Interval.Overlaps(interval) {
			out = append(out, r)
		}
	}
	return out
}

// OccupiedOn reports whether an active reservation other than excludeID
// covers day.
func OccupiedOn(reservations []domain.Reservation, day time.Time, excludeID int32) bool {
	for _, r := range reservations {
		if r.ID == excludeID {
			continue
		}
		if r.IsActive() && r.Interval.Covers(day) {
			return true
		}
	}
	return false
}
