package model

import "time"

// Booking status values stored in the bookings.status column.  BOOKED and
// CANCELLED are the only states produced by the booking flow itself;
// PENDING and FAILED exist in the enum and can be reached through the
// generic status update endpoint.
const (
	StatusBooked    = "BOOKED"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
	StatusFailed    = "FAILED"
)

// ValidBookingStatus reports whether s is one of the known status values.
func ValidBookingStatus(s string) bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusPending, StatusFailed:
		return true
	}
	return false
}

// Booking records a user's reservation of a single room in a hotel.  It
// references its user and hotel by foreign key only; there is no object
// graph loading or cascading here — the room counter adjustment is done
// explicitly by the booking flow.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the booking.
//  HotelID   – hotel the room belongs to.
//  Status    – one of the status constants above.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64    `json:"id"`      // bookings.id
	UserID    uint64    `json:"userID"`  // bookings.user_id
	HotelID   uint64    `json:"hotelID"` // bookings.hotel_id
	Status    string    `json:"status"`  // bookings.status
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
