// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for booking lifecycle events.  One durable queue per event
// type; the routing key equals the queue name on the default exchange.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled.  It
// carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type BookingEvent struct {
	BookingID uint64 `json:"booking_id"`
	UserID    uint64 `json:"user_id"`
	HotelID   uint64 `json:"hotel_id"`
	Status    string `json:"status"`
	Occurred  string `json:"occurred_at"`
}
