// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto the HTTP status codes of the existing contract.
package repository

import "errors"

// ErrRoomNotAvailable is returned when the conditional room decrement
// affects no rows because the hotel's counter is already at zero.  The
// booking handler translates this into the contract's 404 "Room not
// available" response.
var ErrRoomNotAvailable = errors.New("room not available")

// ErrHotelNotFound is returned when a hotel cannot be found in the DB.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrBookingNotFound is returned when a booking cannot be found in the DB.
var ErrBookingNotFound = errors.New("booking not found")
