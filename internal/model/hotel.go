package model

import "time"

// Hotel represents a bookable property persisted in the `hotels` table.
// Room inventory is tracked as a simple counter: NoOfRooms is decremented
// when a booking is created and incremented when one is cancelled.  The
// counter can never go negative; the repository enforces this with a
// conditional decrement.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the hotel.
//  Description – free-form description text.
//  NoOfRooms   – number of rooms currently available (>= 0).
//  Location    – the hotel's one-to-one location record, if loaded.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hotel struct {
	ID          uint64    `json:"id"`          // hotels.id
	Name        string    `json:"name"`        // hotels.name
	Description string    `json:"description"` // hotels.description
	NoOfRooms   int64     `json:"noOfRooms"`   // hotels.no_of_rooms
	Location    *Location `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location is the address record owned by exactly one hotel.  It lives in
// the `locations` table and is written in the same transaction as its
// hotel on create, and removed together with it on delete.
//
// Fields:
//  ID        – primary key identifier.
//  HotelID   – owning hotel (unique foreign key).
//  Address   – required street address.
//  Latitude  – optional latitude (nil when unknown).
//  Longitude – optional longitude (nil when unknown).
type Location struct {
	ID        uint64   `json:"id"`      // locations.id
	HotelID   uint64   `json:"-"`       // locations.hotel_id
	Address   string   `json:"address"` // locations.address
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
