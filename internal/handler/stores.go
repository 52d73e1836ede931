// Package handler implements the HTTP endpoints of the booking API.
// Handlers depend on narrow store interfaces rather than the concrete
// repository types so that endpoint behavior can be exercised in tests
// with in-memory fakes; the repository package provides the production
// implementations over MySQL.
package handler

import (
	"context"

	"github.com/stayease/hotel-booking/internal/model"
)

// UserStore covers account persistence for the auth and user endpoints.
type UserStore interface {
	Create(ctx context.Context, firstName, lastName, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePassword(ctx context.Context, id uint64, newHash string) error
}

// TokenStore covers the persisted token records backing soft revocation.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string) error
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// HotelStore covers hotel inventory persistence, including the atomic
// room counter adjustments used by the booking flow.
type HotelStore interface {
	Create(ctx context.Context, h *model.Hotel) error
	GetByID(ctx context.Context, id uint64) (*model.Hotel, error)
	List(ctx context.Context) ([]*model.Hotel, error)
	ListAvailable(ctx context.Context, minRooms int64) ([]*model.Hotel, error)
	Update(ctx context.Context, id uint64, fields map[string]any) (*model.Hotel, error)
	Delete(ctx context.Context, id uint64) error
	ReserveRoom(ctx context.Context, id uint64) error
	ReleaseRoom(ctx context.Context, id uint64) error
}

// BookingStore covers booking row persistence.
type BookingStore interface {
	Create(ctx context.Context, userID, hotelID uint64, status string) (*model.Booking, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	MarkCancelled(ctx context.Context, id uint64) (bool, error)
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher publishes booking lifecycle events to the message
// broker.  A nil publisher disables events; failures are logged and
// never interrupt the request flow.
type EventPublisher interface {
	Publish(ctx context.Context, queueName string, event any) error
}
