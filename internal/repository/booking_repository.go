package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stayease/hotel-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking links a
// user and a hotel by foreign key and carries a status; room counter
// adjustments are the booking flow's responsibility, not this repo's.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id, user_id, hotel_id, status, created_at, updated_at"

// Create inserts a booking row and returns the fully populated record.
func (r *BookingRepo) Create(ctx context.Context, userID, hotelID uint64, status string) (*model.Booking, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (user_id, hotel_id, status) VALUES (?,?,?)",
		userID, hotelID, status)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a booking by id.  ErrBookingNotFound is returned when
// no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.UserID, &b.HotelID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns all bookings ordered by id.
func (r *BookingRepo) List(ctx context.Context) ([]*model.Booking, error) {
	return r.queryBookings(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY id")
}

// ListByStatus returns all bookings carrying the given status.
func (r *BookingRepo) ListByStatus(ctx context.Context, status string) ([]*model.Booking, error) {
	return r.queryBookings(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE status=? ORDER BY id", status)
}

func (r *BookingRepo) queryBookings(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.HotelID, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus overwrites the status column.  Existence must be checked
// by the caller first: MySQL reports zero affected rows for a no-op
// status write, so RowsAffected cannot distinguish missing from
// unchanged here.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		status, id)
	return err
}

// MarkCancelled flips a booking to CANCELLED unless it already is.  The
// status guard in the WHERE clause makes the transition atomic: of two
// concurrent cancels only one sees an affected row, so callers can key
// the room-count restore off the returned flag and the counter is never
// restored twice.  The same-value caveat on UpdateStatus does not apply
// here — a row matching the guard always changes value.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status<>?",
		model.StatusCancelled, id, model.StatusCancelled)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a booking row.  ErrBookingNotFound is returned when the
// id is unknown.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
