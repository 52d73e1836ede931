// This file defines repository methods for hotels and their locations.
// A hotel owns exactly one location row; the two are written inside one
// transaction on create and removed together on delete.  Room inventory
// lives in the hotels.no_of_rooms column and is adjusted through the
// ReserveRoom / ReleaseRoom methods rather than read-modify-write cycles.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stayease/hotel-booking/internal/model"
)

// HotelRepo encapsulates all database queries related to hotels.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the provided DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

const hotelSelect = `SELECT h.id, h.name, h.description, h.no_of_rooms, h.created_at, h.updated_at,
                            l.id, l.address, l.latitude, l.longitude
                     FROM hotels h
                     LEFT JOIN locations l ON l.hotel_id = h.id`

// scanHotel reads one joined hotel+location row.  The location columns
// may all be NULL when no location row exists yet.
func scanHotel(scan func(dest ...any) error) (*model.Hotel, error) {
	var (
		h      model.Hotel
		locID  sql.NullInt64
		addr   sql.NullString
		lat    sql.NullFloat64
		lng    sql.NullFloat64
	)
	if err := scan(&h.ID, &h.Name, &h.Description, &h.NoOfRooms, &h.CreatedAt, &h.UpdatedAt,
		&locID, &addr, &lat, &lng); err != nil {
		return nil, err
	}
	if locID.Valid {
		loc := &model.Location{ID: uint64(locID.Int64), HotelID: h.ID, Address: addr.String}
		if lat.Valid {
			v := lat.Float64
			loc.Latitude = &v
		}
		if lng.Valid {
			v := lng.Float64
			loc.Longitude = &v
		}
		h.Location = loc
	}
	return &h, nil
}

// Create inserts a hotel together with its location in one transaction.
// On success the hotel's ID and timestamps are populated.  A follow-up
// SELECT inside the transaction picks up column defaults.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO hotels (name, description, no_of_rooms) VALUES (?,?,?)",
		h.Name, h.Description, h.NoOfRooms)
	if err != nil {
		return err
	}
	var id int64
	id, err = res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	if h.Location != nil {
		res, err = tx.ExecContext(ctx,
			"INSERT INTO locations (hotel_id, address, latitude, longitude) VALUES (?,?,?,?)",
			h.ID, h.Location.Address, h.Location.Latitude, h.Location.Longitude)
		if err != nil {
			return err
		}
		var locID int64
		locID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		h.Location.ID = uint64(locID)
		h.Location.HotelID = h.ID
	}

	err = tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM hotels WHERE id=?", h.ID).
		Scan(&h.CreatedAt, &h.UpdatedAt)
	return err
}

// GetByID fetches a hotel with its location.  ErrHotelNotFound is
// returned when no row exists.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	row := r.db.QueryRowContext(ctx, hotelSelect+" WHERE h.id = ?", id)
	h, err := scanHotel(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return h, nil
}

// List returns all hotels ordered by id.
func (r *HotelRepo) List(ctx context.Context) ([]*model.Hotel, error) {
	return r.queryHotels(ctx, hotelSelect+" ORDER BY h.id")
}

// ListAvailable returns hotels whose room count is >= minRooms.  The
// caller supplies the default: an absent query parameter means 1, while
// an explicit 0 is honored literally and matches every hotel.
func (r *HotelRepo) ListAvailable(ctx context.Context, minRooms int64) ([]*model.Hotel, error) {
	return r.queryHotels(ctx, hotelSelect+" WHERE h.no_of_rooms >= ? ORDER BY h.id", minRooms)
}

func (r *HotelRepo) queryHotels(ctx context.Context, query string, args ...any) ([]*model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h, err := scanHotel(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial-field update.  Only keys present in fields are
// written; absent keys leave the stored values untouched.  Recognized
// keys: name, description, noOfRooms, address, latitude, longitude.  A
// location row is lazily created when location keys arrive and the hotel
// has none yet.  ErrHotelNotFound is returned for an unknown id.
func (r *HotelRepo) Update(ctx context.Context, id uint64, fields map[string]any) (*model.Hotel, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists uint64
	if err := tx.QueryRowContext(ctx, "SELECT id FROM hotels WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	if v, ok := fields["name"]; ok {
		if _, err := tx.ExecContext(ctx, "UPDATE hotels SET name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", v, id); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["description"]; ok {
		if _, err := tx.ExecContext(ctx, "UPDATE hotels SET description=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", v, id); err != nil {
			return nil, err
		}
	}
	if v, ok := fields["noOfRooms"]; ok {
		if _, err := tx.ExecContext(ctx, "UPDATE hotels SET no_of_rooms=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", v, id); err != nil {
			return nil, err
		}
	}

	_, hasAddr := fields["address"]
	_, hasLat := fields["latitude"]
	_, hasLng := fields["longitude"]
	if hasAddr || hasLat || hasLng {
		var locID uint64
		err := tx.QueryRowContext(ctx, "SELECT id FROM locations WHERE hotel_id=?", id).Scan(&locID)
		if errors.Is(err, sql.ErrNoRows) {
			// Lazily create an empty location before applying fields.
			res, err := tx.ExecContext(ctx, "INSERT INTO locations (hotel_id, address) VALUES (?, '')", id)
			if err != nil {
				return nil, err
			}
			newID, err := res.LastInsertId()
			if err != nil {
				return nil, err
			}
			locID = uint64(newID)
		} else if err != nil {
			return nil, err
		}
		if v, ok := fields["address"]; ok {
			if _, err := tx.ExecContext(ctx, "UPDATE locations SET address=? WHERE id=?", v, locID); err != nil {
				return nil, err
			}
		}
		if v, ok := fields["latitude"]; ok {
			if _, err := tx.ExecContext(ctx, "UPDATE locations SET latitude=? WHERE id=?", v, locID); err != nil {
				return nil, err
			}
		}
		if v, ok := fields["longitude"]; ok {
			if _, err := tx.ExecContext(ctx, "UPDATE locations SET longitude=? WHERE id=?", v, locID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, id)
}

// Delete removes a hotel and its dependent records (bookings, location)
// within a transaction.  ErrHotelNotFound is returned when the hotel
// does not exist.
func (r *HotelRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM hotels WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrHotelNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM bookings WHERE hotel_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM locations WHERE hotel_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM hotels WHERE id=?", id)
	return err
}

// ReserveRoom atomically decrements a hotel's room count.  The WHERE
// clause guards the invariant that the counter never goes negative: two
// concurrent bookings against the last room cannot both succeed because
// only one UPDATE will report an affected row.  ErrRoomNotAvailable is
// returned when the hotel exists but has no rooms left, ErrHotelNotFound
// when the id is unknown.
func (r *HotelRepo) ReserveRoom(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE hotels SET no_of_rooms = no_of_rooms - 1, updated_at=CURRENT_TIMESTAMP WHERE id=? AND no_of_rooms >= 1",
		id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var exists uint64
	if err := r.db.QueryRowContext(ctx, "SELECT id FROM hotels WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHotelNotFound
		}
		return err
	}
	return ErrRoomNotAvailable
}

// ReleaseRoom increments a hotel's room count after a cancellation.
// ErrHotelNotFound is returned for an unknown id; the caller treats the
// restore as best-effort and may ignore it.
func (r *HotelRepo) ReleaseRoom(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE hotels SET no_of_rooms = no_of_rooms + 1, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHotelNotFound
	}
	return nil
}
