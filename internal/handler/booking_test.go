package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/queue"
)

type bookingFixture struct {
	handler  *BookingHandler
	users    *memUsers
	hotels   *memHotels
	bookings *memBookings
	events   *memEvents
	customer model.User
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	users := newMemUsers()
	hotels := newMemHotels()
	bookings := newMemBookings()
	events := &memEvents{}

	uid, err := users.Create(context.Background(), "Test", "Customer", "guest@example.com", "pw", model.RoleCustomer, 4)
	require.NoError(t, err)
	customer, err := users.GetByID(context.Background(), uid)
	require.NoError(t, err)

	return &bookingFixture{
		handler:  NewBookingHandler(bookings, hotels, users, events),
		users:    users,
		hotels:   hotels,
		bookings: bookings,
		events:   events,
		customer: customer,
	}
}

func (f *bookingFixture) addHotel(rooms int64) *model.Hotel {
	return f.hotels.add(&model.Hotel{Name: "Grand Plaza", NoOfRooms: rooms,
		Location: &model.Location{Address: "1 Main St"}})
}

func TestBookDecrementsRooms(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(3)

	c, rec := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var b model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, model.StatusBooked, b.Status)
	assert.Equal(t, f.customer.ID, b.UserID)
	assert.Equal(t, hotel.ID, b.HotelID)

	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.NoOfRooms)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, queue.BookingCreatedQueue, f.events.published[0].Queue)
}

func TestBookLastRoomThenConflict(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(1)

	c, rec := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// The counter is at zero now, so a second booking is refused and no
	// second row is created.
	c, rec = newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"room not available"}`, rec.Body.String())
	assert.Len(t, f.bookings.rows, 1)

	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.NoOfRooms)
}

func TestBookMissingHotelID(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodPost, "/bookings", `{}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"hotel not found"}`, rec.Body.String())
}

func TestBookUnknownHotel(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":99}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"hotel not found"}`, rec.Body.String())
}

func TestBookResolvesCallerByID(t *testing.T) {
	f := newBookingFixture(t)
	f.addHotel(1)

	// A principal whose uid no longer resolves to an account is refused.
	c, rec := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, model.User{ID: 99, Email: "gone@example.com", Role: model.RoleCustomer})
	require.NoError(t, f.handler.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
}

func TestCancelRestoresRoom(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	c, rec := newRequest(t, http.MethodPut, "/bookings/1/cancel", "")
	setID(c, "1")
	require.NoError(t, f.handler.Cancel(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var b model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, model.StatusCancelled, b.Status)

	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.NoOfRooms)

	require.Len(t, f.events.published, 2)
	assert.Equal(t, queue.BookingCancelledQueue, f.events.published[1].Queue)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	for i := 0; i < 2; i++ {
		c, rec := newRequest(t, http.MethodPut, "/bookings/1/cancel", "")
		setID(c, "1")
		require.NoError(t, f.handler.Cancel(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// The second cancel neither bumps the counter again nor publishes a
	// second cancellation event.
	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.NoOfRooms)
	assert.Len(t, f.events.published, 2) // created + one cancelled
}

// staleBookings answers every GetByID with a fixed snapshot, standing in
// for a concurrent request that read the row before another cancel
// committed.  The guarded status transition still goes through the real
// store underneath.
type staleBookings struct {
	*memBookings
	snapshot model.Booking
}

func (s *staleBookings) GetByID(_ context.Context, _ uint64) (*model.Booking, error) {
	cp := s.snapshot
	return &cp, nil
}

func TestConcurrentCancelsRestoreRoomOnce(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	// Both cancels observe the booking as it was before either committed.
	booked, err := f.bookings.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.StatusBooked, booked.Status)
	stale := &staleBookings{memBookings: f.bookings, snapshot: *booked}
	h := NewBookingHandler(stale, f.hotels, f.users, f.events)

	for i := 0; i < 2; i++ {
		c, rec := newRequest(t, http.MethodPut, "/bookings/1/cancel", "")
		setID(c, "1")
		require.NoError(t, h.Cancel(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var b model.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, model.StatusCancelled, b.Status)
	}

	// Only the cancel that won the guarded transition restored the room
	// and published the event; the loser saw the stale BOOKED row but
	// changed nothing.
	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.NoOfRooms)
	assert.Len(t, f.events.published, 2) // created + one cancelled
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodPut, "/bookings/9/cancel", "")
	setID(c, "9")
	require.NoError(t, f.handler.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"booking not found"}`, rec.Body.String())
}

func TestUpdateRejectsCancelledStatus(t *testing.T) {
	f := newBookingFixture(t)
	f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	c, rec := newRequest(t, http.MethodPut, "/bookings/1", `{"status":"CANCELLED"}`)
	setID(c, "1")
	require.NoError(t, f.handler.Update(c))
	assert.Equal(t, http.StatusExpectationFailed, rec.Code)
	assert.JSONEq(t, `{"error":"booking can't be cancelled"}`, rec.Body.String())

	// The booking is untouched.
	b, err := f.bookings.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, b.Status)
}

func TestUpdateStatus(t *testing.T) {
	f := newBookingFixture(t)
	f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	c, rec := newRequest(t, http.MethodPut, "/bookings/1", `{"status":"pending"}`)
	setID(c, "1")
	require.NoError(t, f.handler.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var b model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, model.StatusPending, b.Status)
}

func TestUpdateEmptyStatusIs404(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodPut, "/bookings/1", `{}`)
	setID(c, "1")
	require.NoError(t, f.handler.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateInvalidStatus(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodPut, "/bookings/1", `{"status":"LOST"}`)
	setID(c, "1")
	require.NoError(t, f.handler.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid status"}`, rec.Body.String())
}

func TestAvailableRoomsDefaultsToOne(t *testing.T) {
	f := newBookingFixture(t)
	f.addHotel(0)
	f.addHotel(2)

	c, rec := newRequest(t, http.MethodGet, "/bookings/available-rooms", "")
	require.NoError(t, f.handler.AvailableRooms(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.Hotel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].NoOfRooms)
}

func TestAvailableRoomsExplicitZeroMatchesAll(t *testing.T) {
	f := newBookingFixture(t)
	f.addHotel(0)
	f.addHotel(2)

	// room=0 is honored literally: every hotel qualifies, unlike the
	// absent-parameter default of 1.
	c, rec := newRequest(t, http.MethodGet, "/bookings/available-rooms?room=0", "")
	require.NoError(t, f.handler.AvailableRooms(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []model.Hotel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 2)
}

func TestAvailableRoomsRejectsBadParam(t *testing.T) {
	f := newBookingFixture(t)

	for _, raw := range []string{"x", "-1"} {
		c, rec := newRequest(t, http.MethodGet, "/bookings/available-rooms?room="+raw, "")
		require.NoError(t, f.handler.AvailableRooms(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestListByStatusValidation(t *testing.T) {
	f := newBookingFixture(t)

	c, rec := newRequest(t, http.MethodGet, "/bookings/status?status=WRONG", "")
	require.NoError(t, f.handler.ListByStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBooking(t *testing.T) {
	f := newBookingFixture(t)
	hotel := f.addHotel(1)

	c, _ := newRequest(t, http.MethodPost, "/bookings", `{"hotelID":1}`)
	asPrincipal(c, f.customer)
	require.NoError(t, f.handler.Book(c))

	c, rec := newRequest(t, http.MethodDelete, "/bookings/1", "")
	setID(c, "1")
	require.NoError(t, f.handler.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())

	// Deleting is not cancelling: the room counter stays down.
	stored, err := f.hotels.GetByID(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.NoOfRooms)

	c, rec = newRequest(t, http.MethodDelete, "/bookings/1", "")
	setID(c, "1")
	require.NoError(t, f.handler.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
