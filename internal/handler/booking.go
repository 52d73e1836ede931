package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/logger"
	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/queue"
	"github.com/stayease/hotel-booking/internal/repository"
)

// BookingHandler serves the booking lifecycle endpoints.  Booking a room
// is a two-step write: an atomic conditional decrement of the hotel's
// room counter followed by the booking insert.  The decrement's WHERE
// guard is what prevents two concurrent bookings from taking the same
// last room.
type BookingHandler struct {
	Bookings BookingStore
	Hotels   HotelStore
	Users    UserStore
	Events   EventPublisher // nil disables event publishing
}

func NewBookingHandler(b BookingStore, h HotelStore, u UserStore, ev EventPublisher) *BookingHandler {
	return &BookingHandler{Bookings: b, Hotels: h, Users: u, Events: ev}
}

type bookReq struct {
	HotelID *uint64 `json:"hotelID"`
}
type updateBookingReq struct {
	Status string `json:"status"`
}

// AvailableRooms handles GET /bookings/available-rooms?room=n.  The
// minimum defaults to 1 when the parameter is absent, while an explicit
// room=0 is honored literally and therefore matches every hotel — the
// two are deliberately not equivalent.
func (h *BookingHandler) AvailableRooms(c echo.Context) error {
	minRooms := int64(1)
	if raw := c.QueryParam("room"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room parameter"})
		}
		minRooms = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Hotels.ListAvailable(ctx, minRooms)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("available-rooms query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Book handles POST /bookings.  The caller's account is resolved from
// the authenticated principal; the hotel's room counter is decremented
// atomically and a BOOKED row is created.  If the booking insert fails
// after the decrement the room is not restored — consistent with the
// existing contract, which has no compensation step.
func (h *BookingHandler) Book(c echo.Context) error {
	uid, err := principalID(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil || req.HotelID == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		logger.ErrorLogger.WithError(err).Error("book: user lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Hotels.ReserveRoom(ctx, *req.HotelID); err != nil {
		switch {
		case errors.Is(err, repository.ErrHotelNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case errors.Is(err, repository.ErrRoomNotAvailable):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not available"})
		}
		logger.ErrorLogger.WithError(err).Error("book: reserve room failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	booking, err := h.Bookings.Create(ctx, u.ID, *req.HotelID, model.StatusBooked)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("book: create booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	h.publish(ctx, queue.BookingCreatedQueue, queue.BookingEvent{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		HotelID:   booking.HotelID,
		Status:    booking.Status,
		Occurred:  time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, booking)
}

// Update handles PUT /bookings/:id.  The target status CANCELLED is
// rejected with 417: cancellation must go through the dedicated cancel
// route so that the room counter is restored exactly once.
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if status == model.StatusCancelled {
		return c.JSON(http.StatusExpectationFailed, echo.Map{"error": "booking can't be cancelled"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Bookings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		logger.ErrorLogger.WithError(err).Error("booking update: lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Bookings.UpdateStatus(ctx, id, status); err != nil {
		logger.ErrorLogger.WithError(err).Error("booking update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("booking update: reload failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel handles PUT /bookings/:id/cancel.  Cancelling is idempotent: an
// already-CANCELLED booking is returned unchanged and the room counter
// is NOT incremented again.  The transition itself is an atomic guarded
// UPDATE — of two concurrent cancels only one wins the transition, so
// the counter restore and the event publish happen exactly once.  The
// restore is best-effort — a missing hotel row skips it silently and the
// booking is still marked cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		logger.ErrorLogger.WithError(err).Error("cancel: lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	changed, err := h.Bookings.MarkCancelled(ctx, id)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("cancel: status update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	booking.Status = model.StatusCancelled
	if !changed {
		// Already cancelled, possibly by a concurrent request that read
		// the same BOOKED row: nothing left to restore or publish.
		return c.JSON(http.StatusOK, booking)
	}

	if err := h.Hotels.ReleaseRoom(ctx, booking.HotelID); err != nil {
		// Best-effort restore: a vanished hotel only loses the counter bump.
		if !errors.Is(err, repository.ErrHotelNotFound) {
			logger.ErrorLogger.WithError(err).Error("cancel: release room failed")
		}
	}

	h.publish(ctx, queue.BookingCancelledQueue, queue.BookingEvent{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		HotelID:   booking.HotelID,
		Status:    booking.Status,
		Occurred:  time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, booking)
}

// List handles GET /bookings.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.List(ctx)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("booking list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		logger.ErrorLogger.WithError(err).Error("booking get failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, booking)
}

// ListByStatus handles GET /bookings/status?status=S.
func (h *BookingHandler) ListByStatus(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if !model.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByStatus(ctx, status)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("booking list by status failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Delete handles DELETE /bookings/:id.  Deleting does not restore the
// room counter; only cancel does.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		logger.ErrorLogger.WithError(err).Error("booking delete failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// publish sends a booking event to the broker when a publisher is
// configured.  Failures are logged and ignored so the request flow is
// never interrupted by the broker.
func (h *BookingHandler) publish(ctx context.Context, queueName string, ev queue.BookingEvent) {
	if h.Events == nil {
		return
	}
	if err := h.Events.Publish(ctx, queueName, ev); err != nil {
		logger.ErrorLogger.WithError(err).WithField("queue", queueName).Error("publish booking event failed")
	}
}
