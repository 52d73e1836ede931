package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/logger"
	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/repository"
)

// HotelHandler serves the hotel inventory endpoints.
type HotelHandler struct {
	Hotels HotelStore
}

func NewHotelHandler(hotels HotelStore) *HotelHandler {
	return &HotelHandler{Hotels: hotels}
}

// createHotelReq carries the fields of POST /hotels.  NoOfRooms is a
// pointer so that an absent field can default to 0 while an explicit 0
// stays 0.
type createHotelReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	NoOfRooms   *int64   `json:"noOfRooms"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Create handles POST /hotels.  The hotel and its location are persisted
// in a single transaction by the repository.
func (h *HotelHandler) Create(c echo.Context) error {
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	fieldErrs := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrs["name"] = "name is required"
	}
	if strings.TrimSpace(req.Address) == "" {
		fieldErrs["address"] = "address is required"
	}
	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}

	rooms := int64(0)
	if req.NoOfRooms != nil {
		rooms = *req.NoOfRooms
	}
	if rooms < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"noOfRooms": "room count must not be negative"})
	}
	hotel := &model.Hotel{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		NoOfRooms:   rooms,
		Location: &model.Location{
			Address:   strings.TrimSpace(req.Address),
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.Create(ctx, hotel); err != nil {
		logger.ErrorLogger.WithError(err).Error("hotel create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// List handles GET /hotels.
func (h *HotelHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Hotels.List(ctx)
	if err != nil {
		logger.ErrorLogger.WithError(err).Error("hotel list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /hotels/:id.
func (h *HotelHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		logger.ErrorLogger.WithError(err).Error("hotel get failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// Update handles PUT /hotels/:id.  The body is a free-form JSON object;
// only the keys present are applied, so a partial body never clears the
// fields it omits.
func (h *HotelHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if v, ok := fields["noOfRooms"]; ok {
		n, isNum := v.(float64)
		if !isNum || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"noOfRooms": "room count must be a non-negative number"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotel, err := h.Hotels.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		logger.ErrorLogger.WithError(err).Error("hotel update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, hotel)
}

// Delete handles DELETE /hotels/:id.  The location and bookings of the
// hotel are removed in the same transaction.
func (h *HotelHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Hotels.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		logger.ErrorLogger.WithError(err).Error("hotel delete failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
