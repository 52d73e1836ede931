package handler

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stayease/hotel-booking/internal/config"
	"github.com/stayease/hotel-booking/internal/model"
	"github.com/stayease/hotel-booking/internal/repository"
	"github.com/stayease/hotel-booking/internal/utils"
)

// In-memory store fakes backing the handler tests.  They mirror the
// contracts of the repository package, including its sentinel errors.

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "handler-test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
}

type memUsers struct {
	seq  uint64
	rows map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, firstName, lastName, email, password, role string, cost int) (uint64, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	m.seq++
	m.rows[m.seq] = model.User{
		ID: m.seq, FirstName: firstName, LastName: lastName,
		Email: email, PasswordHash: hash, Role: role,
	}
	return m.seq, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.rows))
	for _, u := range m.rows {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id uint64, newHash string) error {
	u, ok := m.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = newHash
	m.rows[id] = u
	return nil
}

type tokenRow struct {
	UserID  uint64
	Hash    string
	Expired bool
	Revoked bool
}

type memTokens struct {
	rows []tokenRow
}

func (m *memTokens) Store(_ context.Context, userID uint64, tokenHash string) error {
	m.rows = append(m.rows, tokenRow{UserID: userID, Hash: tokenHash})
	return nil
}

func (m *memTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	for i := range m.rows {
		if m.rows[i].Hash == tokenHash {
			m.rows[i].Expired = true
			m.rows[i].Revoked = true
		}
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	for i := range m.rows {
		if m.rows[i].UserID == userID {
			m.rows[i].Expired = true
			m.rows[i].Revoked = true
		}
	}
	return nil
}

// liveFor returns the hashes of still-usable rows for a user.
func (m *memTokens) liveFor(userID uint64) []string {
	var out []string
	for _, r := range m.rows {
		if r.UserID == userID && !r.Expired && !r.Revoked {
			out = append(out, r.Hash)
		}
	}
	return out
}

type memHotels struct {
	seq  uint64
	rows map[uint64]*model.Hotel
}

func newMemHotels() *memHotels { return &memHotels{rows: map[uint64]*model.Hotel{}} }

func (m *memHotels) add(h *model.Hotel) *model.Hotel {
	m.seq++
	h.ID = m.seq
	if h.Location != nil {
		h.Location.HotelID = h.ID
	}
	m.rows[h.ID] = h
	return h
}

func (m *memHotels) Create(_ context.Context, h *model.Hotel) error {
	m.add(h)
	return nil
}

func (m *memHotels) GetByID(_ context.Context, id uint64) (*model.Hotel, error) {
	h, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrHotelNotFound
	}
	cp := *h
	return &cp, nil
}

func (m *memHotels) List(_ context.Context) ([]*model.Hotel, error) {
	out := make([]*model.Hotel, 0, len(m.rows))
	for _, h := range m.rows {
		out = append(out, h)
	}
	return out, nil
}

func (m *memHotels) ListAvailable(_ context.Context, minRooms int64) ([]*model.Hotel, error) {
	var out []*model.Hotel
	for _, h := range m.rows {
		if h.NoOfRooms >= minRooms {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHotels) Update(_ context.Context, id uint64, fields map[string]any) (*model.Hotel, error) {
	h, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrHotelNotFound
	}
	if v, ok := fields["name"].(string); ok {
		h.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		h.Description = v
	}
	if v, ok := fields["noOfRooms"].(float64); ok {
		h.NoOfRooms = int64(v)
	}
	if h.Location == nil {
		h.Location = &model.Location{HotelID: id}
	}
	if v, ok := fields["address"].(string); ok {
		h.Location.Address = v
	}
	if v, ok := fields["latitude"].(float64); ok {
		h.Location.Latitude = &v
	}
	if v, ok := fields["longitude"].(float64); ok {
		h.Location.Longitude = &v
	}
	cp := *h
	return &cp, nil
}

func (m *memHotels) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrHotelNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memHotels) ReserveRoom(_ context.Context, id uint64) error {
	h, ok := m.rows[id]
	if !ok {
		return repository.ErrHotelNotFound
	}
	if h.NoOfRooms < 1 {
		return repository.ErrRoomNotAvailable
	}
	h.NoOfRooms--
	return nil
}

func (m *memHotels) ReleaseRoom(_ context.Context, id uint64) error {
	h, ok := m.rows[id]
	if !ok {
		return repository.ErrHotelNotFound
	}
	h.NoOfRooms++
	return nil
}

type memBookings struct {
	seq  uint64
	rows map[uint64]*model.Booking
}

func newMemBookings() *memBookings { return &memBookings{rows: map[uint64]*model.Booking{}} }

func (m *memBookings) Create(_ context.Context, userID, hotelID uint64, status string) (*model.Booking, error) {
	m.seq++
	b := &model.Booking{ID: m.seq, UserID: userID, HotelID: hotelID, Status: status}
	m.rows[b.ID] = b
	cp := *b
	return &cp, nil
}

func (m *memBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) List(_ context.Context) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0, len(m.rows))
	for _, b := range m.rows {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBookings) ListByStatus(_ context.Context, status string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range m.rows {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id uint64, status string) error {
	if b, ok := m.rows[id]; ok {
		b.Status = status
	}
	return nil
}

func (m *memBookings) MarkCancelled(_ context.Context, id uint64) (bool, error) {
	b, ok := m.rows[id]
	if !ok || b.Status == model.StatusCancelled {
		return false, nil
	}
	b.Status = model.StatusCancelled
	return true, nil
}

func (m *memBookings) Delete(_ context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(m.rows, id)
	return nil
}

type publishedEvent struct {
	Queue string
	Event any
}

type memEvents struct {
	published []publishedEvent
}

func (m *memEvents) Publish(_ context.Context, queueName string, event any) error {
	m.published = append(m.published, publishedEvent{Queue: queueName, Event: event})
	return nil
}

// newRequest builds an Echo context for a handler call.  Path params and
// the authenticated principal are attached by the callers as needed.
func newRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return c, rec
}

func asPrincipal(c echo.Context, u model.User) {
	c.Set("user_id", u.ID)
	c.Set("email", u.Email)
	c.Set("role", u.Role)
	c.Set("authorities", model.Authorities(u.Role))
}

func setID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}
