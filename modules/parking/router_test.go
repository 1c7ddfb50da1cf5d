package parking_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/suyashk-afk/vehicle-parking-database-system/modules/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/requestid"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/sessions"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/spaces"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/storetest"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type envelope struct {
	Success   bool                `json:"success"`
	Session   *parking.Session    `json:"session"`
	Fee       *int64              `json:"fee"`
	ErrorCode parking.ErrorCode   `json:"error_code"`
	Error     string              `json:"error"`
	Fields    map[string][]string `json:"fields"`
	Data      json.RawMessage     `json:"data"`
}

type server struct {
	handler http.Handler
	clock   *clock
	store   parking.Store
}

func newServer(t *testing.T) *server {
	t.Helper()

	store := storetest.SQLite(t)
	ctx := context.Background()
	for _, sp := range []parking.Space{
		{SpaceID: "C1", SpaceClass: parking.SpaceCar, Zone: "A"},
		{SpaceID: "T1", SpaceClass: parking.SpaceTruck, Zone: "B"},
	} {
		require.NoError(t, store.SaveSpace(ctx, sp))
	}
	from := base.Add(-24 * time.Hour)
	for _, r := range []struct {
		kind   parking.RateKind
		amount int64
	}{
		{parking.RateHourly, 20},
		{parking.RateDaily, 150},
	} {
		require.NoError(t, store.InsertRate(ctx, parking.RateRule{
			RateID:        uuid.New(),
			VehicleClass:  parking.VehicleCar,
			RateKind:      r.kind,
			Amount:        r.amount,
			EffectiveFrom: from,
			CreatedAt:     from,
		}))
	}

	c := &clock{now: base}
	engine := rates.New(store, rates.WithClock(c.Now))
	orch := sessions.New(store, engine, spaces.New(store), sessions.WithClock(c.Now))
	return &server{
		handler: api.Router(api.RouterOptions{Sessions: orch, Rates: engine, Clock: c.Now}),
		clock:   c,
		store:   store,
	}
}

func (s *server) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestRouter_EnterExit(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec, env := s.do(t, http.MethodPost, "/sessions/enter", map[string]string{
		"license_plate": "ab-123-cd",
		"vehicle_class": "car",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Session)
	assert.Equal(t, "AB123CD", env.Session.LicensePlate)
	assert.Equal(t, "C1", env.Session.SpaceID)
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))

	s.clock.Advance(90 * time.Minute)
	rec, env = s.do(t, http.MethodPost, "/sessions/exit", map[string]string{"license_plate": "AB 123 CD"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Fee)
	assert.Equal(t, int64(40), *env.Fee)
	assert.Equal(t, parking.StatusCompleted, env.Session.Status)
}

func TestRouter_BusinessErrors(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	_, _ = s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "AAA111", "vehicle_class": "CAR"})

	t.Run("already parked", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "AAA111", "vehicle_class": "CAR"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, env.Success)
		assert.Equal(t, parking.CodeAlreadyParked, env.ErrorCode)
		assert.Equal(t, parking.ErrAlreadyParked.Error(), env.Error)
	})

	t.Run("no space", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "BBB222", "vehicle_class": "CAR"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "T1", env.Session.SpaceID)

		rec, env = s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "CCC333", "vehicle_class": "CAR"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, parking.CodeNoSpaceAvailable, env.ErrorCode)
	})

	t.Run("no active session", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/sessions/exit", map[string]string{"license_plate": "ZZZ999"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, parking.CodeNoActiveSession, env.ErrorCode)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec, env := s.do(t, http.MethodPost, "/sessions/"+uuid.NewString()+"/complete", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, parking.CodeSessionNotFound, env.ErrorCode)
	})
}

func TestRouter_Validation(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec, env := s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "", "vehicle_class": "BUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, parking.CodeValidation, env.ErrorCode)
	assert.Equal(t, "validation failed", env.Error)
	assert.Contains(t, env.Fields, parking.FieldLicensePlate)
	assert.Contains(t, env.Fields, parking.FieldVehicleClass)

	rec, env = s.do(t, http.MethodGet, "/reports/revenue?from=2026-03-01T00:00:00Z", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, parking.FieldDateRange)

	rec, env = s.do(t, http.MethodGet, "/rates/quote?vehicle_class=CAR", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, "entry")
}

func TestRouter_MalformedRequests(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"broken json", http.MethodPost, "/sessions/enter", `{"license_plate":`},
		{"unknown field", http.MethodPost, "/sessions/exit", `{"plate":"AAA111"}`},
		{"bad uuid", http.MethodPost, "/sessions/not-a-uuid/cancel", nil},
		{"bad time", http.MethodGet, "/sessions/?entry_from=yesterday", nil},
		{"bad integer", http.MethodGet, "/sessions/?limit=ten", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, api.CodeInvalidRequest, env.ErrorCode)
		})
	}

	t.Run("missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sessions/exit", strings.NewReader(`{"license_plate":"AAA111"}`))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_CancelAndSearch(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	_, env := s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "TRK001", "vehicle_class": "TRUCK"})
	require.NotNil(t, env.Session)
	id := env.Session.SessionID

	s.clock.Advance(time.Minute)
	rec, env := s.do(t, http.MethodPost, "/sessions/"+id.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, parking.StatusCancelled, env.Session.Status)
	assert.Nil(t, env.Fee)

	rec, env = s.do(t, http.MethodPost, "/sessions/"+id.String()+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, parking.CodeAlreadyCancelled, env.ErrorCode)

	rec, env = s.do(t, http.MethodGet, "/sessions/?plate=trk&status=cancelled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeData[[]parking.Session](t, env)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].SessionID)

	rec, env = s.do(t, http.MethodGet, "/sessions/?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouter_Reports(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	_, _ = s.do(t, http.MethodPost, "/sessions/enter", map[string]string{"license_plate": "AAA111", "vehicle_class": "CAR"})
	s.clock.Advance(30 * time.Minute)
	_, _ = s.do(t, http.MethodPost, "/sessions/exit", map[string]string{"license_plate": "AAA111"})

	rec, env := s.do(t, http.MethodGet, "/availability", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	avail := decodeData[parking.AvailabilityReport](t, env)
	assert.Equal(t, 2, avail.Total)
	assert.Equal(t, 2, avail.Available)

	rec, env = s.do(t, http.MethodGet, "/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	audit := decodeData[parking.AuditReport](t, env)
	assert.True(t, audit.Consistent())

	q := url.Values{
		"from": {base.Format(time.RFC3339)},
		"to":   {base.Add(time.Hour).Format(time.RFC3339)},
	}
	rec, env = s.do(t, http.MethodGet, "/reports/revenue?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	revenue := decodeData[parking.RevenueReport](t, env)
	assert.Equal(t, int64(20), revenue.TotalRevenue)
	assert.Equal(t, 1, revenue.SessionCount)

	rec, env = s.do(t, http.MethodGet, "/reports/revenue", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeData[parking.RevenueReport](t, env).SessionCount)
}

func TestRouter_Rates(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec, env := s.do(t, http.MethodGet, "/rates/?vehicle_class=car", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]parking.RateRule](t, env), 2)

	rec, env = s.do(t, http.MethodGet, "/rates/?vehicle_class=VAN", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, env = s.do(t, http.MethodPost, "/rates/", map[string]any{
		"vehicle_class":  "van",
		"rate_kind":      "flat",
		"amount":         500,
		"effective_from": base.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rule := decodeData[parking.RateRule](t, env)
	assert.Equal(t, parking.VehicleVan, rule.VehicleClass)
	assert.Equal(t, parking.RateFlat, rule.RateKind)

	rec, env = s.do(t, http.MethodPost, "/rates/", map[string]any{
		"vehicle_class":  "VAN",
		"rate_kind":      "HOURLY",
		"amount":         0,
		"effective_from": base.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Fields, parking.FieldAmount)

	q := url.Values{
		"vehicle_class": {"CAR"},
		"entry":         {base.Format(time.RFC3339)},
		"exit":          {base.Add(90 * time.Minute).Format(time.RFC3339)},
	}
	rec, env = s.do(t, http.MethodGet, "/rates/quote?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Fee)
	assert.Equal(t, int64(40), *env.Fee)

	until := base.Add(time.Hour)
	rec, env = s.do(t, http.MethodPost, "/rates/"+rule.RateID.String()+"/expire", map[string]any{
		"effective_until": until.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	expired := decodeData[parking.RateRule](t, env)
	require.NotNil(t, expired.EffectiveUntil)
	assert.True(t, expired.EffectiveUntil.Equal(until))

	rec, env = s.do(t, http.MethodPost, "/rates/"+uuid.NewString()+"/expire", map[string]any{
		"effective_until": until.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, parking.CodeRateNotFound, env.ErrorCode)
}

func TestRouter_UnknownRoutes(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	rec, env := s.do(t, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.CodeRouteNotFound, env.ErrorCode)

	rec, env = s.do(t, http.MethodDelete, "/availability", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, api.CodeMethodNotAllowed, env.ErrorCode)
}

type brokenSessions struct {
	api.Sessions
	panics bool
}

func (b brokenSessions) Availability(context.Context) (parking.AvailabilityReport, error) {
	if b.panics {
		panic("boom")
	}
	return parking.AvailabilityReport{}, errors.Join(parking.ErrSpaceReleaseFailed, errors.New("disk on fire"))
}

func TestRouter_InternalErrorsAreOpaque(t *testing.T) {
	t.Parallel()

	for _, panics := range []bool{false, true} {
		h := api.Router(api.RouterOptions{Sessions: brokenSessions{panics: panics}, Rates: rates.New(storetest.SQLite(t))})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/availability", nil))

		var env envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, parking.CodeInternal, env.ErrorCode)
		assert.Equal(t, "internal error", env.Error)
		assert.NotContains(t, rec.Body.String(), "disk on fire")
	}
}

func TestRouter_RequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { api.Router(api.RouterOptions{}) })
}
