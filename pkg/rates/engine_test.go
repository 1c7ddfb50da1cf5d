package rates_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/parking"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/rates"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/storage/storetest"
	"github.com/suyashk-afk/vehicle-parking-database-system/pkg/validator"
)

var day = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

type mockRates struct {
	mock.Mock
}

func (m *mockRates) ListRates(ctx context.Context, class *parking.VehicleClass) ([]parking.RateRule, error) {
	args := m.Called(ctx, class)
	rules, _ := args.Get(0).([]parking.RateRule)
	return rules, args.Error(1)
}

func (m *mockRates) InsertRate(ctx context.Context, r parking.RateRule) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRates) GetRate(ctx context.Context, id uuid.UUID) (parking.RateRule, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(parking.RateRule), args.Error(1)
}

func (m *mockRates) ExpireRate(ctx context.Context, id uuid.UUID, until time.Time) (int64, error) {
	args := m.Called(ctx, id, until)
	return args.Get(0).(int64), args.Error(1)
}

func rule(kind parking.RateKind, amount int64) parking.RateRule {
	return parking.RateRule{
		RateID:        uuid.New(),
		VehicleClass:  parking.VehicleCar,
		RateKind:      kind,
		Amount:        amount,
		EffectiveFrom: day,
		CreatedAt:     day,
	}
}

func TestCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    parking.RateKind
		amount  int64
		minutes int64
		want    int64
	}{
		{"flat ignores duration", parking.RateFlat, 500, 10_000, 500},
		{"flat zero minutes", parking.RateFlat, 500, 0, 500},
		{"hourly exact hour", parking.RateHourly, 200, 60, 200},
		{"hourly partial hour rounds up", parking.RateHourly, 200, 61, 400},
		{"hourly one minute", parking.RateHourly, 200, 1, 200},
		{"hourly zero minutes", parking.RateHourly, 200, 0, 0},
		{"daily exact day", parking.RateDaily, 1500, 1440, 1500},
		{"daily partial day rounds up", parking.RateDaily, 1500, 1441, 3000},
		{"daily short stay", parking.RateDaily, 1500, 30, 1500},
		{"negative minutes clamp", parking.RateHourly, 200, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := rates.Cost(rule(tt.kind, tt.amount), tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := rates.Cost(rule("WEEKLY", 100), 10)
	assert.ErrorIs(t, err, parking.ErrUnsupportedRateKind)
	assert.True(t, parking.IsConsistencyFault(err))
}

func TestCost_Overflow(t *testing.T) {
	t.Parallel()

	_, err := rates.Cost(rule(parking.RateHourly, math.MaxInt64/2), 180)
	assert.ErrorIs(t, err, parking.ErrFeeOverflow)
	assert.Equal(t, parking.CodeInternal, parking.CodeOf(err))

	_, err = rates.Cost(rule(parking.RateDaily, 2000), math.MaxInt64)
	assert.ErrorIs(t, err, parking.ErrFeeOverflow)

	got, err := rates.Cost(rule(parking.RateHourly, math.MaxInt64/2), 120)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64/2)*2, got)

	got, err = rates.Cost(rule(parking.RateHourly, 1), math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64/60+1), got)
}

func TestBestRate_SkipsOverflowingRule(t *testing.T) {
	t.Parallel()

	huge := rule(parking.RateHourly, math.MaxInt64/2)
	flat := rule(parking.RateFlat, 100)

	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{huge, flat}, nil).Once()
	got, cost, err := rates.New(m).BestRate(context.Background(), parking.VehicleCar, 180, day)
	require.NoError(t, err)
	assert.Equal(t, flat.RateID, got.RateID)
	assert.Equal(t, int64(100), cost)

	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{huge}, nil).Once()
	_, _, err = rates.New(m).BestRate(context.Background(), parking.VehicleCar, 180, day)
	assert.ErrorIs(t, err, parking.ErrFeeOverflow)
	m.AssertExpectations(t)
}

func TestBestRate_PicksCheapest(t *testing.T) {
	t.Parallel()

	hourly := rule(parking.RateHourly, 200)
	daily := rule(parking.RateDaily, 1500)
	flat := rule(parking.RateFlat, 5000)

	m := &mockRates{}
	car := parking.VehicleCar
	m.On("ListRates", mock.Anything, &car).Return([]parking.RateRule{hourly, daily, flat}, nil)
	e := rates.New(m)

	tests := []struct {
		minutes  int64
		wantRule parking.RateRule
		wantCost int64
	}{
		{90, hourly, 400},
		{8 * 60, daily, 1500},
		{3 * 1440, daily, 4500},
		{4 * 1440, flat, 5000},
	}
	for _, tt := range tests {
		got, cost, err := e.BestRate(context.Background(), parking.VehicleCar, tt.minutes, day.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, tt.wantRule.RateID, got.RateID, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.wantCost, cost)
	}
	m.AssertExpectations(t)
}

func TestBestRate_TieGoesToFirst(t *testing.T) {
	t.Parallel()

	first := rule(parking.RateFlat, 300)
	second := rule(parking.RateHourly, 300)

	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{first, second}, nil)

	got, cost, err := rates.New(m).BestRate(context.Background(), parking.VehicleCar, 45, day)
	require.NoError(t, err)
	assert.Equal(t, first.RateID, got.RateID)
	assert.Equal(t, int64(300), cost)
}

func TestBestRate_Effectiveness(t *testing.T) {
	t.Parallel()

	expiredAt := day.Add(24 * time.Hour)
	cheapExpired := rule(parking.RateFlat, 100)
	cheapExpired.EffectiveUntil = &expiredAt
	future := rule(parking.RateFlat, 50)
	future.EffectiveFrom = day.AddDate(0, 1, 0)
	current := rule(parking.RateFlat, 700)

	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{cheapExpired, future, current}, nil)
	e := rates.New(m)

	got, _, err := e.BestRate(context.Background(), parking.VehicleCar, 30, day.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, cheapExpired.RateID, got.RateID)

	got, _, err = e.BestRate(context.Background(), parking.VehicleCar, 30, expiredAt)
	require.NoError(t, err)
	assert.Equal(t, current.RateID, got.RateID, "effective_until is exclusive")

	_, _, err = e.BestRate(context.Background(), parking.VehicleCar, 30, day.Add(-time.Second))
	assert.ErrorIs(t, err, parking.ErrNoRateFound)
}

func TestBestRate_StoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("db down")
	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return(nil, storeErr)

	_, _, err := rates.New(m).BestRate(context.Background(), parking.VehicleCar, 30, day)
	assert.ErrorIs(t, err, storeErr)
}

func TestFee(t *testing.T) {
	t.Parallel()

	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{rule(parking.RateHourly, 200)}, nil)
	e := rates.New(m)
	ctx := context.Background()
	entry := day.Add(9 * time.Hour)

	fee, err := e.Fee(ctx, entry, entry.Add(2*time.Hour+30*time.Minute), parking.VehicleCar)
	require.NoError(t, err)
	assert.Equal(t, int64(600), fee)

	fee, err = e.Fee(ctx, entry, entry.Add(time.Second), parking.VehicleCar)
	require.NoError(t, err)
	assert.Equal(t, int64(200), fee, "a partial minute is billed")

	_, err = e.Fee(ctx, entry, entry, parking.VehicleCar)
	assert.ErrorIs(t, err, parking.ErrInvalidTimeOrder)

	_, err = e.Fee(ctx, entry, entry.Add(-time.Minute), parking.VehicleCar)
	assert.ErrorIs(t, err, parking.ErrInvalidTimeOrder)
}

func TestFee_UsesRatesAsOfEntry(t *testing.T) {
	t.Parallel()

	store := storetest.SQLite(t)
	ctx := context.Background()
	e := rates.New(store)

	old, err := e.CreateRate(ctx, rates.NewRate{
		VehicleClass: parking.VehicleCar, RateKind: parking.RateHourly, Amount: 100, EffectiveFrom: day,
	})
	require.NoError(t, err)
	change := day.Add(12 * time.Hour)
	_, err = e.ExpireRate(ctx, old.RateID, change)
	require.NoError(t, err)
	_, err = e.CreateRate(ctx, rates.NewRate{
		VehicleClass: parking.VehicleCar, RateKind: parking.RateHourly, Amount: 300, EffectiveFrom: change,
	})
	require.NoError(t, err)

	entry := change.Add(-time.Hour)
	fee, err := e.Fee(ctx, entry, change.Add(time.Hour), parking.VehicleCar)
	require.NoError(t, err)
	assert.Equal(t, int64(200), fee, "a stay is priced with the card in force at entry")

	fee, err = e.Fee(ctx, change, change.Add(time.Hour), parking.VehicleCar)
	require.NoError(t, err)
	assert.Equal(t, int64(300), fee)

	_, err = e.Fee(ctx, entry, change, parking.VehicleTruck)
	assert.ErrorIs(t, err, parking.ErrNoRateFound)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	daily := rule(parking.RateDaily, 1500)
	m := &mockRates{}
	m.On("ListRates", mock.Anything, mock.Anything).Return([]parking.RateRule{daily}, nil)

	q, err := rates.New(m).Quote(context.Background(), parking.VehicleCar, day, day.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), q.Minutes)
	assert.Equal(t, int64(3000), q.Fee)
	require.NotNil(t, q.Rule)
	assert.Equal(t, daily.RateID, q.Rule.RateID)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	until := day
	bad := parking.RateRule{
		VehicleClass:   "BUS",
		RateKind:       "WEEKLY",
		Amount:         0,
		EffectiveFrom:  day,
		EffectiveUntil: &until,
	}
	err := rates.Validate(bad)
	require.Error(t, err)

	ve := validator.ExtractValidationErrors(err)
	for _, field := range []string{
		parking.FieldAmount, parking.FieldVehicleClass, parking.FieldRateKind, parking.FieldEffectiveUntil,
	} {
		assert.True(t, ve.Has(field), field)
	}

	assert.NoError(t, rates.Validate(rule(parking.RateHourly, 1)))
}

func TestCreateRate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 2, 10, 30, 0, 123_456_789, time.UTC)
	m := &mockRates{}
	m.On("InsertRate", mock.Anything, mock.MatchedBy(func(r parking.RateRule) bool {
		return r.RateID != uuid.Nil && r.Amount == 250 && r.CreatedAt.Equal(now.Truncate(time.Microsecond))
	})).Return(nil).Once()
	e := rates.New(m, rates.WithClock(func() time.Time { return now }))

	got, err := e.CreateRate(context.Background(), rates.NewRate{
		VehicleClass: parking.VehicleVan, RateKind: parking.RateHourly, Amount: 250, EffectiveFrom: day,
	})
	require.NoError(t, err)
	assert.Equal(t, parking.VehicleVan, got.VehicleClass)
	m.AssertExpectations(t)

	_, err = e.CreateRate(context.Background(), rates.NewRate{VehicleClass: parking.VehicleVan, RateKind: parking.RateHourly})
	assert.True(t, validator.IsValidationError(err))

	_, err = e.CreateRate(context.Background(), rates.NewRate{
		VehicleClass: parking.VehicleVan, RateKind: parking.RateHourly, Amount: rates.MaxAmount + 1, EffectiveFrom: day,
	})
	require.True(t, validator.IsValidationError(err))
	assert.True(t, validator.ExtractValidationErrors(err).Has(parking.FieldAmount))
	m.AssertNumberOfCalls(t, "InsertRate", 1)
}

func TestExpireRate(t *testing.T) {
	t.Parallel()

	store := storetest.SQLite(t)
	ctx := context.Background()
	e := rates.New(store)

	r, err := e.CreateRate(ctx, rates.NewRate{
		VehicleClass: parking.VehicleCar, RateKind: parking.RateFlat, Amount: 900, EffectiveFrom: day,
	})
	require.NoError(t, err)

	_, err = e.ExpireRate(ctx, r.RateID, day)
	assert.True(t, validator.IsValidationError(err), "until must be after from")

	_, err = e.ExpireRate(ctx, uuid.New(), day.Add(time.Hour))
	assert.ErrorIs(t, err, parking.ErrRateNotFound)

	got, err := e.ExpireRate(ctx, r.RateID, day.Add(48*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveUntil)
	assert.True(t, day.Add(48*time.Hour).Equal(*got.EffectiveUntil))

	stored, err := store.GetRate(ctx, r.RateID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestListRates(t *testing.T) {
	t.Parallel()

	store := storetest.SQLite(t)
	ctx := context.Background()
	e := rates.New(store)

	for _, c := range []parking.VehicleClass{parking.VehicleCar, parking.VehicleTruck, parking.VehicleCar} {
		_, err := e.CreateRate(ctx, rates.NewRate{VehicleClass: c, RateKind: parking.RateFlat, Amount: 100, EffectiveFrom: day})
		require.NoError(t, err)
	}

	all, err := e.ListRates(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	car := parking.VehicleCar
	cars, err := e.ListRates(ctx, &car)
	require.NoError(t, err)
	assert.Len(t, cars, 2)

	bus := parking.VehicleClass("BUS")
	_, err = e.ListRates(ctx, &bus)
	assert.True(t, validator.IsValidationError(err))
}

func TestNew_PanicsWithoutStore(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { rates.New(nil) })
}
