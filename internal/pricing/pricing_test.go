package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

func room(centsPerHour int64) *model.Resource {
	return &model.Resource{Kind: model.ResourceKindTimeSlot, Capacity: 1, UnitPriceCents: centsPerHour, Currency: "USD"}
}

func claimFor(d time.Duration) model.Claim {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	return model.IntervalClaim(start, start.Add(d))
}

func TestPrice_TimeSlot(t *testing.T) {
	tests := []struct {
		name   string
		rate   int64
		d      time.Duration
		amount int64
	}{
		{"two hours at 45", 4500, 2 * time.Hour, 9000},
		{"half hour", 4500, 30 * time.Minute, 2250},
		{"rounds half up", 1, 30 * time.Minute, 1},
		{"rounds down below half", 1, 29 * time.Minute, 0},
		{"one minute at 45", 4500, time.Minute, 75},
		{"seven minutes at 10", 1000, 7 * time.Minute, 117},
		{"free room", 0, time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Price(room(tt.rate), claimFor(tt.d))
			require.NoError(t, err)
			assert.Equal(t, tt.amount, m.Amount)
			assert.Equal(t, "USD", m.Currency)
		})
	}
}

func TestPrice_FixedSession(t *testing.T) {
	course := &model.Resource{Kind: model.ResourceKindFixedSession, Capacity: 8, UnitPriceCents: 12000, Currency: "EUR"}

	m, err := Price(course, model.SlotClaim(3))
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 12000, Currency: "EUR"}, m)
}

func TestPrice_Errors(t *testing.T) {
	_, err := Price(room(4500), model.SlotClaim(1))
	assert.ErrorIs(t, err, ErrUnpriceable)

	course := &model.Resource{Kind: model.ResourceKindFixedSession, Capacity: 1, UnitPriceCents: 100}
	_, err = Price(course, claimFor(time.Hour))
	assert.ErrorIs(t, err, ErrUnpriceable)

	_, err = Price(room(-1), claimFor(time.Hour))
	assert.ErrorIs(t, err, ErrUnpriceable)

	_, err = Price(room(math.MaxInt64), claimFor(48*time.Hour))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "90.00 USD", Money{Amount: 9000, Currency: "USD"}.String())
	assert.Equal(t, "0.05 EUR", Money{Amount: 5, Currency: "EUR"}.String())
	assert.Equal(t, "-1.50 USD", Money{Amount: -150, Currency: "USD"}.String())
}
