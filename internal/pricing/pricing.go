// Package pricing derives the total price of a claim. Amounts are integer
// minor units (cents).
package pricing

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

var (
	ErrUnpriceable = errors.New("claim cannot be priced")
	ErrOverflow    = errors.New("price overflows int64")
)

// Money is an amount in minor units of Currency.
type Money struct {
	Amount   int64
	Currency string
}

// String formats with two minor digits, e.g. "90.00 USD".
func (m Money) String() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, a/100, a%100, m.Currency)
}

var hourNanos = big.NewInt(int64(time.Hour))

// Price returns the cost of claim on resource.
//
// time_slot: UnitPriceCents * duration / 1h, rounded half up to a whole cent.
// fixed_session: UnitPriceCents per seat.
func Price(resource *model.Resource, claim model.Claim) (Money, error) {
	if resource.UnitPriceCents < 0 {
		return Money{}, fmt.Errorf("%w: negative unit price", ErrUnpriceable)
	}
	m := Money{Currency: resource.Currency}

	switch resource.Kind {
	case model.ResourceKindTimeSlot:
		if claim.Interval == nil {
			return Money{}, fmt.Errorf("%w: no interval", ErrUnpriceable)
		}
		d := claim.Interval.Duration()
		if d <= 0 {
			return Money{}, fmt.Errorf("%w: empty interval", ErrUnpriceable)
		}
		amount, err := prorate(resource.UnitPriceCents, d)
		if err != nil {
			return Money{}, err
		}
		m.Amount = amount

	case model.ResourceKindFixedSession:
		if claim.SlotIndex == nil {
			return Money{}, fmt.Errorf("%w: no slot", ErrUnpriceable)
		}
		m.Amount = resource.UnitPriceCents

	default:
		return Money{}, fmt.Errorf("%w: kind %q", ErrUnpriceable, resource.Kind)
	}
	return m, nil
}

// prorate computes round_half_up(unit * d / 1h) without floating point.
func prorate(unit int64, d time.Duration) (int64, error) {
	num := new(big.Int).Mul(big.NewInt(unit), big.NewInt(int64(d)))

	q, r := new(big.Int).QuoRem(num, hourNanos, new(big.Int))
	if r.Lsh(r, 1).Cmp(hourNanos) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() {
		return 0, ErrOverflow
	}
	return q.Int64(), nil
}
