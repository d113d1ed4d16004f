package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim_Validate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)

	assert.NoError(t, IntervalClaim(start, start.Add(time.Hour)).Validate(ResourceKindTimeSlot, now))
	assert.NoError(t, SlotClaim(0).Validate(ResourceKindFixedSession, now))

	err := IntervalClaim(start, start).Validate(ResourceKindTimeSlot, now)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	err = IntervalClaim(now.Add(-time.Minute), start).Validate(ResourceKindTimeSlot, now)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	assert.ErrorIs(t, SlotClaim(1).Validate(ResourceKindTimeSlot, now), ErrInvalidArgument)
	assert.ErrorIs(t, IntervalClaim(start, start.Add(time.Hour)).Validate(ResourceKindFixedSession, now), ErrInvalidArgument)
	assert.ErrorIs(t, SlotClaim(-1).Validate(ResourceKindFixedSession, now), ErrInvalidArgument)
	assert.ErrorIs(t, Claim{}.Validate("hall", now), ErrInvalidArgument)
}

func TestClaim_ApplyAndBack(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.FixedZone("X", 3600))
	var r Reservation
	IntervalClaim(start, start.Add(2*time.Hour)).Apply(&r)

	require.NotNil(t, r.StartsAt)
	assert.Equal(t, time.UTC, r.StartsAt.Location())
	assert.Nil(t, r.SlotIndex)

	tr, ok := r.Interval()
	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, tr.Duration())

	var s Reservation
	SlotClaim(3).Apply(&s)
	c := s.Claim()
	require.NotNil(t, c.SlotIndex)
	assert.Equal(t, 3, *c.SlotIndex)
	assert.Nil(t, c.Interval)
}

func TestReservationStatus(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusConfirmed.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, ReservationStatus("archived").Valid())
}

func TestActor_Validate(t *testing.T) {
	assert.NoError(t, Actor{ID: uuid.New(), Role: RoleClient}.Validate())
	assert.ErrorIs(t, Actor{Role: RoleAdmin}.Validate(), ErrInvalidActor)
	assert.ErrorIs(t, Actor{ID: uuid.New(), Role: "root"}.Validate(), ErrInvalidActor)

	role, err := ParseActorRole("provider")
	require.NoError(t, err)
	assert.Equal(t, RoleProvider, role)
}
