package conflict

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func timed(status model.ReservationStatus, start, end time.Time) model.Reservation {
	return model.Reservation{ID: uuid.New(), Status: status, StartsAt: &start, EndsAt: &end}
}

func seated(status model.ReservationStatus, slot int) model.Reservation {
	return model.Reservation{ID: uuid.New(), Status: status, SlotIndex: &slot}
}

func TestDetect_TimeSlotBoundaries(t *testing.T) {
	room := &model.Resource{Kind: model.ResourceKindTimeSlot, Capacity: 1}
	existing := []model.Reservation{timed(model.StatusConfirmed, at(12, 0), at(14, 0))}

	tests := []struct {
		name  string
		claim model.Claim
		want  bool
	}{
		{"ends at existing start", model.IntervalClaim(at(10, 0), at(12, 0)), false},
		{"one minute past existing start", model.IntervalClaim(at(10, 0), at(12, 1)), true},
		{"starts at existing end", model.IntervalClaim(at(14, 0), at(16, 0)), false},
		{"inside", model.IntervalClaim(at(12, 30), at(13, 0)), true},
		{"covering", model.IntervalClaim(at(9, 0), at(18, 0)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(room, tt.claim, existing, uuid.Nil))
		})
	}
}

func TestDetect_IgnoresInactiveStatuses(t *testing.T) {
	room := &model.Resource{Kind: model.ResourceKindTimeSlot, Capacity: 1}
	claim := model.IntervalClaim(at(12, 0), at(14, 0))

	for _, st := range []model.ReservationStatus{model.StatusCancelled, model.StatusRejected, model.StatusCompleted} {
		existing := []model.Reservation{timed(st, at(12, 0), at(14, 0))}
		assert.False(t, Detect(room, claim, existing, uuid.Nil), st)
	}

	pending := []model.Reservation{timed(model.StatusPending, at(12, 0), at(14, 0))}
	assert.True(t, Detect(room, claim, pending, uuid.Nil))
}

func TestDetect_Exclude(t *testing.T) {
	room := &model.Resource{Kind: model.ResourceKindTimeSlot, Capacity: 1}
	own := timed(model.StatusPending, at(12, 0), at(14, 0))

	claim := model.IntervalClaim(at(13, 0), at(15, 0))
	assert.True(t, Detect(room, claim, []model.Reservation{own}, uuid.Nil))
	assert.False(t, Detect(room, claim, []model.Reservation{own}, own.ID))
}

func TestDetect_FixedSessionSaturation(t *testing.T) {
	course := &model.Resource{Kind: model.ResourceKindFixedSession, Capacity: 8}

	var existing []model.Reservation
	for i := 0; i < 8; i++ {
		existing = append(existing, seated(model.StatusConfirmed, 3))
	}
	existing = append(existing, seated(model.StatusCancelled, 4))

	assert.True(t, Detect(course, model.SlotClaim(3), existing, uuid.Nil))
	assert.False(t, Detect(course, model.SlotClaim(4), existing, uuid.Nil))
	assert.False(t, Detect(course, model.SlotClaim(3), existing, existing[0].ID), "excluding a holder frees a seat")

	assert.Equal(t, 8, Occupied(existing, 3, uuid.Nil))
	assert.Equal(t, 0, Occupied(existing, 4, uuid.Nil))
}

func TestDetect_MismatchedClaim(t *testing.T) {
	room := &model.Resource{Kind: model.ResourceKindTimeSlot, Capacity: 1}
	course := &model.Resource{Kind: model.ResourceKindFixedSession, Capacity: 1}

	assert.False(t, Detect(room, model.SlotClaim(1), nil, uuid.Nil))
	assert.False(t, Detect(course, model.IntervalClaim(at(1, 0), at(2, 0)), nil, uuid.Nil))
}

func TestBlocksDeactivation(t *testing.T) {
	now := at(13, 0)

	assert.True(t, BlocksDeactivation(ptr(timed(model.StatusConfirmed, at(12, 0), at(14, 0))), now), "running")
	assert.True(t, BlocksDeactivation(ptr(timed(model.StatusPending, at(15, 0), at(16, 0))), now), "future")
	assert.False(t, BlocksDeactivation(ptr(timed(model.StatusConfirmed, at(11, 0), at(13, 0))), now), "ended at now")
	assert.False(t, BlocksDeactivation(ptr(timed(model.StatusCancelled, at(15, 0), at(16, 0))), now))
	assert.True(t, BlocksDeactivation(ptr(seated(model.StatusPending, 2)), now))
	assert.False(t, BlocksDeactivation(ptr(seated(model.StatusCompleted, 2)), now))
}

func ptr(r model.Reservation) *model.Reservation { return &r }
