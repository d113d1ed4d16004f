package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

func TestKeyForStatus(t *testing.T) {
	assert.Equal(t, ReservationCreated, KeyForStatus(model.StatusPending))
	assert.Equal(t, ReservationConfirmed, KeyForStatus(model.StatusConfirmed))
	assert.Equal(t, ReservationRejected, KeyForStatus(model.StatusRejected))
	assert.Equal(t, ReservationCancelled, KeyForStatus(model.StatusCancelled))
	assert.Equal(t, ReservationCompleted, KeyForStatus(model.StatusCompleted))
}

func TestForReservation_JSON(t *testing.T) {
	r := &model.Reservation{
		ID:              uuid.New(),
		ResourceID:      uuid.New(),
		BookerID:        uuid.New(),
		Status:          model.StatusConfirmed,
		TotalPriceCents: 9000,
		Currency:        "USD",
	}
	owner := model.Actor{ID: uuid.New(), Role: model.RoleProvider}
	at := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	ev := ForReservation(r, &owner, at)
	assert.Equal(t, ReservationConfirmed, ev.Key)
	require.NotNil(t, ev.ActorID)
	assert.Equal(t, owner.ID, *ev.ActorID)

	b, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "reservation.confirmed", decoded["type"])
	assert.Equal(t, r.ID.String(), decoded["reservation_id"])
	assert.EqualValues(t, 9000, decoded["total_price_cents"])

	anon := ForReservation(r, nil, at)
	assert.Nil(t, anon.ActorID)
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	ctx := context.Background()
	require.NoError(t, rec.Publish(ctx, Event{Key: ReservationCreated}))
	require.NoError(t, rec.Publish(ctx, Event{Key: ResourceDeactivated}))

	assert.Equal(t, []string{ReservationCreated, ResourceDeactivated}, rec.Keys())
	assert.Len(t, rec.Events(), 2)
	assert.NoError(t, Nop{}.Publish(ctx, Event{}))
}

func TestAMQPPublisher(t *testing.T) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		t.Skip("AMQP_URL not set")
	}
	p, err := NewAMQPPublisher(url, "reservation.events.test")
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Publish(ctx, Event{Key: ReservationCreated, ResourceID: uuid.New(), OccurredAt: time.Now()}))
}
