package lifecycle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

func TestCheck_Table(t *testing.T) {
	tests := []struct {
		from, to model.ReservationStatus
		parties  Party
		wantErr  error
	}{
		{model.StatusPending, model.StatusConfirmed, PartyOwner, nil},
		{model.StatusPending, model.StatusConfirmed, PartyAdmin, nil},
		{model.StatusPending, model.StatusConfirmed, PartyBooker, ErrForbidden},
		{model.StatusPending, model.StatusRejected, PartyOwner, nil},
		{model.StatusPending, model.StatusRejected, PartyBooker, ErrForbidden},
		{model.StatusPending, model.StatusCancelled, PartyBooker, nil},
		{model.StatusPending, model.StatusCancelled, PartyOwner, ErrForbidden},
		{model.StatusConfirmed, model.StatusCancelled, PartyBooker, nil},
		{model.StatusConfirmed, model.StatusCancelled, PartyAdmin, nil},
		{model.StatusConfirmed, model.StatusCompleted, PartyOwner, nil},
		{model.StatusConfirmed, model.StatusCompleted, PartyBooker, ErrForbidden},
		{model.StatusConfirmed, model.StatusRejected, PartyOwner, ErrInvalidTransition},
		{model.StatusPending, model.StatusCompleted, PartyAdmin, ErrInvalidTransition},
		{model.StatusPending, model.StatusPending, PartyAdmin, ErrInvalidTransition},
		{model.StatusCancelled, model.StatusCancelled, PartyBooker, ErrInvalidTransition},
		{model.StatusCancelled, model.StatusConfirmed, PartyOwner, ErrInvalidTransition},
		{model.StatusRejected, model.StatusConfirmed, PartyAdmin, ErrInvalidTransition},
		{model.StatusCompleted, model.StatusCancelled, PartyBooker, ErrInvalidTransition},
		{model.StatusPending, model.StatusConfirmed, 0, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to)+"/"+tt.parties.String(), func(t *testing.T) {
			err := Check(tt.from, tt.to, tt.parties)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheck_TerminalBeforeForbidden(t *testing.T) {
	// A stranger cancelling a cancelled reservation sees the state error.
	err := Check(model.StatusCancelled, model.StatusCancelled, 0)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestTerminal(t *testing.T) {
	assert.False(t, Terminal(model.StatusPending))
	assert.False(t, Terminal(model.StatusConfirmed))
	assert.True(t, Terminal(model.StatusRejected))
	assert.True(t, Terminal(model.StatusCancelled))
	assert.True(t, Terminal(model.StatusCompleted))
}

func TestPartiesOf(t *testing.T) {
	owner, booker := uuid.New(), uuid.New()

	assert.Equal(t, PartyOwner, PartiesOf(model.Actor{ID: owner, Role: model.RoleProvider}, owner, booker))
	assert.Equal(t, PartyBooker, PartiesOf(model.Actor{ID: booker, Role: model.RoleClient}, owner, booker))
	assert.Equal(t, PartyAdmin, PartiesOf(model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, owner, booker))
	assert.Equal(t, Party(0), PartiesOf(model.Actor{ID: uuid.New(), Role: model.RoleClient}, owner, booker))

	// Owner booking their own resource holds both relations.
	self := uuid.New()
	p := PartiesOf(model.Actor{ID: self, Role: model.RoleProvider}, self, self)
	assert.True(t, p.Has(PartyOwner))
	assert.True(t, p.Has(PartyBooker))

	assert.Equal(t, Party(0), PartiesOf(model.Actor{}, uuid.Nil, uuid.Nil))
}

func TestParty_String(t *testing.T) {
	assert.Equal(t, "none", Party(0).String())
	assert.Equal(t, "owner|admin", (PartyOwner | PartyAdmin).String())
}
