package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"approved to canceled", StatusApproved, StatusCanceled, true},
		{"approved to completed", StatusApproved, StatusCompleted, true},
		{"approved to pending", StatusApproved, StatusPending, false},
		{"canceled to pending", StatusCanceled, StatusPending, false},
		{"canceled to approved", StatusCanceled, StatusApproved, false},
		{"completed to canceled", StatusCompleted, StatusCanceled, false},
		{"completed to approved", StatusCompleted, StatusApproved, false},
		{"same state pending", StatusPending, StatusPending, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "approved", "canceled", "completed"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, AppointmentStatus(valid), status)
	}

	for _, invalid := range []string{"", "PENDING", "cancelled", "done", "archived"} {
		_, err := ParseStatus(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestParseAction(t *testing.T) {
	for _, valid := range []string{"approve", "cancel", "complete", "acknowledge"} {
		action, err := ParseAction(valid)
		require.NoError(t, err)
		assert.Equal(t, TransitionAction(valid), action)
	}

	_, err := ParseAction("reschedule")
	assert.Error(t, err)
}

func TestTargetStatus(t *testing.T) {
	target, ok := ActionApprove.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, StatusApproved, target)

	target, ok = ActionCancel.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, StatusCanceled, target)

	target, ok = ActionComplete.TargetStatus()
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, target)

	_, ok = ActionAcknowledge.TargetStatus()
	assert.False(t, ok, "acknowledge must not change status")
}

func TestOccupiesSlot(t *testing.T) {
	appointment := &Appointment{Status: StatusPending}
	assert.True(t, appointment.OccupiesSlot())

	appointment.Status = StatusApproved
	assert.True(t, appointment.OccupiesSlot())

	appointment.Status = StatusCanceled
	assert.False(t, appointment.OccupiesSlot(), "canceled appointments free the slot")

	appointment.Status = StatusCompleted
	assert.False(t, appointment.OccupiesSlot())
}

func TestStartsAt(t *testing.T) {
	appointment := &Appointment{
		Date: time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local),
		Time: "14:30",
	}

	startsAt, err := appointment.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local), startsAt)

	appointment.Time = "25:99"
	_, err = appointment.StartsAt()
	assert.Error(t, err)
}
