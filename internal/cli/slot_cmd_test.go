package cli

import (
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	slotAM       = "lc-2026-11-03-am"
	slotPM       = "lc-2026-11-03-pm"
	slotNoCancel = "lc-2026-11-10-am"
)

func TestSlotList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "slot", "list", "leadership-center")
	require.NoError(t, err)
	assert.Contains(t, out, slotAM)
	assert.Contains(t, out, "6/6")
	assert.Contains(t, out, "1/1")
}

func TestSlotBookAndCancel(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "slot", "book", slotAM)
	require.NoError(t, err)
	assert.Contains(t, out, "Booked Leadership Assessment Center")
	assert.Contains(t, out, "5 seat(s) left")

	_, err = executeCmd(t, app, "slot", "book", slotAM)
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	out, err = executeCmd(t, app, "slot", "bookings")
	require.NoError(t, err)
	assert.Contains(t, out, "Leadership Assessment Center")
	assert.Contains(t, out, "09:00-13:00 CET")

	out, err = executeCmd(t, app, "slot", "list", "leadership-center")
	require.NoError(t, err)
	assert.Contains(t, out, "5/6")

	_, err = executeCmd(t, app, "slot", "cancel", slotAM)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "slot", "cancel", slotAM)
	assert.ErrorIs(t, err, domain.ErrNotBooked)
}

func TestSlotBook_LastSeat(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "slot", "book", slotPM)
	require.NoError(t, err)
	out, err := executeCmd(t, app, "slot", "list", "leadership-center")
	require.NoError(t, err)
	assert.Contains(t, out, "0/1")
}

func TestSlotCancel_NotCancellable(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "slot", "book", slotNoCancel)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "slot", "cancel", slotNoCancel)
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestSlotCalendar(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "slot", "calendar", "--month", "2026-11")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-11-03")
	assert.Contains(t, out, "2026-11-10")

	out, err = executeCmd(t, app, "slot", "calendar", "--month", "2026-12")
	require.NoError(t, err)
	assert.Contains(t, out, "No slots on any day.")

	_, err = executeCmd(t, app, "slot", "calendar", "--month", "November")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
