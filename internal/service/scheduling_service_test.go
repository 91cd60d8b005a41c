package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	n, err := h.scheduling.SeedSlots(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return h
}

func slotView(t *testing.T, h *harness, id string) app.SlotView {
	t.Helper()
	slots, err := h.scheduling.ListSlots(context.Background(), centerID)
	require.NoError(t, err)
	for _, s := range slots {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("slot %s not listed", id)
	return app.SlotView{}
}

func TestSchedulingService_SeedIsIdempotent(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()
	_, err := h.scheduling.Book(ctx, slotAM)
	require.NoError(t, err)

	n, err := h.scheduling.SeedSlots(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 5, slotView(t, h, slotAM).RemainingSeats)
}

func TestSchedulingService_LastSeatThenSlotFull(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	bv, err := h.scheduling.Book(ctx, slotPM)
	require.NoError(t, err)
	assert.Equal(t, 0, bv.Slot.RemainingSeats)
	assert.Equal(t, testNow, bv.BookedAt)

	_, err = h.scheduling.Book(ctx, slotPM)
	assert.ErrorIs(t, err, domain.ErrSlotFull)

	v := slotView(t, h, slotPM)
	assert.Equal(t, 0, v.RemainingSeats)
	assert.True(t, v.Booked)
	assert.False(t, v.Bookable())
}

func TestSchedulingService_AlreadyBooked(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()
	_, err := h.scheduling.Book(ctx, slotAM)
	require.NoError(t, err)
	_, err = h.scheduling.Book(ctx, slotAM)
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	assert.Equal(t, 5, slotView(t, h, slotAM).RemainingSeats)
}

func TestSchedulingService_CancelRestoresSeat(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	_, err := h.scheduling.Book(ctx, slotAM)
	require.NoError(t, err)
	require.NoError(t, h.scheduling.Cancel(ctx, slotAM))

	v := slotView(t, h, slotAM)
	assert.Equal(t, 6, v.RemainingSeats)
	assert.False(t, v.Booked)

	assert.ErrorIs(t, h.scheduling.Cancel(ctx, slotAM), domain.ErrNotBooked)
}

func TestSchedulingService_NotCancellable(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	_, err := h.scheduling.Book(ctx, slotNoCancel)
	require.NoError(t, err)
	assert.ErrorIs(t, h.scheduling.Cancel(ctx, slotNoCancel), domain.ErrNotCancellable)

	bookings, err := h.scheduling.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, 3, bookings[0].Slot.RemainingSeats)
}

func TestSchedulingService_UnknownSlot(t *testing.T) {
	h := seededHarness(t)
	_, err := h.scheduling.Book(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownItem)
	assert.ErrorIs(t, h.scheduling.Cancel(context.Background(), "ghost"), domain.ErrUnknownItem)
}

func TestSchedulingService_ListBookingsJoinsMetadata(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()
	_, err := h.scheduling.Book(ctx, slotNoCancel)
	require.NoError(t, err)
	_, err = h.scheduling.Book(ctx, slotPM)
	require.NoError(t, err)

	bookings, err := h.scheduling.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, slotPM, bookings[0].Slot.ID)
	assert.Equal(t, "Leadership Assessment Center", bookings[0].Slot.CenterName)
	assert.Equal(t, "Leadership Assessment 2026", bookings[0].Slot.ProgramName)
	assert.Equal(t, "14:00-18:00 CET", bookings[0].Slot.TimeLabel())
}

func TestSchedulingService_Calendar(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	days, err := h.scheduling.Calendar(ctx, "2026-11")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-11-03", days[0].Date)
	assert.True(t, days[0].Clickable)
	require.Len(t, days[0].Slots, 2)
	assert.Equal(t, slotAM, days[0].Slots[0].ID)

	days, err = h.scheduling.Calendar(ctx, "2026-12")
	require.NoError(t, err)
	assert.Empty(t, days)

	_, err = h.scheduling.Calendar(ctx, "November")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulingService_BookRollsBackSeatOnInsertFailure(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	uow := &testutil.FailingUoW{DB: h.db, Statement: "INSERT INTO bookings", Err: errors.New("injected booking failure")}
	failing := NewSchedulingService(h.cat,
		repository.NewSQLiteSlotRepo(h.db), repository.NewSQLiteBookingRepo(h.db), uow, fixedClock)

	_, err := failing.Book(ctx, slotAM)
	require.Error(t, err)
	assert.True(t, uow.Fired())
	assert.Contains(t, err.Error(), "injected booking failure")

	v := slotView(t, h, slotAM)
	assert.Equal(t, 6, v.RemainingSeats)
	assert.False(t, v.Booked)
	assert.Zero(t, testutil.CountRows(t, h.db, "bookings"))
}

func TestSchedulingService_CapacityConservation(t *testing.T) {
	h := seededHarness(t)
	ctx := context.Background()

	ops := []struct {
		book bool
		slot string
	}{
		{true, slotAM}, {true, slotPM}, {true, slotPM}, {false, slotAM},
		{true, slotNoCancel}, {false, slotNoCancel}, {false, slotPM}, {true, slotAM},
	}
	for _, op := range ops {
		if op.book {
			_, _ = h.scheduling.Book(ctx, op.slot)
		} else {
			_ = h.scheduling.Cancel(ctx, op.slot)
		}
		slots, err := h.scheduling.ListSlots(ctx, centerID)
		require.NoError(t, err)
		for _, s := range slots {
			booked := 0
			if s.Booked {
				booked = 1
			}
			assert.Equal(t, s.TotalSeats, s.RemainingSeats+booked, "slot %s", s.ID)
		}
	}
}
