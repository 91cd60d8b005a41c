package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/meridian/internal/app"
	"github.com/alexanderramin/meridian/internal/catalog"
	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/google/uuid"
)

type schedulingService struct {
	catalog  *catalog.Catalog
	slots    repository.SlotRepo
	bookings repository.BookingRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewSchedulingService(
	cat *catalog.Catalog,
	slots repository.SlotRepo,
	bookings repository.BookingRepo,
	uow db.UnitOfWork,
	now Clock,
	observers ...UseCaseObserver,
) SchedulingService {
	return &schedulingService{
		catalog:  cat,
		slots:    slots,
		bookings: bookings,
		uow:      uow,
		now:      clockOrSystem(now),
		observer: combineObservers(observers),
	}
}

// SeedSlots stores catalog slots that are not in the database yet. Seat
// counts of stored slots are left alone.
func (s *schedulingService) SeedSlots(ctx context.Context) (n int, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "seed-slots", time.Now().UTC(), fields, &err)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		n, err = repository.NewSQLiteSlotRepo(tx).SeedMissing(ctx, s.catalog.Slots())
		return err
	})
	fields["inserted"] = n
	return n, err
}

func (s *schedulingService) ListSlots(ctx context.Context, centerID string) ([]app.SlotView, error) {
	slots, err := s.slots.List(ctx, repository.SlotFilter{CenterID: centerID})
	if err != nil {
		return nil, err
	}
	held, err := s.bookings.HeldSlotIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.SlotView, 0, len(slots))
	for _, slot := range slots {
		out = append(out, s.view(slot, held[slot.ID]))
	}
	return out, nil
}

// Calendar groups the month's slots by date. month is YYYY-MM; an empty
// month covers every slot.
func (s *schedulingService) Calendar(ctx context.Context, month string) ([]app.CalendarDay, error) {
	var f repository.SlotFilter
	if month != "" {
		if _, err := time.Parse("2006-01", month); err != nil {
			return nil, domain.NewInvalidInput("month %q must look like 2026-11", month)
		}
		f.FromDate = month + "-01"
		f.ToDate = month + "-31"
	}
	slots, err := s.slots.List(ctx, f)
	if err != nil {
		return nil, err
	}
	held, err := s.bookings.HeldSlotIDs(ctx)
	if err != nil {
		return nil, err
	}
	var days []app.CalendarDay
	for _, d := range domain.GroupByDate(slots) {
		day := app.CalendarDay{Date: d.Date, Clickable: d.Clickable()}
		for _, slot := range d.Slots {
			day.Slots = append(day.Slots, s.view(slot, held[slot.ID]))
		}
		days = append(days, day)
	}
	return days, nil
}

// Book takes a seat on the slot. The seat counter and the booking row are
// written in one transaction.
func (s *schedulingService) Book(ctx context.Context, slotID string) (bv *app.BookingView, err error) {
	defer observe(ctx, s.observer, "book-slot", time.Now().UTC(), map[string]any{"slot": slotID}, &err)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		bookings := repository.NewSQLiteBookingRepo(tx)

		slot, held, err := s.slotWithHold(ctx, slots, bookings, slotID)
		if err != nil {
			return err
		}
		if err := slot.Book(held); err != nil {
			return err
		}
		if err := slots.UpdateSeats(ctx, slot.ID, slot.RemainingSeats); err != nil {
			return err
		}
		b := &domain.Booking{ID: uuid.NewString(), SlotID: slot.ID, BookedAt: s.now()}
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}
		bv = &app.BookingView{BookingID: b.ID, BookedAt: b.BookedAt, Slot: s.view(*slot, true)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bv, nil
}

// Cancel releases the participant's seat on the slot.
func (s *schedulingService) Cancel(ctx context.Context, slotID string) (err error) {
	defer observe(ctx, s.observer, "cancel-booking", time.Now().UTC(), map[string]any{"slot": slotID}, &err)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		slots := repository.NewSQLiteSlotRepo(tx)
		bookings := repository.NewSQLiteBookingRepo(tx)

		slot, held, err := s.slotWithHold(ctx, slots, bookings, slotID)
		if err != nil {
			return err
		}
		if err := slot.Cancel(held); err != nil {
			return err
		}
		if err := slots.UpdateSeats(ctx, slot.ID, slot.RemainingSeats); err != nil {
			return err
		}
		return bookings.Delete(ctx, slot.ID)
	})
}

func (s *schedulingService) ListBookings(ctx context.Context) ([]app.BookingView, error) {
	recs, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]app.BookingView, 0, len(recs))
	for _, r := range recs {
		out = append(out, app.BookingView{
			BookingID: r.Booking.ID,
			BookedAt:  r.Booking.BookedAt,
			Slot:      s.view(r.Slot, true),
		})
	}
	return out, nil
}

func (s *schedulingService) slotWithHold(ctx context.Context, slots repository.SlotRepo, bookings repository.BookingRepo, slotID string) (*domain.Slot, bool, error) {
	slot, err := slots.GetByID(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, domain.NewUnknownItem("no slot %q", slotID)
	}
	if err != nil {
		return nil, false, err
	}
	_, err = bookings.GetBySlot(ctx, slotID)
	switch {
	case err == nil:
		return slot, true, nil
	case errors.Is(err, repository.ErrNotFound):
		return slot, false, nil
	default:
		return nil, false, err
	}
}

func (s *schedulingService) view(slot domain.Slot, booked bool) app.SlotView {
	v := app.SlotView{Slot: slot, Booked: booked}
	v.CenterName, v.ProgramName, _ = s.catalog.CenterName(slot.CenterID)
	return v
}
