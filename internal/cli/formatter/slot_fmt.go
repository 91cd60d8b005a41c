package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/meridian/internal/app"
)

func seatsLabel(v app.SlotView) string {
	label := fmt.Sprintf("%d/%d", v.RemainingSeats, v.TotalSeats)
	switch {
	case v.RemainingSeats == 0:
		return StyleRed.Render(label)
	case v.RemainingSeats == 1:
		return StyleYellow.Render(label)
	default:
		return StyleGreen.Render(label)
	}
}

func slotAction(v app.SlotView) string {
	switch {
	case v.Booked && v.CancellationAllowed:
		return StyleGreen.Render("● booked") + Dim(" (cancellable)")
	case v.Booked:
		return StyleGreen.Render("● booked")
	case v.Bookable():
		return StyleBlue.Render("bookable")
	default:
		return StyleRed.Render("full")
	}
}

// FormatSlots renders the slot list of one center.
func FormatSlots(slots []app.SlotView) string {
	if len(slots) == 0 {
		return RenderBox("Slots", Dim("No slots scheduled."))
	}
	headers := []string{"ID", "DATE", "TIME", "SEATS", "CANCELLATION", ""}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		cancel := Dim("not allowed")
		if s.CancellationAllowed {
			cancel = s.CancellationCutoffLabel
			if cancel == "" {
				cancel = "allowed"
			}
		}
		rows = append(rows, []string{
			Dim(s.ID),
			DateLabel(s.Date),
			s.TimeLabel(),
			seatsLabel(s),
			cancel,
			slotAction(s),
		})
	}
	return RenderBox(slots[0].CenterName, RenderTable(headers, rows))
}

// FormatCalendar renders one block per date with every slot on it.
func FormatCalendar(month string, days []app.CalendarDay) string {
	title := "Calendar"
	if month != "" {
		title += " " + month
	}
	if len(days) == 0 {
		return RenderBox(title, Dim("No slots on any day."))
	}
	var b strings.Builder
	for i, d := range days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Bold(DateLabel(d.Date)) + Dim("  "+d.Date) + "\n")
		for _, s := range d.Slots {
			b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
				s.TimeLabel(), s.CenterName, seatsLabel(s), slotAction(s)))
		}
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// FormatBookings renders the participant's bookings with slot metadata.
func FormatBookings(bookings []app.BookingView) string {
	if len(bookings) == 0 {
		return RenderBox("Bookings", Dim("No bookings yet."))
	}
	headers := []string{"SLOT", "CENTER", "PROGRAM", "DATE", "TIME", "CANCEL"}
	rows := make([][]string, 0, len(bookings))
	for _, bk := range bookings {
		cancel := StyleRed.Render("no")
		if bk.Slot.CancellationAllowed {
			cancel = StyleGreen.Render("yes")
			if bk.Slot.CancellationCutoffLabel != "" {
				cancel += Dim(" (" + bk.Slot.CancellationCutoffLabel + ")")
			}
		}
		rows = append(rows, []string{
			Dim(bk.Slot.ID),
			bk.Slot.CenterName,
			bk.Slot.ProgramName,
			DateLabel(bk.Slot.Date),
			bk.Slot.TimeLabel(),
			cancel,
		})
	}
	return RenderBox("Bookings", RenderTable(headers, rows))
}
