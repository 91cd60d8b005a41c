package cli

import (
	"fmt"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSlotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "slot",
		Aliases: []string{"slots"},
		Short:   "Book and cancel assessment center slots",
	}

	cmd.AddCommand(
		newSlotListCmd(app),
		newSlotCalendarCmd(app),
		newSlotBookCmd(app),
		newSlotCancelCmd(app),
		newSlotBookingsCmd(app),
	)

	return cmd
}

func newSlotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list CENTER",
		Short: "List a center's slots with remaining seats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := app.Scheduling.ListSlots(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSlots(slots))
			return nil
		},
	}
}

func newSlotCalendarCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show slots grouped by day across all centers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := app.Scheduling.Calendar(cmd.Context(), month)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCalendar(month, days))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, blank for all)")
	return cmd
}

func newSlotBookCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "book SLOT",
		Short: "Take a seat on a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bv, err := app.Scheduling.Book(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			s := bv.Slot
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s on %s, %s. %d seat(s) left.\n",
				s.CenterName, formatter.DateLabel(s.Date), s.TimeLabel(), s.RemainingSeats)
			return nil
		},
	}
}

func newSlotCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel SLOT",
		Short: "Release your seat on a slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Scheduling.Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled booking on %s.\n", args[0])
			return nil
		},
	}
}

func newSlotBookingsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bookings",
		Short: "List your bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookings, err := app.Scheduling.ListBookings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBookings(bookings))
			return nil
		},
	}
}
