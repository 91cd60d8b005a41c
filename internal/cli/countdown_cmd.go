package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/meridian/internal/cli/formatter"
	"github.com/alexanderramin/meridian/internal/countdown"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newCountdownCmd(app *App) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "countdown PROGRAM",
		Short: "Live countdown to a program's due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Programs.Detail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if once || !app.interactive() {
				c := countdown.Remaining(app.Scheduler.Now(), detail.DueDate)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", detail.Name, formatter.CountdownStyled(c))
				return nil
			}

			ticks := make(chan countdown.Countdown, 1)
			m := newCountdownModel(detail.Name, detail.DueDate, ticks)
			ticker := countdown.Start(app.Scheduler, detail.DueDate, latestOnly(ticks))
			defer ticker.Stop()

			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Print the remaining time and exit")
	return cmd
}

// latestOnly keeps only the newest countdown in a one-slot channel so the
// scheduler never blocks on a slow renderer.
func latestOnly(ch chan countdown.Countdown) func(countdown.Countdown) {
	return func(c countdown.Countdown) {
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
}

type tickMsg countdown.Countdown

type countdownKeys struct {
	Quit key.Binding
}

func (k countdownKeys) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }

type countdownModel struct {
	title   string
	due     time.Time
	current countdown.Countdown
	ticks   <-chan countdown.Countdown
	keys    countdownKeys
}

func newCountdownModel(title string, due time.Time, ticks <-chan countdown.Countdown) countdownModel {
	return countdownModel{
		title: title,
		due:   due,
		ticks: ticks,
		keys: countdownKeys{
			Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		},
	}
}

func waitForTick(ch <-chan countdown.Countdown) tea.Cmd {
	return func() tea.Msg { return tickMsg(<-ch) }
}

func (m countdownModel) Init() tea.Cmd {
	return waitForTick(m.ticks)
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	case tickMsg:
		m.current = countdown.Countdown(msg)
		if m.current.Expired {
			return m, tea.Quit
		}
		return m, waitForTick(m.ticks)
	}
	return m, nil
}

func (m countdownModel) View() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	body := formatter.CountdownStyled(m.current) + "\n" +
		formatter.Dim("due "+formatter.ShortDate(m.due)) + "\n\n" +
		strings.Join(hints, "  ")
	return formatter.RenderBox(m.title, body) + "\n"
}
