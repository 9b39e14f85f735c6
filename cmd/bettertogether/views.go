package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"

	"github.com/spf13/cobra"
)

func (c *cli) print(out io.Writer, v any, text func()) error {
	if c.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

func (c *cli) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show predictions, the current phase and the moon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			ov, err := c.cycles.Overview(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, ov, func() { printOverview(out, ov) })
		},
	}
}

func printOverview(out io.Writer, ov app.Overview) {
	fmt.Fprintf(out, "Today: %s\n", ov.Today)
	printMoon(out, ov.Moon)

	if ov.Prediction == nil {
		fmt.Fprintln(out, "No period logged yet. Set one with: bettertogether cycle settings --last-start YYYY-MM-DD")
		return
	}
	p := ov.Prediction
	fmt.Fprintf(out, "Next period:    %s (%s)\n", p.NextPeriod.Display, p.NextPeriod.Countdown)
	fmt.Fprintf(out, "Ovulation:      %s (%s)\n", p.Ovulation.Display, p.Ovulation.Countdown)
	fmt.Fprintf(out, "Fertile window: %s - %s (%s)\n",
		p.FertileWindow.Start.Display, p.FertileWindow.End.Display, fertileText(p.FertileWindow))

	if ov.Phase != nil {
		g := ov.Phase.Guidance
		fmt.Fprintf(out, "\nPhase: %s, day %d (%s)\n", ov.Phase.Phase, ov.Phase.CycleDay, g.Moon)
		fmt.Fprintf(out, "Energy: %s\n", g.Energy)
		printList(out, "Focus", g.Focus)
		printList(out, "Support", g.SupportTips)
		printList(out, "Affirmations", g.Affirmations)
	}
}

func fertileText(fw app.FertileWindowView) string {
	switch fw.Status {
	case domain.FertileUpcoming:
		return "starts " + fw.Start.Countdown
	case domain.FertileActive:
		return "active now"
	default:
		return "ended"
	}
}

func printList(out io.Writer, title string, items []string) {
	fmt.Fprintf(out, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(out, "  - %s\n", it)
	}
}

func printMoon(out io.Writer, m domain.MoonReading) {
	fmt.Fprintf(out, "Moon: %s %s, day %.1f, %.0f%% lit\n", m.Emoji, m.Phase, m.Age, m.Illumination*100)
}

func (c *cli) moonCmd() *cobra.Command {
	var at string
	var days int
	cmd := &cobra.Command{
		Use:   "moon",
		Short: "Show the moon phase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			t := c.cycles.Now()
			if at != "" {
				var err error
				if t, err = parseInstant(at, c.cycles.Location()); err != nil {
					return err
				}
			}
			readings := []domain.MoonReading{domain.MoonPhaseAt(t)}
			if days > 1 {
				readings = domain.MoonPhasesBetween(t, days)
			}
			out := cmd.OutOrStdout()
			return c.print(out, readings, func() {
				for i, r := range readings {
					fmt.Fprintf(out, "%s  ", domain.AddDays(t, i).Format(domain.DayLayout))
					printMoon(out, r)
				}
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "instant (RFC 3339) or day (YYYY-MM-DD); default now")
	cmd.Flags().IntVar(&days, "days", 1, "number of consecutive days to list")
	return cmd
}

func (c *cli) calendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with logged, predicted and fertile days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			m := c.cycles.Now()
			if month != "" {
				var err error
				if m, err = time.ParseInLocation("2006-01", month, c.cycles.Location()); err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
			}
			days, err := c.calendar.Month(cmd.Context(), m.Year(), m.Month())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, days, func() { printCalendar(out, m, days) })
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM; default current month")
	return cmd
}

func printCalendar(out io.Writer, month time.Time, days []app.CalendarDay) {
	fmt.Fprintf(out, "%s\n", month.Format("January 2006"))
	fmt.Fprintln(out, " Su  Mo  Tu  We  Th  Fr  Sa")
	var row strings.Builder
	for i, d := range days {
		if d.InMonth {
			fmt.Fprintf(&row, " %2s%s", strings.TrimPrefix(d.Day[8:], "0"), dayMark(d))
		} else {
			row.WriteString("    ")
		}
		if i%7 == 6 {
			fmt.Fprintln(out, row.String())
			row.Reset()
		}
	}
	fmt.Fprintln(out, "P period  p predicted  F fertile  O ovulation  * today")

	for _, d := range days {
		if !d.InMonth {
			continue
		}
		for _, e := range d.Events {
			fmt.Fprintf(out, "%s %-5s %s %s\n", d.Day, e.Time, e.Icon, e.Title)
		}
	}
}

func dayMark(d app.CalendarDay) string {
	switch {
	case d.IsToday:
		return "*"
	case d.IsLoggedPeriod:
		return "P"
	case d.IsOvulation:
		return "O"
	case d.IsPredictedPeriod:
		return "p"
	case d.IsFertile:
		return "F"
	}
	return " "
}

// parseInstant accepts an RFC 3339 timestamp or a calendar day.
func parseInstant(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := domain.ParseDay(v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD: %w", err)
	}
	return t, nil
}
