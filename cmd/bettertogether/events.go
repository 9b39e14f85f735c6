package main

import (
	"fmt"
	"strings"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"

	"github.com/spf13/cobra"
)

func (c *cli) eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Shared calendar events",
	}
	cmd.AddCommand(c.eventAddCmd(), c.eventListCmd(), c.eventUpcomingCmd())
	return cmd
}

func (c *cli) eventAddCmd() *cobra.Command {
	var in app.EventInput
	var date, typ, recurring string
	var reminder int
	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			in.Title = args[0]
			in.Type = domain.EventType(strings.ToLower(typ))
			in.Recurring = domain.Recurrence(strings.ToLower(recurring))
			d, err := domain.ParseDay(date, c.cycles.Location())
			if err != nil {
				return fmt.Errorf("--date: %w", err)
			}
			in.Date = d
			if cmd.Flags().Changed("remind") {
				in.ReminderMinutes = &reminder
			}

			e, err := c.calendar.AddEvent(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, e, func() {
				fmt.Fprintf(out, "Added %s %s on %s (%s).\n", e.Type.Icon(), e.Title, e.Date.Format(domain.DayLayout), e.Recurring)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day of the (first) occurrence (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Time, "time", "", "time of day (HH:MM)")
	cmd.Flags().StringVar(&in.Description, "description", "", "details")
	cmd.Flags().StringVar(&typ, "type", string(domain.EventReminder), "reminder, anniversary, date, cycle or custom")
	cmd.Flags().StringVar(&recurring, "repeat", string(domain.RecurNone), "none, daily, weekly, monthly or yearly")
	cmd.Flags().IntVar(&reminder, "remind", 0, "minutes before the event to remind")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func (c *cli) eventListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every calendar event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			events, err := c.calendar.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, events, func() {
				if len(events) == 0 {
					fmt.Fprintln(out, "No events.")
					return
				}
				for _, e := range events {
					fmt.Fprintf(out, "%s %-5s %s %s", e.Date.Format(domain.DayLayout), e.Time, e.Type.Icon(), e.Title)
					if e.Recurring != domain.RecurNone {
						fmt.Fprintf(out, " (%s)", e.Recurring)
					}
					fmt.Fprintln(out)
				}
			})
		},
	}
}

func (c *cli) eventUpcomingCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show the next events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			items, err := c.calendar.Upcoming(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, items, func() {
				if len(items) == 0 {
					fmt.Fprintln(out, "Nothing coming up.")
					return
				}
				for _, u := range items {
					fmt.Fprintf(out, "%s %s  %s (%s)\n", u.Icon, u.Event.Title, u.Next.Display, u.Next.Countdown)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", app.DefaultUpcomingLimit, "maximum events to show")
	return cmd
}
