package main

import (
	"fmt"
	"slices"
	"strings"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"

	"github.com/spf13/cobra"
)

func (c *cli) cycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Cycle settings and logged periods",
	}
	cmd.AddCommand(c.cycleSettingsCmd(), c.cycleLogCmd(), c.cycleListCmd())
	return cmd
}

func (c *cli) cycleSettingsCmd() *cobra.Command {
	var cycleLen, periodLen int
	var lastStart string
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change cycle settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			var patch app.CycleSettingsPatch
			if cmd.Flags().Changed("cycle-length") {
				patch.AverageCycleLength = &cycleLen
			}
			if cmd.Flags().Changed("period-length") {
				patch.AveragePeriodLength = &periodLen
			}
			if lastStart != "" {
				d, err := domain.ParseDay(lastStart, c.cycles.Location())
				if err != nil {
					return fmt.Errorf("--last-start: %w", err)
				}
				patch.LastPeriodStart = &d
			}

			var (
				s   domain.CycleSettings
				err error
			)
			if patch == (app.CycleSettingsPatch{}) {
				s, err = c.cycles.Settings(ctx)
			} else {
				s, err = c.cycles.UpdateSettings(ctx, patch)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return c.print(out, s, func() {
				fmt.Fprintf(out, "Cycle length:  %d days\n", s.AverageCycleLength)
				fmt.Fprintf(out, "Period length: %d days\n", s.AveragePeriodLength)
				if s.LastPeriodStart != nil {
					fmt.Fprintf(out, "Last period:   %s\n", s.LastPeriodStart.Format(domain.DayLayout))
				} else {
					fmt.Fprintln(out, "Last period:   not set")
				}
			})
		},
	}
	cmd.Flags().IntVar(&cycleLen, "cycle-length", domain.DefaultCycleLength, "average cycle length in days")
	cmd.Flags().IntVar(&periodLen, "period-length", domain.DefaultPeriodLength, "average period length in days")
	cmd.Flags().StringVar(&lastStart, "last-start", "", "first day of the last period (YYYY-MM-DD)")
	return cmd
}

func (c *cli) cycleLogCmd() *cobra.Command {
	var start, end, flow, notes string
	var symptoms, moods []string
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			loc := c.cycles.Location()
			in := app.CycleEntryInput{
				Flow:     domain.Flow(strings.ToLower(flow)),
				Symptoms: symptoms,
				Mood:     moods,
				Notes:    notes,
			}
			d, err := domain.ParseDay(start, loc)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			in.StartDate = d
			if end != "" {
				e, err := domain.ParseDay(end, loc)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				in.EndDate = &e
			}

			entry, err := c.cycles.RecordEntry(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, entry, func() {
				fmt.Fprintf(out, "Logged period starting %s (%s flow).\n", entry.StartDate.Format(domain.DayLayout), entry.Flow)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flow, "flow", string(domain.FlowMedium), "light, medium or heavy")
	cmd.Flags().StringSliceVar(&symptoms, "symptom", nil, "symptom tag (repeatable)")
	cmd.Flags().StringSliceVar(&moods, "mood", nil, "mood tag (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func (c *cli) cycleListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged periods, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			entries, err := c.cycles.ListEntries(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, entries, func() {
				if len(entries) == 0 {
					fmt.Fprintln(out, "No periods logged.")
					return
				}
				for _, e := range entries {
					end := "?"
					if e.EndDate != nil {
						end = e.EndDate.Format(domain.DayLayout)
					}
					fmt.Fprintf(out, "%s .. %s  %-6s %s\n",
						e.StartDate.Format(domain.DayLayout), end, e.Flow, strings.Join(slices.Concat(e.Symptoms, e.Mood), ", "))
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 12, "maximum entries to show (0 for all)")
	return cmd
}
