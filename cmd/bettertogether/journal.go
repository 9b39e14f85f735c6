package main

import (
	"fmt"
	"strings"

	"bettertogether/internal/app"

	"github.com/spf13/cobra"
)

func (c *cli) journalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Shared journal",
	}
	cmd.AddCommand(c.journalAddCmd(), c.journalListCmd())
	return cmd
}

func (c *cli) journalAddCmd() *cobra.Command {
	var in app.JournalInput
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			in.Content = strings.Join(args, " ")
			e, err := c.journal.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, e, func() {
				fmt.Fprintf(out, "Saved entry from %s.\n", e.Timestamp.Format("Mon, Jan 2 15:04"))
			})
		},
	}
	cmd.Flags().StringVar(&in.Mood, "mood", "", "how you felt")
	cmd.Flags().StringSliceVar(&in.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&in.Location, "location", "", "where it happened")
	return cmd
}

func (c *cli) journalListCmd() *cobra.Command {
	var limit int
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.ensureUnlocked(cmd); err != nil {
				return err
			}
			entries, err := c.journal.List(cmd.Context(), limit, tag)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.print(out, entries, func() {
				if len(entries) == 0 {
					fmt.Fprintln(out, "The journal is empty.")
					return
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s", e.Timestamp.Format("2006-01-02 15:04"))
					if e.Mood != "" {
						fmt.Fprintf(out, "  [%s]", e.Mood)
					}
					if len(e.Tags) > 0 {
						fmt.Fprintf(out, "  #%s", strings.Join(e.Tags, " #"))
					}
					fmt.Fprintf(out, "\n  %s\n", e.Content)
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&tag, "tag", "", "only entries with this tag")
	return cmd
}
