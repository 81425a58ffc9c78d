package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/loupe-vcs/loupe/pkg/object"
	"github.com/loupe-vcs/loupe/pkg/repo"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var oneline bool
	var limit int
	var firstParent bool

	cmd := &cobra.Command{
		Use:   "history [start]",
		Short: "Show commit history from the head reference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(repoPath)
			if err != nil {
				return err
			}

			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}
			if !cmd.Flags().Changed("oneline") {
				oneline = cfg.History.Oneline
			}

			target := "HEAD"
			if len(args) == 1 {
				target = args[0]
			}
			start, err := resolveCommitish(r, target)
			if err != nil {
				return fmt.Errorf("cannot resolve %s: %w", target, err)
			}

			out := cmd.OutOrStdout()

			if firstParent {
				entries, err := r.Log(start, limit)
				var broken *object.BrokenHistoryError
				if err != nil && !errors.As(err, &broken) {
					return err
				}
				for _, entry := range entries {
					printHistoryEntry(out, entry.Hash, entry.Commit, oneline, cfg.History.DateFormat)
				}
				if broken != nil {
					fmt.Fprintf(out, "gap: parent %s unavailable\n", broken.Parent)
				}
				return nil
			}

			entries, gaps, err := r.History(cmd.Context(), start, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 && len(gaps) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}
			for _, entry := range entries {
				printHistoryEntry(out, entry.Hash, entry.Commit, oneline, cfg.History.DateFormat)
			}
			for _, gap := range gaps {
				fmt.Fprintf(out, "gap: parent %s unavailable\n", gap.Parent)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")
	cmd.Flags().BoolVar(&firstParent, "first-parent", false, "follow only the first parent of merges")

	return cmd
}

func printHistoryEntry(out io.Writer, h object.Hash, c *object.CommitObj, oneline bool, dateFormat string) {
	if oneline {
		fmt.Fprintf(out, "%s %s\n", h.Short(), c.Summary())
		return
	}

	fmt.Fprintf(out, "commit %s\n", h)
	if len(c.Parents) > 1 {
		fmt.Fprint(out, "Merge:")
		for _, p := range c.Parents {
			fmt.Fprintf(out, " %s", p.Short())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Author: %s\n", c.Author)
	if c.Author.Valid() {
		fmt.Fprintf(out, "Date:   %s\n", c.Author.When.Format(dateFormat))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    %s\n", c.Summary())
	fmt.Fprintln(out)
}
