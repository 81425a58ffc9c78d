package main

import (
	"fmt"

	"github.com/loupe-vcs/loupe/pkg/diff"
	"github.com/loupe-vcs/loupe/pkg/repo"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show line counts added and removed between two commits",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(repoPath)
			if err != nil {
				return err
			}

			oldHash, err := resolveCommitish(r, args[0])
			if err != nil {
				return err
			}
			newHash, err := resolveCommitish(r, args[1])
			if err != nil {
				return err
			}

			oldCommit, err := r.Store.ReadCommit(oldHash)
			if err != nil {
				return fmt.Errorf("diff: read commit %s: %w", oldHash, err)
			}
			newCommit, err := r.Store.ReadCommit(newHash)
			if err != nil {
				return fmt.Errorf("diff: read commit %s: %w", newHash, err)
			}

			stats, err := diff.Commits(r.Store, oldCommit, newCommit)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s..%s: +%d -%d\n",
				oldHash.Short(), newHash.Short(), stats.Added, stats.Removed)
			return nil
		},
	}
}
