package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// repoPath is the working directory to locate the repository from,
// shared by every subcommand via the root --repo flag.
var repoPath string

func main() {
	root := &cobra.Command{
		Use:   "loupe",
		Short: "Read-only inspector for Git object stores",
	}
	root.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "directory to locate the repository from")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newObjectCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newRefsCmd())
	root.AddCommand(newDiffCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "loupe 0.1.0-dev")
		},
	}
}
