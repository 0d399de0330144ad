package main

import (
	"fmt"
	"sort"

	"github.com/indra-db/indra/internal/graph"
	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List or create branches",
		Long:  `With no argument, list every branch. With a name, create a new branch pointing at HEAD.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBranch,
	}

	cmd.Flags().BoolP("delete", "d", false, "Delete the named branch")
	return cmd
}

func runBranch(cmd *cobra.Command, args []string) error {
	del, _ := cmd.Flags().GetBool("delete")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if len(args) == 0 {
		return listBranches(cmd, db)
	}
	name := args[0]
	if del {
		if err := db.DeleteBranch(name); err != nil {
			return fmt.Errorf("delete branch: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted branch %s\n", name)
		return nil
	}

	if err := db.CreateBranch(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created branch %s\n", name)
	return nil
}

func listBranches(cmd *cobra.Command, db *graph.Database) error {
	current, attached := db.CurrentBranch()
	branches := db.Branches()

	names := make([]string, 0, len(branches))
	for n := range branches {
		names = append(names, n)
	}
	sort.Strings(names)

	if asJSON(cmd) {
		return writeJSON(cmd, branches)
	}
	for _, n := range names {
		prefix := "  "
		if attached && n == current {
			prefix = "* "
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", prefix, n)
	}
	return nil
}
