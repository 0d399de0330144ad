package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current branch and staged changes",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	st, err := db.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, st)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "On branch %s\n", st.Branch)
	fmt.Fprintf(cmd.OutOrStdout(), "HEAD: %s\n", st.HeadCommit)
	if st.ThoughtsCreated+st.ThoughtsUpdated+st.ThoughtsDeleted+st.EdgesCreated+st.EdgesDeleted == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to commit, working tree clean")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  thoughts created:  %d\n", st.ThoughtsCreated)
	fmt.Fprintf(cmd.OutOrStdout(), "  thoughts updated:  %d\n", st.ThoughtsUpdated)
	fmt.Fprintf(cmd.OutOrStdout(), "  thoughts deleted:  %d\n", st.ThoughtsDeleted)
	fmt.Fprintf(cmd.OutOrStdout(), "  edges created:     %d\n", st.EdgesCreated)
	fmt.Fprintf(cmd.OutOrStdout(), "  edges deleted:     %d\n", st.EdgesDeleted)
	return nil
}
