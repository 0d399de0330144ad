package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <id>",
		Short: "Delete a thought",
		Args:  cobra.ExactArgs(1),
		RunE:  runDel,
	}
}

func runDel(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.DeleteThought(args[0]); err != nil {
		return fmt.Errorf("delete thought: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
