package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a thought",
		Args:  cobra.ExactArgs(1),
		RunE:  runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	t, err := db.GetThought(args[0])
	if err != nil {
		return fmt.Errorf("get thought: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, t)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Content)
	return nil
}
