package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every visible thought",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	thoughts, err := db.ListThoughts()
	if err != nil {
		return fmt.Errorf("list thoughts: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, thoughts)
	}
	for _, t := range thoughts {
		fmt.Fprintln(cmd.OutOrStdout(), t.ID)
	}
	return nil
}
