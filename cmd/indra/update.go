package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> [content]",
		Short: "Update a thought's content",
		Long:  `Update a thought's content. Reads from stdin if not given as an argument. No-op if content is unchanged.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	content, err := resolveContent(args[1:])
	if err != nil {
		return err
	}

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	t, err := db.UpdateThought(cmd.Context(), args[0], content)
	if err != nil {
		return fmt.Errorf("update thought: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", t.ID)
	return nil
}
