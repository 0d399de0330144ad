package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUnrelateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unrelate <source> <target> <type>",
		Short: "Remove an edge between two thoughts",
		Args:  cobra.ExactArgs(3),
		RunE:  runUnrelate,
	}
}

func runUnrelate(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.Unrelate(args[0], args[1], args[2]); err != nil {
		return fmt.Errorf("unrelate: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unrelated %s -%s-> %s\n", args[0], args[2], args[1])
	return nil
}
