package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <branch|commit>",
		Short: "Switch HEAD to a branch or a specific commit",
		Long:  `Switch HEAD to a branch name, or to a commit hash for a detached view. Refuses if there are uncommitted changes.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCheckout,
	}
}

func runCheckout(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.Checkout(args[0]); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", args[0])
	return nil
}
