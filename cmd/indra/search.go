package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank thoughts by vector similarity to a query",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().IntP("number", "n", 10, "Maximum results")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("number")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := db.Search(cmd.Context(), args[0], limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, results)
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f\t%s\n", r.Score, r.Thought.ID)
	}
	return nil
}
