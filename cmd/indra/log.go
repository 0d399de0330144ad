package main

import (
	"fmt"
	"time"

	"github.com/indra-db/indra/internal/store"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		RunE:  runLog,
	}

	cmd.Flags().IntP("number", "n", 10, "Limit number of commits (0: unlimited)")
	cmd.Flags().Bool("oneline", false, "Show each commit on one line")
	return cmd
}

func runLog(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("number")
	oneline, _ := cmd.Flags().GetBool("oneline")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := db.Log(store.Hash{}, limit)
	if err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, records)
	}

	for _, r := range records {
		if oneline {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.Hash.String()[:12], r.Commit.Message)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", r.Hash)
		fmt.Fprintf(cmd.OutOrStdout(), "Author: %s\n", r.Commit.Author)
		fmt.Fprintf(cmd.OutOrStdout(), "Date:   %s\n\n", time.Unix(r.Commit.Timestamp, 0).Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n\n", r.Commit.Message)
	}
	return nil
}
