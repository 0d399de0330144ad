package main

import (
	"fmt"
	"strings"

	"github.com/indra-db/indra/internal/graph"
	"github.com/indra-db/indra/internal/store"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> [to]",
		Short: "Show what changed between two commits",
		Long:  `Compare the graph at two commits (branch names or commit hashes). A hash may be abbreviated to a prefix of a commit in HEAD's history, as printed by log --oneline. If to is omitted, compares against HEAD.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runDiff,
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	from, err := resolveRef(db, args[0])
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	to := db.HeadCommit()
	if len(args) > 1 {
		to, err = resolveRef(db, args[1])
		if err != nil {
			return fmt.Errorf("diff: %w", err)
		}
	}

	result, err := db.Diff(from, to)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, result)
	}
	printDiff(cmd, result)
	return nil
}

func resolveRef(db *graph.Database, ref string) (store.Hash, error) {
	if h, ok := db.Branches()[ref]; ok {
		return h, nil
	}
	if h, err := store.ParseHash(ref); err == nil {
		return h, nil
	}
	if ref != "" {
		records, err := db.Log(store.Hash{}, 0)
		if err != nil {
			return store.Hash{}, err
		}
		for _, r := range records {
			if strings.HasPrefix(r.Hash.String(), ref) {
				return r.Hash, nil
			}
		}
	}
	return store.Hash{}, fmt.Errorf("unknown ref %q", ref)
}

func printDiff(cmd *cobra.Command, d *graph.DiffResult) {
	out := cmd.OutOrStdout()
	for _, id := range d.ThoughtsAdded {
		fmt.Fprintf(out, "+ thought %s\n", id)
	}
	for _, id := range d.ThoughtsRemoved {
		fmt.Fprintf(out, "- thought %s\n", id)
	}
	for _, td := range d.ThoughtsModified {
		fmt.Fprintf(out, "~ thought %s\n", td.ID)
		for _, line := range td.Lines {
			switch line.Type {
			case 1:
				fmt.Fprintf(out, "  +%s", line.Text)
			case -1:
				fmt.Fprintf(out, "  -%s", line.Text)
			}
		}
	}
	for _, k := range d.EdgesAdded {
		fmt.Fprintf(out, "+ edge %s -%s-> %s\n", k.SourceID, k.EdgeType, k.TargetID)
	}
	for _, k := range d.EdgesRemoved {
		fmt.Fprintf(out, "- edge %s -%s-> %s\n", k.SourceID, k.EdgeType, k.TargetID)
	}
}
