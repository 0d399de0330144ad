package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRelateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relate <source> <target> <type>",
		Short: "Create or update an edge between two thoughts",
		Args:  cobra.ExactArgs(3),
		RunE:  runRelate,
	}

	cmd.Flags().Float32("weight", 1.0, "Edge weight")
	cmd.Flags().StringToString("metadata", nil, "Metadata key=value pairs")
	return cmd
}

func runRelate(cmd *cobra.Command, args []string) error {
	weight, _ := cmd.Flags().GetFloat32("weight")
	metadata, _ := cmd.Flags().GetStringToString("metadata")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.Relate(args[0], args[1], args[2], weight, metadata); err != nil {
		return fmt.Errorf("relate: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Related %s -%s-> %s\n", args[0], args[2], args[1])
	return nil
}
