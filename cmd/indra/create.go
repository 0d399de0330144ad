package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <id> [content]",
		Short: "Create a new thought",
		Long:  `Create a new thought with the given id. Reads content from stdin if not given as an argument.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runCreate,
	}

	cmd.Flags().StringToString("metadata", nil, "Metadata key=value pairs")
	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	id := args[0]
	content, err := resolveContent(args[1:])
	if err != nil {
		return err
	}
	metadata, _ := cmd.Flags().GetStringToString("metadata")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	t, err := db.CreateThought(cmd.Context(), id, content, metadata)
	if err != nil {
		return fmt.Errorf("create thought: %w", err)
	}

	if asJSON(cmd) {
		return writeJSON(cmd, t)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", t.ID)
	return nil
}

func resolveContent(rest []string) (string, error) {
	if len(rest) >= 1 {
		return rest[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
