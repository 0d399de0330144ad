package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Commit staged changes",
		Long:  `Commit every staged change to the current branch. Opens $EDITOR if no message is given.`,
		RunE:  runCommit,
	}

	cmd.Flags().StringP("message", "m", "", "Commit message")
	return cmd
}

func runCommit(cmd *cobra.Command, _ []string) error {
	message, _ := cmd.Flags().GetString("message")

	if message == "" {
		var err error
		message, err = getMessageFromEditor()
		if err != nil {
			return fmt.Errorf("get message: %w", err)
		}
	}
	if message == "" {
		return fmt.Errorf("commit message required")
	}

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	hash, err := db.Commit(message)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", hash.String()[:12], message)
	return nil
}

func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmpFile, err := os.CreateTemp("", "indra-commit-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("\n# Enter commit message above. Lines starting with # are ignored.\n"); err != nil {
		return "", err
	}
	tmpFile.Close()

	c := exec.Command(editor, tmpFile.Name())
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return "", err
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
