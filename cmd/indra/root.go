package main

import "github.com/spf13/cobra"

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "indra",
		Short:         "A content-addressed, versioned graph database",
		Long:          `Indra stores thoughts and their relations in a single portable file, with git-like commits, branches, and vector search over HEAD.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(root)

	root.AddCommand(
		newInitCmd(),
		newCreateCmd(),
		newGetCmd(),
		newUpdateCmd(),
		newDelCmd(),
		newListCmd(),
		newRelateCmd(),
		newUnrelateCmd(),
		newNeighborsCmd(),
		newSearchCmd(),
		newCommitCmd(),
		newLogCmd(),
		newBranchCmd(),
		newCheckoutCmd(),
		newDiffCmd(),
		newStatusCmd(),
	)

	return root
}
