package main

import (
	"fmt"

	"github.com/indra-db/indra/internal/graph"
	"github.com/spf13/cobra"
)

func newNeighborsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "neighbors <id>",
		Short: "Explore the graph around a thought",
		Long:  `Show a thought's direct neighbors, or with --depth walk outward breadth-first, or with --to find the shortest path between two thoughts.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runNeighbors,
	}

	cmd.Flags().String("direction", "both", "Edge direction to follow: out|in|both")
	cmd.Flags().Int("depth", 0, "Breadth-first walk depth (0: direct neighbors only)")
	cmd.Flags().String("to", "", "Find the shortest path to this thought id instead")
	return cmd
}

func runNeighbors(cmd *cobra.Command, args []string) error {
	id := args[0]
	to, _ := cmd.Flags().GetString("to")
	depth, _ := cmd.Flags().GetInt("depth")

	db, closeDB, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	switch {
	case to != "":
		path, err := db.ShortestPath(id, to)
		if err != nil {
			return fmt.Errorf("shortest path: %w", err)
		}
		if asJSON(cmd) {
			return writeJSON(cmd, path)
		}
		for _, step := range path {
			fmt.Fprintln(cmd.OutOrStdout(), step)
		}
		return nil

	case depth > 0:
		nodes, err := db.BFS(id, depth)
		if err != nil {
			return fmt.Errorf("bfs: %w", err)
		}
		if asJSON(cmd) {
			return writeJSON(cmd, nodes)
		}
		for _, n := range nodes {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", n.Depth, n.ID)
		}
		return nil

	default:
		dir, err := parseDirection(cmd)
		if err != nil {
			return err
		}
		neighbors, err := db.Neighbors(id, dir)
		if err != nil {
			return fmt.Errorf("neighbors: %w", err)
		}
		if asJSON(cmd) {
			return writeJSON(cmd, neighbors)
		}
		for _, n := range neighbors {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", n.Edge.EdgeType, n.Edge.SourceID, n.Edge.TargetID)
		}
		return nil
	}
}

func parseDirection(cmd *cobra.Command) (graph.Direction, error) {
	v, _ := cmd.Flags().GetString("direction")
	switch v {
	case "out":
		return graph.Outgoing, nil
	case "in":
		return graph.Incoming, nil
	case "both", "":
		return graph.Both, nil
	default:
		return 0, fmt.Errorf("unknown direction %q: must be out, in, or both", v)
	}
}
