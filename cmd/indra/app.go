package main

import (
	"fmt"
	"os"

	"github.com/indra-db/indra/internal/config"
	"github.com/indra-db/indra/internal/embed"
	"github.com/indra-db/indra/internal/graph"
	"github.com/spf13/cobra"
)

const configPath = ".indra.yaml"

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("db", "", "Path to the database file (default: from "+configPath+", or thoughts.indra)")
	cmd.PersistentFlags().String("embedder", "", "Embedder provider: mock|openai|cohere|voyage|hf")
	cmd.PersistentFlags().String("embedder-model", "", "Embedder model name")
	cmd.PersistentFlags().Int("embedder-dim", 0, "Embedder vector dimension")
	cmd.PersistentFlags().String("author", "", "Author name recorded on commits")
	cmd.PersistentFlags().Bool("no-auto-commit", false, "Stage changes without committing automatically")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// loadedConfig resolves the effective config: file defaults overridden by
// any flags the user passed explicitly.
func loadedConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Database = v
	}
	if v, _ := cmd.Flags().GetString("embedder"); v != "" {
		cfg.Embedder.Provider = v
	}
	if v, _ := cmd.Flags().GetString("embedder-model"); v != "" {
		cfg.Embedder.Model = v
	}
	if v, _ := cmd.Flags().GetInt("embedder-dim"); v != 0 {
		cfg.Embedder.Dimension = v
	}
	if noAuto, _ := cmd.Flags().GetBool("no-auto-commit"); noAuto {
		cfg.AutoCommit = false
	}
	return cfg, nil
}

func buildEmbedder(cfg *config.Config) (embed.Embedder, error) {
	return embed.NewFromOptions(embed.Options{
		Provider:  cfg.Embedder.Provider,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
	})
}

// openDB opens the configured database file, wires an embedder and the
// auto-commit/author settings, and returns a closer the caller must defer.
func openDB(cmd *cobra.Command) (*graph.Database, func(), error) {
	cfg, err := loadedConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, nil, err
	}

	if _, statErr := os.Stat(cfg.Database); statErr != nil {
		return nil, nil, fmt.Errorf("open %s: no database here — run `indra init` first", cfg.Database)
	}

	db, err := graph.Open(cfg.Database, embedder)
	if err != nil {
		return nil, nil, err
	}

	db.SetAutoCommit(cfg.AutoCommit)
	if author, _ := cmd.Flags().GetString("author"); author != "" {
		db.SetAuthor(author)
	}

	return db, func() { _ = db.Close() }, nil
}

func asJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
