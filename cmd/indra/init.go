package main

import (
	"fmt"
	"os"

	"github.com/indra-db/indra/internal/config"
	"github.com/indra-db/indra/internal/graph"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new database file",
		Long:  `Create a new, empty database file and, if none exists yet, a .indra.yaml config in the current directory.`,
		RunE:  runInit,
	}
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadedConfig(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Database); err == nil {
		return fmt.Errorf("%s already exists", cfg.Database)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	db, err := graph.Create(cfg.Database, embedder)
	if err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	if err := db.Close(); err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized database at %s\n", cfg.Database)
	return nil
}
