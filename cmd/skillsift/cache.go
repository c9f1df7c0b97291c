package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillsift/internal/config"
	"github.com/amishk599/skillsift/internal/store"
)

var pruneOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the persistent embedding store",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of stored embeddings",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSQLiteStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d embeddings stored\n", n)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored embeddings older than --older-than",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openSQLiteStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := st.Cleanup(ctx, pruneOlderThan); err != nil {
			return err
		}
		n, err := st.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned; %d embeddings remain\n", n)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "age beyond which embeddings are deleted")
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openSQLiteStore() (*store.SQLiteStore, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Embedding.Store != config.StoreSQLite {
		return nil, fmt.Errorf("embedding.store is %q; cache commands need \"sqlite\"", cfg.Embedding.Store)
	}
	return store.NewSQLiteStore(cfg.Embedding.SQLitePath, cfg.Embedding.Model)
}
