package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/dataset/csvsource"
	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-skill-screener/internal/skills"
)

func newSeedCmd(root *rootOptions) *cobra.Command {
	var csvPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference CSV into the Postgres reference table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.DatasetPath
			}
			ctx := cmd.Context()
			tbl, err := csvsource.New(csvPath).Load(ctx)
			if err != nil {
				return err
			}
			// Reject a table the server would refuse to start with.
			if _, err := skills.NewCatalog(tbl); err != nil {
				return err
			}

			pool, err := postgres.NewPool(ctx, cfg.DBURL)
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer pool.Close()
			repo := postgres.NewReferenceRepo(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := repo.Seed(ctx, tbl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows from %s\n", n, csvPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "Reference CSV to load (default DATASET_PATH)")
	return cmd
}
