// Command skillctl screens resumes and ranks job description skills from the
// command line using the same components as the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/ai-skill-screener/internal/adapter/observability"
	"github.com/fairyhunter13/ai-skill-screener/internal/app"
	"github.com/fairyhunter13/ai-skill-screener/internal/config"
)

type rootOptions struct {
	dataset  string
	strategy string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "skillctl",
		Short:         "Screen resumes against job roles and rank job description skills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "Reference CSV path (overrides DATASET_PATH)")
	cmd.PersistentFlags().StringVar(&opts.strategy, "strategy", "", "Embedding strategy: sparse or dense (overrides EMBEDDING_STRATEGY)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level to stderr")

	cmd.AddCommand(newScreenCmd(opts), newRankCmd(opts), newVocabCmd(opts), newSeedCmd(opts))
	return cmd
}

// loadConfig reads the environment and applies the persistent flag overrides.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if o.dataset != "" {
		cfg.DatasetPath = o.dataset
	}
	if o.strategy != "" {
		cfg.EmbeddingStrategy = o.strategy
	}
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", "skillctl")))
	return cfg, nil
}

// build loads config and constructs the shared components. The returned
// context carries the command logger.
func (o *rootOptions) build(ctx context.Context, probe bool) (context.Context, *app.Components, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return ctx, nil, err
	}
	ctx = observability.ContextWithLogger(ctx, slog.Default())
	comps, err := app.Build(ctx, cfg, probe)
	return ctx, comps, err
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
