package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/sermonsearch/internal/config"
	"github.com/forPelevin/sermonsearch/internal/logging"
	"github.com/forPelevin/sermonsearch/internal/pipeline"
)

// loadConfig layers defaults, the config file, env vars and flags. Quiet
// commands log warnings and errors only unless a level is set explicitly.
func loadConfig(cmd *cobra.Command, getenv func(string) string, quiet bool) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyEnv(getenv)

	if cmd.Flags().Changed("corpus") {
		paths, _ := cmd.Flags().GetStringSlice("corpus")
		cfg.Corpus.Paths = paths
		cfg.Corpus.Explicit = true
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	} else if quiet && getenv("SERMONSEARCH_LOG_LEVEL") == "" {
		cfg.Log.Level = "warn"
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
}

func runServe(cmd *cobra.Command, getenv func(string) string) error {
	cfg, err := loadConfig(cmd, getenv, false)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	log := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := pipeline.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	return app.ListenAndServe(ctx)
}

func runSearch(cmd *cobra.Command, getenv func(string) string, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max")
	if maxResults < 0 {
		return fmt.Errorf("--max must be >= 0")
	}
	preset, _ := cmd.Flags().GetString("preset")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(cmd, getenv, true)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := pipeline.Build(ctx, cfg, newLogger(cmd, cfg))
	if err != nil {
		return err
	}
	s, err := app.Searcher(preset)
	if err != nil {
		return err
	}
	resp, err := s.Search(ctx, strings.Join(args, " "), maxResults)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, resp)
	}
	renderResponse(out, newStyles(out, getenv), resp)
	return nil
}

func runStats(cmd *cobra.Command, getenv func(string) string) error {
	cfg, err := loadConfig(cmd, getenv, true)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := pipeline.Build(ctx, cfg, newLogger(cmd, cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(out, app.Stats())
	}
	renderStats(out, newStyles(out, getenv), app.Stats())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
