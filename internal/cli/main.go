package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCmd(os.Getenv)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:           "sermonsearch",
		Short:         "Search sermon transcripts by relevance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Config file (default sermonsearch.yaml if present)")
	root.PersistentFlags().StringSlice("corpus", nil, "Corpus file; repeat to list fallbacks")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON search API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, getenv)
		},
	}
	serve.Flags().String("addr", "", "Listen address (overrides config and PORT)")

	search := &cobra.Command{
		Use:   "search <query...>",
		Short: "Run one search and print the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, getenv, args)
		},
	}
	search.Flags().Int("max", 0, "Max results (default from config)")
	search.Flags().String("preset", "", "Engine preset (excerpt, timestamps, narrative or one from config)")
	search.Flags().Bool("json", false, "Print the raw JSON response")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, getenv)
		},
	}
	stats.Flags().Bool("json", false, "Print the raw JSON stats")

	root.AddCommand(serve, search, stats)
	return root
}
