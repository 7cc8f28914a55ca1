package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagWorkers int
	flagExts    []string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:          "codebrief",
	Short:        "Summarize a codebase with Claude and search the summaries",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := os.Getwd()
		if err != nil {
			return err
		}

		idx, err := buildIndex(cmd.Context(), root, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Codebase indexed successfully. You can now ask questions about the codebase.")
		return runREPL(idx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default <root>/"+".codebrief.toml if present)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "files summarized in parallel (default from config, 1)")
	rootCmd.PersistentFlags().StringSliceVar(&flagExts, "ext", nil, "file extensions to index (default rs,toml,md)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print debug tracing to stderr")
}
