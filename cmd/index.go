package cmd

import (
	"fmt"
	"path/filepath"

	"codebrief/internal/search"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Summarize a codebase once and print the index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		root, err := filepath.Abs(target)
		if err != nil {
			return err
		}

		idx, err := buildIndex(cmd.Context(), root, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout())
		search.Format(cmd.OutOrStdout(), idx.Records())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
