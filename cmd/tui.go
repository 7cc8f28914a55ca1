package cmd

import (
	"io"
	"os"

	"codebrief/internal/index"
	"codebrief/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Index the working directory and search it in an interactive terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI() error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	// Fail on bad config before taking over the terminal.
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	return tui.Run(tui.Config{
		Root:       root,
		Model:      cfg.Summarizer.Model,
		Extensions: cfg.Scan.Extensions,
		NewBuilder: func(onProgress index.ProgressFunc) (*index.Builder, error) {
			// Debug output would corrupt the alt screen.
			b, _, err := newBuilder(root, onProgress, io.Discard)
			return b, err
		},
	})
}
