package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cellmachine/internal/config"
)

var flagConfigDefault bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the viewer configuration",
	Long: `Print the effective viewer configuration as YAML, after flags are applied.

The first line names the file it was loaded from. With --default the
embedded default file is printed instead, ready to be saved as
~/.cellmachine/configs/viewer.yaml.

Examples:
  cellmachine config
  cellmachine config --speed fast --ascii
  cellmachine config --default > ~/.cellmachine/configs/viewer.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigDefault, "default", false, "Print the embedded default config")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if flagConfigDefault {
		_, err := out.Write(config.DefaultViewerYAML())
		return err
	}

	data, err := viewerCfg.Marshal()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	fmt.Fprintf(out, "# source: %s\n", viewerCfg.Source)
	for _, p := range config.SearchPaths() {
		if _, err := os.Stat(p); err == nil && p != viewerCfg.Source {
			fmt.Fprintf(out, "# shadowed: %s\n", p)
		}
	}
	_, err = out.Write(data)
	return err
}
