// cellmachine runs Cell Machine levels in the terminal.
//
// Usage:
//
//	cellmachine list                 - List builtin and local levels
//	cellmachine play [level]         - Watch a level (picker when omitted)
//	cellmachine menu                 - Level picker, viewer and run history in one session
//	cellmachine run <level>          - Run a level headless and print the result
//	cellmachine runs [level]         - Show recorded runs
//	cellmachine serve                - Start SSH server for remote viewing
//	cellmachine config               - Print the effective viewer config
//
// A level is a builtin ID, a level file path, an ID from --levels, or a V1/V3 level code.
//
// Global flags:
//
//	--sleep <ms>      - Wait between ticks (default: from config, 200)
//	--speed <preset>  - slow, normal, fast or max; --sleep wins when both are set
//	--nerd            - Subtract render and update time from the sleep
//	--backend <name>  - Terminal backend: tea or tcell
//	--ascii           - ASCII glyphs and a monochrome theme
//	--db <path>       - Run history database (default: ~/.cellmachine/runs.db)
//	--trace           - Export OpenTelemetry spans over OTLP HTTP
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Register builtin levels
	_ "github.com/vovakirdan/cellmachine/internal/levels/builtin"
)

var (
	// Global flags
	flagSleep     int
	flagSpeed     string
	flagNerd      bool
	flagBackend   string
	flagASCII     bool
	flagNoHUD     bool
	flagDBPath    string
	flagConfig    string
	flagLevelsDir string
	flagLogLevel  string
	flagTrace     bool
)

func main() {
	// OTEL_* settings may live in a .env file; it is optional.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cellmachine",
	Short: "Cell Machine - watch cell automata levels in your terminal",
	Long: `Cell Machine simulates grids of movers, generators, rotators, pushers,
sliders, trash cells and enemies, one tick at a time.

Available commands:
  list     - Show builtin and local levels
  play     - Watch a level in the terminal
  menu     - Interactive level picker
  run      - Run a level without a screen
  runs     - View recorded runs
  serve    - Start SSH server for remote viewing
  config   - Print the viewer configuration

Examples:
  cellmachine list
  cellmachine play intro
  cellmachine play ./levels/maze.yaml --backend tcell
  cellmachine play 'V3;3;1;6{c;Tiny;'
  cellmachine run factory --ticks 50
  cellmachine serve --ssh :2222`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagSleep, "sleep", -1, "Milliseconds between ticks (-1 = from config)")
	pf.StringVar(&flagSpeed, "speed", "", "Pace preset: slow, normal, fast or max")
	pf.BoolVar(&flagNerd, "nerd", false, "Subtract render and update time from the sleep")
	pf.StringVar(&flagBackend, "backend", "", "Terminal backend: tea or tcell (default from config)")
	pf.BoolVar(&flagASCII, "ascii", false, "Use ASCII glyphs and a monochrome theme")
	pf.BoolVar(&flagNoHUD, "no-hud", false, "Hide the statistics line")
	pf.StringVar(&flagDBPath, "db", "~/.cellmachine/runs.db", "Path to run history database")
	pf.StringVar(&flagConfig, "config", "", "Path to viewer config YAML")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory of level files (default from config)")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagTrace, "trace", false, "Export OpenTelemetry traces (OTEL_EXPORTER_OTLP_* env)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
