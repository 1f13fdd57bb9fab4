package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cell machine SSH server",
	Long: `Start an SSH server that lets users connect and watch levels.

Each SSH connection gets its own session with a level picker, and every
viewer runs its own grid. Runs from all users go to the same history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cellmachine/host_key

Examples:
  cellmachine serve                           # Listen on :23235 with auto-generated key
  cellmachine serve --ssh :2222               # Listen on port 2222
  cellmachine serve --host-key ./my_host_key  # Use specific host key
  cellmachine serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) error {
	srvLogger := logger.WithPrefix("cellmachine-ssh")
	if !cmd.Flags().Changed("log-level") {
		srvLogger.SetLevel(log.InfoLevel) // Session events are the point of a server log
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Items = menuItems()
	cfg.Sleep = config.Sleep(viewerCfg.TickMS)
	cfg.Nerd = viewerCfg.Nerd
	cfg.HUD = viewerCfg.HUD
	cfg.Renderer = renderer
	cfg.Logger = srvLogger
	cfg.Tracer = tracer

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting cell machine SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
