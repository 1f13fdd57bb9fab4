package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"github.com/vovakirdan/cellmachine/internal/config"
	"github.com/vovakirdan/cellmachine/internal/core"
	"github.com/vovakirdan/cellmachine/internal/levels"
	"github.com/vovakirdan/cellmachine/internal/platform/tui"
	"github.com/vovakirdan/cellmachine/internal/registry"
	"github.com/vovakirdan/cellmachine/internal/render"
	"github.com/vovakirdan/cellmachine/internal/storage"
	"github.com/vovakirdan/cellmachine/internal/telemetry"
)

// Shared state built by setup before any command runs.
var (
	logger        *log.Logger
	viewerCfg     config.ViewerConfig
	renderer      *render.Renderer
	tracer        trace.Tracer
	traceShutdown func(context.Context) error
)

func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cellmachine",
		Level:           level,
	})

	viewerCfg, err = config.LoadViewer(flagConfig)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, &viewerCfg); err != nil {
		return err
	}

	palette, unknown := render.NewPalette(viewerCfg.Colors)
	for _, name := range unknown {
		logger.Warn("ignoring color override", "name", name)
	}
	renderer = render.New(render.ParseGlyphSet(viewerCfg.Glyphs), palette)
	if viewerCfg.Glyphs == config.GlyphsASCII {
		tui.SetTheme(tui.MonochromeTheme())
	}

	tracer = telemetry.NoopTracer()
	if flagTrace {
		shutdown, err := telemetry.Setup(cmd.Context())
		if err != nil {
			return fmt.Errorf("tracing setup: %w", err)
		}
		traceShutdown = shutdown
		tracer = telemetry.Tracer("cli")
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if traceShutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return traceShutdown(ctx)
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.ViewerConfig) error {
	flags := cmd.Flags()
	if flags.Changed("speed") {
		preset, err := config.ParseSpeedPreset(flagSpeed)
		if err != nil {
			return err
		}
		config.ApplySpeedPreset(cfg, preset)
	}
	// --sleep is more precise than --speed and wins when both are given.
	if flags.Changed("sleep") {
		if flagSleep < 0 {
			return fmt.Errorf("--sleep must not be negative, got %d", flagSleep)
		}
		cfg.TickMS = flagSleep
	}
	if flags.Changed("nerd") {
		cfg.Nerd = flagNerd
	}
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flagASCII {
		cfg.Glyphs = config.GlyphsASCII
	}
	if flagNoHUD {
		cfg.HUD = false
	}
	if flagLevelsDir != "" {
		cfg.LevelsDir = flagLevelsDir
	}
	return cfg.Validate()
}

// runtimeConfig builds the viewer config for the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Sleep:   config.Sleep(viewerCfg.TickMS),
		Nerd:    viewerCfg.Nerd,
		HUD:     viewerCfg.HUD,
	}
}

// openStore opens the run history. A failure is logged and yields nil,
// so the viewer still works without history.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// localLevels loads the configured levels directory. A missing directory is not an error.
func localLevels() ([]levels.Level, error) {
	dir := expandHome(viewerCfg.LevelsDir)
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return levels.NewLoader(dir).LoadAll()
}

// menuItems lists builtin levels followed by local ones.
func menuItems() []tui.LevelItem {
	items := tui.BuiltinItems()
	local, err := localLevels()
	if err != nil {
		logger.Warn("could not load levels directory", "dir", viewerCfg.LevelsDir, "error", err)
	}
	return append(items, tui.FileItems(local)...)
}

// completeLevels offers builtin and local level IDs for shell completion.
// Completion skips setup, so the config is loaded here.
func completeLevels(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, info := range registry.List() {
		ids = append(ids, info.ID+"\t"+info.Title)
	}
	if cfg, err := config.LoadViewer(flagConfig); err == nil {
		if flagLevelsDir != "" {
			cfg.LevelsDir = flagLevelsDir
		}
		if dir := expandHome(cfg.LevelsDir); dir != "" {
			local, _ := levels.NewLoader(dir).ListIDs()
			ids = append(ids, local...)
		}
	}
	// Level files are valid arguments too.
	return ids, cobra.ShellCompDirectiveDefault
}

// resolveLevel finds a level by builtin ID, file path, local ID, or level code, in that order.
func resolveLevel(arg string) (levels.Level, error) {
	if registry.Exists(arg) {
		return registry.Create(arg)
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return levels.LoadFile(arg)
	}

	if dir := expandHome(viewerCfg.LevelsDir); dir != "" {
		if _, err := os.Stat(dir); err == nil {
			lvl, err := levels.NewLoader(dir).LoadByID(arg)
			if err == nil {
				return lvl, nil
			}
			if !errors.Is(err, levels.ErrNotFound) {
				return levels.Level{}, err
			}
		}
	}

	trimmed := strings.TrimSpace(arg)
	if strings.HasPrefix(trimmed, "V1;") || strings.HasPrefix(trimmed, "V3;") {
		lvl, err := levels.Decode(trimmed)
		if err != nil {
			return levels.Level{}, fmt.Errorf("level code: %w", err)
		}
		lvl.ID = "code"
		return lvl, nil
	}

	return levels.Level{}, fmt.Errorf("unknown level %q (run 'cellmachine list' to see available levels)", arg)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
