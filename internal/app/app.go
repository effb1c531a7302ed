package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"profview/internal/config"
	"profview/internal/export"
	"profview/internal/logging"
	"profview/internal/profile"
	"profview/internal/services"
	"profview/internal/state"
	"profview/internal/ui"
)

func Run(args []string) error {
	base, cfgErr := config.LoadConfig()
	cfg, err := config.ParseFlags(base, args)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("config not loaded, using defaults", zap.Error(cfgErr))
	}

	appState := state.NewState(cfg, logger)
	loadOpts := state.ProfileOptions(cfg, appState.Styles)
	requests := Requests(cfg)
	logger.Info("starting", zap.Int("profiles", len(requests)), zap.String("theme", cfg.Theme))

	if cfg.ExportPNG != "" {
		return exportPNG(context.Background(), cfg.ExportPNG, requests, loadOpts, logger)
	}

	model := ui.NewModel(appState, requests, loadOpts, ui.DefaultKeyMap().WithOverrides(cfg.KeyBindings), logger)
	if cfgErr != nil {
		model = model.WithStatus("Config warning: using defaults")
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("profview: %w", err)
	}
	return nil
}

// Requests lists the profiles to open: configured or positional files, then
// the demo profile when requested.
func Requests(cfg config.Config) []profile.Request {
	var requests []profile.Request
	for _, arg := range cfg.Profiles {
		source, req := services.Resolve(arg, cfg.Seed)
		requests = append(requests, profile.Request{Source: source, Request: req})
	}
	if cfg.Demo {
		source, req := services.Resolve("demo", cfg.Seed)
		requests = append(requests, profile.Request{Source: source, Request: req})
	}
	return requests
}

// exportPNG writes one utilization chart per profile. With several profiles
// the index is inserted before the extension.
func exportPNG(ctx context.Context, path string, requests []profile.Request, opts profile.Options, logger *zap.Logger) error {
	if len(requests) == 0 {
		return errors.New("export: no profile given")
	}
	profiles, loadErr := profile.LoadAll(ctx, requests, opts, logger)
	if len(profiles) == 0 {
		return loadErr
	}
	for i, p := range profiles {
		target := path
		if len(profiles) > 1 {
			ext := filepath.Ext(path)
			target = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i+1, ext)
		}
		if err := writeChart(target, p); err != nil {
			return err
		}
		logger.Info("chart exported", zap.String("path", target), zap.String("profile", p.Name))
	}
	return loadErr
}

func writeChart(path string, p *profile.Profile) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WritePNG(file, p, export.DefaultOptions()); err != nil {
		file.Close()
		return fmt.Errorf("export %s: %w", p.Name, err)
	}
	return file.Close()
}
