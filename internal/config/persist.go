package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "profview"
	configFileName = "config.json"
)

func DefaultConfig() Config {
	return Config{
		Theme:           "dark",
		RowHeight:       1,
		CollapsedHeight: 2,
		SummaryHeight:   1,
		LabelWidth:      24,
		TileColumns:     64,
		MaxTiles:        4096,
		MinNsPerPixel:   1,
		KindLevel:       1,
		KindColors:      map[string]string{},
		KeyBindings:     map[string]string{},
		LogLevel:        "info",
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom merges the file at path over the defaults. A missing file
// is not an error.
func LoadConfigFrom(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return mergeConfig(config, stored), nil
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.RowHeight != nil && *stored.RowHeight > 0 {
		merged.RowHeight = *stored.RowHeight
	}
	if stored.CollapsedHeight != nil && *stored.CollapsedHeight > 0 {
		merged.CollapsedHeight = *stored.CollapsedHeight
	}
	if stored.SummaryHeight != nil && *stored.SummaryHeight > 0 {
		merged.SummaryHeight = *stored.SummaryHeight
	}
	if stored.LabelWidth != nil && *stored.LabelWidth >= 0 {
		merged.LabelWidth = *stored.LabelWidth
	}
	if stored.TileColumns != nil && *stored.TileColumns > 0 {
		merged.TileColumns = *stored.TileColumns
	}
	if stored.MaxTiles != nil && *stored.MaxTiles > 0 {
		merged.MaxTiles = *stored.MaxTiles
	}
	if stored.MinNsPerPixel != nil && *stored.MinNsPerPixel > 0 {
		merged.MinNsPerPixel = *stored.MinNsPerPixel
	}
	if stored.KindLevel != nil && *stored.KindLevel >= 0 {
		merged.KindLevel = *stored.KindLevel
	}
	if stored.KindColors != nil {
		merged.KindColors = stored.KindColors
	}
	if stored.KeyBindings != nil {
		merged.KeyBindings = stored.KeyBindings
	}
	if stored.LogFile != nil {
		merged.LogFile = *stored.LogFile
	}
	if stored.LogLevel != nil {
		merged.LogLevel = *stored.LogLevel
	}
	if stored.Profiles != nil {
		merged.Profiles = stored.Profiles
	}
	return merged
}
