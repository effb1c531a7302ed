package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profview/internal/config"
	"profview/internal/services"
)

func TestRequests(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Profiles = []string{"a.yaml", "demo:4"}
	cfg.Demo = true
	cfg.Seed = 9

	requests := Requests(cfg)
	require.Len(t, requests, 3)
	assert.IsType(t, &services.FileSource{}, requests[0].Source)
	assert.Equal(t, "a.yaml", requests[0].Request.Path)
	assert.Equal(t, int64(4), requests[1].Request.Seed)
	assert.Equal(t, int64(9), requests[2].Request.Seed)

	assert.Empty(t, Requests(config.DefaultConfig()))
}

func TestRunExportsDemoChart(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte(`
intervals:
  - {lane: [n0, cpu, c0], start: 0, stop: 100}
  - {lane: [n0, cpu, c1], start: 50, stop: 200}
`), 0o644))
	out := filepath.Join(dir, "chart.png")

	require.NoError(t, Run([]string{"-export-png", out, profilePath}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRunExportWithoutProfiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	err := Run([]string{"-export-png", filepath.Join(t.TempDir(), "x.png")})
	assert.EqualError(t, err, "export: no profile given")
}
