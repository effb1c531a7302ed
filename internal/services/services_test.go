package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profview/internal/domain"
	"profview/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileSourceReadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), `
name: stencil
unit: us
intervals:
  - lane: [node 0, cpu, cpu 0]
    start: 1
    stop: 2
    label: init
    fields:
      - name: task
        value: "7"
`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"intervals": [{"lane": ["node 1", "gpu", "gpu 0"], "kind": "GPU", "start": 5, "stop": 3}]}`)
	writeFile(t, filepath.Join(dir, ".hidden.yaml"), "not: [valid")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	result, err := NewFileSource().Load(context.Background(), LoadRequest{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, "stencil", result.Name)
	assert.Equal(t, 2, result.Files)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, []string{"node 0", "cpu", "cpu 0"}, first.Lane)
	assert.Equal(t, domain.Timestamp(1000), first.Start)
	assert.Equal(t, domain.Timestamp(2000), first.Stop)
	assert.Equal(t, []domain.Field{{Name: "task", Value: "7"}}, first.Fields)

	second := result.Records[1]
	assert.Equal(t, domain.KindTag("GPU"), second.Kind)
	assert.Equal(t, domain.Timestamp(5), second.Start, "malformed records are passed through")
}

func TestFileSourceRejectsOverflowingTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.yaml")
	writeFile(t, path, `
unit: s
intervals:
  - {lane: [n0], start: 1, stop: 2}
  - {lane: [n0], start: 9223372036, stop: 9223372037}
  - {lane: [n0], start: -9300000000, stop: 0}
`)

	result, err := NewFileSource().Load(context.Background(), LoadRequest{Path: path})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, domain.Timestamp(2_000_000_000), result.Records[0].Stop)
	require.Len(t, result.Rejected, 2)
	for _, problem := range result.Rejected {
		assert.ErrorIs(t, problem, ErrTimestampRange)
		assert.ErrorIs(t, problem, store.ErrMalformedInterval)
	}
	assert.Contains(t, result.Rejected[0].Error(), "interval 1")
}

func TestFileSourceNameFallsBackToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-3.yml")
	writeFile(t, path, "intervals: []\n")
	result, err := NewFileSource().Load(context.Background(), LoadRequest{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "run-3", result.Name)
	assert.Empty(t, result.Records)
}

func TestFileSourceErrors(t *testing.T) {
	source := NewFileSource()

	_, err := source.Load(context.Background(), LoadRequest{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = source.Load(context.Background(), LoadRequest{Path: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoProfileFiles)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "intervals: [{start: x}]")
	_, err = source.Load(context.Background(), LoadRequest{Path: bad})
	assert.ErrorContains(t, err, "parse")
}

func TestRandomSourceIsDeterministic(t *testing.T) {
	shape := DefaultDemoShape()
	shape.TasksPerUnit = 50
	source := NewRandomSource(shape)

	first, err := source.Load(context.Background(), LoadRequest{Seed: 3})
	require.NoError(t, err)
	second, err := source.Load(context.Background(), LoadRequest{Seed: 3})
	require.NoError(t, err)
	other, err := source.Load(context.Background(), LoadRequest{Seed: 4})
	require.NoError(t, err)

	assert.Equal(t, "demo-3", first.Name)
	assert.Len(t, first.Records, shape.Machines*len(shape.Kinds)*shape.UnitsPerKind*50)
	assert.Equal(t, first.Records, second.Records)
	assert.NotEqual(t, first.Records, other.Records)
	for _, record := range first.Records {
		assert.LessOrEqual(t, record.Start, record.Stop)
	}
}

func TestMockSource(t *testing.T) {
	source := NewMockSource("mock", []domain.Record{{Lane: []string{"a"}, Start: 1, Stop: 2}})
	result, err := source.Load(context.Background(), LoadRequest{})
	require.NoError(t, err)
	assert.Equal(t, "mock", result.Name)
	assert.Len(t, result.Records, 1)

	source.Delay = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = source.Load(ctx, LoadRequest{})
	assert.ErrorIs(t, err, context.Canceled)

	source.Delay = 0
	source.Err = errors.New("unreadable")
	_, err = source.Load(context.Background(), LoadRequest{})
	assert.EqualError(t, err, "unreadable")
}

func TestResolve(t *testing.T) {
	source, req := Resolve("demo:9", 1)
	assert.IsType(t, &RandomSource{}, source)
	assert.Equal(t, int64(9), req.Seed)

	source, req = Resolve("demo", 5)
	assert.IsType(t, &RandomSource{}, source)
	assert.Equal(t, int64(5), req.Seed)

	source, req = Resolve("profile.yaml", 5)
	assert.IsType(t, &FileSource{}, source)
	assert.Equal(t, "profile.yaml", req.Path)
}
