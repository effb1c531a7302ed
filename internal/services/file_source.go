package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"profview/internal/domain"
	"profview/internal/store"
)

var (
	ErrNoProfileFiles = errors.New("no profile files found")
	ErrTimestampRange = errors.New("timestamp out of range")
)

// FileSource reads a profile from a YAML or JSON document, or from every such
// document below a directory. Each document usually holds the intervals of
// one machine.
type FileSource struct {
	workers    int
	exclusions map[string]struct{}
}

type fileJob struct {
	index int
	path  string
}

type fileResult struct {
	index int
	doc   fileDocument
	err   error
}

type fileDocument struct {
	Name      string       `yaml:"name"`
	Unit      string       `yaml:"unit"`
	Intervals []fileRecord `yaml:"intervals"`
}

type fileRecord struct {
	Lane   []string    `yaml:"lane"`
	Kind   string      `yaml:"kind"`
	Start  int64       `yaml:"start"`
	Stop   int64       `yaml:"stop"`
	Label  string      `yaml:"label"`
	Color  string      `yaml:"color"`
	Fields []fileField `yaml:"fields"`
}

type fileField struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func NewFileSource() *FileSource {
	return &FileSource{
		workers: max(2, runtime.NumCPU()),
		exclusions: map[string]struct{}{
			".git": {},
		},
	}
}

func (source *FileSource) Load(ctx context.Context, req LoadRequest) (LoadResult, error) {
	start := time.Now()
	root := cleanPath(req.Path)
	paths, err := source.collect(root)
	if err != nil {
		return LoadResult{}, err
	}
	if len(paths) == 0 {
		return LoadResult{}, fmt.Errorf("%w in %s", ErrNoProfileFiles, root)
	}

	jobs := make(chan fileJob, len(paths))
	results := make(chan fileResult, len(paths))
	var wg sync.WaitGroup
	for i := 0; i < min(source.workers, len(paths)); i++ {
		wg.Add(1)
		go worker(ctx, jobs, results, &wg)
	}
	for index, path := range paths {
		jobs <- fileJob{index: index, path: path}
	}
	close(jobs)
	wg.Wait()
	close(results)

	docs := make([]fileDocument, len(paths))
	for result := range results {
		if result.err != nil {
			return LoadResult{}, result.err
		}
		docs[result.index] = result.doc
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{}, err
	}

	name := req.Name
	var records []domain.Record
	var rejected []error
	for i, doc := range docs {
		if name == "" {
			name = doc.Name
		}
		scale := unitScale(doc.Unit)
		for index, rec := range doc.Intervals {
			record, err := rec.toRecord(scale)
			if err != nil {
				rejected = append(rejected, fmt.Errorf("%s: interval %d: %w", paths[i], index, err))
				continue
			}
			records = append(records, record)
		}
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(root), filepath.Ext(root))
	}
	return LoadResult{
		Name:     name,
		Records:  records,
		Rejected: rejected,
		Files:    len(paths),
		Duration: time.Since(start),
	}, nil
}

// collect lists profile documents in lexical order so record order is stable.
func (source *FileSource) collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var paths []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				return nil
			}
			return err
		}
		if path != root && (isHidden(entry.Name()) || source.isExcluded(entry.Name())) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() && isProfileFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	sort.Strings(paths)
	return paths, nil
}

func worker(ctx context.Context, jobs <-chan fileJob, results chan<- fileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		doc, err := readDocument(job.path)
		results <- fileResult{index: job.index, doc: doc, err: err}
	}
}

func readDocument(path string) (fileDocument, error) {
	var doc fileDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func (rec fileRecord) toRecord(scale int64) (domain.Record, error) {
	start, okStart := scaleTimestamp(rec.Start, scale)
	stop, okStop := scaleTimestamp(rec.Stop, scale)
	if !okStart || !okStop {
		return domain.Record{}, fmt.Errorf("%w: lane %q start %d stop %d: %w",
			store.ErrMalformedInterval, strings.Join(rec.Lane, "/"), rec.Start, rec.Stop, ErrTimestampRange)
	}
	record := domain.Record{
		Lane:  rec.Lane,
		Kind:  domain.KindTag(rec.Kind),
		Start: start,
		Stop:  stop,
		Label: rec.Label,
		Color: domain.ColorTag(rec.Color),
	}
	for _, field := range rec.Fields {
		record.Fields = append(record.Fields, domain.Field{Name: field.Name, Value: field.Value})
	}
	return record, nil
}

// scaleTimestamp converts a value in the document's unit to nanoseconds,
// reporting false when the result does not fit.
func scaleTimestamp(value, scale int64) (domain.Timestamp, bool) {
	if value > math.MaxInt64/scale || value < math.MinInt64/scale {
		return 0, false
	}
	return domain.Timestamp(value * scale), true
}

func unitScale(unit string) int64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "us":
		return 1_000
	case "ms":
		return 1_000_000
	case "s":
		return 1_000_000_000
	default:
		return 1
	}
}

func (source *FileSource) isExcluded(name string) bool {
	_, excluded := source.exclusions[name]
	return excluded
}

func isProfileFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}
