// Package profile turns the records of one data source into a queryable
// profile: interval store plus node tree.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"profview/internal/domain"
	"profview/internal/services"
	"profview/internal/store"
	"profview/internal/tree"
)

var ErrEmptyProfile = errors.New("profile contains no intervals")

type Options struct {
	KindLevel int
	Metrics   tree.Metrics
	Styles    *domain.StyleTable
	// Parallel bounds concurrent loads in LoadAll; zero means unbounded.
	Parallel int
}

type Profile struct {
	Name     string
	Store    *store.Store
	Tree     *tree.Tree
	Summary  store.LoadSummary
	Files    int
	LoadTime time.Duration
}

func (p *Profile) Span() domain.Interval {
	return p.Store.Span()
}

func (p *Profile) Empty() bool {
	return p.Summary.Empty()
}

// Err reports ErrEmptyProfile for a profile without intervals.
func (p *Profile) Err() error {
	if p.Empty() {
		return ErrEmptyProfile
	}
	return nil
}

// Request pairs a source with the request to send it.
type Request struct {
	Source  services.Source
	Request services.LoadRequest
}

// Load reads all records from the source and builds the profile. Malformed
// records are dropped and counted; only a source failure fails the load.
func Load(ctx context.Context, src services.Source, req services.LoadRequest, opts Options, logger *zap.Logger) (*Profile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	result, err := src.Load(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", describe(req), err)
	}
	st, summary := store.Ingest(result.Records, store.IngestOptions{KindLevel: opts.KindLevel})
	if len(result.Rejected) > 0 {
		summary.Records += len(result.Rejected)
		summary.Dropped += len(result.Rejected)
		summary.Problems = append(append([]error{}, result.Rejected...), summary.Problems...)
	}
	if summary.Empty() {
		summary.Problems = append(summary.Problems, ErrEmptyProfile)
	}
	tr := tree.Build(st, tree.BuildOptions{KindLevel: opts.KindLevel, Metrics: opts.Metrics, Styles: opts.Styles})

	profile := &Profile{
		Name:     result.Name,
		Store:    st,
		Tree:     tr,
		Summary:  summary,
		Files:    result.Files,
		LoadTime: time.Since(start),
	}
	logger.Info("profile loaded",
		zap.String("name", profile.Name),
		zap.Int("records", summary.Records),
		zap.Int("rows", summary.Rows),
		zap.Int("nodes", tr.Len()),
		zap.Duration("duration", profile.LoadTime),
	)
	if summary.Dropped > 0 {
		logger.Warn("malformed intervals dropped",
			zap.String("name", profile.Name),
			zap.Int("dropped", summary.Dropped),
			zap.Errors("samples", summary.Problems),
		)
	}
	if summary.Empty() {
		logger.Warn("empty profile", zap.String("name", profile.Name))
	}
	return profile, nil
}

// LoadAll loads every request concurrently. Profiles come back in request
// order; failed loads are left out and their errors joined.
func LoadAll(ctx context.Context, reqs []Request, opts Options, logger *zap.Logger) ([]*Profile, error) {
	loaded := make([]*Profile, len(reqs))
	errs := make([]error, len(reqs))
	group, groupCtx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		group.SetLimit(opts.Parallel)
	}
	for i, req := range reqs {
		group.Go(func() error {
			profile, err := Load(groupCtx, req.Source, req.Request, opts, logger)
			loaded[i] = profile
			errs[i] = err
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	profiles := make([]*Profile, 0, len(reqs))
	for _, profile := range loaded {
		if profile != nil {
			profiles = append(profiles, profile)
		}
	}
	return profiles, errors.Join(errs...)
}

func describe(req services.LoadRequest) string {
	switch {
	case req.Name != "":
		return req.Name
	case req.Path != "":
		return req.Path
	default:
		return fmt.Sprintf("seed %d", req.Seed)
	}
}
