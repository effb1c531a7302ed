package services

import (
	"context"
	"time"

	"profview/internal/domain"
)

// MockSource returns fixed records after an optional delay.
type MockSource struct {
	Name     string
	Records  []domain.Record
	Rejected []error
	Delay    time.Duration
	Err      error
}

func NewMockSource(name string, records []domain.Record) *MockSource {
	return &MockSource{Name: name, Records: records}
}

func (source *MockSource) Load(ctx context.Context, req LoadRequest) (LoadResult, error) {
	start := time.Now()
	if source.Delay > 0 {
		select {
		case <-ctx.Done():
			return LoadResult{}, ctx.Err()
		case <-time.After(source.Delay):
		}
	}
	if source.Err != nil {
		return LoadResult{}, source.Err
	}
	name := req.Name
	if name == "" {
		name = source.Name
	}
	return LoadResult{
		Name:     name,
		Records:  append([]domain.Record{}, source.Records...),
		Rejected: source.Rejected,
		Duration: time.Since(start),
	}, nil
}
