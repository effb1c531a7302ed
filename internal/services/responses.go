package services

import (
	"time"

	"profview/internal/domain"
)

// LoadResult carries the records read. Rejected lists records the source
// could not convert; they count as dropped intervals.
type LoadResult struct {
	Name     string
	Records  []domain.Record
	Rejected []error
	Files    int
	Duration time.Duration
}
