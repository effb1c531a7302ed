package store

import (
	"errors"
	"fmt"
	"strings"

	"profview/internal/domain"
)

var ErrMalformedInterval = errors.New("malformed interval")

// MalformedIntervalError describes one record dropped at ingest because its
// start lies after its stop.
type MalformedIntervalError struct {
	Lane  []string
	Index int
	Start domain.Timestamp
	Stop  domain.Timestamp
}

func (err *MalformedIntervalError) Error() string {
	return fmt.Sprintf("record %d on lane %q: start %d after stop %d",
		err.Index, strings.Join(err.Lane, "/"), int64(err.Start), int64(err.Stop))
}

func (err *MalformedIntervalError) Unwrap() error {
	return ErrMalformedInterval
}
