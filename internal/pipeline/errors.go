package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrInvalidArgument reports a request rejected before any side effect.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrMissingArtifact reports a file an earlier stage should have produced.
// It wraps fs.ErrNotExist.
var ErrMissingArtifact = fmt.Errorf("missing expected artifact: %w", fs.ErrNotExist)

// StageError wraps the failure of a single stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
