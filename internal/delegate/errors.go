package delegate

import (
	"errors"
	"fmt"
)

// ErrLaunch is matched by every LaunchError.
var ErrLaunch = errors.New("launch failed")

// LaunchError reports that the child could not be started. It is distinct
// from a child that ran and exited non-zero, which is not an error.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrLaunch.
func (e *LaunchError) Is(target error) bool {
	return target == ErrLaunch
}
