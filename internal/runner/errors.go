package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout reports a bounded command that did not finish before its deadline.
	ErrTimeout = errors.New("command timed out")
	// ErrSpawn reports a command that could not be started at all.
	ErrSpawn = errors.New("spawn failed")
)

// SpawnError wraps the reason a command could not be started.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSpawn) match any SpawnError.
func (e *SpawnError) Is(target error) bool { return target == ErrSpawn }
