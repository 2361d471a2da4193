package status

import (
	"context"
	"errors"
	"fmt"

	"taildrop/internal/devices"
	"taildrop/internal/runner"
)

var (
	// ErrBinaryMissing reports that the tailscale binary is absent or not executable.
	ErrBinaryMissing = errors.New("tailscale binary missing")
	// ErrNonZeroExit reports a status query that exited unsuccessfully.
	ErrNonZeroExit = errors.New("status command failed")

	ErrTimeout           = runner.ErrTimeout
	ErrSpawn             = runner.ErrSpawn
	ErrMalformedResponse = devices.ErrMalformedResponse
)

// ExitError is a status query that ran but exited non-zero.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s (exit %d)", ErrNonZeroExit, e.Code)
	}
	return fmt.Sprintf("%s (exit %d): %s", ErrNonZeroExit, e.Code, e.Stderr)
}

// Is lets errors.Is(err, ErrNonZeroExit) match any ExitError.
func (e *ExitError) Is(target error) bool { return target == ErrNonZeroExit }

// Outcome classifies the most recent refresh attempt.
type Outcome string

const (
	OutcomeNone              Outcome = "none"
	OutcomeOK                Outcome = "ok"
	OutcomeBinaryMissing     Outcome = "binary_missing"
	OutcomeTimeout           Outcome = "timeout"
	OutcomeSpawnFailure      Outcome = "spawn_failure"
	OutcomeNonZeroExit       Outcome = "non_zero_exit"
	OutcomeMalformedResponse Outcome = "malformed_response"
	OutcomeCancelled         Outcome = "cancelled"
	// OutcomeFailed covers errors outside the known taxonomy.
	OutcomeFailed Outcome = "failed"
)

// Classify maps a refresh error onto an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrBinaryMissing):
		return OutcomeBinaryMissing
	case errors.Is(err, ErrTimeout):
		return OutcomeTimeout
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformedResponse
	case errors.Is(err, ErrNonZeroExit):
		return OutcomeNonZeroExit
	case errors.Is(err, ErrSpawn):
		return OutcomeSpawnFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
