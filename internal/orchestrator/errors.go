package orchestrator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStepFailed is matched by every *StepFailure.
var ErrStepFailed = errors.New("step failed")

// StepFailure reports the step that stopped a run and why.
type StepFailure struct {
	Step  string
	Phase []string // enclosing phases, outermost first
	Cause error
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("step %q failed: %v", f.Step, f.Cause)
}

// Unwrap returns the builder's error.
func (f *StepFailure) Unwrap() error { return f.Cause }

// Is lets errors.Is match ErrStepFailed.
func (f *StepFailure) Is(target error) bool { return target == ErrStepFailed }

// PhasePath returns the enclosing phases joined with "/".
func (f *StepFailure) PhasePath() string {
	return strings.Join(f.Phase, "/")
}
