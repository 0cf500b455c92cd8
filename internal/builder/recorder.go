package builder

import (
	"context"
	"sync"
)

// Call is one invocation seen by a Recorder.
type Call struct {
	Step string
	Args Args
}

// Recorder is a Builder that records every call without touching the file
// system. It backs dry runs and tests. Failures can be scripted per step.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	failOn map[string]error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{failOn: make(map[string]error)}
}

// FailOn makes the next and all later calls for step return err.
func (r *Recorder) FailOn(step string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[step] = err
}

// Run records the call and returns any scripted failure.
func (r *Recorder) Run(_ context.Context, step string, args Args) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Step: step, Args: args})
	if err, ok := r.failOn[step]; ok {
		return &Error{Step: step, Err: err}
	}
	return nil
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Steps returns the recorded step names in order.
func (r *Recorder) Steps() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Step)
	}
	return out
}

var _ Builder = (*Recorder)(nil)
