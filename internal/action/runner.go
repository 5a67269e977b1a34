// Package action wraps every mutating operation in the service with a single
// call shape: dedup/debounce guarding, busy-state tracking, and success/error
// reporting to the notification sink. Failures are swallowed at this
// boundary; callers branch on the nil result or the recorded error string.
package action

import (
	"context"
	"sync"
	"time"

	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

const defaultDebounce = 300 * time.Millisecond

// Func is a unit of work run under the orchestrator.
type Func func(ctx context.Context) (interface{}, error)

// State is the orchestrator-owned view of the last invocation. Zero
// Timestamp and empty strings stand in for "never ran".
type State struct {
	IsLoading  bool      `json:"is_loading"`
	Error      string    `json:"error,omitempty"`
	LastAction string    `json:"last_action,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

type record struct {
	name string
	at   time.Time
}

// Runner executes actions for a single consumer. One instance per user; no
// cross-consumer sharing.
type Runner struct {
	mu       sync.Mutex
	notifier notify.Notifier
	state    State
	last     *record
	now      func() time.Time
}

func NewRunner(notifier notify.Notifier) *Runner {
	return &Runner{
		notifier: notifier,
		now:      time.Now,
	}
}

// Execute runs fn under the orchestrator contract. A call suppressed by the
// duplicate guard, or one whose fn fails, returns nil; the dropped duplicate
// performs no state mutation and no notification.
func (r *Runner) Execute(ctx context.Context, name string, fn Func, opts ...Option) interface{} {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	now := r.now()

	if o.PreventDuplicate && r.last != nil && r.last.name == name && now.Sub(r.last.at) < o.Debounce {
		r.mu.Unlock()
		return nil
	}

	r.state = State{
		IsLoading:  o.ShowLoading,
		LastAction: name,
		Timestamp:  now,
	}
	r.last = &record{name: name, at: now}
	r.mu.Unlock()

	result, err := fn(ctx)

	r.mu.Lock()
	r.state.IsLoading = false
	if err != nil {
		r.state.Error = err.Error()
	}
	r.mu.Unlock()

	if err != nil {
		if o.ShowError {
			msg := o.ErrorMessage
			if msg == "" {
				msg = err.Error()
			}
			r.notifier.Notify(notify.KindError, "Error", msg)
		}
		return nil
	}

	if o.ShowSuccess {
		msg := o.SuccessMessage
		if msg == "" {
			msg = name + " completed"
		}
		r.notifier.Notify(notify.KindSuccess, "Success", msg)
	}

	return result
}

// State returns a snapshot of the runner's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the recorded error message from the last failed action, or ""
// when the last action succeeded.
func (r *Runner) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Error
}

// Reset clears the state and the dedup memory.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = State{}
	r.last = nil
}

// ClearError drops the recorded error without touching the dedup memory.
func (r *Runner) ClearError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Error = ""
}
