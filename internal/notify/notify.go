package notify

import "log"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Toast is the wire shape for a transient user-facing message.
type Toast struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notifier delivers transient messages to the user. Fire-and-forget: callers
// never branch on delivery.
type Notifier interface {
	Notify(kind Kind, title, description string)
}

// Logger writes notifications to the process log. Used when no per-user
// transport is attached (seeder, workers).
type Logger struct{}

func (Logger) Notify(kind Kind, title, description string) {
	log.Printf("notify [%s] %s: %s", kind, title, description)
}

// Func adapts a plain function to the Notifier interface.
type Func func(kind Kind, title, description string)

func (f Func) Notify(kind Kind, title, description string) { f(kind, title, description) }
