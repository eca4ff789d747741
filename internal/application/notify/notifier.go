// internal/application/notify/notifier.go
package notify

import (
	"log"
	"time"
)

// Kind classifies a user-facing notification.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// DefaultDuration is how long a toast stays visible when the emitter does
// not care.
const DefaultDuration = 4 * time.Second

// Event is a fire-and-forget message for the toast-rendering collaborator.
// The core only produces these, never reads them back.
type Event struct {
	Message  string
	Kind     Kind
	Duration time.Duration
}

// Notifier is the injected notification callback. Implementations must not
// block and must not return errors; delivery is best-effort.
type Notifier interface {
	Notify(ev Event)
}

// Func adapts a plain function to a Notifier.
type Func func(ev Event)

func (f Func) Notify(ev Event) {
	if f != nil {
		f(ev)
	}
}

// LogNotifier writes events to the process log. It is the default sink when
// no UI collaborator is wired.
type LogNotifier struct{}

func (LogNotifier) Notify(ev Event) {
	log.Printf("[notify] %s: %s", ev.Kind, ev.Message)
}

// Emit fills in defaults and sends through n, tolerating a nil notifier.
func Emit(n Notifier, message string, kind Kind) {
	if n == nil || message == "" {
		return
	}
	if kind == "" {
		kind = Info
	}
	n.Notify(Event{Message: message, Kind: kind, Duration: DefaultDuration})
}
