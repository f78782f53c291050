// Package toast keeps the single transient feedback message shown to each viewer.
package toast

import (
	"sync"
	"time"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
)

// DefaultDelay is how long a toast stays visible.
const DefaultDelay = 3 * time.Second

type Toast struct {
	Message  string
	Severity Severity
	ShownAt  time.Time
	Delay    time.Duration
}

// DelayMillis is the client-side auto-dismiss delay.
func (t Toast) DelayMillis() int64 {
	return t.Delay.Milliseconds()
}

// Notifier holds at most one toast per viewer. A new toast replaces the previous one.
type Notifier struct {
	mu      sync.Mutex
	delay   time.Duration
	now     func() time.Time
	current map[string]Toast
}

type Option func(*Notifier)

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

func WithDelay(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.delay = d
		}
	}
}

func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		delay:   DefaultDelay,
		now:     time.Now,
		current: make(map[string]Toast),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Notify(viewer, message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current[viewer] = Toast{
		Message:  message,
		Severity: severity,
		ShownAt:  n.now(),
		Delay:    n.delay,
	}
}

// Current returns the viewer's toast while it is still visible.
func (n *Notifier) Current(viewer string) (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	t, ok := n.current[viewer]
	if !ok {
		return Toast{}, false
	}
	if n.now().Sub(t.ShownAt) >= t.Delay {
		delete(n.current, viewer)
		return Toast{}, false
	}
	return t, true
}

// Prune drops every toast that is no longer visible.
func (n *Notifier) Prune() {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	for viewer, t := range n.current {
		if now.Sub(t.ShownAt) >= t.Delay {
			delete(n.current, viewer)
		}
	}
}

// Dismiss hides the viewer's toast immediately.
func (n *Notifier) Dismiss(viewer string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.current, viewer)
}
