// Package notify holds the single transient message shown to the user.
package notify

import (
	"sync"
	"time"
)

const DefaultTimeout = 5 * time.Second

// Notifier keeps at most one message. Showing a new message replaces the
// current one and restarts the clear timer, so clears never stack.
type Notifier struct {
	mu       sync.Mutex
	message  string
	timeout  time.Duration
	timer    *time.Timer
	gen      uint64
	onChange func(string)
}

func New(timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{timeout: timeout}
}

// OnChange registers fn to be called with the new message after every
// change, including "" when the message clears.
func (n *Notifier) OnChange(fn func(string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

func (n *Notifier) Show(msg string) {
	n.mu.Lock()
	n.message = msg
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.timeout, func() { n.expire(gen) })
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}

func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

func (n *Notifier) Clear() {
	n.mu.Lock()
	n.gen++
	n.stopLocked()
	changed := n.message != ""
	n.message = ""
	fn := n.onChange
	n.mu.Unlock()

	if changed && fn != nil {
		fn("")
	}
}

// Stop cancels a pending clear without touching the message.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.stopLocked()
}

func (n *Notifier) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// expire clears the message unless a newer Show superseded the timer that
// fired. Stop on an AfterFunc timer cannot recall a callback already running.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.message = ""
	n.timer = nil
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn("")
	}
}
