// Package notify delivers short-lived user notifications (toasts).
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level classifies a notification.
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ID identifies a delivered notification so it can be dismissed.
type ID uint64

// Action is a single button attached to a notification.
type Action struct {
	Label string
	Do    func()
}

// Notification is one toast. A zero Duration uses the notifier's default.
type Notification struct {
	Level       Level
	Title       string
	Description string
	Duration    time.Duration
	Action      *Action
}

// Notifier shows and dismisses notifications. Implementations must be safe
// for concurrent use.
type Notifier interface {
	Notify(n Notification) ID
	Dismiss(id ID)
}

// ErrNoAction is returned when triggering a notification without an action.
var ErrNoAction = errors.New("notification has no action")

// ErrUnknownID is returned for an ID the recorder never issued.
var ErrUnknownID = errors.New("unknown notification id")

var (
	infoStyle    = color.New(color.FgBlue).SprintFunc()
	successStyle = color.New(color.FgGreen).SprintFunc()
	warnStyle    = color.New(color.FgYellow).SprintFunc()
	errorStyle   = color.New(color.FgRed).SprintFunc()
	detailStyle  = color.New(color.FgHiBlack).SprintFunc()
)

// Console writes notifications as colored lines. Actions are listed but
// cannot be triggered from the console.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	next ID
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(n Notification) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++

	line := style(n.Level)(n.Title)
	if n.Description != "" {
		line += " " + detailStyle(n.Description)
	}
	if n.Action != nil && n.Action.Label != "" {
		line += " " + detailStyle("["+n.Action.Label+"]")
	}
	fmt.Fprintln(c.w, line)
	return c.next
}

func (c *Console) Dismiss(ID) {}

func style(l Level) func(a ...interface{}) string {
	switch l {
	case Success:
		return successStyle
	case Warning:
		return warnStyle
	case Error:
		return errorStyle
	default:
		return infoStyle
	}
}

// Entry is a notification captured by a Recorder.
type Entry struct {
	ID           ID
	Notification Notification
	Dismissed    bool
}

// Recorder keeps every notification in memory. It is a fake Notifier for
// tests; Trigger runs an action as if the user clicked it.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Notify(n Notification) ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ID(len(r.entries) + 1)
	r.entries = append(r.entries, Entry{ID: id, Notification: n})
	return id
}

func (r *Recorder) Dismiss(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := int(id) - 1; i >= 0 && i < len(r.entries) {
		r.entries[i].Dismissed = true
	}
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Titles returns the recorded titles in order.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.entries))
	for i, e := range r.entries {
		titles[i] = e.Notification.Title
	}
	return titles
}

// Last returns the most recent entry.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Trigger runs the action of notification id, as if the user clicked it.
func (r *Recorder) Trigger(id ID) error {
	r.mu.Lock()
	i := int(id) - 1
	if i < 0 || i >= len(r.entries) {
		r.mu.Unlock()
		return ErrUnknownID
	}
	action := r.entries[i].Notification.Action
	r.mu.Unlock()

	if action == nil || action.Do == nil {
		return ErrNoAction
	}
	action.Do()
	return nil
}
