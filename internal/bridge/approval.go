package bridge

import (
	"time"

	"github.com/google/uuid"

	"github.com/avail-project/create-liquid-apps/internal/notify"
)

type approvalKind struct {
	name        string
	title       string
	description string
	action      string
	accepted    string
	failed      string
}

var (
	allowanceKind = approvalKind{
		name:        "allowance",
		title:       "Token approval required",
		description: "You need to approve access to your tokens",
		action:      "Approve",
		accepted:    "Tokens approved",
		failed:      "Failed to approve tokens",
	}
	intentKind = approvalKind{
		name:        "intent",
		title:       "Transaction confirmation needed",
		description: "Please confirm your transaction",
		action:      "Confirm",
		accepted:    "Transaction confirmed",
		failed:      "Failed to approve transaction",
	}
)

// approval is one outstanding request. It is resolved at most once: done is
// set under Session.mu by whoever resolves it.
type approval struct {
	kind     approvalKind
	id       string
	received time.Time
	toast    notify.ID
	timer    Timer
	allow    func() error
	deny     func() error
	done     bool
}

// receive makes a freshly delivered request the current one. A request it
// supersedes can no longer be accepted or denied by id, but its own timer
// keeps running and denies it when the window closes.
func (s *Session) receive(kind approvalKind, allow, deny func() error) {
	p := &approval{
		kind:     kind,
		id:       uuid.NewString(),
		received: s.clock.Now(),
		allow:    allow,
		deny:     deny,
	}
	id := p.id
	p.toast = s.notifier.Notify(notify.Notification{
		Level:       notify.Info,
		Title:       kind.title,
		Description: kind.description,
		Duration:    approvalToastDuration,
		Action: &notify.Action{
			Label: kind.action,
			Do:    func() { _ = s.accept(kind, id) },
		},
	})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.notifier.Dismiss(p.toast)
		if err := deny(); err != nil {
			s.log.Warn("deny after close failed", "kind", kind.name, "error", err)
		}
		return
	}
	prev := s.pending[kind]
	if prev != nil {
		s.superseded[prev] = struct{}{}
	}
	p.timer = s.clock.AfterFunc(s.timeouts[kind], func() { s.expire(p) })
	s.pending[kind] = p
	s.mu.Unlock()

	s.log.Info("approval requested", "kind", kind.name, "id", id)
	if prev != nil {
		s.notifier.Dismiss(prev.toast)
		s.log.Info("approval superseded", "kind", kind.name, "id", prev.id, "by", id)
	}
}

// take resolves the current request of kind if its id matches.
func (s *Session) take(kind approvalKind, id string) *approval {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending[kind]
	if p == nil || p.id != id || p.done {
		return nil
	}
	p.done = true
	delete(s.pending, kind)
	p.timer.Stop()
	return p
}

func (s *Session) accept(kind approvalKind, id string) error {
	p := s.take(kind, id)
	if p == nil {
		return ErrNotPending
	}
	s.notifier.Dismiss(p.toast)
	if err := p.allow(); err != nil {
		s.log.Error("approve failed", "kind", kind.name, "id", id, "error", err)
		s.notifier.Notify(notify.Notification{Level: notify.Error, Title: kind.failed})
		return err
	}
	s.log.Info("approved", "kind", kind.name, "id", id)
	s.notifier.Notify(notify.Notification{Level: notify.Success, Title: kind.accepted})
	return nil
}

func (s *Session) deny(kind approvalKind, id string) error {
	p := s.take(kind, id)
	if p == nil {
		return ErrNotPending
	}
	s.notifier.Dismiss(p.toast)
	if err := p.deny(); err != nil {
		s.log.Error("deny failed", "kind", kind.name, "id", id, "error", err)
		return err
	}
	s.log.Info("denied", "kind", kind.name, "id", id)
	return nil
}

// expire denies p when its window closes, whether it is still current or
// was superseded.
func (s *Session) expire(p *approval) {
	s.mu.Lock()
	if p.done {
		s.mu.Unlock()
		return
	}
	p.done = true
	if s.pending[p.kind] == p {
		delete(s.pending, p.kind)
	}
	delete(s.superseded, p)
	s.mu.Unlock()

	s.notifier.Dismiss(p.toast)
	if err := p.deny(); err != nil {
		s.log.Error("auto-deny failed", "kind", p.kind.name, "id", p.id, "error", err)
		return
	}
	s.log.Info("auto-denied after timeout", "kind", p.kind.name, "id", p.id)
}

func (s *Session) pendingOf(kind approvalKind) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.pending[kind]
	if p == nil {
		return Pending{}, false
	}
	return Pending{ID: p.id, Received: p.received}, true
}

// PendingAllowance reports the current allowance request.
func (s *Session) PendingAllowance() (Pending, bool) { return s.pendingOf(allowanceKind) }

// PendingIntent reports the current intent request.
func (s *Session) PendingIntent() (Pending, bool) { return s.pendingOf(intentKind) }

// AcceptAllowance approves allowance request id with the "max" policy.
func (s *Session) AcceptAllowance(id string) error { return s.accept(allowanceKind, id) }

// DenyAllowance rejects allowance request id.
func (s *Session) DenyAllowance(id string) error { return s.deny(allowanceKind, id) }

// AcceptIntent confirms intent request id.
func (s *Session) AcceptIntent(id string) error { return s.accept(intentKind, id) }

// DenyIntent rejects intent request id.
func (s *Session) DenyIntent(id string) error { return s.deny(intentKind, id) }
