package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/avail-project/create-liquid-apps/internal/notify"
)

// Default timings.
const (
	DefaultPollInterval     = 100 * time.Second
	DefaultAllowanceTimeout = 12 * time.Second
	DefaultIntentTimeout    = 1200 * time.Second

	approvalToastDuration = 10 * time.Second
)

var (
	// ErrNotInitialized is returned by operations that need a ready session.
	ErrNotInitialized = errors.New("nexus is not initialized")
	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("bridge session closed")
	// ErrNotPending is returned when resolving an approval that is no longer
	// the current request.
	ErrNotPending = errors.New("approval request is not pending")
)

// State is the session lifecycle position.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options configure a Session. Zero values select the defaults.
type Options struct {
	Clock            Clock
	Notifier         notify.Notifier
	Logger           *slog.Logger
	PollInterval     time.Duration
	AllowanceTimeout time.Duration
	IntentTimeout    time.Duration
}

// Pending describes an outstanding approval request.
type Pending struct {
	ID       string
	Received time.Time
}

// Session owns one SDK handle for its whole lifetime and relays the SDK's
// approval callbacks to the user.
type Session struct {
	sdk      SDK
	wallet   Wallet
	clock    Clock
	notifier notify.Notifier
	log      *slog.Logger

	pollInterval time.Duration
	timeouts     map[approvalKind]time.Duration

	mu        sync.Mutex
	state     State
	closed    bool
	connected bool
	balances  []Asset
	poll      Timer
	pollGen   uint64
	pending   map[approvalKind]*approval

	// superseded requests still wait for their own timeout.
	superseded map[*approval]struct{}
}

// NewSession wires sdk to wallet. The SDK is not touched until Initialize.
func NewSession(sdk SDK, wallet Wallet, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewConsole(io.Discard)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "bridge")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.AllowanceTimeout <= 0 {
		opts.AllowanceTimeout = DefaultAllowanceTimeout
	}
	if opts.IntentTimeout <= 0 {
		opts.IntentTimeout = DefaultIntentTimeout
	}
	return &Session{
		sdk:          sdk,
		wallet:       wallet,
		clock:        opts.Clock,
		notifier:     opts.Notifier,
		log:          opts.Logger,
		pollInterval: opts.PollInterval,
		timeouts: map[approvalKind]time.Duration{
			allowanceKind: opts.AllowanceTimeout,
			intentKind:    opts.IntentTimeout,
		},
		pending:    map[approvalKind]*approval{},
		superseded: map[*approval]struct{}{},
	}
}

// State reports the lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Client returns the shared SDK handle once the session is ready.
func (s *Session) Client() SDK {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return nil
	}
	return s.sdk
}

// Balances returns a copy of the last unified balance, or nil when none has
// been fetched.
func (s *Session) Balances() []Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances == nil {
		return nil
	}
	return append([]Asset(nil), s.balances...)
}

// Initialize connects the SDK to the wallet's provider, attaches the approval
// hooks, fetches balances and starts polling. It is a no-op while already
// initializing or ready, or when no wallet is connected. Failures are
// notified and leave the session uninitialized. Polling only starts if the
// wallet is still connected when initialization completes.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != Uninitialized || !s.wallet.Connected() {
		s.mu.Unlock()
		return nil
	}
	s.state = Initializing
	s.connected = true
	s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		s.mu.Lock()
		s.state = Uninitialized
		s.mu.Unlock()
		s.log.Error("initialize failed", "error", err)
		s.notifier.Notify(notify.Notification{Level: notify.Error, Title: "Failed to initialize Nexus"})
		return err
	}

	s.attachHooks()
	balances, err := s.sdk.UnifiedBalances(ctx, true)
	if err != nil {
		s.log.Warn("initial balance fetch failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.state = Uninitialized
		return ErrClosed
	}
	s.state = Ready
	if err == nil {
		s.balances = balances
	}
	s.startPollLocked()
	s.log.Info("initialized", "assets", len(balances))
	return nil
}

func (s *Session) initialize(ctx context.Context) error {
	if s.sdk.IsInitialized() {
		return nil
	}
	provider, err := s.wallet.Provider(ctx)
	if err != nil {
		return fmt.Errorf("wallet provider: %w", err)
	}
	if err := s.sdk.Initialize(ctx, provider); err != nil {
		return fmt.Errorf("initialize sdk: %w", err)
	}
	return nil
}

func (s *Session) attachHooks() {
	s.sdk.SetOnAllowanceHook(func(req AllowanceRequest) {
		s.receive(allowanceKind, func() error { return req.Allow([]string{"max"}) }, req.Deny)
	})
	s.sdk.SetOnIntentHook(func(req IntentRequest) {
		s.receive(intentKind, req.Allow, req.Deny)
	})
	s.log.Info("event hooks attached")
}

// WalletChanged follows the wallet connection. Connecting initializes the
// session, or resumes polling if it is already ready. Disconnecting stops
// polling.
func (s *Session) WalletChanged(ctx context.Context, connected bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.connected = connected
	if !connected {
		s.stopPollLocked()
		s.mu.Unlock()
		return nil
	}
	ready := s.state == Ready
	if ready {
		s.startPollLocked()
	}
	s.mu.Unlock()

	if ready {
		return s.RefreshBalances(ctx)
	}
	return s.Initialize(ctx)
}

// RefreshBalances refetches the unified balance. Errors are logged and the
// previous snapshot is kept.
func (s *Session) RefreshBalances(ctx context.Context) error {
	if s.Client() == nil {
		return ErrNotInitialized
	}
	balances, err := s.sdk.UnifiedBalances(ctx, true)
	if err != nil {
		s.log.Warn("balance refresh failed", "error", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Ready {
		s.balances = balances
	}
	return nil
}

// Deinitialize tears the SDK down and drops the balances. Calling it while
// not ready is reported and returns ErrNotInitialized.
func (s *Session) Deinitialize(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Ready {
		s.mu.Unlock()
		s.log.Error("deinitialize failed", "error", ErrNotInitialized)
		return ErrNotInitialized
	}
	s.stopPollLocked()
	s.mu.Unlock()

	if err := s.sdk.Deinit(ctx); err != nil {
		s.log.Error("deinitialize failed", "error", err)
		s.mu.Lock()
		s.startPollLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.state = Uninitialized
	s.balances = nil
	s.mu.Unlock()
	s.log.Info("deinitialized")
	return nil
}

// Close stops polling and every approval timer and denies any request still
// unresolved, including superseded ones. The session cannot be used afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopPollLocked()
	var open []*approval
	for kind, p := range s.pending {
		open = append(open, p)
		delete(s.pending, kind)
	}
	for p := range s.superseded {
		open = append(open, p)
		delete(s.superseded, p)
	}
	for _, p := range open {
		p.done = true
		p.timer.Stop()
	}
	s.mu.Unlock()

	for _, p := range open {
		s.notifier.Dismiss(p.toast)
		if err := p.deny(); err != nil {
			s.log.Warn("deny on close failed", "kind", p.kind.name, "id", p.id, "error", err)
		}
	}
	s.log.Info("closed")
}

func (s *Session) startPollLocked() {
	if s.poll != nil || !s.connected {
		return
	}
	s.pollGen++
	gen := s.pollGen
	s.poll = s.clock.AfterFunc(s.pollInterval, func() { s.pollTick(gen) })
}

func (s *Session) stopPollLocked() {
	if s.poll == nil {
		return
	}
	s.poll.Stop()
	s.poll = nil
	s.pollGen++
}

func (s *Session) pollTick(gen uint64) {
	s.mu.Lock()
	if gen != s.pollGen || s.closed || s.state != Ready {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	_ = s.RefreshBalances(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.pollGen || s.closed {
		return
	}
	s.poll = s.clock.AfterFunc(s.pollInterval, func() { s.pollTick(gen) })
}
