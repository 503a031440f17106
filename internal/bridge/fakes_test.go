package bridge

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *fakeClock
	at    time.Time
	f     func()
	done  bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves time forward, firing due timers in order. Callbacks run
// without the clock's lock so they may schedule new timers.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.done || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.done = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

type fakeWallet struct {
	connected bool
	err       error

	// onProvider runs while the session is initializing.
	onProvider func()
}

func (w *fakeWallet) Connected() bool { return w.connected }

func (w *fakeWallet) Provider(context.Context) (Provider, error) {
	if w.onProvider != nil {
		w.onProvider()
	}
	if w.err != nil {
		return nil, w.err
	}
	return "eip1193", nil
}

type scriptedEvent struct {
	name string
	args any
}

type fakeSDK struct {
	mu sync.Mutex

	initialized bool
	initErr     error
	deinitErr   error
	balanceErr  error
	simErr      error
	bridgeErr   error

	balances   []Asset
	simulation *Simulation
	result     Result
	events     []scriptedEvent

	initCalls     int
	deinitCalls   int
	balanceCalls  int
	simulateCalls int
	bridgeCalls   int
	lastParams    Params
	provider      Provider

	allowanceHook func(AllowanceRequest)
	intentHook    func(IntentRequest)
}

func (f *fakeSDK) Initialize(_ context.Context, p Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initCalls++
	f.provider = p
	if f.initErr != nil {
		return f.initErr
	}
	f.initialized = true
	return nil
}

func (f *fakeSDK) IsInitialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initialized
}

func (f *fakeSDK) Deinit(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deinitCalls++
	if f.deinitErr != nil {
		return f.deinitErr
	}
	f.initialized = false
	return nil
}

func (f *fakeSDK) UnifiedBalances(context.Context, bool) ([]Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return append([]Asset(nil), f.balances...), nil
}

func (f *fakeSDK) SetOnAllowanceHook(h func(AllowanceRequest)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allowanceHook = h
}

func (f *fakeSDK) SetOnIntentHook(h func(IntentRequest)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intentHook = h
}

func (f *fakeSDK) SimulateBridge(_ context.Context, p Params) (*Simulation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simulateCalls++
	f.lastParams = p
	if f.simErr != nil {
		return nil, f.simErr
	}
	return f.simulation, nil
}

func (f *fakeSDK) Bridge(_ context.Context, p Params, onEvent EventFunc) (Result, error) {
	f.mu.Lock()
	f.bridgeCalls++
	f.lastParams = p
	events := f.events
	result, err := f.result, f.bridgeErr
	f.mu.Unlock()

	for _, ev := range events {
		onEvent(ev.name, ev.args)
	}
	return result, err
}

func (f *fakeSDK) fireAllowance(req AllowanceRequest) {
	f.mu.Lock()
	h := f.allowanceHook
	f.mu.Unlock()
	h(req)
}

func (f *fakeSDK) fireIntent(req IntentRequest) {
	f.mu.Lock()
	h := f.intentHook
	f.mu.Unlock()
	h(req)
}

func (f *fakeSDK) counts() (init, balance int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initCalls, f.balanceCalls
}

type fakeAllowance struct {
	mu       sync.Mutex
	policies [][]string
	denies   int
}

func (a *fakeAllowance) Allow(p []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.policies = append(a.policies, p)
	return nil
}

func (a *fakeAllowance) Deny() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.denies++
	return nil
}

func (a *fakeAllowance) state() (allows, denies int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.policies), a.denies
}

type fakeIntent struct {
	mu     sync.Mutex
	allows int
	denies int
}

func (i *fakeIntent) Allow() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.allows++
	return nil
}

func (i *fakeIntent) Deny() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.denies++
	return nil
}

func (i *fakeIntent) state() (allows, denies int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.allows, i.denies
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
