package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avail-project/create-liquid-apps/internal/notify"
)

// ErrNoTransactionHash marks a transfer that returned without an explorer
// reference.
var ErrNoTransactionHash = errors.New("no transaction hash returned")

const (
	walletPromptDuration = 10 * time.Second
	outcomeDuration      = 8 * time.Second
)

// Progress folds the event stream of one transfer.
type Progress struct {
	Steps       []Step
	Index       int
	Description string
}

// Apply updates p with ev and returns a notification to show, if any.
func (p *Progress) Apply(ev Event) *notify.Notification {
	switch ev := ev.(type) {
	case StepsList:
		p.Steps = ev.Steps
	case StepComplete:
		p.Index = ev.Index
		if ev.Index >= 0 && ev.Index < len(p.Steps) {
			p.Description = describeStep(p.Steps[ev.Index])
		}
	case IntentCreated:
		return &notify.Notification{Level: notify.Info, Title: "Please approve the transaction in your wallet", Duration: walletPromptDuration}
	case AllowanceRequired:
		return &notify.Notification{Level: notify.Info, Title: "Please approve the token allowance", Duration: walletPromptDuration}
	case UnknownEvent:
	}
	return nil
}

func describeStep(step Step) string {
	switch step.Type {
	case "":
		return ""
	case StepAllowanceApproval:
		return "Waiting for allowance approval..."
	case StepTransactionSent:
		return "Transaction sent, waiting for confirmation..."
	default:
		return "Processing step: " + step.Type
	}
}

// Request is a transfer as entered by the user.
type Request struct {
	Token     string
	Amount    string
	ToChainID int
}

// Outcome is the terminal state of Execute.
type Outcome struct {
	Success     bool
	ExplorerURL string
	Err         error
}

// Snapshot is a point-in-time copy of the Bridger's progress.
type Snapshot struct {
	Bridging    bool
	Simulating  bool
	CurrentStep string
	Steps       []Step
	Index       int
	Description string
	Simulation  *Simulation
}

// ClientSource yields the shared SDK handle, or nil before it is ready.
type ClientSource interface {
	Client() SDK
}

// Bridger runs simulations and transfers against the session's SDK. Every
// terminal state is reported through the notifier.
type Bridger struct {
	source   ClientSource
	notifier notify.Notifier
	log      *slog.Logger

	// OpenURL backs the "View Transaction" action. Nil hides the action.
	OpenURL func(url string)

	mu         sync.Mutex
	bridging   bool
	simulating bool
	current    string
	progress   Progress
	simulation *Simulation
}

// NewBridger returns a Bridger reading its SDK from source.
func NewBridger(source ClientSource, n notify.Notifier, logger *slog.Logger) *Bridger {
	if logger == nil {
		logger = slog.Default().With("component", "bridge")
	}
	return &Bridger{source: source, notifier: n, log: logger}
}

// Progress returns a snapshot of the current operation.
func (b *Bridger) Progress() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Bridging:    b.bridging,
		Simulating:  b.simulating,
		CurrentStep: b.current,
		Steps:       append([]Step(nil), b.progress.Steps...),
		Index:       b.progress.Index,
		Description: b.progress.Description,
		Simulation:  b.simulation,
	}
}

// prepare validates req and converts it to SDK params. Nothing reaches the
// SDK when it fails.
func prepare(req Request) (Params, error) {
	if !ValidAmount(req.Amount) {
		return Params{}, ErrInvalidAmount
	}
	tok, err := LookupToken(req.Token)
	if err != nil {
		return Params{}, err
	}
	amount, err := ParseAmount(req.Amount, tok.Decimals)
	if err != nil {
		return Params{}, err
	}
	return Params{Token: tok.Symbol, Amount: amount, ToChainID: req.ToChainID}, nil
}

func (b *Bridger) fail(msg string, d time.Duration) {
	b.notifier.Notify(notify.Notification{Level: notify.Error, Title: msg, Duration: d})
}

// Simulate estimates req. It returns nil on any failure after notifying the
// user.
func (b *Bridger) Simulate(ctx context.Context, req Request) *Simulation {
	sdk := b.source.Client()
	if sdk == nil {
		b.fail("SDK not initialized", 0)
		return nil
	}
	params, err := prepare(req)
	if err != nil {
		b.fail(errorText(err, "Simulation failed"), 0)
		return nil
	}

	b.mu.Lock()
	b.simulating = true
	b.current = "Simulating bridge..."
	b.mu.Unlock()

	sim, err := sdk.SimulateBridge(ctx, params)

	b.mu.Lock()
	b.simulating = false
	b.current = ""
	if err == nil {
		b.simulation = sim
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Error("simulation failed", "token", params.Token, "error", err)
		b.fail(errorText(err, "Simulation failed"), 0)
		return nil
	}
	return sim
}

// Execute runs the transfer and tracks its progress events. Success requires
// an explorer URL in the result.
func (b *Bridger) Execute(ctx context.Context, req Request) Outcome {
	sdk := b.source.Client()
	if sdk == nil {
		b.fail("SDK not initialized", 0)
		return Outcome{Err: ErrNotInitialized}
	}

	b.mu.Lock()
	b.bridging = true
	b.current = "Preparing transaction..."
	b.progress = Progress{}
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.bridging = false
		b.mu.Unlock()
	}()

	params, err := prepare(req)
	if err != nil {
		return b.failed(err)
	}

	b.setCurrent("Initiating bridge...")
	result, err := sdk.Bridge(ctx, params, b.onEvent)
	if err != nil {
		b.log.Error("bridge failed", "token", params.Token, "to", params.ToChainID, "error", err)
		return b.failed(err)
	}
	b.setCurrent("")

	if result.ExplorerURL == "" {
		b.fail("Bridge transaction failed - no transaction hash returned", 0)
		return Outcome{Err: ErrNoTransactionHash}
	}

	n := notify.Notification{
		Level:    notify.Success,
		Title:    fmt.Sprintf("Successfully bridged %s %s!", req.Amount, params.Token),
		Duration: outcomeDuration,
	}
	if b.OpenURL != nil {
		url, open := result.ExplorerURL, b.OpenURL
		n.Action = &notify.Action{Label: "View Transaction", Do: func() { open(url) }}
	}
	b.notifier.Notify(n)
	b.log.Info("bridged", "token", params.Token, "to", params.ToChainID, "explorer", result.ExplorerURL)
	return Outcome{Success: true, ExplorerURL: result.ExplorerURL}
}

func (b *Bridger) failed(err error) Outcome {
	b.fail(errorText(err, "Bridge transaction failed"), outcomeDuration)
	b.setCurrent("Transaction failed")
	return Outcome{Err: err}
}

func (b *Bridger) onEvent(name string, args any) {
	ev := DecodeEvent(name, args)
	if u, ok := ev.(UnknownEvent); ok {
		b.log.Debug("ignoring event", "name", u.Name)
		return
	}

	b.mu.Lock()
	n := b.progress.Apply(ev)
	if _, ok := ev.(StepComplete); ok && b.progress.Description != "" {
		b.current = b.progress.Description
	}
	b.mu.Unlock()

	if n != nil {
		b.notifier.Notify(*n)
	}
}

func (b *Bridger) setCurrent(s string) {
	b.mu.Lock()
	b.current = s
	b.mu.Unlock()
}

func errorText(err error, fallback string) string {
	switch {
	case err == nil:
		return fallback
	case errors.Is(err, ErrInvalidAmount):
		return "Please enter a valid amount"
	case errors.Is(err, ErrNotInitialized):
		return "Nexus is not initialized"
	case err.Error() == "":
		return fallback
	default:
		return err.Error()
	}
}
