// Package bridge mediates a single Nexus SDK session for a generated app:
// lifecycle, balance polling, approval relays and bridge execution.
package bridge

import (
	"context"
	"math/big"
)

// Provider is the opaque wallet transport handed to the SDK on initialize.
type Provider any

// Wallet is the connected wallet the session follows.
type Wallet interface {
	Connected() bool
	Provider(ctx context.Context) (Provider, error)
}

// Asset is one entry of the unified balance.
type Asset struct {
	Symbol        string
	Balance       string
	BalanceInFiat float64
	Decimals      int
}

// AllowanceRequest is delivered when the SDK needs a token approval.
type AllowanceRequest interface {
	Allow(policies []string) error
	Deny() error
}

// IntentRequest is delivered when the SDK needs the user to confirm a
// transaction intent.
type IntentRequest interface {
	Allow() error
	Deny() error
}

// Params identify a transfer. Amount is in the token's base units.
type Params struct {
	Token     string
	Amount    *big.Int
	ToChainID int
}

// Simulation is the SDK's fee and output estimate for a transfer.
type Simulation struct {
	TotalFee          string
	DestinationAmount string
	Raw               any
}

// Result is what a completed transfer reports.
type Result struct {
	ExplorerURL string
	TxHash      string
}

// EventFunc receives the SDK's string-tagged progress events.
type EventFunc func(name string, args any)

// SDK is the subset of the Nexus client the mediator consumes.
type SDK interface {
	Initialize(ctx context.Context, p Provider) error
	IsInitialized() bool
	Deinit(ctx context.Context) error
	UnifiedBalances(ctx context.Context, forceRefresh bool) ([]Asset, error)
	SetOnAllowanceHook(func(AllowanceRequest))
	SetOnIntentHook(func(IntentRequest))
	SimulateBridge(ctx context.Context, p Params) (*Simulation, error)
	Bridge(ctx context.Context, p Params, onEvent EventFunc) (Result, error)
}
