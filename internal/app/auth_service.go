// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bettertogether/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrPinMismatch indicates the confirmation PIN differs from the first entry.
	ErrPinMismatch = errors.New("PINs do not match")
	// ErrIncorrectPin indicates the PIN does not match the stored hash.
	ErrIncorrectPin = errors.New("incorrect PIN")
	// ErrPinMissing indicates the gate expected a stored hash and found none.
	ErrPinMissing = errors.New("no PIN found")
	// ErrStorage wraps any settings read or write failure.
	ErrStorage = errors.New("settings storage failed")
	// ErrLocked is returned to callers that need an unlocked session.
	ErrLocked = errors.New("app is locked")
)

const (
	msgConfirmPin  = "Please confirm your PIN"
	msgMismatch    = "PINs do not match"
	msgSetupFailed = "Failed to set up PIN. Please try again."
	msgPinMissing  = "No PIN found. Please set up a new PIN."
	msgIncorrect   = "Incorrect PIN. Please try again."
	msgVerifyFail  = "Failed to verify PIN. Please try again."
	msgLoadFailed  = "Failed to load settings. Please try again."
	msgLockFailed  = "Failed to lock. Please try again."
)

// GateState is a state of the PIN gate.
type GateState int

const (
	StateCheckingExistingPin GateState = iota
	StateNoPinAwaitingEntry
	StateNoPinAwaitingConfirm
	StateHasPinAwaitingEntry
	StateUnlocked
)

var gateStateNames = [...]string{
	"checking",
	"setup_enter",
	"setup_confirm",
	"enter_pin",
	"unlocked",
}

func (s GateState) String() string {
	if s < 0 || int(s) >= len(gateStateNames) {
		return "unknown"
	}
	return gateStateNames[s]
}

// MarshalText encodes the state by name.
func (s GateState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// GateResult is what the gate reports after every action. Message is meant
// for display; Err carries the typed cause when the action did not succeed.
type GateResult struct {
	State   GateState `json:"state"`
	Message string    `json:"message,omitempty"`
	Err     error     `json:"-"`
}

// AuthGate guards the app behind a locally stored PIN hash. One gate serves
// one session.
type AuthGate struct {
	settings domain.AppSettingsRepository
	log      *zap.Logger

	mu      sync.Mutex
	state   GateState
	pending string
}

// NewAuthGate creates a gate in the initial checking state.
func NewAuthGate(settings domain.AppSettingsRepository, log *zap.Logger) *AuthGate {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthGate{settings: settings, log: log, state: StateCheckingExistingPin}
}

// State returns the current state.
func (g *AuthGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Unlocked reports whether the session has passed the gate.
func (g *AuthGate) Unlocked() bool {
	return g.State() == StateUnlocked
}

// Load reads the stored settings and picks the setup or entry path. It only
// acts in the checking state.
func (g *AuthGate) Load(ctx context.Context) GateResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load(ctx)
}

func (g *AuthGate) load(ctx context.Context) GateResult {
	if g.state != StateCheckingExistingPin {
		return g.result("", nil)
	}
	s, err := g.settings.GetAppSettings(ctx)
	if err != nil {
		g.log.Error("check existing pin", zap.Error(err))
		return g.result(msgLoadFailed, storageErr("load settings", err))
	}
	if s.HasPin() {
		g.state = StateHasPinAwaitingEntry
	} else {
		g.state = StateNoPinAwaitingEntry
	}
	return g.result("", nil)
}

// Submit feeds one PIN entry to the gate.
func (g *AuthGate) Submit(ctx context.Context, input string) GateResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateCheckingExistingPin {
		if res := g.load(ctx); res.Err != nil {
			return res
		}
	}

	switch g.state {
	case StateNoPinAwaitingEntry:
		return g.submitNewPin(input)
	case StateNoPinAwaitingConfirm:
		return g.confirmNewPin(ctx, input)
	case StateHasPinAwaitingEntry:
		return g.verify(ctx, input)
	default:
		return g.result("", nil)
	}
}

func (g *AuthGate) submitNewPin(input string) GateResult {
	if err := ValidatePin(input); err != nil {
		return g.result(err.Error(), err)
	}
	g.pending = input
	g.state = StateNoPinAwaitingConfirm
	return g.result(msgConfirmPin, nil)
}

func (g *AuthGate) confirmNewPin(ctx context.Context, input string) GateResult {
	if input != g.pending {
		return g.result(msgMismatch, ErrPinMismatch)
	}
	hash := HashPin(g.pending)
	err := g.update(ctx, func(s *domain.AppSettings) {
		s.PinHash = hash
		s.IsLocked = false
	})
	if err != nil {
		g.log.Error("set up pin", zap.Error(err))
		return g.result(msgSetupFailed, err)
	}
	g.pending = ""
	g.state = StateUnlocked
	g.log.Info("pin configured")
	return g.result("", nil)
}

func (g *AuthGate) verify(ctx context.Context, input string) GateResult {
	s, err := g.settings.GetAppSettings(ctx)
	if err != nil {
		g.log.Error("verify pin", zap.Error(err))
		return g.result(msgVerifyFail, storageErr("load settings", err))
	}
	if !s.HasPin() {
		g.log.Warn("pin hash missing for returning user")
		g.state = StateNoPinAwaitingEntry
		return g.result(msgPinMissing, ErrPinMissing)
	}
	if !VerifyPin(input, s.PinHash) {
		return g.result(msgIncorrect, ErrIncorrectPin)
	}
	s.IsLocked = false
	if err := g.settings.SaveAppSettings(ctx, s); err != nil {
		g.log.Error("verify pin", zap.Error(err))
		return g.result(msgVerifyFail, storageErr("save settings", err))
	}
	g.state = StateUnlocked
	return g.result("", nil)
}

// Back abandons a PIN setup waiting for confirmation.
func (g *AuthGate) Back() GateResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateNoPinAwaitingConfirm {
		g.pending = ""
		g.state = StateNoPinAwaitingEntry
	}
	return g.result("", nil)
}

// Lock re-arms the gate. Without a stored PIN there is nothing to lock
// against and the call leaves everything unchanged.
func (g *AuthGate) Lock(ctx context.Context) GateResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUnlocked {
		return g.result("", nil)
	}
	s, err := g.settings.GetAppSettings(ctx)
	if err != nil {
		g.log.Error("lock", zap.Error(err))
		return g.result(msgLockFailed, storageErr("load settings", err))
	}
	if !s.HasPin() {
		return g.result("", nil)
	}
	s.IsLocked = true
	if err := g.settings.SaveAppSettings(ctx, s); err != nil {
		g.log.Error("lock", zap.Error(err))
		return g.result(msgLockFailed, storageErr("save settings", err))
	}
	g.state = StateCheckingExistingPin
	g.log.Info("session locked")
	return g.load(ctx)
}

// update is the single read-merge-write path for gate-owned settings.
func (g *AuthGate) update(ctx context.Context, mutate func(*domain.AppSettings)) error {
	s, err := g.settings.GetAppSettings(ctx)
	if err != nil {
		return storageErr("load settings", err)
	}
	mutate(&s)
	if err := g.settings.SaveAppSettings(ctx, s); err != nil {
		return storageErr("save settings", err)
	}
	return nil
}

func (g *AuthGate) result(msg string, err error) GateResult {
	return GateResult{State: g.state, Message: msg, Err: err}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
