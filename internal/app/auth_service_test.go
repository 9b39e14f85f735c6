package app

import (
	"context"
	"errors"
	"testing"

	"bettertogether/internal/domain"
)

type mockSettingsRepo struct {
	getFn  func(ctx context.Context) (domain.AppSettings, error)
	saveFn func(ctx context.Context, s domain.AppSettings) error
}

func (m *mockSettingsRepo) GetAppSettings(ctx context.Context) (domain.AppSettings, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return domain.DefaultAppSettings(), nil
}

func (m *mockSettingsRepo) SaveAppSettings(ctx context.Context, s domain.AppSettings) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, s)
	}
	return nil
}

// storedSettings returns a repo that keeps whatever was last saved.
func storedSettings(initial domain.AppSettings) (*mockSettingsRepo, *domain.AppSettings) {
	cur := initial
	return &mockSettingsRepo{
		getFn: func(context.Context) (domain.AppSettings, error) { return cur, nil },
		saveFn: func(_ context.Context, s domain.AppSettings) error {
			cur = s
			return nil
		},
	}, &cur
}

func withPin(pin string) domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.PinHash = HashPin(pin)
	return s
}

func TestAuthGate_LoadWithoutPin(t *testing.T) {
	repo, _ := storedSettings(domain.DefaultAppSettings())
	g := NewAuthGate(repo, nil)
	if g.State() != StateCheckingExistingPin {
		t.Fatalf("expected initial checking state, got %v", g.State())
	}
	res := g.Load(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateNoPinAwaitingEntry {
		t.Fatalf("expected %v, got %v", StateNoPinAwaitingEntry, res.State)
	}
}

func TestAuthGate_LoadWithPin(t *testing.T) {
	repo, _ := storedSettings(withPin("1234"))
	g := NewAuthGate(repo, nil)
	if res := g.Load(context.Background()); res.State != StateHasPinAwaitingEntry {
		t.Fatalf("expected %v, got %v", StateHasPinAwaitingEntry, res.State)
	}
}

func TestAuthGate_LoadStorageError(t *testing.T) {
	repo := &mockSettingsRepo{
		getFn: func(context.Context) (domain.AppSettings, error) {
			return domain.AppSettings{}, errors.New("disk gone")
		},
	}
	g := NewAuthGate(repo, nil)
	res := g.Load(context.Background())
	if !errors.Is(res.Err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", res.Err)
	}
	if res.State != StateCheckingExistingPin {
		t.Fatalf("expected to stay in %v, got %v", StateCheckingExistingPin, res.State)
	}
	if res.Message == "" {
		t.Error("expected a retry message")
	}
}

func TestAuthGate_SetupSuccess(t *testing.T) {
	ctx := context.Background()
	repo, cur := storedSettings(domain.DefaultAppSettings())
	g := NewAuthGate(repo, nil)

	res := g.Submit(ctx, "1234")
	if res.State != StateNoPinAwaitingConfirm {
		t.Fatalf("expected %v, got %v (%v)", StateNoPinAwaitingConfirm, res.State, res.Err)
	}
	res = g.Submit(ctx, "1234")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateUnlocked {
		t.Fatalf("expected %v, got %v", StateUnlocked, res.State)
	}
	if cur.PinHash == "" {
		t.Fatal("expected a stored pin hash")
	}
	if cur.PinHash == "1234" || !VerifyPin("1234", cur.PinHash) {
		t.Error("stored hash does not verify the pin")
	}
	if cur.IsLocked {
		t.Error("expected isLocked=false after setup")
	}
	if !cur.Notifications.MoonPhases {
		t.Error("setup must keep the other settings")
	}
}

func TestAuthGate_SetupMismatch(t *testing.T) {
	ctx := context.Background()
	saved := false
	repo := &mockSettingsRepo{
		saveFn: func(context.Context, domain.AppSettings) error {
			saved = true
			return nil
		},
	}
	g := NewAuthGate(repo, nil)
	g.Submit(ctx, "1234")
	res := g.Submit(ctx, "5678")
	if !errors.Is(res.Err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", res.Err)
	}
	if res.State != StateNoPinAwaitingConfirm {
		t.Fatalf("expected to stay in %v, got %v", StateNoPinAwaitingConfirm, res.State)
	}
	if saved {
		t.Error("nothing should be saved on mismatch")
	}

	// The remembered PIN survives the mismatch.
	if res := g.Submit(ctx, "1234"); res.State != StateUnlocked {
		t.Fatalf("expected %v after correct confirm, got %v", StateUnlocked, res.State)
	}
}

func TestAuthGate_SetupValidation(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want error
	}{
		{"empty", "", ErrEmptyPin},
		{"short", "12", ErrPinTooShort},
		{"long", "123456789012345678901", ErrPinTooLong},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewAuthGate(&mockSettingsRepo{}, nil)
			res := g.Submit(context.Background(), tc.pin)
			if !errors.Is(res.Err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, res.Err)
			}
			if res.State != StateNoPinAwaitingEntry {
				t.Fatalf("expected to stay in %v, got %v", StateNoPinAwaitingEntry, res.State)
			}
			if res.Message != tc.want.Error() {
				t.Errorf("message = %q; want %q", res.Message, tc.want.Error())
			}
		})
	}
}

func TestAuthGate_SetupBack(t *testing.T) {
	ctx := context.Background()
	g := NewAuthGate(&mockSettingsRepo{}, nil)
	g.Submit(ctx, "1234")
	if res := g.Back(); res.State != StateNoPinAwaitingEntry {
		t.Fatalf("expected %v, got %v", StateNoPinAwaitingEntry, res.State)
	}
	// A fresh entry is required; the old PIN is forgotten.
	g.Submit(ctx, "9876")
	if res := g.Submit(ctx, "1234"); !errors.Is(res.Err, ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", res.Err)
	}
}

func TestAuthGate_SetupSaveError(t *testing.T) {
	ctx := context.Background()
	repo := &mockSettingsRepo{
		saveFn: func(context.Context, domain.AppSettings) error { return errors.New("quota exceeded") },
	}
	g := NewAuthGate(repo, nil)
	g.Submit(ctx, "1234")
	res := g.Submit(ctx, "1234")
	if !errors.Is(res.Err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", res.Err)
	}
	if res.State != StateNoPinAwaitingConfirm {
		t.Fatalf("expected to stay in %v, got %v", StateNoPinAwaitingConfirm, res.State)
	}
	if res.Message != msgSetupFailed {
		t.Errorf("message = %q", res.Message)
	}
}

func TestAuthGate_VerifyIncorrectThenCorrect(t *testing.T) {
	ctx := context.Background()
	initial := withPin("1234")
	initial.IsLocked = true
	repo, cur := storedSettings(initial)
	g := NewAuthGate(repo, nil)

	res := g.Submit(ctx, "0000")
	if !errors.Is(res.Err, ErrIncorrectPin) {
		t.Fatalf("expected ErrIncorrectPin, got %v", res.Err)
	}
	if res.State != StateHasPinAwaitingEntry {
		t.Fatalf("expected to stay in %v, got %v", StateHasPinAwaitingEntry, res.State)
	}
	if res.Message != msgIncorrect {
		t.Errorf("message = %q", res.Message)
	}

	// Retries are unlimited.
	for range 10 {
		g.Submit(ctx, "4321")
	}

	res = g.Submit(ctx, "1234")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateUnlocked {
		t.Fatalf("expected %v, got %v", StateUnlocked, res.State)
	}
	if cur.IsLocked {
		t.Error("expected isLocked=false after unlock")
	}
}

func TestAuthGate_VerifyMissingHashFallsBackToSetup(t *testing.T) {
	ctx := context.Background()
	calls := 0
	repo := &mockSettingsRepo{
		getFn: func(context.Context) (domain.AppSettings, error) {
			calls++
			if calls == 1 {
				return withPin("1234"), nil
			}
			return domain.DefaultAppSettings(), nil
		},
	}
	g := NewAuthGate(repo, nil)
	g.Load(ctx)
	res := g.Submit(ctx, "1234")
	if !errors.Is(res.Err, ErrPinMissing) {
		t.Fatalf("expected ErrPinMissing, got %v", res.Err)
	}
	if res.State != StateNoPinAwaitingEntry {
		t.Fatalf("expected %v, got %v", StateNoPinAwaitingEntry, res.State)
	}
}

func TestAuthGate_VerifyStorageError(t *testing.T) {
	ctx := context.Background()
	fail := false
	repo := &mockSettingsRepo{
		getFn: func(context.Context) (domain.AppSettings, error) {
			if fail {
				return domain.AppSettings{}, errors.New("io")
			}
			return withPin("1234"), nil
		},
	}
	g := NewAuthGate(repo, nil)
	g.Load(ctx)
	fail = true
	res := g.Submit(ctx, "1234")
	if !errors.Is(res.Err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", res.Err)
	}
	if res.State != StateHasPinAwaitingEntry {
		t.Fatalf("expected to stay in %v, got %v", StateHasPinAwaitingEntry, res.State)
	}
}

func TestAuthGate_LockWithPin(t *testing.T) {
	ctx := context.Background()
	repo, cur := storedSettings(withPin("1234"))
	g := NewAuthGate(repo, nil)
	g.Submit(ctx, "1234")
	if !g.Unlocked() {
		t.Fatal("expected unlocked")
	}

	res := g.Lock(ctx)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateHasPinAwaitingEntry {
		t.Fatalf("expected %v, got %v", StateHasPinAwaitingEntry, res.State)
	}
	if !cur.IsLocked {
		t.Error("expected isLocked=true to be persisted")
	}
}

func TestAuthGate_LockWithoutPinIsNoop(t *testing.T) {
	ctx := context.Background()
	saves := 0
	repo := &mockSettingsRepo{
		getFn: func(context.Context) (domain.AppSettings, error) { return domain.DefaultAppSettings(), nil },
		saveFn: func(context.Context, domain.AppSettings) error {
			saves++
			return nil
		},
	}
	g := NewAuthGate(repo, nil)
	g.state = StateUnlocked

	res := g.Lock(ctx)
	if res.State != StateUnlocked {
		t.Fatalf("expected to stay %v, got %v", StateUnlocked, res.State)
	}
	if saves != 0 {
		t.Errorf("expected no saves, got %d", saves)
	}
}

func TestAuthGate_LockSaveError(t *testing.T) {
	ctx := context.Background()
	repo := &mockSettingsRepo{
		getFn:  func(context.Context) (domain.AppSettings, error) { return withPin("1234"), nil },
		saveFn: func(context.Context, domain.AppSettings) error { return errors.New("io") },
	}
	g := NewAuthGate(repo, nil)
	g.state = StateUnlocked
	res := g.Lock(ctx)
	if !errors.Is(res.Err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", res.Err)
	}
	if res.State != StateUnlocked {
		t.Fatalf("expected to stay %v, got %v", StateUnlocked, res.State)
	}
}

func TestGateState_String(t *testing.T) {
	if StateUnlocked.String() != "unlocked" {
		t.Errorf("unexpected name %q", StateUnlocked.String())
	}
	if GateState(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range state")
	}
}
