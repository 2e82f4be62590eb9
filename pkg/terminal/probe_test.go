package terminal

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestProbe_Match(t *testing.T) {
	p := ProberFunc(func(ctx context.Context) (string, error) {
		return "\x1bP>|WezTerm 20240203\x1b\\\x1b[?65;4;6;18;22c", nil
	})

	got, ok := Probe(context.Background(), p, time.Second, quietLogger())
	if !ok || got != BrandWezTerm {
		t.Errorf("Probe() = %v, %v, want %v", got, ok, BrandWezTerm)
	}
}

func TestProbe_NoMatch(t *testing.T) {
	p := ProberFunc(func(ctx context.Context) (string, error) {
		return "\x1b[?62;c", nil
	})

	if got, ok := Probe(context.Background(), p, time.Second, quietLogger()); ok {
		t.Errorf("Probe() = %v, want absent", got)
	}
}

func TestProbe_Error(t *testing.T) {
	p := ProberFunc(func(ctx context.Context) (string, error) {
		return "kitty", errors.New("no tty")
	})

	if got, ok := Probe(context.Background(), p, time.Second, quietLogger()); ok {
		t.Errorf("Probe() = %v, want absent on error", got)
	}
}

func TestProbe_NilProber(t *testing.T) {
	if got, ok := Probe(context.Background(), nil, 0, nil); ok {
		t.Errorf("Probe(nil) = %v, want absent", got)
	}
}

func TestProbe_TimeoutPassedToProber(t *testing.T) {
	var deadline time.Time
	p := ProberFunc(func(ctx context.Context) (string, error) {
		deadline, _ = ctx.Deadline()
		return "", nil
	})

	start := time.Now()
	Probe(context.Background(), p, 0, quietLogger())

	if deadline.IsZero() {
		t.Fatal("Prober context has no deadline")
	}
	if d := deadline.Sub(start); d > DefaultProbeTimeout+50*time.Millisecond {
		t.Errorf("deadline %v after start, want about %v", d, DefaultProbeTimeout)
	}
}

func TestProbe_AbandonsHungProber(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p := ProberFunc(func(ctx context.Context) (string, error) {
		<-release // ignores ctx
		return "kitty", nil
	})

	start := time.Now()
	got, ok := Probe(context.Background(), p, 20*time.Millisecond, quietLogger())
	if ok {
		t.Errorf("Probe() = %v, want absent after timeout", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Probe() took %v, want bounded by timeout", elapsed)
	}
}

func TestProbe_WaitsForCleanupAfterTimeout(t *testing.T) {
	var restored atomic.Bool
	p := ProberFunc(func(ctx context.Context) (string, error) {
		defer restored.Store(true)
		<-ctx.Done()
		time.Sleep(15 * time.Millisecond) // drain and mode restore
		return "", ctx.Err()
	})

	if got, ok := Probe(context.Background(), p, 20*time.Millisecond, quietLogger()); ok {
		t.Errorf("Probe() = %v, want absent after timeout", got)
	}
	if !restored.Load() {
		t.Error("Probe() returned before the prober finished cleanup")
	}
}
