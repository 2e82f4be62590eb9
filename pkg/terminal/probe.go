package terminal

import (
	"context"
	"log/slog"
	"time"
)

// DefaultProbeTimeout bounds the identification round trip when the caller
// does not configure one.
const DefaultProbeTimeout = 200 * time.Millisecond

// cleanupGrace is how long Probe keeps waiting after the deadline for a
// prober to finish restoring the terminal.
const cleanupGrace = 100 * time.Millisecond

// Prober sends a terminal identification query and returns the raw reply.
// Implementations must return once ctx is done.
type Prober interface {
	Identify(ctx context.Context) (string, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) (string, error)

// Identify calls f(ctx).
func (f ProberFunc) Identify(ctx context.Context) (string, error) {
	return f(ctx)
}

// Probe runs the active identification path. The round trip is bounded by
// timeout (DefaultProbeTimeout when <= 0); an error, a timeout or an
// unrecognised reply all yield (0, false).
func Probe(ctx context.Context, p Prober, timeout time.Duration, logger *slog.Logger) (Brand, bool) {
	if p == nil {
		return 0, false
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		resp string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		resp, err := p.Identify(ctx)
		done <- reply{resp, err}
	}()

	var resp string
	select {
	case r := <-done:
		if r.err != nil {
			logger.Debug("terminal: identification query failed", "error", r.err)
			return 0, false
		}
		resp = r.resp
	case <-ctx.Done():
		// Give the prober a bounded window to restore the terminal before
		// the caller writes to it. One that ignores ctx is abandoned; its
		// goroutine exits whenever Identify returns.
		grace := time.NewTimer(cleanupGrace)
		defer grace.Stop()
		select {
		case <-done:
		case <-grace.C:
			logger.Debug("terminal: prober still running after timeout", "grace", cleanupGrace)
		}
		logger.Debug("terminal: identification query timed out", "timeout", timeout)
		return 0, false
	}

	b, ok := FromCSI(resp)
	if !ok {
		logger.Debug("terminal: unrecognised identification reply", "reply", resp)
	}
	return b, ok
}
