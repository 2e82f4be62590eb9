// Package mux handles terminal multiplexers sitting between the process and
// the real terminal emulator. It recovers the outer terminal's TERM and
// TERM_PROGRAM, wraps escape sequences for passthrough, and sends the
// identification query used by the active detection path.
package mux

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Kind identifies a terminal multiplexer.
type Kind int

const (
	None Kind = iota
	Tmux
	Screen
	Zellij
)

var kindNames = [...]string{
	None:   "none",
	Tmux:   "tmux",
	Screen: "screen",
	Zellij: "zellij",
}

// String returns the multiplexer name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Detect identifies the multiplexer from environment variables.
func Detect(env terminal.Env) Kind {
	switch {
	case terminal.Exists(env, "TMUX"):
		return Tmux
	case terminal.Exists(env, "ZELLIJ"):
		return Zellij
	case terminal.Exists(env, "STY"):
		return Screen
	}
	if v, _ := terminal.Value(env, "TERM_PROGRAM"); v == "tmux" {
		return Tmux
	}
	return None
}

// commandTimeout bounds each tmux invocation.
const commandTimeout = 500 * time.Millisecond

// runFunc executes a tmux subcommand and returns its stdout.
type runFunc func(ctx context.Context, args ...string) (string, error)

// Mux is the multiplexer layer for the current process.
type Mux struct {
	kind   Kind
	run    runFunc
	logger *slog.Logger

	passthroughOnce sync.Once
	passthroughErr  error
}

// New detects the multiplexer from env. A nil logger uses slog.Default().
func New(env terminal.Env, logger *slog.Logger) *Mux {
	if env == nil {
		env = terminal.OSEnv{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mux{kind: Detect(env), run: runTmux, logger: logger}
}

// Kind returns the detected multiplexer.
func (m *Mux) Kind() Kind {
	return m.kind
}

// TermProgram returns TERM and TERM_PROGRAM as seen by the tmux server,
// which keeps the values of the client that attached. Outside tmux, or when
// tmux cannot be queried, the zero Overrides is returned and callers fall
// back to the raw environment.
func (m *Mux) TermProgram(ctx context.Context) terminal.Overrides {
	if m.kind != Tmux {
		return terminal.Overrides{}
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := m.run(ctx, "show-environment")
	if err != nil {
		m.logger.Debug("mux: tmux show-environment failed", "error", err)
		return terminal.Overrides{}
	}
	return parseShowEnvironment(out)
}

// parseShowEnvironment extracts TERM and TERM_PROGRAM from the output of
// `tmux show-environment`. Lines look like NAME=value; removed variables
// are listed as -NAME and ignored.
func parseShowEnvironment(out string) terminal.Overrides {
	var ov terminal.Overrides
	for _, line := range strings.Split(out, "\n") {
		k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch k {
		case "TERM":
			ov.Term = v
		case "TERM_PROGRAM":
			ov.Program = v
		default:
			continue
		}
		if ov.Term != "" && ov.Program != "" {
			break
		}
	}
	return ov
}

// Wrap encloses seq in the multiplexer's passthrough envelope so it reaches
// the outer terminal. Outside a multiplexer seq is returned unchanged.
func (m *Mux) Wrap(seq string) string {
	switch m.kind {
	case Tmux:
		return ansi.TmuxPassthrough(seq)
	case Screen:
		return ansi.ScreenPassthrough(seq, 0)
	default:
		return seq
	}
}

// EnablePassthrough turns on tmux's allow-passthrough for the current pane.
// It runs at most once; later calls return the first result.
func (m *Mux) EnablePassthrough(ctx context.Context) error {
	if m.kind != Tmux {
		return nil
	}
	m.passthroughOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		if _, err := m.run(ctx, "set", "-p", "allow-passthrough", "on"); err != nil {
			m.passthroughErr = fmt.Errorf("mux: enable tmux passthrough: %w", err)
		}
	})
	return m.passthroughErr
}

// runTmux executes a tmux command and returns its stdout.
func runTmux(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
