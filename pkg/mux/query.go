package mux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

var (
	// ErrNoReply is returned when the terminal did not answer the
	// identification query before the deadline.
	ErrNoReply = errors.New("mux: no reply from terminal")

	// ErrNotTerminal is returned when the query target is not a terminal.
	ErrNotTerminal = errors.New("mux: not a terminal")
)

// kittyQuery asks for kitty graphics support with a 1x1 pixel query image.
const kittyQuery = "\x1b_Gi=31,s=1,v=1,a=q,t=d,f=24;AAAA\x1b\\"

// drainWindow is how long stragglers are discarded after a query.
const drainWindow = 15 * time.Millisecond

// cleanupReserve is cut from the read budget so draining and restoring the
// terminal mode finish before the caller's deadline.
const cleanupReserve = 3 * drainWindow

// identifyQuery is the identification request: XTVERSION for the
// emulator's name, the kitty graphics query, then DA1. Every terminal
// answers DA1, so its reply marks the end of the response. Cursor
// save/restore hides any glyphs a confused terminal might print.
func identifyQuery(m *Mux) string {
	q := ansi.RequestNameVersion + kittyQuery + ansi.RequestPrimaryDeviceAttributes
	if m != nil {
		q = m.Wrap(ansi.RequestNameVersion) + m.Wrap(kittyQuery) + ansi.RequestPrimaryDeviceAttributes
	}
	return ansi.SaveCursor + q + ansi.RestoreCursor
}

// TTY sends identification queries over the controlling terminal. It
// implements terminal.Prober.
type TTY struct {
	path   string
	mux    *Mux
	logger *slog.Logger
}

var _ terminal.Prober = (*TTY)(nil)

// NewTTY creates a TTY prober on /dev/tty. m may be nil outside a
// multiplexer. A nil logger uses slog.Default().
func NewTTY(m *Mux, logger *slog.Logger) *TTY {
	if logger == nil {
		logger = slog.Default()
	}
	return &TTY{path: "/dev/tty", mux: m, logger: logger}
}

// Identify writes the identification query and returns the raw reply.
// Reading stops cleanupReserve before ctx's deadline (or
// terminal.DefaultProbeTimeout when ctx has none) so that late reply bytes
// are drained and the terminal mode is restored before the deadline.
func (t *TTY) Identify(ctx context.Context) (string, error) {
	f, err := os.OpenFile(t.path, os.O_RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("mux: open %s: %w", t.path, err)
	}
	defer f.Close()

	// f.Fd() would switch the descriptor to blocking mode and disable
	// read deadlines, so fetch it through SyscallConn instead.
	fd, err := rawFd(f)
	if err != nil {
		return "", fmt.Errorf("mux: %s: %w", t.path, err)
	}
	if !isatty.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("mux: raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			t.logger.Warn("mux: restore terminal mode", "error", err)
		}
	}()

	if t.mux != nil {
		if err := t.mux.EnablePassthrough(ctx); err != nil {
			t.logger.Debug("mux: passthrough unavailable", "error", err)
		}
	}

	if _, err := io.WriteString(f, identifyQuery(t.mux)); err != nil {
		return "", fmt.Errorf("mux: write query: %w", err)
	}

	resp, err := readReply(ctx, f, readDeadline(ctx, time.Now()))
	drain(f)
	return resp, err
}

// readDeadline returns when reading the reply must stop: the ctx deadline
// (terminal.DefaultProbeTimeout from now when ctx has none) less
// cleanupReserve, but never before now.
func readDeadline(ctx context.Context, now time.Time) time.Time {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = now.Add(terminal.DefaultProbeTimeout)
	}
	deadline = deadline.Add(-cleanupReserve)
	if deadline.Before(now) {
		return now
	}
	return deadline
}

func rawFd(f *os.File) (uintptr, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd uintptr
	if err := rc.Control(func(u uintptr) { fd = u }); err != nil {
		return 0, err
	}
	return fd, nil
}

// deadlineReader is satisfied by *os.File on a pollable tty and net.Conn.
type deadlineReader interface {
	io.Reader
	SetReadDeadline(time.Time) error
}

// readReply accumulates terminal output until a DA1 reply is seen or the
// deadline passes. Cancelling ctx ends the read early.
func readReply(ctx context.Context, r deadlineReader, deadline time.Time) (string, error) {
	if err := r.SetReadDeadline(deadline); err != nil {
		return "", fmt.Errorf("mux: set read deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = r.SetReadDeadline(time.Now())
	})
	defer stop()

	var buf [512]byte
	acc := make([]byte, 0, 1024)
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			acc = append(acc, buf[:n]...)
			if hasDA1Response(acc) {
				return string(acc), nil
			}
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return "", ErrNoReply
			}
			return "", fmt.Errorf("mux: read reply: %w", err)
		}
	}
}

// drain discards anything the terminal sends shortly after a query, such
// as a reply that arrived after the deadline.
func drain(r deadlineReader) {
	if err := r.SetReadDeadline(time.Now().Add(drainWindow)); err != nil {
		return
	}
	var buf [256]byte
	for {
		if _, err := r.Read(buf[:]); err != nil {
			return
		}
	}
}

// hasDA1Response reports whether b contains a primary device attributes
// reply: ESC [ ? digits/semicolons c.
func hasDA1Response(b []byte) bool {
	for i := 0; i+3 < len(b); i++ {
		if b[i] != 0x1b || b[i+1] != '[' || b[i+2] != '?' {
			continue
		}
		for j := i + 3; j < len(b) && j-i < 64; j++ {
			ch := b[j]
			if ch == 'c' {
				return true
			}
			if (ch >= '0' && ch <= '9') || ch == ';' {
				continue
			}
			break
		}
	}
	return false
}
