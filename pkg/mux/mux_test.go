package mux

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// fakeMux returns a tmux Mux whose commands are answered by run.
func fakeMux(kind Kind, run runFunc) *Mux {
	return &Mux{kind: kind, run: run, logger: quietLogger()}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		env  terminal.MapEnv
		want Kind
	}{
		{terminal.MapEnv{}, None},
		{terminal.MapEnv{"TMUX": "/tmp/tmux-1000/default,1,0"}, Tmux},
		{terminal.MapEnv{"TERM_PROGRAM": "tmux"}, Tmux},
		{terminal.MapEnv{"STY": "1234.pts-0.host"}, Screen},
		{terminal.MapEnv{"ZELLIJ": "0"}, Zellij},
		{terminal.MapEnv{"TMUX": ""}, None},
	}
	for _, tc := range cases {
		if got := Detect(tc.env); got != tc.want {
			t.Errorf("Detect(%v) = %v, want %v", tc.env, got, tc.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if got := Tmux.String(); got != "tmux" {
		t.Errorf("Tmux.String() = %q, want %q", got, "tmux")
	}
	if got := Kind(9).String(); got != "unknown" {
		t.Errorf("Kind(9).String() = %q, want %q", got, "unknown")
	}
}

func TestParseShowEnvironment(t *testing.T) {
	out := strings.Join([]string{
		"DISPLAY=:0",
		"-SSH_AGENT_PID",
		"TERM=xterm-ghostty",
		"TERM_PROGRAM=ghostty",
		"TERM_PROGRAM_VERSION=1.0.1",
		"",
	}, "\n")

	got := parseShowEnvironment(out)
	want := terminal.Overrides{Term: "xterm-ghostty", Program: "ghostty"}
	if got != want {
		t.Errorf("parseShowEnvironment() = %+v, want %+v", got, want)
	}
}

func TestParseShowEnvironment_Removed(t *testing.T) {
	got := parseShowEnvironment("-TERM_PROGRAM\nTERM=foot\n")
	want := terminal.Overrides{Term: "foot"}
	if got != want {
		t.Errorf("parseShowEnvironment() = %+v, want %+v", got, want)
	}
}

func TestTermProgram_Tmux(t *testing.T) {
	var gotArgs []string
	m := fakeMux(Tmux, func(ctx context.Context, args ...string) (string, error) {
		gotArgs = args
		return "TERM=xterm-kitty\nTERM_PROGRAM=WezTerm\n", nil
	})

	ov := m.TermProgram(context.Background())
	if ov.Term != "xterm-kitty" || ov.Program != "WezTerm" {
		t.Errorf("TermProgram() = %+v", ov)
	}
	if strings.Join(gotArgs, " ") != "show-environment" {
		t.Errorf("tmux args = %v, want [show-environment]", gotArgs)
	}
}

func TestTermProgram_NotTmux(t *testing.T) {
	m := fakeMux(Screen, func(ctx context.Context, args ...string) (string, error) {
		t.Error("tmux invoked outside tmux")
		return "", nil
	})
	if ov := m.TermProgram(context.Background()); ov != (terminal.Overrides{}) {
		t.Errorf("TermProgram() = %+v, want zero", ov)
	}
}

func TestTermProgram_CommandFails(t *testing.T) {
	m := fakeMux(Tmux, func(ctx context.Context, args ...string) (string, error) {
		return "", errors.New("no server running")
	})
	if ov := m.TermProgram(context.Background()); ov != (terminal.Overrides{}) {
		t.Errorf("TermProgram() = %+v, want zero", ov)
	}
}

func TestTermProgram_FeedsResolver(t *testing.T) {
	m := fakeMux(Tmux, func(ctx context.Context, args ...string) (string, error) {
		return "TERM_PROGRAM=iTerm.app\n", nil
	})
	env := terminal.MapEnv{"TMUX": "/tmp/tmux", "TERM": "tmux-256color", "TERM_PROGRAM": "tmux"}

	r := terminal.NewResolver(env, m.TermProgram(context.Background()), quietLogger())
	if got, ok := r.FromEnv(); !ok || got != terminal.BrandITerm2 {
		t.Errorf("FromEnv() = %v, %v, want %v", got, ok, terminal.BrandITerm2)
	}
}

func TestWrap(t *testing.T) {
	seq := "\x1b[>q"

	if got := fakeMux(None, nil).Wrap(seq); got != seq {
		t.Errorf("Wrap() outside mux = %q, want %q", got, seq)
	}

	want := "\x1bPtmux;\x1b\x1b[>q\x1b\\"
	if got := fakeMux(Tmux, nil).Wrap(seq); got != want {
		t.Errorf("Wrap() in tmux = %q, want %q", got, want)
	}

	got := fakeMux(Screen, nil).Wrap(seq)
	if !strings.HasPrefix(got, "\x1bP") || !strings.Contains(got, seq) {
		t.Errorf("Wrap() in screen = %q, want DCS envelope around %q", got, seq)
	}
}

func TestEnablePassthrough_Once(t *testing.T) {
	calls := 0
	m := fakeMux(Tmux, func(ctx context.Context, args ...string) (string, error) {
		calls++
		if strings.Join(args, " ") != "set -p allow-passthrough on" {
			t.Errorf("tmux args = %v", args)
		}
		return "", errors.New("unknown option")
	})

	err1 := m.EnablePassthrough(context.Background())
	err2 := m.EnablePassthrough(context.Background())
	if err1 == nil || err2 == nil {
		t.Errorf("EnablePassthrough() errors = %v, %v, want both non-nil", err1, err2)
	}
	if calls != 1 {
		t.Errorf("tmux invoked %d times, want 1", calls)
	}
}

func TestEnablePassthrough_NotTmux(t *testing.T) {
	m := fakeMux(None, nil)
	if err := m.EnablePassthrough(context.Background()); err != nil {
		t.Errorf("EnablePassthrough() = %v, want nil", err)
	}
}
