package terminal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/muesli/termenv"
)

// Source records which detection path produced a brand.
type Source int

const (
	SourceNone   Source = iota // no brand resolved
	SourceEnv                  // static environment path
	SourceProbe                // active identification query
	SourceConfig               // forced by configuration
)

var sourceNames = [...]string{
	SourceNone:   "none",
	SourceEnv:    "env",
	SourceProbe:  "probe",
	SourceConfig: "config",
}

// String returns the name of the source.
func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Capabilities is the terminal summary for the current session. It is
// resolved once at startup and handed to whatever needs it; nothing in this
// package caches it.
type Capabilities struct {
	Brand     Brand     // Detected terminal (zero when unknown)
	Source    Source    // Path that produced Brand
	Adapters  []Adapter // Image adapters to try, most preferred first
	Size      Size      // Terminal dimensions
	TrueColor bool      // 24-bit color support
	SSH       bool      // Running over SSH
	Tmux      bool      // Inside tmux
	Mux       bool      // Inside any multiplexer (tmux, screen, zellij)
}

// Known reports whether a brand was resolved.
func (c Capabilities) Known() bool {
	return c.Brand.Valid()
}

// Graphical reports whether any image adapter is worth trying. Both an
// unknown brand and a brand without adapters yield false.
func (c Capabilities) Graphical() bool {
	return len(c.Adapters) > 0
}

// DetectOptions controls DetectCapabilities.
type DetectOptions struct {
	Env       Env       // Defaults to OSEnv
	Overrides Overrides // Multiplexer-recovered TERM / TERM_PROGRAM

	// Probe enables the active fallback when the static path finds nothing.
	Probe        bool
	Prober       Prober
	ProbeTimeout time.Duration

	// ForceBrand skips detection entirely when valid.
	ForceBrand Brand
	// ForceAdapters replaces the capability table entry when non-empty.
	ForceAdapters []Adapter

	// SizeFn reports terminal dimensions. Defaults to GetSize.
	SizeFn func(Env) Size

	Logger *slog.Logger
}

// DetectCapabilities resolves the brand and derives everything else from
// it. Resolution order: forced brand, static environment path, then the
// active probe if enabled.
func DetectCapabilities(ctx context.Context, opts DetectOptions) Capabilities {
	env := opts.Env
	if env == nil {
		env = OSEnv{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sizeFn := opts.SizeFn
	if sizeFn == nil {
		sizeFn = GetSize
	}

	brand, src := resolveBrand(ctx, env, opts, logger)

	adapters := brand.Adapters()
	if len(opts.ForceAdapters) > 0 {
		adapters = slices.Clone(opts.ForceAdapters)
	}

	tmux := Exists(env, "TMUX")
	caps := Capabilities{
		Brand:     brand,
		Source:    src,
		Adapters:  adapters,
		Size:      sizeFn(env),
		TrueColor: trueColor(env),
		SSH:       isSSH(env),
		Tmux:      tmux,
		Mux:       tmux || Exists(env, "STY") || Exists(env, "ZELLIJ"),
	}

	logger.Debug("terminal: capabilities detected",
		"brand", caps.Brand, "source", caps.Source, "adapters", caps.Adapters,
		"ssh", caps.SSH, "mux", caps.Mux)
	return caps
}

func resolveBrand(ctx context.Context, env Env, opts DetectOptions, logger *slog.Logger) (Brand, Source) {
	if opts.ForceBrand.Valid() {
		return opts.ForceBrand, SourceConfig
	}
	if b, ok := NewResolver(env, opts.Overrides, logger).FromEnv(); ok {
		return b, SourceEnv
	}
	if opts.Probe && opts.Prober != nil {
		if b, ok := Probe(ctx, opts.Prober, opts.ProbeTimeout, logger); ok {
			return b, SourceProbe
		}
	}
	return 0, SourceNone
}

// trueColor reports 24-bit color support from COLORTERM and TERM, using
// termenv's profile rules.
func trueColor(env Env) bool {
	out := termenv.NewOutput(io.Discard,
		termenv.WithEnvironment(termenvEnviron{env}),
		termenv.WithUnsafe(),
	)
	return out.EnvColorProfile() == termenv.TrueColor
}

// termenvEnviron adapts Env to termenv.Environ.
type termenvEnviron struct {
	env Env
}

// Environ lists the variables of a MapEnv or the process. Other Env
// implementations cannot be enumerated and yield nil.
func (e termenvEnviron) Environ() []string {
	switch env := e.env.(type) {
	case MapEnv:
		out := make([]string, 0, len(env))
		for k, v := range env {
			out = append(out, k+"="+v)
		}
		return out
	case OSEnv:
		return os.Environ()
	default:
		return nil
	}
}

func (e termenvEnviron) Getenv(name string) string {
	return getenv(e.env, name)
}

// isSSH reports whether the session is running over SSH.
func isSSH(env Env) bool {
	return Exists(env, "SSH_TTY") ||
		Exists(env, "SSH_CONNECTION") ||
		Exists(env, "SSH_CLIENT")
}
