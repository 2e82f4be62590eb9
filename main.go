// termbrand identifies the terminal emulator it is running in and reports
// which image protocols that terminal can display.
//
// Usage:
//
//	termbrand [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: ~/.config/termbrand/config.toml)
//	-probe            Force the identification query on
//	-no-probe         Force the identification query off
//	-timeout duration Identification query timeout (default from config, 200ms)
//	-format string    Output format: text, json or yaml (default "text")
//	-preview string   Render an image with the best available adapter
//	-width int        Preview width in cells (0 = config)
//	-height int       Preview height in cells (0 = config)
//	-profiles         Check detection against the built-in terminal profiles
//	-verbose          Enable debug logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/termbrand/pkg/config"
	"gitlab.com/tinyland/lab/termbrand/pkg/mux"
	"gitlab.com/tinyland/lab/termbrand/pkg/preview"
	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
	"gitlab.com/tinyland/lab/termbrand/pkg/termtest"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file")
		forceProbe   = flag.Bool("probe", false, "Force the identification query on")
		noProbe      = flag.Bool("no-probe", false, "Force the identification query off")
		probeTimeout = flag.Duration("timeout", 0, "Identification query timeout (0 = config)")
		format       = flag.String("format", "text", "Output format (text|json|yaml)")
		previewPath  = flag.String("preview", "", "Render an image with the best available adapter")
		width        = flag.Int("width", 0, "Preview width in cells (0 = config)")
		height       = flag.Int("height", 0, "Preview height in cells (0 = config)")
		runProfiles  = flag.Bool("profiles", false, "Check detection against the built-in terminal profiles")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("termbrand %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if !validFormat(*format) {
		fmt.Fprintf(os.Stderr, "unknown format: %s (supported: text, json, yaml)\n", *format)
		os.Exit(2)
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *forceProbe && *noProbe:
		fmt.Fprintln(os.Stderr, "-probe and -no-probe are mutually exclusive")
		os.Exit(2)
	case *forceProbe:
		cfg.Probe.Enabled = true
	case *noProbe:
		cfg.Probe.Enabled = false
	}
	if *probeTimeout > 0 {
		cfg.Probe.Timeout.Duration = *probeTimeout
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logLevel := cfg.SlogLevel()
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Debug("received shutdown signal")
		cancel()
	}()

	if *runProfiles {
		os.Exit(checkProfiles(ctx, os.Stdout, logger))
	}

	m := mux.New(terminal.OSEnv{}, logger)
	caps, err := detect(ctx, cfg, m, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if *previewPath != "" {
		cols, rows := previewSize(cfg.Preview, *width, *height)
		if err := renderPreview(ctx, os.Stdout, caps, cfg.Preview, m, *previewPath, cols, rows, logger); err != nil {
			logger.Error("preview failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := writeReport(os.Stdout, newReport(caps, m.Kind()), *format); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
	}
}

// detect resolves the session's capabilities. The identification query is
// only sent when enabled and stdout is an interactive terminal, so piping
// the output never blocks on a tty read.
func detect(ctx context.Context, cfg *config.Config, m *mux.Mux, logger *slog.Logger) (terminal.Capabilities, error) {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	opts, err := detectOptions(ctx, cfg, m.TermProgram, interactive, logger)
	if err != nil {
		return terminal.Capabilities{}, err
	}
	opts.Prober = mux.NewTTY(m, logger)
	return terminal.DetectCapabilities(ctx, opts), nil
}

// detectOptions builds detection options from cfg. The multiplexer is only
// asked for overrides when no brand is forced.
func detectOptions(ctx context.Context, cfg *config.Config, overrides func(context.Context) terminal.Overrides,
	interactive bool, logger *slog.Logger) (terminal.DetectOptions, error) {
	brand, err := cfg.ForcedBrand()
	if err != nil {
		return terminal.DetectOptions{}, err
	}
	adapters, err := cfg.ForcedAdapters()
	if err != nil {
		return terminal.DetectOptions{}, err
	}

	opts := terminal.DetectOptions{
		Env:           terminal.OSEnv{},
		Probe:         cfg.Probe.Enabled && interactive,
		ProbeTimeout:  cfg.Probe.Timeout.Or(terminal.DefaultProbeTimeout),
		ForceBrand:    brand,
		ForceAdapters: adapters,
		Logger:        logger,
	}
	if !brand.Valid() {
		opts.Overrides = overrides(ctx)
	}
	if cfg.Probe.Enabled && !interactive {
		logger.Debug("stdout is not a terminal, skipping identification query")
	}
	return opts, nil
}

// previewSize picks the preview cell area: flags first, then config.
func previewSize(cfg config.PreviewConfig, width, height int) (int, int) {
	if width <= 0 {
		width = cfg.Width
	}
	if height <= 0 {
		height = cfg.Height
	}
	return max(width, 1), max(height, 1)
}

// renderPreview draws the image at path and writes it to w.
func renderPreview(ctx context.Context, w io.Writer, caps terminal.Capabilities, cfg config.PreviewConfig,
	m *mux.Mux, path string, cols, rows int, logger *slog.Logger) error {
	r := preview.NewRenderer(caps, cfg, logger)
	res, err := r.RenderFile(path, cols, rows)
	if err != nil {
		return err
	}

	out := res.Output
	// The direct kitty encoder emits bare APC sequences.
	if res.Adapter == terminal.AdapterKgpOld && m.Kind() != mux.None {
		if err := m.EnablePassthrough(ctx); err != nil {
			logger.Debug("passthrough unavailable", "error", err)
		}
		out = m.Wrap(out)
	}

	logger.Debug("preview rendered", "adapter", res.Adapter, "fallback", res.Fallback, "bytes", len(out))
	_, err = fmt.Fprintln(w, out)
	return err
}

// checkProfiles runs detection over every built-in profile and returns the
// process exit code.
func checkProfiles(ctx context.Context, w io.Writer, logger *slog.Logger) int {
	code := 0
	for _, p := range termtest.Profiles() {
		status := "ok"
		mismatches := termtest.Check(ctx, p, logger)
		if err := termtest.Validate(p); err != nil {
			status = "invalid: " + err.Error()
			code = 1
		} else if len(mismatches) > 0 {
			status = "FAIL"
			code = 1
		}
		fmt.Fprintf(w, "%-18s %-10s %-18s %s\n", p.Name, p.Brand, adapterList(p.Adapters), status)
		for _, mm := range mismatches {
			fmt.Fprintf(w, "  %s\n", mm)
		}
	}
	return code
}
