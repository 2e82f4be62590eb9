package terminal

import (
	"context"
	"slices"
	"testing"
)

func fixedSize(Env) Size {
	return Size{Cols: 120, Rows: 40}
}

func detect(t *testing.T, opts DetectOptions) Capabilities {
	t.Helper()
	if opts.SizeFn == nil {
		opts.SizeFn = fixedSize
	}
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	return DetectCapabilities(context.Background(), opts)
}

func TestDetectCapabilities_Env(t *testing.T) {
	caps := detect(t, DetectOptions{Env: MapEnv{"TERM": "xterm-ghostty"}})

	if caps.Brand != BrandGhostty || caps.Source != SourceEnv {
		t.Errorf("Brand, Source = %v, %v, want %v, %v", caps.Brand, caps.Source, BrandGhostty, SourceEnv)
	}
	if !slices.Equal(caps.Adapters, []Adapter{AdapterKgp}) {
		t.Errorf("Adapters = %v, want [kgp]", caps.Adapters)
	}
	if !caps.Known() || !caps.Graphical() {
		t.Errorf("Known(), Graphical() = %v, %v, want true, true", caps.Known(), caps.Graphical())
	}
	if caps.Size.Cols != 120 {
		t.Errorf("Size.Cols = %d, want 120", caps.Size.Cols)
	}
}

func TestDetectCapabilities_ProbeFallback(t *testing.T) {
	calls := 0
	p := ProberFunc(func(ctx context.Context) (string, error) {
		calls++
		return "\x1bP>|foot(1.16.2)\x1b\\", nil
	})

	caps := detect(t, DetectOptions{Env: MapEnv{}, Probe: true, Prober: p})
	if caps.Brand != BrandFoot || caps.Source != SourceProbe {
		t.Errorf("Brand, Source = %v, %v, want %v, %v", caps.Brand, caps.Source, BrandFoot, SourceProbe)
	}
	if calls != 1 {
		t.Errorf("prober called %d times, want 1", calls)
	}
}

func TestDetectCapabilities_ProbeNotUsedWhenEnvResolves(t *testing.T) {
	p := ProberFunc(func(ctx context.Context) (string, error) {
		t.Error("prober called although the environment resolved the brand")
		return "", nil
	})

	caps := detect(t, DetectOptions{Env: MapEnv{"KITTY_WINDOW_ID": "1"}, Probe: true, Prober: p})
	if caps.Brand != BrandKitty {
		t.Errorf("Brand = %v, want %v", caps.Brand, BrandKitty)
	}
}

func TestDetectCapabilities_ProbeDisabled(t *testing.T) {
	p := ProberFunc(func(ctx context.Context) (string, error) {
		t.Error("prober called with Probe disabled")
		return "kitty", nil
	})

	caps := detect(t, DetectOptions{Env: MapEnv{}, Prober: p})
	if caps.Known() || caps.Source != SourceNone {
		t.Errorf("Brand, Source = %v, %v, want unknown, none", caps.Brand, caps.Source)
	}
	if caps.Graphical() {
		t.Error("Graphical() = true for unknown brand, want false")
	}
	if caps.Adapters != nil {
		t.Errorf("Adapters = %v, want nil", caps.Adapters)
	}
}

func TestDetectCapabilities_ForceBrand(t *testing.T) {
	caps := detect(t, DetectOptions{Env: MapEnv{"TERM": "xterm-kitty"}, ForceBrand: BrandMintty})
	if caps.Brand != BrandMintty || caps.Source != SourceConfig {
		t.Errorf("Brand, Source = %v, %v, want %v, %v", caps.Brand, caps.Source, BrandMintty, SourceConfig)
	}
	if !slices.Equal(caps.Adapters, []Adapter{AdapterIip}) {
		t.Errorf("Adapters = %v, want [iip]", caps.Adapters)
	}
}

func TestDetectCapabilities_ForceAdapters(t *testing.T) {
	caps := detect(t, DetectOptions{
		Env:           MapEnv{"TERM_PROGRAM": "Apple_Terminal"},
		ForceAdapters: []Adapter{AdapterSixel},
	})
	if caps.Brand != BrandApple {
		t.Errorf("Brand = %v, want %v", caps.Brand, BrandApple)
	}
	if !slices.Equal(caps.Adapters, []Adapter{AdapterSixel}) {
		t.Errorf("Adapters = %v, want [sixel]", caps.Adapters)
	}
}

func TestDetectCapabilities_EmptyAdapterList(t *testing.T) {
	caps := detect(t, DetectOptions{Env: MapEnv{"TERM_PROGRAM": "Apple_Terminal"}})
	if !caps.Known() {
		t.Fatal("Known() = false, want true")
	}
	if caps.Graphical() {
		t.Error("Graphical() = true for Apple Terminal, want false")
	}
}

func TestDetectCapabilities_SSHAndMux(t *testing.T) {
	caps := detect(t, DetectOptions{Env: MapEnv{
		"SSH_CONNECTION": "10.0.0.1 5000 10.0.0.2 22",
		"TMUX":           "/tmp/tmux-1000/default,1,0",
	}})
	if !caps.SSH {
		t.Error("SSH = false, want true")
	}
	if !caps.Tmux || !caps.Mux {
		t.Errorf("Tmux, Mux = %v, %v, want true, true", caps.Tmux, caps.Mux)
	}

	caps = detect(t, DetectOptions{Env: MapEnv{"STY": "123.pts-0.host"}})
	if caps.Tmux || !caps.Mux {
		t.Errorf("screen: Tmux, Mux = %v, %v, want false, true", caps.Tmux, caps.Mux)
	}
}

func TestDetectCapabilities_TrueColor(t *testing.T) {
	caps := detect(t, DetectOptions{Env: MapEnv{"TERM": "xterm-256color", "COLORTERM": "truecolor"}})
	if !caps.TrueColor {
		t.Error("TrueColor = false with COLORTERM=truecolor, want true")
	}

	caps = detect(t, DetectOptions{Env: MapEnv{"TERM": "dumb"}})
	if caps.TrueColor {
		t.Error("TrueColor = true with TERM=dumb, want false")
	}
}

func TestSource_String(t *testing.T) {
	cases := map[Source]string{
		SourceNone:   "none",
		SourceEnv:    "env",
		SourceProbe:  "probe",
		SourceConfig: "config",
		Source(42):   "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Source(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestTermenvEnviron(t *testing.T) {
	t.Setenv("TERMBRAND_ENVIRON_TEST", "1")

	if got := (termenvEnviron{OSEnv{}}).Environ(); !slices.Contains(got, "TERMBRAND_ENVIRON_TEST=1") {
		t.Error("Environ() for OSEnv is missing a process variable")
	}
	if got := (termenvEnviron{MapEnv{"TERM": "foot"}}).Environ(); !slices.Equal(got, []string{"TERM=foot"}) {
		t.Errorf("Environ() for MapEnv = %v, want [TERM=foot]", got)
	}
	if got := (termenvEnviron{MapEnv{"TERM": "foot"}}).Getenv("TERM"); got != "foot" {
		t.Errorf("Getenv(TERM) = %q, want foot", got)
	}
}
