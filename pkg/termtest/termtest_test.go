package termtest

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// --- Profile Tests ---

func TestProfiles_Valid(t *testing.T) {
	for _, p := range Profiles() {
		if err := Validate(p); err != nil {
			t.Errorf("Validate(%s) = %v", p.Name, err)
		}
	}
}

func TestProfiles_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Profiles() {
		if seen[p.Name] {
			t.Errorf("duplicate profile name %q", p.Name)
		}
		seen[p.Name] = true
	}
}

func TestProfiles_CoverEveryBrand(t *testing.T) {
	covered := Covered()
	for _, b := range terminal.Brands() {
		if !covered[b] {
			t.Errorf("no profile for brand %s", b)
		}
	}
}

func TestProfileByName(t *testing.T) {
	p := ProfileByName("Ghostty")
	if p == nil {
		t.Fatal("Ghostty profile not found")
	}
	if p.Brand != terminal.BrandGhostty {
		t.Errorf("Ghostty.Brand = %v, want %v", p.Brand, terminal.BrandGhostty)
	}
	if ProfileByName("Nonexistent") != nil {
		t.Error("ProfileByName(Nonexistent) != nil")
	}
}

func TestProfile_EnvIsCopy(t *testing.T) {
	p := ttKittyProfile()
	env := p.Env()
	env["TERM"] = "dumb"
	if p.EnvVars["TERM"] != "xterm-kitty" {
		t.Error("Env() shares the profile's map")
	}
}

func TestProfile_ProberNoReply(t *testing.T) {
	p := ttRioProfile()
	if _, err := p.Prober().Identify(context.Background()); err == nil {
		t.Error("Identify() error = nil for profile without reply")
	}
}

// --- Detection Tests ---

func TestCheck_AllProfiles(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(p.Name, func(t *testing.T) {
			for _, m := range Check(context.Background(), p, quietLogger()) {
				t.Error(m)
			}
		})
	}
}

func TestCheck_ReportsMismatch(t *testing.T) {
	p := ttKittyProfile()
	p.Brand = terminal.BrandFoot
	p.Adapters = []terminal.Adapter{terminal.AdapterSixel}

	got := Check(context.Background(), p, quietLogger())
	if len(got) != 2 {
		t.Fatalf("Check() = %v, want 2 mismatches", got)
	}
	if got[0].Field != "brand" || got[0].Got != "kitty" || got[0].Want != "foot" {
		t.Errorf("Check()[0] = %+v", got[0])
	}
	if !strings.Contains(got[1].String(), "adapters") {
		t.Errorf("Check()[1].String() = %q", got[1].String())
	}
}

func TestCheckAll_Clean(t *testing.T) {
	if got := CheckAll(context.Background(), quietLogger()); len(got) != 0 {
		t.Errorf("CheckAll() = %v, want none", got)
	}
}

func TestReplies_IdentifyBrand(t *testing.T) {
	// Every XTVERSION reply must name the profile's own brand, even where
	// the environment already resolves it.
	for _, p := range Profiles() {
		if !strings.HasPrefix(p.Reply, "\x1bP>|") {
			continue
		}
		t.Run(p.Name, func(t *testing.T) {
			got, ok := terminal.FromCSI(p.Reply)
			if !ok || got != p.Brand {
				t.Errorf("FromCSI(%q) = %v, %v, want %v", p.Reply, got, ok, p.Brand)
			}
		})
	}
}

func TestNeovim_NoAdaptersDespiteKitty(t *testing.T) {
	p := ttNeovimProfile()
	caps := terminal.DetectCapabilities(context.Background(), p.Options())
	if caps.Graphical() {
		t.Errorf("Neovim Graphical() = true, adapters %v", caps.Adapters)
	}
}

func TestTmux_OverrideRecoversBrand(t *testing.T) {
	p := ttTmuxInKittyProfile()
	opts := p.Options()
	opts.Overrides = terminal.Overrides{}
	opts.Probe = false
	opts.Logger = quietLogger()

	caps := terminal.DetectCapabilities(context.Background(), opts)
	if caps.Known() {
		t.Errorf("without overrides Brand = %v, want unknown", caps.Brand)
	}
	if !caps.Tmux || !caps.Mux {
		t.Errorf("Tmux, Mux = %v, %v, want true, true", caps.Tmux, caps.Mux)
	}
}
