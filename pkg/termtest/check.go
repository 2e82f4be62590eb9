package termtest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Mismatch describes a detection result that differs from a profile's
// expectation.
type Mismatch struct {
	Terminal string // Profile name
	Field    string // "brand", "source", "adapters" or "truecolor"
	Want     string
	Got      string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s = %s, want %s", m.Terminal, m.Field, m.Got, m.Want)
}

// Check runs capability detection against a profile and reports every
// field that differs from the expectation. A nil result means the profile
// detects as described.
func Check(ctx context.Context, p Profile, logger *slog.Logger) []Mismatch {
	opts := p.Options()
	opts.Logger = logger
	caps := terminal.DetectCapabilities(ctx, opts)

	var out []Mismatch
	add := func(field string, want, got any) {
		out = append(out, Mismatch{
			Terminal: p.Name,
			Field:    field,
			Want:     fmt.Sprint(want),
			Got:      fmt.Sprint(got),
		})
	}

	if caps.Brand != p.Brand {
		add("brand", p.Brand, caps.Brand)
	}
	if caps.Source != p.Source {
		add("source", p.Source, caps.Source)
	}
	if !slices.Equal(caps.Adapters, p.Adapters) {
		add("adapters", p.Adapters, caps.Adapters)
	}
	if caps.TrueColor != p.TrueColor {
		add("truecolor", p.TrueColor, caps.TrueColor)
	}
	return out
}

// CheckAll runs Check over every profile.
func CheckAll(ctx context.Context, logger *slog.Logger) []Mismatch {
	var out []Mismatch
	for _, p := range Profiles() {
		out = append(out, Check(ctx, p, logger)...)
	}
	return out
}
