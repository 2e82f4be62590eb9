// Package termtest provides terminal emulator fixtures for exercising brand
// detection end to end. Each profile carries the environment an emulator
// exports, the reply it sends to an identification query and the result
// detection is expected to produce.
package termtest

import (
	"context"
	"errors"
	"maps"
	"slices"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// errNoReply is returned by a profile's prober when the emulator does not
// answer identification queries.
var errNoReply = errors.New("termtest: no reply")

// Profile describes one emulator session.
type Profile struct {
	Name      string             // Human-readable terminal name
	EnvVars   map[string]string  // Environment the session exports
	Overrides terminal.Overrides // Values a multiplexer would report
	Reply     string             // Raw identification reply ("" for none)

	Brand     terminal.Brand     // Expected brand, zero when unknown
	Source    terminal.Source    // Expected detection path
	Adapters  []terminal.Adapter // Expected adapter list
	TrueColor bool               // Expected 24-bit color support
}

// Env returns a copy of the profile's environment.
func (p Profile) Env() terminal.MapEnv {
	return terminal.MapEnv(maps.Clone(p.EnvVars))
}

// Prober returns a prober that answers with the canned reply.
func (p Profile) Prober() terminal.Prober {
	return terminal.ProberFunc(func(ctx context.Context) (string, error) {
		if p.Reply == "" {
			return "", errNoReply
		}
		return p.Reply, ctx.Err()
	})
}

// Options returns detection options that reproduce the session with
// probing enabled and a fixed 80x24 size.
func (p Profile) Options() terminal.DetectOptions {
	return terminal.DetectOptions{
		Env:       p.Env(),
		Overrides: p.Overrides,
		Probe:     true,
		Prober:    p.Prober(),
		SizeFn: func(terminal.Env) terminal.Size {
			return terminal.Size{Cols: 80, Rows: 24}
		},
	}
}

// Profiles returns all known terminal profiles.
func Profiles() []Profile {
	return []Profile{
		ttKittyProfile(),
		ttKonsoleProfile(),
		ttITerm2Profile(),
		ttWezTermProfile(),
		ttFootProfile(),
		ttGhosttyProfile(),
		ttWindowsTerminalProfile(),
		ttRioProfile(),
		ttBlackBoxProfile(),
		ttVSCodeProfile(),
		ttTabbyProfile(),
		ttHyperProfile(),
		ttMinttyProfile(),
		ttNeovimProfile(),
		ttAppleTerminalProfile(),
		ttUrxvtProfile(),
		ttAlacrittyProfile(),
		ttTmuxInKittyProfile(),
		ttFootOverSSHProfile(),
	}
}

// ProfileByName returns the profile matching the given name, or nil if not found.
func ProfileByName(name string) *Profile {
	i := slices.IndexFunc(Profiles(), func(p Profile) bool { return p.Name == name })
	if i < 0 {
		return nil
	}
	p := Profiles()[i]
	return &p
}
