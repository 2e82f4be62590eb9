package termtest

import (
	"errors"
	"fmt"
	"slices"

	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Validate checks that a profile is internally consistent: its expected
// adapters agree with the capability table and an unknown brand is only
// paired with the "none" source.
func Validate(p Profile) error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, errors.New("profile has empty name"))
	}
	if len(p.EnvVars) == 0 {
		errs = append(errs, fmt.Errorf("profile %q has no environment", p.Name))
	}

	switch {
	case !p.Brand.Valid() && p.Brand != 0:
		errs = append(errs, fmt.Errorf("profile %q: invalid brand %d", p.Name, int(p.Brand)))
	case p.Brand == 0 && p.Source != terminal.SourceNone:
		errs = append(errs, fmt.Errorf("profile %q: unknown brand with source %s", p.Name, p.Source))
	case p.Brand != 0 && p.Source == terminal.SourceNone:
		errs = append(errs, fmt.Errorf("profile %q: brand %s with source none", p.Name, p.Brand))
	}

	if !slices.Equal(p.Adapters, p.Brand.Adapters()) {
		errs = append(errs, fmt.Errorf("profile %q: adapters %v disagree with table %v",
			p.Name, p.Adapters, p.Brand.Adapters()))
	}

	if p.Source == terminal.SourceProbe && p.Reply == "" {
		errs = append(errs, fmt.Errorf("profile %q: probe source without a reply", p.Name))
	}

	return errors.Join(errs...)
}

// Covered reports which brands have at least one profile.
func Covered() map[terminal.Brand]bool {
	out := make(map[terminal.Brand]bool)
	for _, p := range Profiles() {
		if p.Brand.Valid() {
			out[p.Brand] = true
		}
	}
	return out
}
