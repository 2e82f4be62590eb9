package terminal

import (
	"fmt"
	"slices"
	"strings"
)

// Adapter identifies an image display transport.
type Adapter int

const (
	AdapterKgp    Adapter = iota + 1 // Kitty graphics protocol
	AdapterKgpOld                    // Kitty graphics protocol, partial/legacy support
	AdapterIip                       // iTerm2 inline images protocol
	AdapterSixel                     // Sixel raster graphics
)

// adapterNames maps Adapter values to their canonical names.
var adapterNames = [...]string{
	AdapterKgp:    "kgp",
	AdapterKgpOld: "kgp-old",
	AdapterIip:    "iip",
	AdapterSixel:  "sixel",
}

// Valid reports whether a is one of the declared adapters.
func (a Adapter) Valid() bool {
	return a >= AdapterKgp && a <= AdapterSixel
}

// String returns the canonical name of the adapter, or "unknown".
func (a Adapter) String() string {
	if a.Valid() {
		return adapterNames[a]
	}
	return "unknown"
}

// ParseAdapter converts a canonical adapter name (case-insensitive) to an
// Adapter.
func ParseAdapter(name string) (Adapter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := AdapterKgp; a <= AdapterSixel; a++ {
		if adapterNames[a] == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown image adapter %q", name)
}

// ParseAdapters parses a list of adapter names, preserving order.
func ParseAdapters(names []string) ([]Adapter, error) {
	out := make([]Adapter, 0, len(names))
	for _, n := range names {
		a, err := ParseAdapter(n)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Adapter) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Adapter) UnmarshalText(text []byte) error {
	parsed, err := ParseAdapter(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// brandAdapters is the capability table. Each entry is ordered by
// preference; an empty entry means protocol-based images must not be tried.
var brandAdapters = [...][]Adapter{
	BrandKitty:     {AdapterKgp},
	BrandKonsole:   {AdapterKgpOld},
	BrandITerm2:    {AdapterIip, AdapterSixel},
	BrandWezTerm:   {AdapterIip, AdapterSixel},
	BrandFoot:      {AdapterSixel},
	BrandGhostty:   {AdapterKgp},
	BrandMicrosoft: {AdapterSixel},
	BrandRio:       {AdapterIip, AdapterSixel},
	BrandBlackBox:  {AdapterSixel},
	BrandVSCode:    {AdapterIip, AdapterSixel},
	BrandTabby:     {AdapterIip, AdapterSixel},
	BrandHyper:     {AdapterIip, AdapterSixel},
	BrandMintty:    {AdapterIip},
	BrandNeovim:    {},
	BrandApple:     {},
	BrandUrxvt:     {},
}

// Adapters returns the image adapters b supports, most preferred first.
// The result is a fresh slice; an invalid brand yields nil.
func (b Brand) Adapters() []Adapter {
	if !b.Valid() {
		return nil
	}
	return slices.Clone(brandAdapters[b])
}
