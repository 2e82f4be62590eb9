// Package terminal identifies the terminal emulator hosting the process and
// maps that identity to the image protocols it is believed to support.
//
// Detection is split into two paths:
//   - Static (Resolver.FromEnv): environment variable inspection, no I/O.
//   - Active (FromCSI, Probe): parse the reply to an identification query
//     sent over the controlling terminal. Used only as a fallback.
package terminal

import (
	"fmt"
	"strings"
)

// Brand identifies a terminal emulator or embedding host. The zero value
// is not a brand; resolution functions report absence with a false ok.
type Brand int

const (
	BrandKitty     Brand = iota + 1 // kitty
	BrandKonsole                    // KDE Konsole
	BrandITerm2                     // iTerm2
	BrandWezTerm                    // WezTerm
	BrandFoot                       // foot
	BrandGhostty                    // Ghostty
	BrandMicrosoft                  // Windows Terminal
	BrandRio                        // Rio
	BrandBlackBox                   // Black Box
	BrandVSCode                     // VS Code integrated terminal
	BrandTabby                      // Tabby
	BrandHyper                      // Hyper
	BrandMintty                     // mintty
	BrandNeovim                     // Neovim :terminal
	BrandApple                      // macOS Terminal.app
	BrandUrxvt                      // rxvt-unicode
)

// brandNames maps Brand values to their canonical lowercase names.
var brandNames = [...]string{
	BrandKitty:     "kitty",
	BrandKonsole:   "konsole",
	BrandITerm2:    "iterm2",
	BrandWezTerm:   "wezterm",
	BrandFoot:      "foot",
	BrandGhostty:   "ghostty",
	BrandMicrosoft: "microsoft",
	BrandRio:       "rio",
	BrandBlackBox:  "blackbox",
	BrandVSCode:    "vscode",
	BrandTabby:     "tabby",
	BrandHyper:     "hyper",
	BrandMintty:    "mintty",
	BrandNeovim:    "neovim",
	BrandApple:     "apple",
	BrandUrxvt:     "urxvt",
}

// Brands returns every known brand in declaration order.
func Brands() []Brand {
	out := make([]Brand, 0, len(brandNames)-1)
	for b := BrandKitty; b <= BrandUrxvt; b++ {
		out = append(out, b)
	}
	return out
}

// Valid reports whether b is one of the declared brands.
func (b Brand) Valid() bool {
	return b >= BrandKitty && b <= BrandUrxvt
}

// String returns the canonical name of the brand, or "unknown".
func (b Brand) String() string {
	if b.Valid() {
		return brandNames[b]
	}
	return "unknown"
}

// ParseBrand converts a canonical brand name (case-insensitive) to a Brand.
func ParseBrand(name string) (Brand, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range Brands() {
		if brandNames[b] == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown terminal brand %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (b Brand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Brand) UnmarshalText(text []byte) error {
	parsed, err := ParseBrand(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
