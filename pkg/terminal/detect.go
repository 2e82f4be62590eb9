package terminal

import (
	"log/slog"
	"strings"
)

// Overrides carries $TERM and $TERM_PROGRAM values recovered through a
// terminal multiplexer. An empty field means "use the raw environment".
type Overrides struct {
	Term    string
	Program string
}

// match pairs a lookup key with the brand it identifies.
type match struct {
	key   string
	brand Brand
}

// signatureVars are variables exported only by one specific emulator.
// Scanned in order, first present wins.
var signatureVars = []match{
	{"KITTY_WINDOW_ID", BrandKitty},
	{"KONSOLE_VERSION", BrandKonsole},
	{"ITERM_SESSION_ID", BrandITerm2},
	{"WEZTERM_EXECUTABLE", BrandWezTerm},
	{"GHOSTTY_RESOURCES_DIR", BrandGhostty},
	{"WT_Session", BrandMicrosoft},
	{"VSCODE_INJECTION", BrandVSCode},
	{"TABBY_CONFIG_DIRECTORY", BrandTabby},
}

// programNames maps exact $TERM_PROGRAM values to brands.
var programNames = []match{
	{"iTerm.app", BrandITerm2},
	{"WezTerm", BrandWezTerm},
	{"ghostty", BrandGhostty},
	{"rio", BrandRio},
	{"BlackBox", BrandBlackBox},
	{"vscode", BrandVSCode},
	{"Tabby", BrandTabby},
	{"Hyper", BrandHyper},
	{"mintty", BrandMintty},
	{"Apple_Terminal", BrandApple},
}

// termNames maps exact $TERM values to brands.
var termNames = []match{
	{"xterm-kitty", BrandKitty},
	{"foot", BrandFoot},
	{"foot-extra", BrandFoot},
	{"xterm-ghostty", BrandGhostty},
	{"rio", BrandRio},
	{"rxvt-unicode-256color", BrandUrxvt},
}

// replyTokens are substrings of an identification reply, in precedence
// order. "kitty" must stay ahead of "foot".
var replyTokens = []match{
	{"kitty", BrandKitty},
	{"Konsole", BrandKonsole},
	{"iTerm2", BrandITerm2},
	{"WezTerm", BrandWezTerm},
	{"foot", BrandFoot},
	{"ghostty", BrandGhostty},
}

// Resolver classifies the terminal from environment variables. It holds no
// mutable state; FromEnv may be called any number of times.
type Resolver struct {
	env       Env
	overrides Overrides
	logger    *slog.Logger
}

// NewResolver creates a Resolver over env. The overrides normally come from
// the multiplexer layer; pass the zero value outside a multiplexer. A nil
// logger uses slog.Default().
func NewResolver(env Env, ov Overrides, logger *slog.Logger) *Resolver {
	if env == nil {
		env = OSEnv{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{env: env, overrides: ov, logger: logger}
}

// FromEnv identifies the terminal from environment variables. Signals are
// checked in order of reliability and the first match wins:
//
//  1. NVIM_LOG_FILE and NVIM together (Neovim terminal buffer)
//  2. Emulator-exclusive variables (KITTY_WINDOW_ID, ITERM_SESSION_ID, ...)
//  3. $TERM_PROGRAM, preferring the multiplexer override
//  4. $TERM, preferring the multiplexer override
//
// Neovim wins over everything else because a :terminal buffer inherits the
// outer emulator's variables but cannot display its images.
func (r *Resolver) FromEnv() (Brand, bool) {
	if Exists(r.env, "NVIM_LOG_FILE") && Exists(r.env, "NVIM") {
		return BrandNeovim, true
	}

	for _, m := range signatureVars {
		if Exists(r.env, m.key) {
			return m.brand, true
		}
	}
	r.logger.Debug("terminal: no emulator-specific environment variables detected")

	term, program := r.termProgram()
	if b, ok := lookup(programNames, program); ok {
		return b, true
	}
	r.logger.Debug("terminal: unknown TERM_PROGRAM", "value", program)

	if b, ok := lookup(termNames, term); ok {
		return b, true
	}
	r.logger.Debug("terminal: unknown TERM", "value", term)

	return 0, false
}

// termProgram returns $TERM and $TERM_PROGRAM with overrides applied.
func (r *Resolver) termProgram() (term, program string) {
	term = r.overrides.Term
	if term == "" {
		term = getenv(r.env, "TERM")
	}
	program = r.overrides.Program
	if program == "" {
		program = getenv(r.env, "TERM_PROGRAM")
	}
	return term, program
}

// FromCSI identifies the terminal from the raw reply to an identification
// query (XTVERSION / DA1). Matching is case-sensitive substring search.
func FromCSI(resp string) (Brand, bool) {
	for _, m := range replyTokens {
		if strings.Contains(resp, m.key) {
			return m.brand, true
		}
	}
	return 0, false
}

// lookup returns the brand of the first entry whose key equals s.
func lookup(table []match, s string) (Brand, bool) {
	if s == "" {
		return 0, false
	}
	for _, m := range table {
		if m.key == s {
			return m.brand, true
		}
	}
	return 0, false
}
