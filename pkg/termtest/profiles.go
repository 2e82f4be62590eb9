package termtest

import "gitlab.com/tinyland/lab/termbrand/pkg/terminal"

// xtversion wraps name in an XTVERSION reply followed by a DA1 reply.
func xtversion(name string) string {
	return "\x1bP>|" + name + "\x1b\\" + da1
}

// da1 is a typical primary device attributes reply.
const da1 = "\x1b[?62;22c"

// ttKittyProfile returns the Kitty terminal profile.
func ttKittyProfile() Profile {
	return Profile{
		Name: "Kitty",
		EnvVars: map[string]string{
			"TERM":            "xterm-kitty",
			"COLORTERM":       "truecolor",
			"KITTY_WINDOW_ID": "1",
		},
		Reply:     xtversion("kitty(0.35.2)"),
		Brand:     terminal.BrandKitty,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterKgp},
		TrueColor: true,
	}
}

// ttKonsoleProfile returns the Konsole profile. Konsole only understands
// direct kitty placements.
func ttKonsoleProfile() Profile {
	return Profile{
		Name: "Konsole",
		EnvVars: map[string]string{
			"TERM":            "xterm-256color",
			"COLORTERM":       "truecolor",
			"KONSOLE_VERSION": "240202",
		},
		Reply:     xtversion("Konsole 24.02.2"),
		Brand:     terminal.BrandKonsole,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterKgpOld},
		TrueColor: true,
	}
}

// ttITerm2Profile returns the iTerm2 terminal profile.
func ttITerm2Profile() Profile {
	return Profile{
		Name: "iTerm2",
		EnvVars: map[string]string{
			"TERM_PROGRAM":     "iTerm.app",
			"TERM":             "xterm-256color",
			"COLORTERM":        "truecolor",
			"ITERM_SESSION_ID": "w0t0p0:ABCDEF-1234",
		},
		Reply:     xtversion("iTerm2 3.5.0"),
		Brand:     terminal.BrandITerm2,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttWezTermProfile returns the WezTerm terminal profile.
func ttWezTermProfile() Profile {
	return Profile{
		Name: "WezTerm",
		EnvVars: map[string]string{
			"TERM_PROGRAM":       "WezTerm",
			"TERM":               "xterm-256color",
			"COLORTERM":          "truecolor",
			"WEZTERM_EXECUTABLE": "/usr/bin/wezterm-gui",
		},
		Reply:     xtversion("WezTerm 20240203-110809-5046fc22"),
		Brand:     terminal.BrandWezTerm,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttFootProfile returns the foot terminal profile.
func ttFootProfile() Profile {
	return Profile{
		Name: "foot",
		EnvVars: map[string]string{
			"TERM":      "foot",
			"COLORTERM": "truecolor",
		},
		Reply:     xtversion("foot(1.16.2)"),
		Brand:     terminal.BrandFoot,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttGhosttyProfile returns the Ghostty terminal profile.
func ttGhosttyProfile() Profile {
	return Profile{
		Name: "Ghostty",
		EnvVars: map[string]string{
			"TERM_PROGRAM":          "ghostty",
			"TERM":                  "xterm-ghostty",
			"COLORTERM":             "truecolor",
			"GHOSTTY_RESOURCES_DIR": "/usr/share/ghostty",
		},
		Reply:     xtversion("ghostty 1.0.1"),
		Brand:     terminal.BrandGhostty,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterKgp},
		TrueColor: true,
	}
}

// ttWindowsTerminalProfile returns the Windows Terminal profile. It answers
// DA1 but not XTVERSION.
func ttWindowsTerminalProfile() Profile {
	return Profile{
		Name: "Windows Terminal",
		EnvVars: map[string]string{
			"WT_Session": "6f7d1e2c-3b4a-4c5d-8e9f-0a1b2c3d4e5f",
			"TERM":       "xterm-256color",
			"COLORTERM":  "truecolor",
		},
		Reply:     "\x1b[?61;4;6;7;14;21;22;23;24;28;32;42c",
		Brand:     terminal.BrandMicrosoft,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttRioProfile returns the Rio terminal profile.
func ttRioProfile() Profile {
	return Profile{
		Name: "Rio",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "rio",
			"TERM":         "rio",
			"COLORTERM":    "truecolor",
		},
		Brand:     terminal.BrandRio,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttBlackBoxProfile returns the Black Box terminal profile.
func ttBlackBoxProfile() Profile {
	return Profile{
		Name: "Black Box",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "BlackBox",
			"TERM":         "xterm-256color",
			"COLORTERM":    "truecolor",
		},
		Brand:     terminal.BrandBlackBox,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttVSCodeProfile returns the VS Code integrated terminal profile.
func ttVSCodeProfile() Profile {
	return Profile{
		Name: "VS Code",
		EnvVars: map[string]string{
			"TERM_PROGRAM":     "vscode",
			"TERM":             "xterm-256color",
			"COLORTERM":        "truecolor",
			"VSCODE_INJECTION": "1",
		},
		Brand:     terminal.BrandVSCode,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttTabbyProfile returns the Tabby terminal profile.
func ttTabbyProfile() Profile {
	return Profile{
		Name: "Tabby",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "Tabby",
			"TERM":         "xterm-256color",
			"COLORTERM":    "truecolor",
		},
		Brand:     terminal.BrandTabby,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttHyperProfile returns the Hyper terminal profile.
func ttHyperProfile() Profile {
	return Profile{
		Name: "Hyper",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "Hyper",
			"TERM":         "xterm-256color",
			"COLORTERM":    "truecolor",
		},
		Brand:     terminal.BrandHyper,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterIip, terminal.AdapterSixel},
		TrueColor: true,
	}
}

// ttMinttyProfile returns the mintty profile.
func ttMinttyProfile() Profile {
	return Profile{
		Name: "mintty",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "mintty",
			"TERM":         "xterm-256color",
		},
		Brand:    terminal.BrandMintty,
		Source:   terminal.SourceEnv,
		Adapters: []terminal.Adapter{terminal.AdapterIip},
	}
}

// ttNeovimProfile returns a Neovim :terminal buffer running inside kitty.
// The buffer inherits kitty's variables but cannot show images.
func ttNeovimProfile() Profile {
	return Profile{
		Name: "Neovim",
		EnvVars: map[string]string{
			"TERM":            "xterm-kitty",
			"COLORTERM":       "truecolor",
			"KITTY_WINDOW_ID": "1",
			"NVIM":            "/run/user/1000/nvim.4242.0",
			"NVIM_LOG_FILE":   "/home/user/.local/state/nvim/log",
		},
		Brand:     terminal.BrandNeovim,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{},
		TrueColor: true,
	}
}

// ttAppleTerminalProfile returns the macOS Terminal.app profile.
func ttAppleTerminalProfile() Profile {
	return Profile{
		Name: "Apple Terminal",
		EnvVars: map[string]string{
			"TERM_PROGRAM": "Apple_Terminal",
			"TERM":         "xterm-256color",
		},
		Brand:    terminal.BrandApple,
		Source:   terminal.SourceEnv,
		Adapters: []terminal.Adapter{},
	}
}

// ttUrxvtProfile returns the rxvt-unicode profile.
func ttUrxvtProfile() Profile {
	return Profile{
		Name: "urxvt",
		EnvVars: map[string]string{
			"TERM": "rxvt-unicode-256color",
		},
		Brand:    terminal.BrandUrxvt,
		Source:   terminal.SourceEnv,
		Adapters: []terminal.Adapter{},
	}
}

// ttAlacrittyProfile returns the Alacritty profile. Alacritty is not a
// known brand and its DA1-only reply identifies nothing.
func ttAlacrittyProfile() Profile {
	return Profile{
		Name: "Alacritty",
		EnvVars: map[string]string{
			"TERM":      "alacritty",
			"COLORTERM": "truecolor",
		},
		Reply:     da1,
		TrueColor: true,
	}
}

// ttTmuxInKittyProfile returns a tmux session attached from kitty. tmux
// rewrites TERM and TERM_PROGRAM; the real values come from the
// multiplexer's global environment.
func ttTmuxInKittyProfile() Profile {
	return Profile{
		Name: "tmux (kitty)",
		EnvVars: map[string]string{
			"TERM":         "tmux-256color",
			"TERM_PROGRAM": "tmux",
			"TMUX":         "/tmp/tmux-1000/default,1234,0",
		},
		Overrides: terminal.Overrides{Term: "xterm-kitty"},
		Brand:     terminal.BrandKitty,
		Source:    terminal.SourceEnv,
		Adapters:  []terminal.Adapter{terminal.AdapterKgp},
	}
}

// ttFootOverSSHProfile returns foot reached over SSH with a generic TERM.
// Only the identification query can name it.
func ttFootOverSSHProfile() Profile {
	return Profile{
		Name: "foot (ssh)",
		EnvVars: map[string]string{
			"TERM":           "xterm-256color",
			"SSH_TTY":        "/dev/pts/3",
			"SSH_CONNECTION": "10.0.0.2 52144 10.0.0.5 22",
		},
		Reply:    xtversion("foot(1.16.2)"),
		Brand:    terminal.BrandFoot,
		Source:   terminal.SourceProbe,
		Adapters: []terminal.Adapter{terminal.AdapterSixel},
	}
}
