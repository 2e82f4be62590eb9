package terminal

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Fallback dimensions when neither the tty nor the environment reports any.
const (
	fallbackCols = 80
	fallbackRows = 24
)

// Size holds terminal dimensions in cells and, when the terminal reports
// them, pixels. Pixel fields are zero when unknown.
type Size struct {
	Cols   int
	Rows   int
	PixelW int
	PixelH int
	CellW  int // PixelW / Cols
	CellH  int // PixelH / Rows
}

// HasPixels reports whether per-cell pixel dimensions are known.
func (s Size) HasPixels() bool {
	return s.CellW > 0 && s.CellH > 0
}

// GetSize reports the terminal dimensions. The window size of stdout,
// stderr and then the controlling tty is tried; COLUMNS and LINES from env
// are used when none of them is a terminal.
func GetSize(env Env) Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s, ok := winsize(int(fd)); ok {
			return s
		}
	}
	if f, err := os.Open("/dev/tty"); err == nil {
		s, ok := winsize(int(f.Fd()))
		f.Close()
		if ok {
			return s
		}
	}
	return sizeFromEnv(env)
}

// GetSizeFromFd reports the window size of fd, falling back to env.
func GetSizeFromFd(fd uintptr, env Env) Size {
	if s, ok := winsize(int(fd)); ok {
		return s
	}
	return sizeFromEnv(env)
}

// winsize issues TIOCGWINSZ on fd. ok is false when fd is not a terminal
// or reports a zero-sized window.
func winsize(fd int) (Size, bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, false
	}
	s := sizeFromWinsize(ws)
	return s, s.Cols > 0 && s.Rows > 0
}

func sizeFromWinsize(ws *unix.Winsize) Size {
	s := Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		PixelW: int(ws.Xpixel),
		PixelH: int(ws.Ypixel),
	}
	if s.Cols > 0 {
		s.CellW = s.PixelW / s.Cols
	}
	if s.Rows > 0 {
		s.CellH = s.PixelH / s.Rows
	}
	return s
}

func sizeFromEnv(env Env) Size {
	return Size{
		Cols: positiveInt(env, "COLUMNS", fallbackCols),
		Rows: positiveInt(env, "LINES", fallbackRows),
	}
}

// positiveInt parses name as a positive integer, returning fallback when it
// is unset or malformed.
func positiveInt(env Env, name string, fallback int) int {
	n, err := strconv.Atoi(getenv(env, name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
