package preview

import (
	"fmt"
	"image"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// renderHalfblocks renders img with Unicode upper-half-block characters and
// 24-bit ANSI color. Each cell covers two vertical pixels: the top pixel as
// foreground (U+2580) and the bottom pixel as background. This is the
// non-graphical preview used when no image adapter applies.
func renderHalfblocks(img image.Image) string {
	nrgba := toNRGBA(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return ""
	}

	var b strings.Builder
	// Rough estimate of 30 bytes per cell (escapes + glyph).
	b.Grow(w * (h/2 + 1) * 30)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			b.WriteString("\x1b[0m\n")
		}
		for x := 0; x < w; x++ {
			top := nrgba.NRGBAAt(x, y)
			bot := top
			bot.A = 0
			if y+1 < h {
				bot = nrgba.NRGBAAt(x, y+1)
			}

			switch {
			case top.A == 0 && bot.A == 0:
				b.WriteString("\x1b[0m ")
			case top.A == 0:
				// Only the bottom pixel is visible: lower half block.
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}

	b.WriteString("\x1b[0m")
	return b.String()
}

// scaleHalfblock fits img into cols x rows cells at one pixel across and two
// down per cell. Half-block output is coarse, so a bilinear pass is enough.
// Images that already fit are returned as is.
func scaleHalfblock(img image.Image, cols, rows int) image.Image {
	maxW, maxH := max(cols, 1), max(rows, 1)*2
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || (w <= maxW && h <= maxH) {
		return img
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dw := max(int(math.Round(float64(w)*scale)), 1)
	dh := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
