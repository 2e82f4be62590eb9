package preview

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Default pixel size of one terminal cell when the terminal does not
// report it.
const (
	defaultCellW = 8
	defaultCellH = 16
)

// sharpenSigma is the gaussian sigma of the post-resize unsharp mask.
const sharpenSigma = 0.5

// resizeToFit scales img to fit within cols x rows cells, preserving aspect
// ratio. Images that already fit are returned unmodified (no upscaling).
func resizeToFit(img image.Image, cols, rows, cellW, cellH int, sharpen bool) image.Image {
	if img == nil {
		return nil
	}
	if cellW <= 0 {
		cellW = defaultCellW
	}
	if cellH <= 0 {
		cellH = defaultCellH
	}
	cols = max(cols, 1)
	rows = max(rows, 1)

	maxW, maxH := cols*cellW, rows*cellH
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}

	out := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	if sharpen {
		out = imaging.Sharpen(out, sharpenSigma)
	}
	return out
}

// toNRGBA returns img as *image.NRGBA with bounds starting at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
