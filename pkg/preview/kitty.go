package preview

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// Kitty protocol control sequence boundaries.
const (
	kittyAPC = "\x1b_G"
	kittyST  = "\x1b\\"
)

// kittyChunkSize is the maximum number of base64 bytes per APC chunk.
const kittyChunkSize = 4096

// kittyDirectEncoder returns an encoder for the original kitty graphics
// protocol: a single transmit-and-display (a=T) of raw RGBA pixels placed at
// the cursor, without unicode placeholders. Terminals with partial kitty
// support (Konsole) only understand this form.
func kittyDirectEncoder(cellW, cellH int) encodeFunc {
	return func(img image.Image, cols, rows int) (string, error) {
		return encodeKittyDirect(img, cols, rows, cellW, cellH)
	}
}

// kittyPlacement picks the one placement dimension that bounds an image of
// w x h pixels inside cols x rows cells. The terminal derives the other from
// the aspect ratio; sending both would stretch the image to the box.
func kittyPlacement(w, h, cols, rows, cellW, cellH int) string {
	if cellW <= 0 {
		cellW = defaultCellW
	}
	if cellH <= 0 {
		cellH = defaultCellH
	}
	cols, rows = max(cols, 1), max(rows, 1)

	// Width-bound when w/h >= box width/box height.
	if w*rows*cellH >= h*cols*cellW {
		return fmt.Sprintf("c=%d", min(ceilDiv(w, cellW), cols))
	}
	return fmt.Sprintf("r=%d", min(ceilDiv(h, cellH), rows))
}

func ceilDiv(a, b int) int {
	return max((a+b-1)/b, 1)
}

func encodeKittyDirect(img image.Image, cols, rows, cellW, cellH int) (string, error) {
	nrgba := toNRGBA(img)
	b := nrgba.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return "", fmt.Errorf("kitty: empty image")
	}
	placement := kittyPlacement(b.Dx(), b.Dy(), cols, rows, cellW, cellH)

	payload, err := zlibCompress(nrgba.Pix)
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	var sb strings.Builder
	sb.Grow(len(encoded) + 256)

	for i := 0; i < len(encoded); i += kittyChunkSize {
		end := min(i+kittyChunkSize, len(encoded))
		more := 1
		if end >= len(encoded) {
			more = 0
		}

		if i == 0 {
			// First chunk carries every header field.
			fmt.Fprintf(&sb, "%sa=T,f=32,o=z,q=2,s=%d,v=%d,%s,m=%d;%s%s",
				kittyAPC, b.Dx(), b.Dy(), placement, more, encoded[i:end], kittyST)
		} else {
			fmt.Fprintf(&sb, "%sm=%d;%s%s", kittyAPC, more, encoded[i:end], kittyST)
		}
	}
	return sb.String(), nil
}

// zlibCompress compresses data using ZLIB (deflate with zlib header).
func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}
	return buf.Bytes(), nil
}
