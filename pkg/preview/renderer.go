package preview

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"slices"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/termbrand/pkg/config"
	"gitlab.com/tinyland/lab/termbrand/pkg/terminal"
)

// Result is a rendered preview.
type Result struct {
	Adapter  terminal.Adapter // Adapter that produced Output; zero when Fallback
	Fallback bool             // Output is the half-block rendering
	Output   string           // Escape sequences ready to write to the terminal
}

// encodeFunc turns an already-resized image into terminal output occupying
// cols x rows cells.
type encodeFunc func(img image.Image, cols, rows int) (string, error)

// Renderer tries a terminal's adapters in order and falls back to half
// blocks once the list is exhausted.
type Renderer struct {
	adapters []terminal.Adapter
	encoders map[terminal.Adapter]encodeFunc
	cache    *Cache
	cellW    int
	cellH    int
	sharpen  bool
	logger   *slog.Logger
}

// NewRenderer creates a Renderer for the adapters in caps.
func NewRenderer(caps terminal.Capabilities, cfg config.PreviewConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		adapters: slices.Clone(caps.Adapters),
		encoders: map[terminal.Adapter]encodeFunc{
			terminal.AdapterKgp:    termimgEncoder(termimg.Kitty),
			terminal.AdapterKgpOld: kittyDirectEncoder(caps.Size.CellW, caps.Size.CellH),
			terminal.AdapterIip:    termimgEncoder(termimg.ITerm2),
			terminal.AdapterSixel:  termimgEncoder(termimg.Sixel),
		},
		cache:   NewCache(cfg.MaxCacheSizeMB),
		cellW:   caps.Size.CellW,
		cellH:   caps.Size.CellH,
		sharpen: cfg.Sharpen,
		logger:  logger,
	}
}

// Adapters returns the adapters the renderer tries, in order.
func (r *Renderer) Adapters() []terminal.Adapter {
	return slices.Clone(r.adapters)
}

// Cache returns the renderer's cache for inspection or invalidation.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Render draws img into a cols x rows cell area. Adapters are tried in
// order and the first success wins; the half-block rendering is returned
// when there are no adapters or every adapter failed.
func (r *Renderer) Render(img image.Image, cols, rows int) (Result, error) {
	if img == nil {
		return Result{}, errors.New("preview: image is nil")
	}
	if cols <= 0 || rows <= 0 {
		return Result{}, fmt.Errorf("preview: invalid size %dx%d", cols, rows)
	}

	key := makeCacheKey(r.adapters, cols, rows, hashImage(img))
	if res, ok := r.cache.get(key); ok {
		return res, nil
	}

	res := r.render(img, cols, rows)
	r.cache.put(key, res)
	return res, nil
}

func (r *Renderer) render(img image.Image, cols, rows int) Result {
	if len(r.adapters) > 0 {
		resized := resizeToFit(img, cols, rows, r.cellW, r.cellH, r.sharpen)
		for _, a := range r.adapters {
			enc, ok := r.encoders[a]
			if !ok {
				r.logger.Debug("preview: no encoder for adapter", "adapter", a)
				continue
			}
			out, err := enc(resized, cols, rows)
			if err == nil && out != "" {
				return Result{Adapter: a, Output: out}
			}
			r.logger.Debug("preview: adapter failed", "adapter", a, "error", err)
		}
	}

	return Result{Fallback: true, Output: renderHalfblocks(scaleHalfblock(img, cols, rows))}
}

// RenderFile decodes the image at path and renders it.
func (r *Renderer) RenderFile(path string, cols, rows int) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("preview: open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Result{}, fmt.Errorf("preview: decode %s: %w", path, err)
	}
	return r.Render(img, cols, rows)
}

// termimgEncoder delegates Kitty, iTerm2 and Sixel output to go-termimg.
func termimgEncoder(proto termimg.Protocol) encodeFunc {
	return func(img image.Image, cols, rows int) (string, error) {
		ti := termimg.New(img)
		if ti == nil {
			return "", errors.New("go-termimg: failed to create image wrapper")
		}
		ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
		return ti.Render()
	}
}
