package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/circleface/internal/scene"
)

// PNGRenderer writes every changed frame to Path, replacing it atomically.
// It stands in for the panel on hosts without a framebuffer.
type PNGRenderer struct {
	Path       string
	CanvasSize int
	Logger     interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	// FaultFunc, when set, runs before each paint; a non-nil error fails the paint.
	FaultFunc func() error

	mu      sync.Mutex
	raster  *Rasterizer
	canvas  *image.RGBA
	running atomic.Bool
	written atomic.Uint64

	last        scene.Scene
	havePainted bool
}

func NewPNGRenderer(path string, canvasSize int) *PNGRenderer {
	if canvasSize <= 0 {
		canvasSize = CanvasSize
	}
	return &PNGRenderer{Path: path, CanvasSize: canvasSize}
}

func (r *PNGRenderer) Start(ctx context.Context) error {
	if r.Path == "" {
		return fmt.Errorf("png renderer: no output path")
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return fmt.Errorf("png renderer: %w", err)
	}
	r.raster = NewRasterizer(r.Logger)
	r.canvas = NewCanvas(r.CanvasSize)
	r.running.Store(true)
	if r.Logger != nil {
		r.Logger.Infof("png", "writing frames to %s", r.Path)
	}
	return nil
}

func (r *PNGRenderer) Stop() error {
	r.running.Store(false)
	return nil
}

func (r *PNGRenderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.CanvasSize, r.CanvasSize)
}

// Written returns how many frames reached the file.
func (r *PNGRenderer) Written() uint64 { return r.written.Load() }

func (r *PNGRenderer) Paint(s scene.Scene) error {
	if !r.running.Load() {
		return ErrNotRunning
	}
	if r.FaultFunc != nil {
		if err := r.FaultFunc(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.havePainted && reflect.DeepEqual(r.last, s) {
		return nil
	}
	r.raster.Draw(r.canvas, s)
	if err := writePNG(r.Path, r.canvas); err != nil {
		return err
	}
	r.last = s
	r.havePainted = true
	r.written.Add(1)
	return nil
}

func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".frame-*.png")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
