package render

import (
	"context"
	"image"
	"image/draw"
	"reflect"
	"sync"
	"sync/atomic"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/circleface/internal/render/layout"
	"github.com/rook-computer/circleface/internal/scene"
)

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	Device     string
	CanvasSize int
	Logger     interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	mu          sync.Mutex
	fbDev       *fb.Device
	canvas      *image.RGBA
	raster      *Rasterizer
	running     atomic.Bool
	last        scene.Scene
	havePainted bool
}

func NewFBRenderer(device string, canvasSize int) *FBRenderer {
	if device == "" {
		device = "/dev/fb0"
	}
	if canvasSize <= 0 {
		canvasSize = CanvasSize
	}
	return &FBRenderer{Device: device, CanvasSize: canvasSize}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", r.Device, bounds.Dx(), bounds.Dy())
	}

	r.canvas = NewCanvas(r.CanvasSize)
	r.raster = NewRasterizer(r.Logger)

	// Paint the letterbox once; frames only touch the face square.
	draw.Draw(dev, dev.Bounds(), image.NewUniform(Letterbox), image.Point{}, draw.Src)

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

func (r *FBRenderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.CanvasSize, r.CanvasSize)
}

// Paint rasterizes s and blits it. A scene identical to the previous one is
// already on the panel and is skipped.
func (r *FBRenderer) Paint(s scene.Scene) error {
	if !r.running.Load() {
		return ErrNotRunning
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fbDev == nil {
		return ErrNotRunning
	}
	if r.havePainted && reflect.DeepEqual(r.last, s) {
		return nil
	}
	r.raster.Draw(r.canvas, s)
	blitToFB(r.fbDev, r.canvas)
	r.last = s
	r.havePainted = true
	return nil
}

// Helper: blit canvas into the centered square of the framebuffer via nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	target := layout.FitSquare(dev.Bounds())
	xdraw.NearestNeighbor.Scale(dev, target, canvas, canvas.Bounds(), xdraw.Src, nil)
}
