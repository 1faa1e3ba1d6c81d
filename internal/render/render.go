package render

import (
	"context"
	"errors"
	"image"

	"github.com/rook-computer/circleface/internal/scene"
)

var ErrNotRunning = errors.New("renderer not running")

// Renderer is the display transport: it paints scenes onto a panel.
// Paint must be idempotent; callers do not retry failed paints.
type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	// Bounds is the square screen region scenes are rendered into.
	Bounds() image.Rectangle
	Paint(s scene.Scene) error
}

// NoopRenderer accepts every scene and paints nothing.
type NoopRenderer struct {
	Size int
}

func (n *NoopRenderer) Start(ctx context.Context) error { return nil }
func (n *NoopRenderer) Stop() error                     { return nil }
func (n *NoopRenderer) Paint(s scene.Scene) error       { return nil }
func (n *NoopRenderer) Bounds() image.Rectangle {
	size := n.Size
	if size <= 0 {
		size = CanvasSize
	}
	return image.Rect(0, 0, size, size)
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}
