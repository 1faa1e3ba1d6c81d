package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/rook-computer/circleface/internal/scene"
)

// ArcAngleOrigin converts scene arc angles (0 at six o'clock, clockwise) into
// screen angles (0 along +x, clockwise). With it the arc's start edge sits on
// the minute hand.
const ArcAngleOrigin = 90

// Segment length used to flatten curves, in degrees.
const curveStepDeg = 2.0

// Rasterizer paints scenes onto RGBA canvases.
type Rasterizer struct {
	mu     sync.Mutex
	fonts  *Fonts
	logger logger
}

func NewRasterizer(l logger) *Rasterizer {
	return &Rasterizer{fonts: LoadFonts(l), logger: l}
}

// NewCanvas returns a blank square canvas of sizePx.
func NewCanvas(sizePx int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
}

// Draw paints every primitive of s onto dst in paint order.
func (r *Rasterizer) Draw(dst *image.RGBA, s scene.Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, primitive := range s.Primitives() {
		switch p := primitive.(type) {
		case scene.Background:
			draw.Draw(dst, dst.Bounds(), image.NewUniform(p.Style.Fill), image.Point{}, draw.Src)
		case scene.Arc:
			drawArc(dst, p)
		case scene.Indicator:
			drawShape(dst, p.Bounds(), p.Style)
		case scene.Marker:
			drawShape(dst, p.Bounds(), p.Style)
		case scene.Label:
			r.drawLabel(dst, p)
		case scene.QRCode:
			r.drawQRCode(dst, p)
		}
	}
}

// Frame rasterizes s onto a fresh canvas of sizePx.
func (r *Rasterizer) Frame(s scene.Scene, sizePx int) *image.RGBA {
	canvas := NewCanvas(sizePx)
	r.Draw(canvas, s)
	return canvas
}

type point struct{ x, y float64 }

func drawArc(dst *image.RGBA, arc scene.Arc) {
	sweep := arc.Sweep()
	if sweep == 0 || arc.Thickness <= 0 || arc.Bounds.Empty() {
		return
	}
	cx, cy := center(arc.Bounds)
	outer := float64(arc.Bounds.Dx()) / 2
	inner := math.Max(outer-float64(arc.Thickness), 0)
	start := float64(arc.StartAngle + ArcAngleOrigin)
	end := start + float64(sweep)

	path := arcPoints(cx, cy, outer, outer, start, end)
	path = append(path, reversed(arcPoints(cx, cy, inner, inner, start, end))...)
	fillPaths(dst, arc.Color, path)
}

// drawShape paints a filled, optionally stroked box, circle or rounded box.
func drawShape(dst *image.RGBA, bounds image.Rectangle, style scene.Style) {
	if bounds.Empty() {
		return
	}
	if style.CornerRadius == 0 {
		draw.Draw(dst, bounds, image.NewUniform(style.Fill), image.Point{}, draw.Over)
		if style.StrokeWidth > 0 {
			inner := bounds.Inset(style.StrokeWidth)
			fillPaths(dst, style.Stroke, rectPoints(bounds), reversed(rectPoints(inner)))
		}
		return
	}

	outline := shapePoints(bounds, style.CornerRadius)
	fillPaths(dst, style.Fill, outline)
	if style.StrokeWidth > 0 {
		inner := shapePoints(bounds.Inset(style.StrokeWidth), style.CornerRadius)
		fillPaths(dst, style.Stroke, outline, reversed(inner))
	}
}

func shapePoints(bounds image.Rectangle, cornerRadius int) []point {
	if bounds.Empty() {
		return nil
	}
	if cornerRadius == scene.RadiusCircle {
		cx, cy := center(bounds)
		return arcPoints(cx, cy, float64(bounds.Dx())/2, float64(bounds.Dy())/2, 0, 360)
	}
	radius := float64(cornerRadius)
	radius = math.Min(radius, float64(bounds.Dx())/2)
	radius = math.Min(radius, float64(bounds.Dy())/2)
	x0, y0 := float64(bounds.Min.X), float64(bounds.Min.Y)
	x1, y1 := float64(bounds.Max.X), float64(bounds.Max.Y)

	var pts []point
	pts = append(pts, arcPoints(x1-radius, y0+radius, radius, radius, 270, 360)...)
	pts = append(pts, arcPoints(x1-radius, y1-radius, radius, radius, 0, 90)...)
	pts = append(pts, arcPoints(x0+radius, y1-radius, radius, radius, 90, 180)...)
	pts = append(pts, arcPoints(x0+radius, y0+radius, radius, radius, 180, 270)...)
	return pts
}

func rectPoints(r image.Rectangle) []point {
	if r.Empty() {
		return nil
	}
	return []point{
		{float64(r.Min.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Min.Y)},
		{float64(r.Max.X), float64(r.Max.Y)},
		{float64(r.Min.X), float64(r.Max.Y)},
	}
}

// arcPoints samples an elliptical arc clockwise from startDeg to endDeg (screen angles).
func arcPoints(cx, cy, rx, ry, startDeg, endDeg float64) []point {
	steps := int(math.Ceil((endDeg - startDeg) / curveStepDeg))
	if steps < 1 {
		steps = 1
	}
	pts := make([]point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		deg := startDeg + (endDeg-startDeg)*float64(i)/float64(steps)
		rad := deg * math.Pi / 180
		pts = append(pts, point{cx + rx*math.Cos(rad), cy + ry*math.Sin(rad)})
	}
	return pts
}

func reversed(pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// fillPaths fills closed polygons. Sub-paths wound in opposite directions
// cancel, which is how rings and strokes are cut out.
func fillPaths(dst *image.RGBA, col color.RGBA, paths ...[]point) {
	bounds := dst.Bounds()
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	drawn := false
	for _, pts := range paths {
		if len(pts) < 3 {
			continue
		}
		z.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.x-ox), float32(p.y-oy))
		}
		z.ClosePath()
		drawn = true
	}
	if drawn {
		z.Draw(dst, bounds, image.NewUniform(col), image.Point{})
	}
}

func (r *Rasterizer) drawLabel(dst *image.RGBA, label scene.Label) {
	if label.Text == "" {
		return
	}
	face := r.fonts.Face(label.SizePt)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(label.Color),
		Face: face,
	}
	metrics := face.Metrics()
	textWidth := drawer.MeasureString(label.Text).Ceil()
	baseline := label.Center.Y + (metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Dot = fixed.P(label.Center.X-textWidth/2, baseline)
	drawer.DrawString(label.Text)
}

func (r *Rasterizer) drawQRCode(dst *image.RGBA, code scene.QRCode) {
	img, err := QRCodeImage(code)
	if err != nil {
		if r.logger != nil {
			r.logger.Errorf("qrcode", "payload of %d bytes not drawn: %v", len(code.Payload), err)
		}
		return
	}
	if img == nil {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, code.Bounds, img, img.Bounds(), xdraw.Over, nil)
}

func center(r image.Rectangle) (float64, float64) {
	return float64(r.Min.X) + float64(r.Dx())/2, float64(r.Min.Y) + float64(r.Dy())/2
}
