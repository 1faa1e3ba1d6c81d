package layout

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrDegenerateRegion is returned when a region has no positive area.
var ErrDegenerateRegion = errors.New("degenerate region")

// Validate reports ErrDegenerateRegion when rect has a non-positive width or height.
func Validate(rect image.Rectangle) error {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return fmt.Errorf("%w: %v", ErrDegenerateRegion, rect)
	}
	return nil
}

// Inset shrinks rect by paddingPx on all sides.
// It fails instead of producing an empty or inverted rectangle.
func Inset(rect image.Rectangle, paddingPx int) (image.Rectangle, error) {
	if err := Validate(rect); err != nil {
		return image.Rectangle{}, err
	}
	if paddingPx <= 0 {
		return rect, nil
	}
	out := image.Rectangle{
		Min: image.Point{X: rect.Min.X + paddingPx, Y: rect.Min.Y + paddingPx},
		Max: image.Point{X: rect.Max.X - paddingPx, Y: rect.Max.Y - paddingPx},
	}
	if err := Validate(out); err != nil {
		return image.Rectangle{}, fmt.Errorf("inset %v by %d: %w", rect, paddingPx, err)
	}
	return out, nil
}

// PointFromPolar projects angleDeg onto the circle inscribed in rect.
// 0 degrees points along +x and angles grow clockwise on screen (y grows downward).
// The radius is half the width, so rect is expected to be square.
func PointFromPolar(rect image.Rectangle, angleDeg int) image.Point {
	width := rect.Dx()
	height := rect.Dy()
	radius := float64(width / 2)
	cx := float64(rect.Min.X + width/2)
	cy := float64(rect.Min.Y + height/2)

	rad := float64(angleDeg) * math.Pi / 180.0
	x := cx + radius*math.Cos(rad)
	y := cy + radius*math.Sin(rad)
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}

// Center returns the midpoint of rect using integer division.
func Center(rect image.Rectangle) image.Point {
	return image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
}

// CenteredSquare returns a sizePx square centered on center.
func CenteredSquare(center image.Point, sizePx int) image.Rectangle {
	min := center.Sub(image.Pt(sizePx/2, sizePx/2))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(sizePx, sizePx))}
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// FitSquare returns the largest square that fits into rect, centered on both axes.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	offX := (rect.Dx() - size) / 2
	offY := (rect.Dy() - size) / 2
	min := image.Pt(rect.Min.X+offX, rect.Min.Y+offY)
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(size, size))}
}
