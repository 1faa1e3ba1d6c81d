// Package scene describes one frame of the watchface as plain drawable values,
// independent of any display technology.
package scene

import (
	"image"
	"image/color"
)

// IndicatorCount is the number of hour marks on the face.
const IndicatorCount = 12

// RadiusCircle as a CornerRadius rounds a primitive into a circle or ellipse.
const RadiusCircle = -1

// Style describes how a primitive is filled and stroked.
// Styles are values: copies never alias each other.
type Style struct {
	Fill         color.RGBA `json:"fill"`
	Stroke       color.RGBA `json:"stroke"`
	StrokeWidth  int        `json:"strokeWidth"`
	CornerRadius int        `json:"cornerRadius"`
}

// Primitive is implemented by everything a Scene can paint.
type Primitive interface {
	Kind() string
}

// Background fills the whole target.
type Background struct {
	Style Style `json:"style"`
}

// Arc is a stroked ring segment inscribed in Bounds.
// Angles are in degrees, 0 at six o'clock, growing clockwise; the segment
// runs clockwise from StartAngle to EndAngle.
type Arc struct {
	Bounds     image.Rectangle `json:"bounds"`
	StartAngle int             `json:"startAngle"`
	EndAngle   int             `json:"endAngle"`
	Thickness  int             `json:"thickness"`
	Color      color.RGBA      `json:"color"`
}

// Sweep returns the clockwise extent of the arc in [0, 360).
func (a Arc) Sweep() int {
	return Mod(a.EndAngle-a.StartAngle, 360)
}

// Indicator is one hour mark centered on Center.
type Indicator struct {
	Index   int         `json:"index"`
	Center  image.Point `json:"center"`
	Size    int         `json:"size"`
	Elapsed bool        `json:"elapsed"`
	Style   Style       `json:"style"`
}

// Bounds returns the Size x Size box around Center.
func (i Indicator) Bounds() image.Rectangle {
	return box(i.Center.Sub(image.Pt(i.Size/2, i.Size/2)), i.Size)
}

// Marker is a fixed decorative dot anchored at its top-left corner.
type Marker struct {
	Origin image.Point `json:"origin"`
	Size   int         `json:"size"`
	Style  Style       `json:"style"`
}

// Bounds returns the Size x Size box at Origin.
func (m Marker) Bounds() image.Rectangle {
	return box(m.Origin, m.Size)
}

// Label is a single line of text centered on Center.
type Label struct {
	Text   string      `json:"text"`
	Center image.Point `json:"center"`
	SizePt float64     `json:"sizePt"`
	Color  color.RGBA  `json:"color"`
}

// QRCode renders Payload as a QR code scaled into Bounds.
type QRCode struct {
	Payload string          `json:"payload"`
	Bounds  image.Rectangle `json:"bounds"`
}

func (Background) Kind() string { return "background" }
func (Arc) Kind() string        { return "arc" }
func (Indicator) Kind() string  { return "indicator" }
func (Marker) Kind() string     { return "marker" }
func (Label) Kind() string      { return "label" }
func (QRCode) Kind() string     { return "qrcode" }

// Scene is one frame. Paint order is background, arc, indicators, extras,
// so indicators are never covered by the arc.
type Scene struct {
	Background Background                `json:"background"`
	Arc        Arc                       `json:"arc"`
	Indicators [IndicatorCount]Indicator `json:"indicators"`
	Extras     []Primitive               `json:"-"`
}

// Primitives returns every primitive in paint order.
func (s Scene) Primitives() []Primitive {
	out := make([]Primitive, 0, 2+IndicatorCount+len(s.Extras))
	out = append(out, s.Background, s.Arc)
	for _, indicator := range s.Indicators {
		out = append(out, indicator)
	}
	return append(out, s.Extras...)
}

// WithExtras returns a copy of s with extras appended after the existing ones.
func (s Scene) WithExtras(extras ...Primitive) Scene {
	merged := make([]Primitive, 0, len(s.Extras)+len(extras))
	merged = append(merged, s.Extras...)
	s.Extras = append(merged, extras...)
	return s
}

// ElapsedCount returns how many indicators are styled as elapsed.
func (s Scene) ElapsedCount() int {
	n := 0
	for _, indicator := range s.Indicators {
		if indicator.Elapsed {
			n++
		}
	}
	return n
}

// Mod is a modulo whose result always has the sign of m.
func Mod(v, m int) int {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

func box(min image.Point, size int) image.Rectangle {
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(size, size))}
}
