// Package watchface turns a time of day into a scene: a minute arc and a ring
// of twelve hour indicators. Rendering is a pure function of its inputs.
package watchface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/rook-computer/circleface/internal/render/layout"
	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
)

const (
	// BaseInset is the unit the arc margin is derived from.
	BaseInset = 5
	// IndicatorRadius is the hour dot size and the unit of the indicator ring margin.
	IndicatorRadius = 10

	ArcInset       = 4 * BaseInset
	IndicatorInset = IndicatorRadius * 22 / 10
	ArcThickness   = 20

	degreesPerHour   = 360 / scene.IndicatorCount
	degreesPerMinute = 360 / 60
)

// MarkerOrigin is where the decorative reference dot sits, relative to the screen origin.
var MarkerOrigin = image.Pt(115, 5)

// Theme holds the immutable styles a Face paints with.
type Theme struct {
	Background scene.Style
	Elapsed    scene.Style
	Pending    scene.Style
	Arc        scene.Style
}

// DefaultTheme is blue background, white elapsed dots, black pending dots and a lavender arc.
func DefaultTheme() Theme {
	pending := scene.Style{
		Fill:         color.RGBA{A: 0xFF},
		Stroke:       color.RGBA{A: 0xFF},
		CornerRadius: scene.RadiusCircle,
	}
	elapsed := pending
	elapsed.Fill = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	elapsed.Stroke = elapsed.Fill

	return Theme{
		Background: scene.Style{Fill: color.RGBA{B: 0xFF, A: 0xFF}},
		Elapsed:    elapsed,
		Pending:    pending,
		Arc: scene.Style{
			Stroke:      color.RGBA{R: 0x88, G: 0x8A, B: 0xD3, A: 0xFF},
			StrokeWidth: ArcThickness,
		},
	}
}

type Face struct {
	Theme Theme
}

func New() Face { return Face{Theme: DefaultTheme()} }

// NormalizeHour folds any hour into [0, 11].
func NormalizeHour(hour int) int {
	return scene.Mod(hour, 12)
}

// MinuteAngle returns minute*6 degrees, wrapping at 60 minutes.
func MinuteAngle(minute int) int {
	return scene.Mod(minute, 60) * degreesPerMinute
}

// HourAngle returns the angle of indicator index.
func HourAngle(index int) int {
	return index * degreesPerHour
}

// Render builds the scene for tv inside screenRegion. It fails only when
// screenRegion is too small to hold the insets.
func (f Face) Render(tv state.TimeValue, screenRegion image.Rectangle) (scene.Scene, error) {
	hour := NormalizeHour(tv.Hour)
	minuteAngle := MinuteAngle(tv.Minute)

	arcRegion, err := layout.Inset(screenRegion, ArcInset)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("arc region: %w", err)
	}
	indicatorRegion, err := layout.Inset(screenRegion, IndicatorInset)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("indicator region: %w", err)
	}

	s := scene.Scene{
		Background: scene.Background{Style: f.Theme.Background},
		Arc: scene.Arc{
			Bounds:     arcRegion,
			StartAngle: minuteAngle - 180,
			EndAngle:   0,
			Thickness:  f.Theme.Arc.StrokeWidth,
			Color:      f.Theme.Arc.Stroke,
		},
	}

	for i := range s.Indicators {
		elapsed := i <= hour
		style := f.Theme.Pending
		if elapsed {
			style = f.Theme.Elapsed
		}
		s.Indicators[i] = scene.Indicator{
			Index:   i,
			Center:  layout.PointFromPolar(indicatorRegion, HourAngle(i)),
			Size:    IndicatorRadius,
			Elapsed: elapsed,
			Style:   style,
		}
	}

	marker := scene.Marker{
		Origin: screenRegion.Min.Add(MarkerOrigin),
		Size:   IndicatorRadius,
		Style:  f.Theme.Pending,
	}
	return s.WithExtras(marker), nil
}
