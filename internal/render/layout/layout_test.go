package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointFromPolarCardinals(t *testing.T) {
	rect := image.Rect(0, 0, 200, 200)

	assert.Equal(t, image.Pt(200, 100), PointFromPolar(rect, 0))
	assert.Equal(t, image.Pt(100, 200), PointFromPolar(rect, 90))
	assert.Equal(t, image.Pt(0, 100), PointFromPolar(rect, 180))
	assert.Equal(t, image.Pt(100, 0), PointFromPolar(rect, 270))
	assert.Equal(t, PointFromPolar(rect, 0), PointFromPolar(rect, 360))
}

func TestPointFromPolarZeroIsRightmost(t *testing.T) {
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, 240, 240),
		image.Rect(22, 22, 218, 218),
		image.Rect(-10, 5, 30, 45),
		image.Rect(7, 7, 8, 8),
	} {
		center := Center(rect)
		got := PointFromPolar(rect, 0)
		assert.Equal(t, image.Pt(center.X+rect.Dx()/2, center.Y), got, "rect %v", rect)
	}
}

func TestPointFromPolarStaysOnCircle(t *testing.T) {
	rect := image.Rect(22, 22, 218, 218)
	center := Center(rect)
	radius := rect.Dx() / 2
	for angle := 0; angle < 360; angle += 30 {
		p := PointFromPolar(rect, angle)
		dx := p.X - center.X
		dy := p.Y - center.Y
		dist2 := dx*dx + dy*dy
		assert.InDelta(t, radius*radius, dist2, float64(2*radius+2), "angle %d", angle)
	}
}

func TestInsetRepeated(t *testing.T) {
	rect := image.Rect(0, 0, 240, 240)
	var err error
	for i := 0; i < 4; i++ {
		rect, err = Inset(rect, 5)
		require.NoError(t, err)
	}
	assert.Equal(t, image.Rect(20, 20, 220, 220), rect)
	assert.Equal(t, 200, rect.Dx())
	assert.Equal(t, 200, rect.Dy())
}

func TestInsetComposes(t *testing.T) {
	rect := image.Rect(3, 9, 243, 249)
	for _, tc := range []struct{ m1, m2 int }{{1, 2}, {5, 15}, {20, 22}, {0, 7}, {60, 59}} {
		once, err := Inset(rect, tc.m1)
		require.NoError(t, err)
		twice, err := Inset(once, tc.m2)
		require.NoError(t, err)
		single, err := Inset(rect, tc.m1+tc.m2)
		require.NoError(t, err)
		assert.Equal(t, single, twice, "margins %d+%d", tc.m1, tc.m2)
	}
}

func TestInsetRejectsDegenerate(t *testing.T) {
	rect := image.Rect(0, 0, 240, 100)

	_, err := Inset(rect, 50)
	require.ErrorIs(t, err, ErrDegenerateRegion)

	_, err = Inset(rect, 80)
	require.ErrorIs(t, err, ErrDegenerateRegion)

	_, err = Inset(image.Rectangle{}, 1)
	require.ErrorIs(t, err, ErrDegenerateRegion)

	got, err := Inset(rect, 49)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(49, 49, 191, 51), got)
}

func TestInsetNonPositiveMarginIsIdentity(t *testing.T) {
	rect := image.Rect(0, 0, 10, 10)
	got, err := Inset(rect, 0)
	require.NoError(t, err)
	assert.Equal(t, rect, got)

	got, err = Inset(rect, -3)
	require.NoError(t, err)
	assert.Equal(t, rect, got)
}

func TestFitSquare(t *testing.T) {
	assert.Equal(t, image.Rect(40, 0, 280, 240), FitSquare(image.Rect(0, 0, 320, 240)))
	assert.Equal(t, image.Rect(0, 40, 240, 280), FitSquare(image.Rect(0, 0, 240, 320)))
	assert.Equal(t, image.Rect(0, 0, 240, 240), FitSquare(image.Rect(240, 240, 0, 0)))
}

func TestCenteredSquare(t *testing.T) {
	assert.Equal(t, image.Rect(95, 95, 105, 105), CenteredSquare(image.Pt(100, 100), 10))
}
