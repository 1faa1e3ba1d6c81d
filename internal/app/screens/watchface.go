package screens

import (
	"context"
	"image"

	"github.com/rook-computer/circleface/internal/render/layout"
	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
	"github.com/rook-computer/circleface/internal/watchface"
)

const (
	digitsSizePt = 28
	qrSize       = 56
)

// WatchfaceScreen shows the analog face, optionally with the time in digits
// and a QR code in the middle.
type WatchfaceScreen struct {
	Face       watchface.Face
	ShowDigits bool
	QRPayload  string
	Logger     Logger
}

func NewWatchfaceScreen(logger Logger) *WatchfaceScreen {
	return &WatchfaceScreen{Face: watchface.New(), Logger: logger}
}

func (screen *WatchfaceScreen) Start(ctx context.Context) error {
	if screen.Logger != nil {
		screen.Logger.Infof("screen", "watchface shown (digits=%v, qr=%v)", screen.ShowDigits, screen.QRPayload != "")
	}
	return nil
}

func (screen *WatchfaceScreen) Stop() error { return nil }

func (screen *WatchfaceScreen) Scene(st state.State, region image.Rectangle) (scene.Scene, error) {
	sc, err := screen.Face.Render(st.Time, region)
	if err != nil {
		return scene.Scene{}, err
	}

	center := layout.Center(region)
	var extras []scene.Primitive
	if screen.QRPayload != "" {
		extras = append(extras, scene.QRCode{
			Payload: screen.QRPayload,
			Bounds:  layout.CenteredSquare(center, qrSize),
		})
	}
	if screen.ShowDigits {
		labelCenter := center
		if screen.QRPayload != "" {
			labelCenter.Y += qrSize/2 + digitsSizePt
		}
		extras = append(extras, scene.Label{
			Text:   st.Time.String(),
			Center: labelCenter,
			SizePt: digitsSizePt,
			Color:  screen.Face.Theme.Elapsed.Fill,
		})
	}
	if len(extras) == 0 {
		return sc, nil
	}
	return sc.WithExtras(extras...), nil
}
