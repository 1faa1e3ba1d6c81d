package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"

	"github.com/rook-computer/circleface/internal/scene"
)

// The face only carries short URLs, so medium correction keeps modules large.
const qrLevel = qrcode.Medium

// QRCodeImage encodes code.Payload at the width of code.Bounds, without a
// quiet zone: the face background already frames it.
// An empty payload or empty bounds returns (nil, nil).
func QRCodeImage(code scene.QRCode) (image.Image, error) {
	if code.Payload == "" || code.Bounds.Empty() {
		return nil, nil
	}

	qrCode, err := qrcode.New(code.Payload, qrLevel)
	if err != nil {
		return nil, err
	}
	qrCode.DisableBorder = true
	qrCode.ForegroundColor = color.Black
	qrCode.BackgroundColor = color.White

	return qrCode.Image(code.Bounds.Dx()), nil
}
