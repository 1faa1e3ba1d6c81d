package render

import "image/color"

// Default panel geometry: a 240x240 round GC9A01-class display.
var (
	CanvasSize = 240

	// Letterbox fills the framebuffer outside the square face.
	Letterbox = color.RGBA{A: 0xFF}

	// LabelDPI is used for point-to-pixel conversion of label fonts.
	LabelDPI = 72.0
)
