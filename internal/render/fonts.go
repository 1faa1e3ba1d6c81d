package render

import (
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/rook-computer/circleface/internal/assets"
)

// Fonts caches label faces by point size. Faces are not safe for
// concurrent use; callers serialize through Rasterizer.
type Fonts struct {
	otFont *opentype.Font
	ttFont *truetype.Font
	faces  map[float64]font.Face
	logger logger
}

// LoadFonts parses the embedded font for both the opentype and the freetype
// paths. Missing parsers degrade to basicfont.
func LoadFonts(l logger) *Fonts {
	fonts := &Fonts{faces: make(map[float64]font.Face), logger: l}

	if fnt, err := opentype.Parse(assets.FontTTF); err != nil {
		fonts.errorf("opentype parse failed: %v", err)
	} else {
		fonts.otFont = fnt
	}
	if tt, err := truetype.Parse(assets.FontTTF); err != nil {
		fonts.errorf("truetype parse failed: %v", err)
	} else {
		fonts.ttFont = tt
	}
	return fonts
}

// Face returns a face of sizePt points, falling back from opentype to
// freetype to basicfont.
func (f *Fonts) Face(sizePt float64) font.Face {
	if face, ok := f.faces[sizePt]; ok {
		return face
	}
	face := f.newFace(sizePt)
	f.faces[sizePt] = face
	return face
}

func (f *Fonts) newFace(sizePt float64) font.Face {
	if sizePt <= 0 {
		return basicfont.Face7x13
	}
	if f.otFont != nil {
		face, err := opentype.NewFace(f.otFont, &opentype.FaceOptions{Size: sizePt, DPI: LabelDPI, Hinting: font.HintingFull})
		if err == nil {
			return face
		}
		f.errorf("opentype face %.1fpt failed: %v", sizePt, err)
	}
	if f.ttFont != nil {
		return truetype.NewFace(f.ttFont, &truetype.Options{Size: sizePt, DPI: LabelDPI, Hinting: font.HintingFull})
	}
	return basicfont.Face7x13
}

func (f *Fonts) errorf(format string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Errorf("font", format, args...)
	}
}
