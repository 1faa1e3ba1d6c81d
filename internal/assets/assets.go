package assets

import "golang.org/x/image/font/gofont/goregular"

// FontTTF is the face used for on-screen labels.
var FontTTF = goregular.TTF
