package screens

import (
	"context"
	"image"

	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/state"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Screen turns a state snapshot into the scene shown on the panel.
type Screen interface {
	Start(ctx context.Context) error
	Stop() error
	Scene(st state.State, region image.Rectangle) (scene.Scene, error)
}
