package app

import (
	"github.com/rook-computer/circleface/internal/app/screens"
	"github.com/rook-computer/circleface/internal/clock"
	"github.com/rook-computer/circleface/internal/config"
	"github.com/rook-computer/circleface/internal/render"
	"github.com/rook-computer/circleface/internal/state"
	"github.com/rook-computer/circleface/internal/system"
	"github.com/rook-computer/circleface/internal/timesource"
	"github.com/rook-computer/circleface/internal/web"
)

// Build wires an App from cfg. The device and the simulator differ only in
// the renderer they pass. With an empty Listen the API is not served.
func Build(cfg *config.Config, renderer render.Renderer, logger Logger) (*App, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	store := state.NewStore(cfg.StartTime())

	screen := screens.NewWatchfaceScreen(logger)
	screen.ShowDigits = cfg.ShowDigits
	screen.QRPayload = cfg.QRPayload

	a := New(store, renderer, nil, screen)
	a.Logger = logger
	a.Logical = clock.NewLogical(cfg.Tick)
	a.RedrawPeriod = cfg.Redraw
	a.HeartbeatPeriod = cfg.Heartbeat
	a.LED = system.NewLED(cfg.LED, system.ShellRunner{})

	if cfg.TimeSource == timesource.System {
		loc, err := cfg.TimeLocation()
		if err != nil {
			return nil, err
		}
		a.SystemTime = timesource.NewSystemSource(nil, loc, store)
	}

	if cfg.Listen != "" {
		server := web.NewHTTPServer(web.ServerConfig{ListenAddr: cfg.Listen, DevMode: cfg.Dev})
		server.Logger = logger
		server.Handler = web.NewDefaultMux(web.APIV1Deps{
			Store:        store,
			Face:         a,
			Raster:       render.NewRasterizer(logger),
			CanvasSize:   cfg.CanvasSize,
			ReadOnlyTime: a.SystemTime != nil,
			OnTimeSet:    a.RequestRedraw,
		})
		a.Web = server
	}
	return a, nil
}
