package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/rook-computer/circleface/internal/app/screens"
	"github.com/rook-computer/circleface/internal/clock"
	"github.com/rook-computer/circleface/internal/render"
	"github.com/rook-computer/circleface/internal/scene"
	"github.com/rook-computer/circleface/internal/sched"
	"github.com/rook-computer/circleface/internal/state"
	"github.com/rook-computer/circleface/internal/system"
	"github.com/rook-computer/circleface/internal/timesource"
	"github.com/rook-computer/circleface/internal/web"
)

const (
	DefaultRedrawPeriod    = 10 * time.Millisecond
	DefaultHeartbeatPeriod = time.Second
)

type App struct {
	Store  *state.Store
	Render render.Renderer
	Web    web.Server
	Screen screens.Screen
	LED    system.LED
	Logger Logger

	// Clock paces the logical clock and the run loop. Tests swap in a fake.
	Clock   clockwork.Clock
	Logical *clock.Logical
	Queue   *sched.Queue

	// SystemTime, when set, overwrites the stored time every second.
	SystemTime *timesource.SystemSource

	RedrawPeriod    time.Duration
	HeartbeatPeriod time.Duration

	// Console switches the VT to graphics mode while running.
	Console bool

	ledOn bool
}

func New(store *state.Store, renderer render.Renderer, webServer web.Server, screen screens.Screen) *App {
	return &App{
		Store:           store,
		Render:          renderer,
		Web:             webServer,
		Screen:          screen,
		LED:             system.NoopLED{},
		Logger:          NoopLogger{},
		RedrawPeriod:    DefaultRedrawPeriod,
		HeartbeatPeriod: DefaultHeartbeatPeriod,
	}
}

// Start boots the face and runs it until ctx is done or a redraw fails.
// Cancellation is a clean stop and returns nil.
func (app *App) Start(ctx context.Context) error {
	app.setDefaults()
	app.Store.SetPhase(state.BOOTING)

	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		app.Store.SetPhase(state.ERROR)
		return err
	}
	defer app.Render.Stop()

	if app.Console {
		_ = system.SetGraphicsModeWithLog(app.Logger)
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	if err := app.Screen.Start(ctx); err != nil {
		app.Store.SetPhase(state.ERROR)
		return fmt.Errorf("screen start: %w", err)
	}
	defer app.Screen.Stop()

	if app.SystemTime != nil {
		if err := app.SystemTime.Sync(ctx); err != nil {
			app.Logger.Errorf("time", "initial sync: %v", err)
		}
	}

	// Boot order: clock driver, first frame, then the run loop.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return app.Logical.Drive(gctx, app.Clock) })
	abort := func(err error) error {
		cancel()
		_ = g.Wait()
		app.Store.SetPhase(state.ERROR)
		return err
	}

	if err := app.Redraw(ctx); err != nil {
		return abort(err)
	}

	if err := app.schedule(); err != nil {
		return abort(err)
	}

	if app.Web != nil {
		if err := app.Web.Start(ctx); err != nil {
			app.Logger.Errorf("web", "start error: %v", err)
			return abort(err)
		}
		defer app.Web.Stop()
	}

	app.Store.SetPhase(state.RUNNING)
	app.Logger.Infof("app", "running at %s, redraw every %s", app.Store.Time(), app.RedrawPeriod)

	g.Go(func() error { return app.Queue.DispatchForever(gctx) })
	err := g.Wait()

	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		app.Store.SetPhase(state.STOPPED)
		app.Logger.Infof("app", "stopped")
		return nil
	}
	app.Store.SetPhase(state.ERROR)
	app.Logger.Errorf("app", "run loop failed: %v", err)
	return err
}

func (app *App) setDefaults() {
	if app.Clock == nil {
		app.Clock = clockwork.NewRealClock()
	}
	if app.Logical == nil {
		app.Logical = clock.NewLogical(clock.DefaultResolution)
	}
	if app.Queue == nil {
		app.Queue = sched.New(app.Clock)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.LED == nil {
		app.LED = system.NoopLED{}
	}
	if app.RedrawPeriod <= 0 {
		app.RedrawPeriod = DefaultRedrawPeriod
	}
	if app.HeartbeatPeriod <= 0 {
		app.HeartbeatPeriod = DefaultHeartbeatPeriod
	}
}

func (app *App) schedule() error {
	if err := app.Queue.CallEvery("redraw", app.RedrawPeriod, app.Redraw); err != nil {
		return err
	}
	if err := app.Queue.CallEvery("heartbeat", app.HeartbeatPeriod, app.heartbeat); err != nil {
		return err
	}
	if app.SystemTime != nil {
		return app.Queue.CallEvery("timesync", timesource.SyncPeriod, app.SystemTime.Sync)
	}
	return nil
}

// Redraw builds the scene for the stored time and hands it to the renderer.
// A scene that cannot be built is fatal; a failed paint is only recorded.
func (app *App) Redraw(ctx context.Context) error {
	st := app.Store.Snapshot()
	sc, err := app.Screen.Scene(st, app.Render.Bounds())
	if err != nil {
		app.Store.SetPhase(state.ERROR)
		app.Logger.Errorf("app", "render %s: %v", st.Time, err)
		return fmt.Errorf("render %s: %w", st.Time, err)
	}

	paintErr := app.Render.Paint(sc)
	if paintErr != nil && paintErr.Error() != st.Frame.LastPaintError {
		app.Logger.Errorf("render", "paint failed: %v", paintErr)
	}
	app.Store.RecordPaint(app.Logical.Millis(), paintErr)
	return nil
}

// RequestRedraw asks the run loop for a frame now instead of at the next period.
func (app *App) RequestRedraw() {
	if app.Queue == nil {
		return
	}
	if err := app.Queue.Call(app.Redraw); err != nil {
		app.Logger.Errorf("app", "redraw request dropped: %v", err)
	}
}

// CurrentScene is the scene the next redraw would paint.
func (app *App) CurrentScene() (scene.Scene, error) {
	return app.Screen.Scene(app.Store.Snapshot(), app.bounds())
}

func (app *App) bounds() image.Rectangle {
	if app.Render == nil {
		return image.Rect(0, 0, render.CanvasSize, render.CanvasSize)
	}
	return app.Render.Bounds()
}

// Millis reads the logical clock.
func (app *App) Millis() uint64 {
	if app.Logical == nil {
		return 0
	}
	return app.Logical.Millis()
}

func (app *App) heartbeat(ctx context.Context) error {
	app.ledOn = !app.ledOn
	if err := app.LED.Set(ctx, app.ledOn); err != nil {
		app.Logger.Errorf("led", "%v", err)
	}
	frame := app.Store.Snapshot().Frame
	app.Logger.Infof("heartbeat", "t=%dms frames=%d paintErrors=%d", app.Logical.Millis(), frame.Frames, frame.PaintErrors)
	return nil
}
