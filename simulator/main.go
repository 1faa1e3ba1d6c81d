package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/circleface/internal/app"
	"github.com/rook-computer/circleface/internal/config"
	"github.com/rook-computer/circleface/internal/render"
	"github.com/rook-computer/circleface/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if os.Getenv(config.EnvPrefix+"LISTEN") == "" {
		cfg.Listen = ":8080"
	}

	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "http listen address; also configurable via "+config.EnvPrefix+"LISTEN")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "enable dev mode; also configurable via "+config.EnvPrefix+"DEV")
	flag.IntVar(&cfg.Hour, "hour", cfg.Hour, "start hour")
	flag.IntVar(&cfg.Minute, "minute", cfg.Minute, "start minute")
	flag.StringVar(&cfg.TimeSource, "time-source", cfg.TimeSource, "manual | system")
	flag.BoolVar(&cfg.ShowDigits, "digits", cfg.ShowDigits, "also show the time in digits")
	flag.StringVar(&cfg.QRPayload, "qr", cfg.QRPayload, "payload for a QR code in the middle of the face")
	out := flag.String("out", "/tmp/circleface-sim/frame.png", "where painted frames are written")
	verbose := flag.Bool("v", false, "log to stdout")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if cfg.Listen == "" {
		fmt.Println("config error: the simulator needs -listen")
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *verbose {
		logger = app.NewFileLogger(os.Stdout)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.NewPNGRenderer(*out, cfg.CanvasSize)
	renderer.Logger = logger
	a, err := app.Build(cfg, renderer, logger)
	if err != nil {
		fmt.Println("setup error:", err)
		os.Exit(2)
	}

	control := NewSimControl(a.Store, a.RequestRedraw)
	renderer.FaultFunc = control.PaintFault
	server := a.Web.(*web.HTTPServer)
	registerSimEndpoints(server.Handler, control)

	fmt.Println("circleface simulator listening on", cfg.Listen)
	fmt.Println("Frames:", *out)
	fmt.Println("API: http://" + trimLeadingColon(cfg.Listen) + "/api/v1/")

	if err := a.Start(processCtx); err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

func trimLeadingColon(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}
