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
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}

	// Flags override the environment.
	flag.StringVar(&cfg.Listen, "listen", cfg.Listen, "http listen address (empty disables the API); also "+config.EnvPrefix+"LISTEN")
	flag.BoolVar(&cfg.Dev, "dev", cfg.Dev, "enable permissive CORS for local development")
	flag.StringVar(&cfg.FBDevice, "fb", cfg.FBDevice, "framebuffer device")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging to -debug-log")
	flag.StringVar(&cfg.DebugLog, "debug-log", cfg.DebugLog, "debug log file")
	flag.StringVar(&cfg.StdioLog, "stdio-log", cfg.StdioLog, "redirect stdout+stderr (including panics) to this file; also "+config.EnvPrefix+"STDIO_LOG")
	flag.StringVar(&cfg.TimeSource, "time-source", cfg.TimeSource, "manual | system")
	flag.IntVar(&cfg.Hour, "hour", cfg.Hour, "start hour for the manual time source")
	flag.IntVar(&cfg.Minute, "minute", cfg.Minute, "start minute for the manual time source")
	flag.BoolVar(&cfg.ShowDigits, "digits", cfg.ShowDigits, "also show the time in digits")
	flag.StringVar(&cfg.QRPayload, "qr", cfg.QRPayload, "payload for a QR code in the middle of the face")
	flag.StringVar(&cfg.LED, "led", cfg.LED, "heartbeat LED: sysfs directory or helper script")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		return 2
	}

	// Best-effort: the console is in graphics mode while running, so panics
	// are only readable from a file.
	if cfg.StdioLog != "" {
		if err := redirectStdIO(cfg.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Debug {
		f, err := os.OpenFile(cfg.DebugLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := render.NewFBRenderer(cfg.FBDevice, cfg.CanvasSize)
	renderer.Logger = logger
	a, err := app.Build(cfg, renderer, logger)
	if err != nil {
		fmt.Println("setup error:", err)
		return 2
	}
	a.Console = true

	if err := a.Start(ctx); err != nil {
		fmt.Println("circleface error:", err)
		return 1
	}
	return 0
}
