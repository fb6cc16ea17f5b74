package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"smart-traffic/config"
	console "smart-traffic/internal/api"
	"smart-traffic/internal/container"
	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/infrastructure/framesource"
	"smart-traffic/internal/infrastructure/imagefile"
	"smart-traffic/internal/infrastructure/presenter"
	"smart-traffic/internal/infrastructure/vision"
	"smart-traffic/internal/logger"
	"smart-traffic/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDev); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer logger.Sync()
	log := logger.Log()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go m.Serve(ctx, cfg.MetricsAddr, log.Named("metrics"))
		log.Info("metrics enabled", zap.String("addr", cfg.MetricsAddr))
	}

	// Без модели работать нечем: выходим сразу.
	detector, err := vision.NewCascadeDetector(cfg.ModelPath)
	if err != nil {
		if errors.Is(err, entity.ErrModelUnavailable) {
			log.Error("failed to load detection model", zap.String("path", cfg.ModelPath), zap.Error(err))
		} else {
			log.Error("failed to create detector", zap.Error(err))
		}
		return 1
	}

	opener := framesource.WithCrop(
		framesource.NewRouter(
			vision.NewCaptureOpener(cfg.CameraWidth, cfg.CameraHeight),
			imagefile.NewOpener(cfg.StillsMaxSide, cfg.FrameInterval),
		),
		cfg.Crop,
	)

	display := presenter.NewAsync(presenter.NewConsole(log), cfg.DisplayQueue, log.Named("display"), m)
	defer display.Close()

	c := container.New(container.Settings{
		Target:    cfg.Source,
		Detection: cfg.Detection,
		Signal:    cfg.Signal,
		Style:     cfg.BoxStyle(),
	}, opener, detector, vision.NewRenderer(), display, clock.New(), log, m)

	log.Info("smart traffic light is ready",
		zap.String("source", cfg.Source),
		zap.Duration("red", cfg.Signal.RedHold),
		zap.Duration("green", cfg.Signal.GreenHold),
		zap.Duration("yellow", cfg.Signal.YellowHold),
	)

	cli := console.NewConsole(c.Session, c.Signal, c.Worker, os.Stdout, log.Named("console"))
	runErr := cli.Run(ctx, os.Stdin)

	if err := c.Session.Shutdown(); err != nil {
		log.Warn("failed to release detector", zap.Error(err))
	}
	if runErr != nil {
		log.Error("console stopped with error", zap.Error(runErr))
		return 1
	}
	log.Info("shut down")
	return 0
}
