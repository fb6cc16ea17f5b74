package container

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	app "smart-traffic/internal/application"
	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/metrics"
)

// Settings параметры, которые сервисы берут из конфигурации.
type Settings struct {
	Target    string
	Detection entity.DetectionParams
	Signal    entity.SignalTimings
	Style     entity.BoxStyle
}

type Container struct {
	Signal  *app.SignalController
	Worker  *app.DetectionWorker
	Session *app.SessionService
}

func New(s Settings, opener port.SourceOpener, detector port.VehicleDetector, renderer port.FrameRenderer, presenter port.Presenter, clk clock.Clock, log *zap.Logger, m *metrics.Metrics) *Container {
	signal := app.NewSignalController(clk, s.Signal, presenter, log.Named("signal"), m)
	worker := app.NewDetectionWorker(detector, renderer, presenter, s.Detection, s.Style, log.Named("worker"), m)
	session := app.NewSessionService(opener, s.Target, worker, signal, detector, presenter, log.Named("session"), m)

	return &Container{
		Signal:  signal,
		Worker:  worker,
		Session: session,
	}
}
