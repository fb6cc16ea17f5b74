package presenter

import (
	"sync"

	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

// Console выводит состояние светофора и счётчик машин в лог.
// Счётчик пишется только при изменении, кадры — на уровне debug.
type Console struct {
	log *zap.Logger

	mu        sync.Mutex
	lastCount int
}

// NewConsole создаёт презентер поверх логгера.
func NewConsole(log *zap.Logger) *Console {
	return &Console{log: log.Named("display"), lastCount: -1}
}

func (c *Console) DisplayFrame(frame entity.Frame) {
	if ce := c.log.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(
			zap.Uint64("seq", frame.Seq),
			zap.Int("width", frame.Width),
			zap.Int("height", frame.Height),
		)
	}
}

func (c *Console) DisplayVehicleCount(count int) {
	c.mu.Lock()
	changed := count != c.lastCount
	c.lastCount = count
	c.mu.Unlock()

	if changed {
		c.log.Info("detected vehicles", zap.Int("count", count))
	}
}

func (c *Console) DisplaySignalPhase(phase entity.SignalPhase) {
	c.log.Info("traffic light", zap.String("phase", string(phase)))
}

func (c *Console) DisplayStatus(status entity.SessionStatus) {
	c.log.Info("system status", zap.String("status", string(status)))
}

func (c *Console) DisplayError(err error) {
	c.log.Error("session error", zap.Error(err))
}

var _ port.Presenter = (*Console)(nil)
