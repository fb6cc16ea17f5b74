package app

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/metrics"
)

// SignalController автомат светофора RED → GREEN → YELLOW → RED.
// Работает по своему таймеру и не зависит от потока кадров.
type SignalController struct {
	clock     clock.Clock
	timings   entity.SignalTimings
	presenter port.Presenter
	log       *zap.Logger
	metrics   *metrics.Metrics

	mu         sync.Mutex
	phase      entity.SignalPhase
	deadline   time.Time
	timer      *clock.Timer
	running    bool
	generation uint64
}

// NewSignalController создаёт контроллер в фазе RED.
func NewSignalController(clk clock.Clock, timings entity.SignalTimings, presenter port.Presenter, log *zap.Logger, m *metrics.Metrics) *SignalController {
	return &SignalController{
		clock:     clk,
		timings:   timings,
		presenter: presenter,
		log:       log,
		metrics:   m,
		phase:     entity.PhaseRed,
	}
}

// Start сбрасывает состояние, включает RED и взводит первый таймер.
// Повторный вызов во время работы ничего не делает.
func (c *SignalController) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.generation++
	c.enter(entity.PhaseRed, c.clock.Now())
	c.mu.Unlock()

	c.log.Info("signal controller started", zap.Duration("cycle", c.timings.Cycle()))
}

// Stop отменяет запланированное переключение и принудительно ставит RED.
func (c *SignalController) Stop() {
	c.mu.Lock()
	wasRunning := c.running
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.running = false
	c.generation++
	c.phase = entity.PhaseRed
	c.deadline = time.Time{}
	c.presenter.DisplaySignalPhase(entity.PhaseRed)
	c.mu.Unlock()

	if wasRunning {
		c.log.Info("signal controller stopped")
	}
}

// State возвращает фазу и остаток времени до переключения.
func (c *SignalController) State() entity.SignalState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := entity.SignalState{Phase: c.phase, Running: c.running}
	if c.running {
		if left := c.deadline.Sub(c.clock.Now()); left > 0 {
			st.Remaining = left
		}
	}
	return st
}

// enter включает фазу и сразу взводит таймер выхода из неё.
// Срок считается от начала фазы, а не от момента срабатывания
// колбэка, поэтому цикл не уплывает. Вызывается под c.mu, чтобы
// порядок фаз на экране совпадал с порядком переключений.
func (c *SignalController) enter(phase entity.SignalPhase, at time.Time) {
	c.phase = phase
	c.deadline = at.Add(c.timings.Hold(phase))

	gen := c.generation
	wait := c.deadline.Sub(c.clock.Now())
	if wait < 0 {
		wait = 0
	}
	c.timer = c.clock.AfterFunc(wait, func() { c.advance(gen) })
	c.metrics.PhaseTransitions.WithLabelValues(string(phase)).Inc()
	c.presenter.DisplaySignalPhase(phase)
}

func (c *SignalController) advance(gen uint64) {
	c.mu.Lock()
	// таймер от прошлой сессии или сработал после Stop
	if !c.running || gen != c.generation {
		c.mu.Unlock()
		return
	}
	next := c.phase.Next()
	c.enter(next, c.deadline)
	c.mu.Unlock()

	c.log.Debug("signal phase changed", zap.String("phase", string(next)))
}
