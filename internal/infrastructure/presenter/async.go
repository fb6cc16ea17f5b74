package presenter

import (
	"sync"

	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/metrics"
)

// Async отвязывает ядро от медленного отображения. Кадры идут через
// ограниченную очередь и отбрасываются, если она полна; статус, фаза,
// счётчик и ошибки не теряются и доставляются по порядку.
type Async struct {
	next    port.Presenter
	log     *zap.Logger
	metrics *metrics.Metrics

	frames chan entity.Frame
	events chan func(port.Presenter)
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewAsync запускает горутину доставки. queue — ёмкость очереди кадров.
func NewAsync(next port.Presenter, queue int, log *zap.Logger, m *metrics.Metrics) *Async {
	if queue <= 0 {
		queue = 1
	}
	a := &Async{
		next:    next,
		log:     log,
		metrics: m,
		frames:  make(chan entity.Frame, queue),
		events:  make(chan func(port.Presenter), 64),
		quit:    make(chan struct{}),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) DisplayFrame(frame entity.Frame) {
	select {
	case a.frames <- frame:
	case <-a.quit:
	default:
		a.metrics.DisplayDropped.Inc()
		if ce := a.log.Check(zap.DebugLevel, "display queue full, frame dropped"); ce != nil {
			ce.Write(zap.Uint64("seq", frame.Seq))
		}
	}
}

func (a *Async) DisplayVehicleCount(count int) {
	a.post(func(p port.Presenter) { p.DisplayVehicleCount(count) })
}

func (a *Async) DisplaySignalPhase(phase entity.SignalPhase) {
	a.post(func(p port.Presenter) { p.DisplaySignalPhase(phase) })
}

func (a *Async) DisplayStatus(status entity.SessionStatus) {
	a.post(func(p port.Presenter) { p.DisplayStatus(status) })
}

func (a *Async) DisplayError(err error) {
	a.post(func(p port.Presenter) { p.DisplayError(err) })
}

// Close доставляет оставшиеся события и останавливает горутину.
func (a *Async) Close() {
	a.once.Do(func() {
		close(a.quit)
		a.wg.Wait()
	})
}

func (a *Async) post(ev func(port.Presenter)) {
	select {
	case a.events <- ev:
	case <-a.quit:
	}
}

func (a *Async) run() {
	defer a.wg.Done()
	for {
		select {
		case ev := <-a.events:
			ev(a.next)
		case f := <-a.frames:
			a.next.DisplayFrame(f)
		case <-a.quit:
			a.drain()
			return
		}
	}
}

func (a *Async) drain() {
	for {
		select {
		case ev := <-a.events:
			ev(a.next)
		default:
			return
		}
	}
}

var _ port.Presenter = (*Async)(nil)
