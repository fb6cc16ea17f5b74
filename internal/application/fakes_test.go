package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
)

// recordingPresenter запоминает всё, что ему показали.
// Если gate != nil, первый DisplayFrame закрывает entered и ждёт gate.
type recordingPresenter struct {
	mu       sync.Mutex
	frames   []entity.Frame
	counts   []int
	phases   []entity.SignalPhase
	statuses []entity.SessionStatus
	errs     []error
	events   []string

	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (p *recordingPresenter) DisplayFrame(f entity.Frame) {
	if p.gate != nil {
		p.once.Do(func() { close(p.entered) })
		<-p.gate
	}
	p.mu.Lock()
	p.frames = append(p.frames, f)
	p.events = append(p.events, "frame")
	p.mu.Unlock()
}

func (p *recordingPresenter) DisplayVehicleCount(n int) {
	p.mu.Lock()
	p.counts = append(p.counts, n)
	p.events = append(p.events, fmt.Sprintf("count:%d", n))
	p.mu.Unlock()
}

func (p *recordingPresenter) DisplaySignalPhase(ph entity.SignalPhase) {
	p.mu.Lock()
	p.phases = append(p.phases, ph)
	p.mu.Unlock()
}

func (p *recordingPresenter) DisplayStatus(st entity.SessionStatus) {
	p.mu.Lock()
	p.statuses = append(p.statuses, st)
	p.events = append(p.events, "status:"+string(st))
	p.mu.Unlock()
}

func (p *recordingPresenter) DisplayError(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

func (p *recordingPresenter) Phases() []entity.SignalPhase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.SignalPhase(nil), p.phases...)
}

func (p *recordingPresenter) Statuses() []entity.SessionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.SessionStatus(nil), p.statuses...)
}

func (p *recordingPresenter) Frames() []entity.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.Frame(nil), p.frames...)
}

func (p *recordingPresenter) Counts() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.counts...)
}

// Events порядок показанных кадров, счётчиков и статусов.
func (p *recordingPresenter) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *recordingPresenter) Errors() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error(nil), p.errs...)
}

// stubDetector находит по рамке на каждую яркую точку первой строки.
type stubDetector struct {
	err    error
	calls  atomic.Int64
	closed atomic.Bool
}

func (d *stubDetector) Detect(frame entity.Frame, params entity.DetectionParams) (entity.DetectionResult, error) {
	d.calls.Add(1)
	if d.err != nil {
		return entity.DetectionResult{}, d.err
	}
	if err := params.Validate(); err != nil {
		return entity.DetectionResult{}, err
	}
	var boxes []entity.BoundingBox
	for x := 0; x < frame.Width; x++ {
		if frame.Pix[x] > 128 {
			boxes = append(boxes, entity.BoundingBox{X: x, Y: 0, Width: 1, Height: 1})
		}
	}
	return entity.NewDetectionResult(boxes), nil
}

func (d *stubDetector) Close() error {
	d.closed.Store(true)
	return nil
}

// fakeRenderer серый берёт из первого канала, рамку отмечает
// цветом в левом верхнем углу на копии кадра.
type fakeRenderer struct {
	err error
}

func (r fakeRenderer) Grayscale(frame entity.Frame) (entity.Frame, error) {
	if frame.Channels == 1 {
		return frame, nil
	}
	pix := make([]byte, frame.Width*frame.Height)
	for i := range pix {
		pix[i] = frame.Pix[i*frame.Channels]
	}
	return entity.NewFrame(frame.Seq, frame.Width, frame.Height, 1, pix), nil
}

func (r fakeRenderer) Annotate(frame entity.Frame, boxes []entity.BoundingBox, style entity.BoxStyle) (entity.Frame, error) {
	if r.err != nil {
		return entity.Frame{}, r.err
	}
	if len(boxes) == 0 {
		return frame, nil
	}
	out := frame.Clone()
	for _, b := range boxes {
		i := (b.Y*out.Width + b.X) * out.Channels
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = style.Color.B, style.Color.G, style.Color.R
	}
	return out, nil
}

// scriptedSource отдаёт заранее заданные кадры, затем err.
// Если block != nil, после кадров ждёт его закрытия или отмены ctx.
type scriptedSource struct {
	mu     sync.Mutex
	frames []entity.Frame
	err    error
	block  chan struct{}
	closes atomic.Int64
}

func (s *scriptedSource) Next(ctx context.Context) (entity.Frame, error) {
	s.mu.Lock()
	if len(s.frames) > 0 {
		f := s.frames[0]
		s.frames = s.frames[1:]
		s.mu.Unlock()
		return f, nil
	}
	s.mu.Unlock()

	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return entity.Frame{}, ctx.Err()
		}
	}
	return entity.Frame{}, s.err
}

func (s *scriptedSource) Close() error {
	s.closes.Add(1)
	return nil
}

// countingOpener считает открытые и ещё не закрытые источники.
type countingOpener struct {
	mu      sync.Mutex
	err     error
	make    func() *scriptedSource
	opened  int
	sources []*scriptedSource
	live    atomic.Int64
	maxLive atomic.Int64
}

func (o *countingOpener) Open(ctx context.Context, target string) (port.FrameSource, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	src := o.make()
	o.opened++
	o.sources = append(o.sources, src)
	n := o.live.Add(1)
	if n > o.maxLive.Load() {
		o.maxLive.Store(n)
	}
	return &trackedSource{scriptedSource: src, live: &o.live}, nil
}

func (o *countingOpener) Opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened
}

type trackedSource struct {
	*scriptedSource
	live *atomic.Int64
	once sync.Once
}

func (t *trackedSource) Close() error {
	t.once.Do(func() { t.live.Add(-1) })
	return t.scriptedSource.Close()
}

var errBoom = errors.New("boom")

// grayFrame кадр 4x1 BGR, где яркими сделаны пиксели из bright.
func grayFrame(seq uint64, bright ...int) entity.Frame {
	pix := make([]byte, 4*3)
	for _, x := range bright {
		pix[x*3], pix[x*3+1], pix[x*3+2] = 255, 255, 255
	}
	return entity.NewFrame(seq, 4, 1, 3, pix)
}
