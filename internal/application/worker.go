package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/metrics"
)

// DetectionWorker читает кадры, ищет на них машины и отдаёт
// размеченный кадр и счётчик в Presenter.
type DetectionWorker struct {
	detector  port.VehicleDetector
	renderer  port.FrameRenderer
	presenter port.Presenter
	params    entity.DetectionParams
	style     entity.BoxStyle
	log       *zap.Logger
	metrics   *metrics.Metrics

	count atomic.Int64
}

// NewDetectionWorker создаёт обработчик кадров.
func NewDetectionWorker(detector port.VehicleDetector, renderer port.FrameRenderer, presenter port.Presenter, params entity.DetectionParams, style entity.BoxStyle, log *zap.Logger, m *metrics.Metrics) *DetectionWorker {
	return &DetectionWorker{
		detector:  detector,
		renderer:  renderer,
		presenter: presenter,
		params:    params,
		style:     style,
		log:       log,
		metrics:   m,
	}
}

// VehicleCount последнее значение счётчика машин для отображения.
func (w *DetectionWorker) VehicleCount() int {
	return int(w.count.Load())
}

// ResetCount обнуляет счётчик и показывает 0.
func (w *DetectionWorker) ResetCount() {
	w.count.Store(0)
	w.metrics.VehicleCount.Set(0)
	w.presenter.DisplayVehicleCount(0)
}

// Run крутит цикл до отмены ctx или до ошибки источника/детектора.
// Отмена проверяется между кадрами: начатый вызов детектора
// доработает, но его результат будет отброшен. При отмене
// возвращается nil, иначе причина остановки.
func (w *DetectionWorker) Run(ctx context.Context, src port.FrameSource) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, entity.ErrEndOfStream) && !errors.Is(err, entity.ErrFrameRead) {
				err = fmt.Errorf("%w: %w", entity.ErrFrameRead, err)
			}
			return err
		}
		if frame.Empty() {
			return fmt.Errorf("%w: empty frame %d", entity.ErrFrameRead, frame.Seq)
		}

		result, err := w.Process(frame)
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		w.publish(frame, result)
	}
}

// Process один шаг цикла без публикации: яркость, детектор, подсчёт.
func (w *DetectionWorker) Process(frame entity.Frame) (entity.DetectionResult, error) {
	gray, err := w.renderer.Grayscale(frame)
	if err != nil {
		return entity.DetectionResult{}, fmt.Errorf("grayscale frame %d: %w", frame.Seq, err)
	}

	started := time.Now()
	result, err := w.detector.Detect(gray, w.params)
	w.metrics.DetectDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return entity.DetectionResult{}, fmt.Errorf("detect frame %d: %w", frame.Seq, err)
	}
	return result, nil
}

func (w *DetectionWorker) publish(frame entity.Frame, result entity.DetectionResult) {
	n := result.Count()
	w.count.Store(int64(n))

	w.metrics.FramesProcessed.Inc()
	w.metrics.VehiclesDetected.Add(float64(n))
	w.metrics.VehicleCount.Set(float64(n))

	annotated, err := w.renderer.Annotate(frame, result.Boxes, w.style)
	if err != nil {
		// кадр уходит без рамок, счётчик всё равно публикуется
		w.log.Warn("failed to annotate frame", zap.Uint64("seq", frame.Seq), zap.Error(err))
		annotated = frame
	}
	w.presenter.DisplayFrame(annotated)
	w.presenter.DisplayVehicleCount(n)

	if ce := w.log.Check(zap.DebugLevel, "frame processed"); ce != nil {
		ce.Write(zap.Uint64("seq", frame.Seq), zap.Int("vehicles", n))
	}
}

// stopReason сводит ошибку цикла к метке для метрик.
func stopReason(err error) string {
	switch {
	case err == nil:
		return metrics.ReasonRequested
	case errors.Is(err, entity.ErrEndOfStream):
		return metrics.ReasonEndOfStream
	case errors.Is(err, entity.ErrFrameRead):
		return metrics.ReasonReadFailure
	default:
		return metrics.ReasonDetector
	}
}
