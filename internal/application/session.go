package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart-traffic/internal/domain/entity"
	"smart-traffic/internal/domain/port"
	"smart-traffic/internal/metrics"
)

// SessionService единственная точка переключения IDLE/RUNNING.
// Start и Stop сериализуются, поэтому одновременно открыт не больше
// одного источника кадров и работает не больше одного цикла.
type SessionService struct {
	opener    port.SourceOpener
	target    string
	worker    *DetectionWorker
	signal    *SignalController
	detector  port.VehicleDetector
	presenter port.Presenter
	log       *zap.Logger
	metrics   *metrics.Metrics

	mu       sync.Mutex
	current  *session
	shutdown bool

	status atomic.Value // entity.SessionStatus
}

type session struct {
	id     string
	source port.FrameSource
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSessionService создаёт сервис в состоянии IDLE.
func NewSessionService(opener port.SourceOpener, target string, worker *DetectionWorker, signal *SignalController, detector port.VehicleDetector, presenter port.Presenter, log *zap.Logger, m *metrics.Metrics) *SessionService {
	s := &SessionService{
		opener:    opener,
		target:    target,
		worker:    worker,
		signal:    signal,
		detector:  detector,
		presenter: presenter,
		log:       log,
		metrics:   m,
	}
	s.status.Store(entity.StatusIdle)
	return s
}

// Status текущее состояние. Читается без блокировки.
func (s *SessionService) Status() entity.SessionStatus {
	return s.status.Load().(entity.SessionStatus)
}

// Start открывает источник и запускает цикл распознавания и светофор.
// Если сессия уже идёт, возвращает entity.ErrAlreadyRunning и ничего не трогает.
func (s *SessionService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return entity.ErrShutdown
	}
	if s.current != nil {
		return entity.ErrAlreadyRunning
	}

	src, err := s.opener.Open(ctx, s.target)
	if err != nil {
		if !errors.Is(err, entity.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", entity.ErrSourceUnavailable, err)
		}
		s.log.Warn("failed to open frame source", zap.String("target", s.target), zap.Error(err))
		s.presenter.DisplayError(err)
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:     uuid.NewString(),
		source: src,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.current = sess
	s.setStatus(entity.StatusRunning)
	s.metrics.SessionsStarted.Inc()
	s.signal.Start()

	log := s.log.With(zap.String("session_id", sess.id))
	log.Info("session started", zap.String("target", s.target))

	go func() {
		err := s.worker.Run(runCtx, src)
		close(sess.done)
		s.finish(sess, err)
	}()
	return nil
}

// Stop останавливает текущую сессию. В состоянии IDLE ничего не делает.
func (s *SessionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.teardown(s.current, nil)
}

// Shutdown останавливает сессию и освобождает детектор.
// После него Start возвращает entity.ErrShutdown.
func (s *SessionService) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shutdown {
		return nil
	}
	if s.current != nil {
		s.teardown(s.current, nil)
	}
	s.shutdown = true
	s.log.Info("session controller shut down")
	return s.detector.Close()
}

// finish вызывается горутиной цикла после его завершения.
// Если сессию уже остановили снаружи, ничего не делает.
func (s *SessionService) finish(sess *session, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != sess {
		return
	}
	s.teardown(sess, err)
}

// teardown переводит сессию в IDLE. Вызывается под s.mu.
func (s *SessionService) teardown(sess *session, cause error) {
	log := s.log.With(zap.String("session_id", sess.id))

	s.current = nil

	// цикл заметит отмену на границе кадра; IDLE показываем только
	// после его выхода, чтобы запоздалый кадр не пришёл после статуса
	sess.cancel()
	<-sess.done

	if err := sess.source.Close(); err != nil {
		log.Warn("failed to close frame source", zap.Error(err))
	}
	s.setStatus(entity.StatusIdle)
	s.signal.Stop()
	s.worker.ResetCount()

	reason := stopReason(cause)
	s.metrics.SessionStops.WithLabelValues(reason).Inc()

	switch reason {
	case metrics.ReasonRequested:
		log.Info("session stopped")
	case metrics.ReasonEndOfStream:
		log.Info("session stopped: end of stream")
	case metrics.ReasonReadFailure:
		log.Warn("session stopped: frame read failure", zap.Error(cause))
	default:
		log.Error("session stopped: detector failure", zap.Error(cause))
		s.presenter.DisplayError(cause)
	}
}

func (s *SessionService) setStatus(st entity.SessionStatus) {
	s.status.Store(st)
	s.presenter.DisplayStatus(st)
}
