package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Причины остановки сессии, метка reason у SessionStops.
const (
	ReasonRequested   = "requested"
	ReasonEndOfStream = "end_of_stream"
	ReasonReadFailure = "read_failure"
	ReasonDetector    = "detector_failure"
)

// Metrics счётчики контроллера в собственном реестре prometheus.
type Metrics struct {
	FramesProcessed  prometheus.Counter
	VehiclesDetected prometheus.Counter
	VehicleCount     prometheus.Gauge
	DetectDuration   prometheus.Histogram
	PhaseTransitions *prometheus.CounterVec
	SessionsStarted  prometheus.Counter
	SessionStops     *prometheus.CounterVec
	DisplayDropped   prometheus.Counter

	registry *prometheus.Registry
}

// New создаёт и регистрирует все метрики.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traffic_frames_processed_total",
			Help: "Frames passed through the detector",
		}),
		VehiclesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traffic_vehicles_detected_total",
			Help: "Sum of per-frame vehicle counts",
		}),
		VehicleCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "traffic_vehicle_count",
			Help: "Vehicles on the last processed frame",
		}),
		DetectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "traffic_detect_duration_seconds",
			Help:    "Time spent in a single detector call",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		PhaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_signal_phase_entered_total",
			Help: "Times the signal entered each phase",
		}, []string{"phase"}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traffic_sessions_started_total",
			Help: "Sessions switched to RUNNING",
		}),
		SessionStops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traffic_session_stops_total",
			Help: "Sessions switched back to IDLE, by reason",
		}, []string{"reason"}),
		DisplayDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traffic_display_frames_dropped_total",
			Help: "Annotated frames dropped because the display queue was full",
		}),
	}

	m.registry.MustRegister(
		m.FramesProcessed,
		m.VehiclesDetected,
		m.VehicleCount,
		m.DetectDuration,
		m.PhaseTransitions,
		m.SessionsStarted,
		m.SessionStops,
		m.DisplayDropped,
	)
	return m
}

// Handler отдаёт /metrics для этого реестра.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve публикует /metrics на addr до отмены ctx.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("metrics server shutdown", zap.Error(err))
	}
}
