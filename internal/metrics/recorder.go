package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"image-upscaler/internal/upscale"
)

// Recorder exports resolution outcomes as Prometheus metrics. It keeps its
// own registry so several recorders can coexist (e.g. in tests).
type Recorder struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ upscale.Recorder = (*Recorder)(nil)

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upscaler_resolutions_total",
				Help: "Total number of upscale calls by resolution method and model",
			},
			[]string{"method", "model"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upscaler_fallbacks_total",
				Help: "Total number of upscale calls that degraded to generic interpolation, by reason",
			},
			[]string{"reason"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upscaler_resolution_duration_seconds",
				Help:    "Time spent producing an upscaled image",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
			},
			[]string{"method"},
		),
	}

	r.registry.MustRegister(r.resolutions, r.fallbacks, r.duration)
	return r
}

// Observe implements upscale.Recorder.
func (r *Recorder) Observe(o upscale.Outcome) {
	method := o.Method.String()
	r.resolutions.WithLabelValues(method, o.Model).Inc()
	if o.Method.Fallback() {
		r.fallbacks.WithLabelValues(method).Inc()
	}
	r.duration.WithLabelValues(method).Observe(o.Duration.Seconds())
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
