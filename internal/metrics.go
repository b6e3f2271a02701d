package internal

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	failureSourceNotFound = "source_not_found"
	failureProcessing     = "processing"
)

type Metrics struct {
	registry    *prometheus.Registry
	written     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		written: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iconresizer_icons_written_total",
			Help: "Total number of icon files written.",
		}, []string{"file"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iconresizer_failures_total",
			Help: "Total number of failed runs by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iconresizer_resize_duration_seconds",
			Help:    "Time spent resizing and encoding one icon.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
		}, []string{"file"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "iconresizer_last_success_timestamp_seconds",
			Help: "Unix time of the last run that wrote every icon.",
		}),
	}
	m.registry.MustRegister(m.written, m.failures, m.duration, m.lastSuccess)
	return m
}

func (m *Metrics) observeWritten(file string, took time.Duration) {
	m.written.WithLabelValues(file).Inc()
	m.duration.WithLabelValues(file).Observe(took.Seconds())
}

func (m *Metrics) observeFailure(err error) {
	var notFound *SourceNotFoundError
	if errors.As(err, &notFound) {
		m.failures.WithLabelValues(failureSourceNotFound).Inc()
		return
	}
	m.failures.WithLabelValues(failureProcessing).Inc()
}

func (m *Metrics) observeSuccess(at time.Time) {
	m.lastSuccess.Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry in the node_exporter textfile collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
