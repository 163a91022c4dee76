package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	stageDuration  *prom.HistogramVec
	buildDuration  prom.Histogram
	modeTransforms *prom.CounterVec
	artifacts      *prom.CounterVec
	diagnostics    *prom.CounterVec
	buildOutcome   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the output stage metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "stencil",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual output stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "stencil",
		Name:      "build_duration_seconds",
		Help:      "Total output build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.modeTransforms = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "stencil",
		Name:      "mode_transforms_total",
		Help:      "Mode transformations by mode and outcome",
	}, []string{"mode", "outcome"})
	pr.artifacts = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "stencil",
		Name:      "artifacts_total",
		Help:      "Artifact writes by result",
	}, []string{"result"})
	pr.diagnostics = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "stencil",
		Name:      "diagnostics_total",
		Help:      "Diagnostics recorded by severity",
	}, []string{"severity"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "stencil",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.modeTransforms, pr.artifacts, pr.diagnostics, pr.buildOutcome)
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// WriteTextfile writes the registry in text exposition format to path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncModeTransform(mode string, label TransformLabel) {
	if p == nil || p.modeTransforms == nil {
		return
	}
	p.modeTransforms.WithLabelValues(mode, string(label)).Inc()
}

func (p *PrometheusRecorder) IncArtifact(result ResultLabel) {
	if p == nil || p.artifacts == nil {
		return
	}
	p.artifacts.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddDiagnostics(severity string, n int) {
	if p == nil || p.diagnostics == nil || n <= 0 {
		return
	}
	p.diagnostics.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
