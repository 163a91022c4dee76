// Package metrics records build metrics for the output stage.
//
// Components receive a Recorder through their request structs. NoopRecorder is
// the default; PrometheusRecorder is installed when the CLI is asked for a
// metrics file.
package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// TransformLabel tells whether a mode kept the optimizer output.
type TransformLabel string

const (
	TransformOptimized TransformLabel = "optimized"
	TransformFallback  TransformLabel = "fallback"
)

// Recorder defines observability hooks for the output stage. Implementations
// must be safe for concurrent use.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncModeTransform(mode string, label TransformLabel)
	IncArtifact(result ResultLabel)
	AddDiagnostics(severity string, n int)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncModeTransform(string, TransformLabel)    {}
func (NoopRecorder) IncArtifact(ResultLabel)                    {}
func (NoopRecorder) AddDiagnostics(string, int)                 {}
func (NoopRecorder) IncBuildOutcome(string)                     {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
