package buildpipeline

import "time"

// Stage is one phase of a stencil build.
type Stage string

const (
	// StageLoad reads stencil.toml, the bundle source and stylesheets.
	StageLoad Stage = "load"
	// StageTransform specialises the bundle once per mode.
	StageTransform Stage = "transform"
	// StageWrite writes the artifacts.
	StageWrite Stage = "write"
	// StageManifest records the artifacts and removes stale ones.
	StageManifest Stage = "manifest"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageLoad, StageTransform, StageWrite, StageManifest}

// Status is the state of an artifact or stage in progress events.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusError carries the failure in Event.Err.
	StatusError Status = "error"
)

// Event reports progress for an artifact (or for the overall pipeline when
// File is empty). Mode is set for transform events.
type Event struct {
	File    string
	Mode    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds the duration of each stage that ran. The zero value is
// empty and ready to use.
type Timings struct {
	dur [4]time.Duration
	ran uint8
}

func stageIndex(stage Stage) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// Set records dur for stage. Unknown stages are ignored.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	i := stageIndex(stage)
	if t == nil || i < 0 {
		return
	}
	t.dur[i] = dur
	t.ran |= 1 << i
}

// Has reports whether stage ran.
func (t Timings) Has(stage Stage) bool {
	i := stageIndex(stage)
	return i >= 0 && t.ran&(1<<i) != 0
}

// Duration returns the recorded duration for stage, or zero.
func (t Timings) Duration(stage Stage) time.Duration {
	if i := stageIndex(stage); i >= 0 {
		return t.dur[i]
	}
	return 0
}

// Sum adds up the durations of stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.Duration(stage)
	}
	return total
}
