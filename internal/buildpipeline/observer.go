package buildpipeline

import "github.com/SunDr17/stencil/internal/selfcontained"

// progressObserver turns writer notifications into progress events.
type progressObserver struct {
	sink ProgressSink
	root string
}

func (o *progressObserver) ModeDone(res selfcontained.ModeResult) {
	status := StatusDone
	for _, d := range res.Diagnostics {
		if d.IsError() {
			status = StatusError
			break
		}
	}
	emit(o.sink, Event{Mode: res.Mode, Stage: StageTransform, Status: status, Elapsed: res.Duration})
}

func (o *progressObserver) ArtifactDone(art selfcontained.Artifact) {
	status := StatusDone
	if art.Err != nil {
		status = StatusError
	}
	emit(o.sink, Event{File: displayPath(o.root, art.Path), Mode: art.Mode, Stage: StageWrite, Status: status, Err: art.Err})
}
