// Package buildpipeline orchestrates a stencil build: it loads the project,
// runs the self-contained writer and keeps the artifact manifest up to date.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/SunDr17/stencil/internal/buildctx"
	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
	"github.com/SunDr17/stencil/internal/manifest"
	"github.com/SunDr17/stencil/internal/metrics"
	"github.com/SunDr17/stencil/internal/observ"
	"github.com/SunDr17/stencil/internal/optimize"
	"github.com/SunDr17/stencil/internal/output"
	"github.com/SunDr17/stencil/internal/project"
	"github.com/SunDr17/stencil/internal/selfcontained"
	"github.com/SunDr17/stencil/internal/style"
	"github.com/SunDr17/stencil/internal/vfs"
)

// ErrNoTargets is returned when the project has no self-contained output target.
var ErrNoTargets = errors.New("no self-contained output targets")

// BuildRequest configures one build. Zero values fall back to stencil.toml.
type BuildRequest struct {
	StartDir string
	// Project skips the load stage when set.
	Project *project.Project

	Jobs         int
	Emit         string
	NoMinify     bool
	ExtraTargets []string

	MaxDiagnostics int
	NoManifest     bool

	FS        *vfs.Afero
	Optimizer optimize.Optimizer
	Recorder  metrics.Recorder
	Progress  ProgressSink
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	Project *project.Project
	Build   *buildctx.BuildCtx
	Output  *selfcontained.Result
	// Bag holds the sorted build diagnostics, limited by MaxDiagnostics.
	Bag     *diag.Bag
	Removed []string
	Timings Timings
	Report  observ.Report
}

// Failed reports whether any write failed or any error diagnostic was recorded.
func (r BuildResult) Failed() bool {
	if r.Output != nil && len(r.Output.Failed()) > 0 {
		return true
	}
	return r.Build != nil && r.Build.Diagnostics.HasErrors()
}

// Build runs the pipeline once. The returned error combines write and manifest
// failures; diagnostics are reported through BuildResult.Bag.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	rec := metrics.OrNoop(req.Recorder)
	timer := observ.NewTimer()
	buildStart := time.Now()
	build := buildctx.New()
	result.Build = build
	defer func() {
		rec.ObserveBuildDuration(time.Since(buildStart))
	}()

	// load
	loadStart := time.Now()
	emit(req.Progress, Event{Stage: StageLoad, Status: StatusWorking})
	phase := timer.Begin(string(StageLoad))
	proj := req.Project
	if proj == nil {
		var err error
		proj, err = project.Load(req.StartDir)
		if err != nil {
			emit(req.Progress, Event{Stage: StageLoad, Status: StatusError, Err: err})
			rec.IncBuildOutcome("failed")
			return result, err
		}
	}
	result.Project = proj
	// Загрузочные и манифестные диагностики идут в сборку и в метрики;
	// диагностики режимов учитывает selfcontained.
	report := diag.MultiReporter{
		build.Diagnostics,
		diag.ReporterFunc(func(d diag.Diagnostic) { rec.AddDiagnostics(d.Severity.String(), 1) }),
	}
	for _, d := range proj.Diagnostics {
		report.Report(d)
	}

	settings, err := resolveSettings(proj, req)
	if err != nil {
		emit(req.Progress, Event{Stage: StageLoad, Status: StatusError, Err: err})
		rec.IncBuildOutcome("failed")
		return result, err
	}
	timer.End(phase, fmt.Sprintf("%d components", len(proj.Components)))
	finishStage(&result, rec, req.Progress, StageLoad, time.Since(loadStart))

	fs := req.FS
	if fs == nil {
		fs = vfs.OS()
	}
	modes := style.AllModes(proj.Components)
	for _, planned := range planArtifacts(fs, proj.Components, modes, settings.targets, settings.emit) {
		emit(req.Progress, Event{File: displayPath(proj.Root, planned), Stage: StageWrite, Status: StatusQueued})
	}

	// transform + write: these stages overlap, so the transform duration is
	// the slowest mode and the write duration is whatever remains.
	runStart := time.Now()
	emit(req.Progress, Event{Stage: StageTransform, Status: StatusWorking})
	phase = timer.Begin(string(StageTransform) + "+" + string(StageWrite))
	out, runErr := selfcontained.Run(ctx, &selfcontained.Request{
		Components: proj.Components,
		Targets:    settings.targets,
		Source:     proj.Source,
		Build:      build,
		Optimizer:  settings.optimizer,
		FS:         fs,
		Jobs:       settings.jobs,
		Emit:       settings.emit,
		Recorder:   rec,
		Observer:   &progressObserver{sink: req.Progress, root: proj.Root},
	})
	result.Output = out
	runDur := time.Since(runStart)
	var slowest time.Duration
	if out != nil {
		for _, mr := range out.ModeResults {
			slowest = max(slowest, mr.Duration)
		}
		timer.End(phase, fmt.Sprintf("%d modes, %d artifacts", len(out.Modes), len(out.Artifacts)))
	}
	finishStage(&result, rec, req.Progress, StageTransform, slowest)
	writeStatus := StatusDone
	if runErr != nil {
		writeStatus = StatusError
	}
	result.Timings.Set(StageWrite, max(runDur-slowest, 0))
	rec.ObserveStageDuration(string(StageWrite), result.Timings.Duration(StageWrite))
	emit(req.Progress, Event{Stage: StageWrite, Status: writeStatus, Err: runErr, Elapsed: result.Timings.Duration(StageWrite)})

	// manifest
	var manifestErr error
	if !req.NoManifest && out != nil {
		manifestStart := time.Now()
		emit(req.Progress, Event{Stage: StageManifest, Status: StatusWorking})
		phase = timer.Begin(string(StageManifest))
		result.Removed, manifestErr = syncManifest(fs, proj.ManifestPath, build.ID, report, out)
		timer.End(phase, fmt.Sprintf("%d stale removed", len(result.Removed)))
		if manifestErr != nil {
			result.Timings.Set(StageManifest, time.Since(manifestStart))
			emit(req.Progress, Event{Stage: StageManifest, Status: StatusError, Err: manifestErr})
		} else {
			finishStage(&result, rec, req.Progress, StageManifest, time.Since(manifestStart))
		}
	}

	result.Bag = sortedBag(build, req.MaxDiagnostics)
	result.Report = timer.Report()
	switch {
	case result.Failed() || runErr != nil || manifestErr != nil:
		rec.IncBuildOutcome("failed")
	case build.Diagnostics.Len() > 0:
		rec.IncBuildOutcome("warning")
	default:
		rec.IncBuildOutcome("success")
	}
	return result, multierr.Append(runErr, manifestErr)
}

type settings struct {
	jobs      int
	emit      selfcontained.EmitPolicy
	optimizer optimize.Optimizer
	targets   []component.OutputTarget
}

func resolveSettings(proj *project.Project, req *BuildRequest) (settings, error) {
	var s settings
	cfg := proj.Config.Build

	s.jobs = cfg.Jobs
	if req.Jobs > 0 {
		s.jobs = req.Jobs
	}

	emitName := cfg.Emit
	if strings.TrimSpace(req.Emit) != "" {
		emitName = req.Emit
	}
	policy, err := selfcontained.ParseEmitPolicy(emitName)
	if err != nil {
		return s, fmt.Errorf("%s: %w", proj.File, err)
	}
	s.emit = policy

	switch {
	case req.Optimizer != nil:
		s.optimizer = req.Optimizer
	case req.NoMinify || !cfg.Minify:
		s.optimizer = optimize.Passthrough{}
	default:
		esb, err := optimize.NewEsbuild(optimize.EsbuildOptions{
			Target:     cfg.Target,
			Sourcefile: filepath.Base(proj.SourcePath),
		})
		if err != nil {
			return s, fmt.Errorf("%s: [build].target: %w", proj.File, err)
		}
		s.optimizer = esb
	}

	targets := append([]component.OutputTarget(nil), proj.Targets...)
	for _, dir := range req.ExtraTargets {
		if !filepath.IsAbs(dir) {
			if abs, err := filepath.Abs(dir); err == nil {
				dir = abs
			}
		}
		targets = append(targets, component.OutputTarget{Type: component.TargetSelfContained, Dir: dir})
	}
	s.targets = uniqueTargets(component.FilterSelfContained(targets))
	if len(s.targets) == 0 {
		return s, fmt.Errorf("%s: %w", proj.File, ErrNoTargets)
	}
	return s, nil
}

// uniqueTargets keeps the first target for each cleaned directory, so no two
// writers share an output path.
func uniqueTargets(targets []component.OutputTarget) []component.OutputTarget {
	seen := make(map[string]struct{}, len(targets))
	out := targets[:0]
	for _, t := range targets {
		t.Dir = filepath.Clean(t.Dir)
		if _, dup := seen[t.Dir]; dup {
			output.Debug("duplicate output target ignored", "dir", t.Dir)
			continue
		}
		seen[t.Dir] = struct{}{}
		out = append(out, t)
	}
	return out
}

// planArtifacts lists the paths the writer will produce, in the writer's order.
func planArtifacts(fs *vfs.Afero, cmps []*component.Component, modes []string, targets []component.OutputTarget, policy selfcontained.EmitPolicy) []string {
	var paths []string
	for _, mode := range modes {
		for _, cmp := range cmps {
			if !policy.Covers(cmp, mode) {
				continue
			}
			for _, t := range targets {
				paths = append(paths, fs.Join(t.Dir, selfcontained.FileName(cmp.Tag, mode)))
			}
		}
	}
	return paths
}

// syncManifest removes artifacts of the previous build that this build did not
// produce and saves the new manifest. Paths whose write failed now are neither
// removed nor dropped from the manifest.
func syncManifest(fs *vfs.Afero, path string, buildID uuid.UUID, report diag.Reporter, out *selfcontained.Result) ([]string, error) {
	store := &manifest.Store{Fs: fs.Fs, Path: path}
	prev, _, err := store.Load()
	if err != nil {
		output.Warn("ignoring unreadable manifest", "path", path, "err", err)
		prev = nil
	}
	cur := manifest.FromResult(buildID, out)

	failed := make(map[string]struct{})
	for _, art := range out.Failed() {
		failed[art.Path] = struct{}{}
	}
	var stale []manifest.Entry
	for _, e := range manifest.Stale(prev, cur) {
		if _, ok := failed[e.Path]; ok {
			cur.Entries = append(cur.Entries, e)
			continue
		}
		stale = append(stale, e)
	}

	removed, rmErr := manifest.RemoveEntries(fs.Fs, stale)
	for _, p := range removed {
		output.Info("removed stale artifact", "path", p)
	}
	if rmErr != nil {
		for _, e := range multierr.Errors(rmErr) {
			report.Report(diag.NewWarning(diag.IOStaleArtifact, e.Error()))
		}
	}
	if err := store.Save(cur); err != nil {
		return removed, fmt.Errorf("save manifest %s: %w", path, err)
	}
	return removed, nil
}

// sortedBag drops repeated diagnostics, orders them and keeps at most maxItems.
func sortedBag(build *buildctx.BuildCtx, maxItems int) *diag.Bag {
	all := build.Diagnostics.Bag()
	all.Dedup()
	all.Sort()
	if maxItems <= 0 || all.Len() <= maxItems {
		return all
	}
	bag := diag.NewBag(maxItems)
	for _, d := range all.Items() {
		if !bag.Add(d) {
			break
		}
	}
	return bag
}

func finishStage(result *BuildResult, rec metrics.Recorder, sink ProgressSink, stage Stage, dur time.Duration) {
	result.Timings.Set(stage, dur)
	rec.ObserveStageDuration(string(stage), dur)
	emit(sink, Event{Stage: stage, Status: StatusDone, Elapsed: dur})
}

// displayPath shortens path relative to root for progress output.
func displayPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
