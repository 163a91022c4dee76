package selfcontained

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/SunDr17/stencil/internal/buildctx"
	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/metrics"
	"github.com/SunDr17/stencil/internal/optimize"
	"github.com/SunDr17/stencil/internal/output"
	"github.com/SunDr17/stencil/internal/style"
)

// Run writes the artifacts of every component for every mode and target.
//
// Modes are transformed concurrently, each exactly once. As soon as a mode is
// transformed its diagnostics are appended to the build context and its
// component x target writes start, concurrently with each other and with other
// modes. Run returns after every transformation and every write has finished.
// A failed write does not stop its siblings; all write failures are combined
// into the returned error.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("missing self-contained request")
	}
	if req.FS == nil {
		return nil, errors.New("missing file system")
	}
	if err := component.Validate(req.Components); err != nil {
		return nil, fmt.Errorf("invalid components: %w", err)
	}
	if err := uniqueTargetDirs(req.Targets); err != nil {
		return nil, err
	}
	styles := req.Styles
	if styles == nil {
		styles = style.Registry{}
	}
	opt := req.Optimizer
	if opt == nil {
		opt = optimize.Passthrough{}
	}
	build := req.Build
	if build == nil {
		build = buildctx.New()
	}
	rec := metrics.OrNoop(req.Recorder)
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	modes := styles.AllModes(req.Components)
	output.Debug("self-contained output",
		"modes", len(modes),
		"components", len(req.Components),
		"targets", len(req.Targets),
		"jobs", jobs,
	)

	// Слоты индексируются режимом: каждая горутина пишет только в свой, мьютекс не нужен.
	modeResults := make([]ModeResult, len(modes))
	modeArtifacts := make([][]Artifact, len(modes))

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, mode := range modes {
		g.Go(func() error {
			mr := TransformMode(ctx, styles, opt, req.Components, mode, req.Source)
			build.Diagnostics.Append(mr.Diagnostics...)
			modeResults[i] = mr
			recordMode(rec, mr)
			if req.Observer != nil {
				req.Observer.ModeDone(mr)
			}
			output.Debug("mode transformed",
				"mode", mode,
				"optimized", mr.Optimized,
				"diagnostics", len(mr.Diagnostics),
				"elapsed", mr.Duration,
			)

			modeArtifacts[i] = writeMode(ctx, req, mr, jobs, rec)
			return nil
		})
	}
	// задачи никогда не возвращают ошибку: сбои записи собираются в слоты
	_ = g.Wait()

	res := &Result{Modes: modes, ModeResults: modeResults}
	var err error
	for _, arts := range modeArtifacts {
		for _, art := range arts {
			res.Artifacts = append(res.Artifacts, art)
			err = multierr.Append(err, art.Err)
		}
	}
	return res, err
}

// writeMode fans out the writes of one mode over components x targets.
func writeMode(ctx context.Context, req *Request, mr ModeResult, jobs int, rec metrics.Recorder) []Artifact {
	type pair struct {
		cmp    *component.Component
		target component.OutputTarget
	}
	pairs := make([]pair, 0, len(req.Components)*len(req.Targets))
	for _, cmp := range req.Components {
		if !req.Emit.Covers(cmp, mr.Mode) {
			continue
		}
		for _, target := range req.Targets {
			pairs = append(pairs, pair{cmp: cmp, target: target})
		}
	}

	arts := make([]Artifact, len(pairs))
	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, p := range pairs {
		g.Go(func() error {
			art := Artifact{
				Component: p.cmp.Tag,
				Mode:      mr.Mode,
				TargetDir: p.target.Dir,
			}
			// Проверка отмены до начала записи; начатые записи не прерываются.
			if err := ctx.Err(); err != nil {
				art.Path = req.FS.Join(p.target.Dir, FileName(p.cmp.Tag, mr.Mode))
				art.Err = &WriteError{Component: p.cmp.Tag, Mode: mr.Mode, Path: art.Path, Err: err}
			} else {
				art.Path, art.Err = WriteArtifact(req.FS, p.target, p.cmp, mr.Code, mr.Mode)
			}
			if art.Err == nil {
				art.Size = len(mr.Code)
				rec.IncArtifact(metrics.ResultSuccess)
			} else {
				rec.IncArtifact(metrics.ResultFailed)
				output.Debug("artifact write failed", "path", art.Path, "err", art.Err)
			}
			arts[i] = art
			if req.Observer != nil {
				req.Observer.ArtifactDone(art)
			}
			return nil
		})
	}
	_ = g.Wait()
	return arts
}

// uniqueTargetDirs rejects two targets naming the same directory: their
// writers would race on every artifact path.
func uniqueTargetDirs(targets []component.OutputTarget) error {
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		dir := filepath.Clean(t.Dir)
		if _, dup := seen[dir]; dup {
			return fmt.Errorf("duplicate output target %q", dir)
		}
		seen[dir] = struct{}{}
	}
	return nil
}

func recordMode(rec metrics.Recorder, mr ModeResult) {
	label := metrics.TransformFallback
	if mr.Optimized {
		label = metrics.TransformOptimized
	}
	rec.IncModeTransform(mr.Mode, label)
	counts := make(map[string]int, 3)
	for _, d := range mr.Diagnostics {
		counts[d.Severity.String()]++
	}
	for sev, n := range counts {
		rec.AddDiagnostics(sev, n)
	}
}
