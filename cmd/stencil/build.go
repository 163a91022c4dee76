package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/SunDr17/stencil/internal/buildpipeline"
	"github.com/SunDr17/stencil/internal/metrics"
	"github.com/SunDr17/stencil/internal/output"
	"github.com/SunDr17/stencil/internal/project"
	"github.com/SunDr17/stencil/internal/watch"
)

const noProjectMessage = "no stencil.toml found\nrun inside a project or pass its directory, e.g.:\n  stencil build path/to/project"

var buildCmd = &cobra.Command{
	Use:   "build [flags] [path]",
	Short: "Write self-contained component scripts",
	Long:  "Build a stencil project: specialise the bundle for every style mode and write one script per component, mode and output target.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

type buildOptions struct {
	report      reportOptions
	ui          uiMode
	watch       bool
	metricsFile string
}

func buildExecution(cmd *cobra.Command, args []string) error {
	opts, req, err := readBuildFlags(cmd)
	if err != nil {
		return err
	}
	proj, err := loadProject(args)
	if err != nil {
		return err
	}
	req.Project = proj

	var rec *metrics.PrometheusRecorder
	if opts.metricsFile != "" {
		rec = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		req.Recorder = rec
	}

	if !opts.watch {
		failed, err := runBuild(cmd, req, opts)
		if err := writeMetrics(rec, opts.metricsFile); err != nil {
			return err
		}
		if err != nil {
			return err
		}
		if failed {
			return errFailed
		}
		return nil
	}
	return watchBuild(cmd, req, opts, rec)
}

func readBuildFlags(cmd *cobra.Command) (buildOptions, *buildpipeline.BuildRequest, error) {
	var opts buildOptions
	req := &buildpipeline.BuildRequest{}
	var err error

	flags := cmd.Flags()
	if req.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, nil, err
	}
	if req.Jobs < 0 {
		return opts, nil, fmt.Errorf("--jobs must not be negative")
	}
	if req.Emit, err = flags.GetString("emit"); err != nil {
		return opts, nil, err
	}
	if req.NoMinify, err = flags.GetBool("no-minify"); err != nil {
		return opts, nil, err
	}
	if req.ExtraTargets, err = flags.GetStringArray("out"); err != nil {
		return opts, nil, err
	}
	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, nil, err
	}
	if opts.metricsFile, err = flags.GetString("metrics-file"); err != nil {
		return opts, nil, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, nil, err
	}
	if opts.ui, err = parseUIMode(uiValue); err != nil {
		return opts, nil, err
	}
	if opts.report, err = readReportOptions(cmd); err != nil {
		return opts, nil, err
	}
	req.MaxDiagnostics = opts.report.maxDiagnostics
	return opts, req, nil
}

func loadProject(args []string) (*project.Project, error) {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	proj, err := project.Load(start)
	if errors.Is(err, project.ErrNoProject) {
		return nil, errors.New(noProjectMessage)
	}
	return proj, err
}

// runBuild runs one build and prints its report. failed is true when a write
// failed or an error diagnostic was recorded.
func runBuild(cmd *cobra.Command, req *buildpipeline.BuildRequest, opts buildOptions) (failed bool, err error) {
	var res buildpipeline.BuildResult
	if wantsProgressUI(opts) {
		res, err = buildWithProgress(cmd.Context(), req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}
	if res.Project == nil {
		return true, err
	}

	if printErr := printReport(cmd, res, opts.report); printErr != nil {
		return true, printErr
	}
	if err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", e)
		}
		return true, nil
	}
	return res.Failed(), nil
}

func watchBuild(cmd *cobra.Command, req *buildpipeline.BuildRequest, opts buildOptions, rec *metrics.PrometheusRecorder) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cmd.SetContext(ctx)

	if _, err := runBuild(cmd, req, opts); err != nil {
		return err
	}
	if err := writeMetrics(rec, opts.metricsFile); err != nil {
		return err
	}

	w, err := watch.New(req.Project.WatchPaths(), watch.DefaultDebounce)
	if err != nil {
		return err
	}
	output.Info("watching for changes", "files", len(w.Files()))
	return w.Run(ctx, func(ctx context.Context, changed []string) []string {
		output.Info("rebuilding", "changed", strings.Join(changed, ", "))
		proj, err := project.LoadFile(req.Project.File)
		if err != nil {
			output.Error("reload failed", "err", err)
			return nil
		}
		req.Project = proj
		if _, err := runBuild(cmd, req, opts); err != nil {
			output.Error("build failed", "err", err)
		}
		if err := writeMetrics(rec, opts.metricsFile); err != nil {
			output.Warn("failed to write metrics", "err", err)
		}
		return proj.WatchPaths()
	})
}

func writeMetrics(rec *metrics.PrometheusRecorder, path string) error {
	if rec == nil || path == "" {
		return nil
	}
	if err := rec.WriteTextfile(path); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func init() {
	buildCmd.Flags().IntP("jobs", "j", 0, "max concurrent tasks per fan-out (0 = [build].jobs or GOMAXPROCS)")
	buildCmd.Flags().String("emit", "", "emit policy (all|declared), overrides [build].emit")
	buildCmd.Flags().Bool("no-minify", false, "skip the optimizer and write substituted code")
	buildCmd.Flags().StringArray("out", nil, "extra self-contained output directory (repeatable)")
	buildCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().String("metrics-file", "", "write Prometheus metrics in text format to this file")
	buildCmd.Flags().BoolP("watch", "w", false, "rebuild when the project files change")
}
