package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SunDr17/stencil/internal/buildpipeline"
	"github.com/SunDr17/stencil/internal/diagfmt"
)

type reportOptions struct {
	format         string
	quiet          bool
	timings        bool
	verbose        bool
	maxDiagnostics int
}

func readReportOptions(cmd *cobra.Command) (reportOptions, error) {
	var opts reportOptions
	var err error
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	switch opts.format {
	case "pretty", "json":
	default:
		return opts, fmt.Errorf("unsupported format %q (must be pretty or json)", opts.format)
	}
	if opts.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return opts, err
	}
	if opts.verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return opts, err
	}
	if opts.maxDiagnostics, err = cmd.Flags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return opts, nil
}

// printReport prints diagnostics to stderr, then the summary and timings to
// stdout. JSON output goes to stdout and replaces the summary.
func printReport(cmd *cobra.Command, res buildpipeline.BuildResult, opts reportOptions) error {
	if opts.format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), res.Bag, diagfmt.JSONOpts{
			BaseDir:      res.Project.Root,
			IncludeNotes: true,
		})
	}
	if res.Bag != nil && res.Bag.Len() > 0 {
		err := diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			BaseDir:   res.Project.Root,
			ShowNotes: true,
			Summary:   true,
		})
		if err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	if opts.timings {
		printStageTimings(out, res.Timings)
		if opts.verbose && len(res.Report.Phases) > 0 {
			if _, err := res.Report.WriteTo(out); err != nil {
				return err
			}
		}
	}
	if opts.quiet || res.Output == nil {
		return nil
	}
	for _, p := range res.Removed {
		fmt.Fprintf(out, "removed %s\n", formatPathForOutput(res.Project.Root, p))
	}
	_, err := fmt.Fprintf(out, "wrote %d of %d artifacts (%d modes) in %.1f ms\n",
		len(res.Output.Written()), len(res.Output.Artifacts), len(res.Output.Modes),
		toMillis(res.Timings.Sum(buildpipeline.Stages...)))
	return err
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%-10s %7.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
}

func formatPathForOutput(root, path string) string {
	return diagfmt.DisplayPath(root, path)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
