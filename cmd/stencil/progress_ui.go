package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SunDr17/stencil/internal/buildpipeline"
	"github.com/SunDr17/stencil/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func parseUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// wantsProgressUI decides whether a one-shot build renders the live progress
// view. JSON output, quiet and watch runs always stay line-based.
func wantsProgressUI(opts buildOptions) bool {
	if opts.watch || opts.report.quiet || opts.report.format == "json" {
		return false
	}
	switch opts.ui {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}

// buildWithProgress runs the build in the background and feeds its events to
// the progress view. The view exits once the event channel is closed, or on
// ctrl+c; events still in flight are drained so the build can always finish.
func buildWithProgress(ctx context.Context, req *buildpipeline.BuildRequest) (buildpipeline.BuildResult, error) {
	type outcome struct {
		res buildpipeline.BuildResult
		err error
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan buildpipeline.Event, 256)
	done := make(chan outcome, 1)

	run := *req
	run.Progress = buildpipeline.ChannelSink{Ch: events}
	go func() {
		defer close(events)
		res, err := buildpipeline.Build(ctx, &run)
		done <- outcome{res: res, err: err}
	}()

	title := "stencil build"
	if req.Project != nil && req.Project.Config.Namespace != "" {
		title += " · " + req.Project.Config.Namespace
	}
	_, uiErr := tea.NewProgram(ui.NewProgressModel(title, events, cancel), tea.WithOutput(os.Stdout)).Run()
	go drainEvents(events)
	o := <-done
	if uiErr != nil {
		return o.res, uiErr
	}
	return o.res, o.err
}

// drainEvents consumes events until the producer closes the channel.
func drainEvents(events <-chan buildpipeline.Event) {
	for range events {
	}
}
