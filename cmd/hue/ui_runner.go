package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"hue/internal/buildpipeline"
	"hue/internal/ui"
)

type compileOutcome struct {
	result buildpipeline.CompileResult
	err    error
}

// runCompileWithUI runs Compile in the background and renders its events
// until the batch finishes.
func runCompileWithUI(ctx context.Context, title string, req *buildpipeline.CompileRequest) (buildpipeline.CompileResult, error) {
	if req == nil {
		return buildpipeline.CompileResult{}, fmt.Errorf("missing compile request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Compile(ctx, &reqCopy)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	names := buildpipeline.DisplayNames(req.Files, req.BaseDir)
	files := make([]string, 0, len(req.Files))
	for _, file := range req.Files {
		files = append(files, names[file])
	}
	model := ui.NewProgressModel(title, files, buildpipeline.StageEmit, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// drain so Compile never blocks on a closed UI
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
