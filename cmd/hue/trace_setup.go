package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hue/internal/trace"
)

// activeTracer backs the ring dumps on panic and on failed batches.
var activeTracer trace.Tracer = trace.Nop

// setupTracing reads the trace flags, attaches a tracer to the command
// context and returns the cleanup that flushes it.
func setupTracing(cmd *cobra.Command, s *session) (func(), error) {
	root := cmd.Root()

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(s.traceLevel)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: s.traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval, nil)

	return func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// dumpTraceOnPanic writes the ring buffer to stderr before re-panicking.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "hue: panic: %v\n", r)
	if ok, err := trace.DumpRing(activeTracer, os.Stderr, trace.FormatText); ok && err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
	}
	panic(r)
}

// dumpTraceOnFailure writes the recent events kept by the ring to w. It is a
// no-op unless --trace-level=error (or a ring mode) is active.
func dumpTraceOnFailure(w io.Writer) {
	var buf bytes.Buffer
	ok, err := trace.DumpRing(activeTracer, &buf, trace.FormatText)
	if !ok || buf.Len() == 0 {
		return
	}
	fmt.Fprintln(w, "hue: recent trace events:")
	_, _ = w.Write(buf.Bytes())
	if err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
