package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hue/internal/project"
)

// session is the configuration shared by every subcommand: hue.toml values
// with explicitly set flags layered on top.
type session struct {
	manifest       *project.Manifest
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	traceLevel     string
	traceOutput    string
}

var current *session

func setupSession(cmd *cobra.Command) error {
	s, err := loadSession(cmd, ".")
	if err != nil {
		return err
	}
	current = s
	color.NoColor = !s.color

	stopTrace, err := setupTracing(cmd, s)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)
	return nil
}

func loadSession(cmd *cobra.Command, startDir string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	cfg := project.Defaults()
	s := &session{}

	m, err := project.Discover(startDir)
	switch {
	case err == nil:
		s.manifest = m
		cfg = m.Config
	case errors.Is(err, project.ErrNoManifest):
	default:
		return nil, err
	}

	colorMode := cfg.Diagnostics.Color
	if flags.Changed("color") {
		if colorMode, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	mode, err := parseToggle("color", colorMode)
	if err != nil {
		return nil, err
	}
	s.color = mode.on(os.Stderr) && (mode == toggleOn || os.Getenv("NO_COLOR") == "")

	s.maxDiagnostics = cfg.Diagnostics.Max
	if flags.Changed("max-diagnostics") {
		if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		if s.maxDiagnostics < 0 {
			return nil, fmt.Errorf("--max-diagnostics must not be negative")
		}
	}

	s.traceLevel = cfg.Trace.Level
	if flags.Changed("trace-level") {
		if s.traceLevel, err = flags.GetString("trace-level"); err != nil {
			return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
	}
	s.traceOutput = cfg.Trace.Output
	if flags.Changed("trace") {
		if s.traceOutput, err = flags.GetString("trace"); err != nil {
			return nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
	}

	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}
