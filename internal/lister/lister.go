// Package lister provides the collaborators that turn a run directory into
// the raw text listing the run loader parses.
package lister

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/signalnine/benchdiff/internal/config"
	"github.com/signalnine/benchdiff/internal/docker"
	"github.com/signalnine/benchdiff/internal/result"
)

// Lister produces the raw listing for a run directory.
type Lister interface {
	List(ctx context.Context, dir string) (string, error)
}

// Func adapts a plain function to Lister.
type Func func(ctx context.Context, dir string) (string, error)

func (f Func) List(ctx context.Context, dir string) (string, error) { return f(ctx, dir) }

// New builds the lister selected by cfg.
func New(cfg config.Lister) (Lister, error) {
	switch cfg.Kind {
	case config.ListerWalk, "":
		return Walk{}, nil
	case config.ListerScript:
		return &Script{Path: cfg.Script, Timeout: cfg.Timeout}, nil
	case config.ListerDocker:
		return &Docker{Image: cfg.Image, Script: cfg.Script, Timeout: cfg.Timeout}, nil
	default:
		return nil, fmt.Errorf("unknown lister kind %q", cfg.Kind)
	}
}

// Walk reads the per-test results files below the run directory directly.
type Walk struct{}

func (Walk) List(ctx context.Context, dir string) (string, error) {
	return result.Listing(ctx, dir)
}

// Script runs an external listing script with the run directory as its only
// argument and returns its standard output.
type Script struct {
	Path    string
	Timeout time.Duration
}

func (s *Script) List(ctx context.Context, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, s.Path, abs)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s: %s: %w", s.Path, strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Docker runs the listing inside a container with the run directory mounted
// read-only at RunMount.
type Docker struct {
	Image   string
	Script  string
	Timeout time.Duration
}

const (
	RunMount    = "/benchrun"
	ScriptMount = "/usr/local/bin/benchmark-test-info"
)

func (d *Docker) List(ctx context.Context, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving run dir: %w", err)
	}
	opts := &docker.RunOpts{
		Image:   d.Image,
		Command: []string{RunMount},
		Mounts:  []docker.Mount{{Source: abs, Target: RunMount, ReadOnly: true}},
		Timeout: d.Timeout,
	}
	if d.Script != "" {
		script, err := filepath.Abs(d.Script)
		if err != nil {
			return "", fmt.Errorf("resolving lister script: %w", err)
		}
		opts.Mounts = append(opts.Mounts, docker.Mount{Source: script, Target: ScriptMount, ReadOnly: true})
		opts.Command = []string{ScriptMount, RunMount}
	}
	res, err := docker.RunContainer(ctx, opts)
	if err != nil {
		return "", err
	}
	if res.TimedOut {
		return "", fmt.Errorf("lister container timed out after %s", res.Duration.Round(time.Second))
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("lister container exited with code %d: %s", res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	if len(res.Stderr) > 0 {
		slog.Debug("lister container stderr", "dir", dir, "stderr", strings.TrimSpace(string(res.Stderr)))
	}
	return strings.TrimSpace(string(res.Output)), nil
}
